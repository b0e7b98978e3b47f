package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/insights"
)

// Layout in CSS pixels; everything is multiplied by the pixel ratio.
const (
	canvasWidth  = 960
	panelHeight  = 260
	panelColumns = 2
	lineHeight   = 16
	basePadding  = 12
	baseDPI      = 92
)

var (
	startColor = drawing.ColorFromHex("94a3b8")
	endColor   = drawing.ColorFromHex("2563eb")
)

// RenderJPEG draws the whole scorecard (summary header, overview panel and
// one panel per metric) onto a white canvas sized to its full extent.
func RenderJPEG(state contracts.State, opts Options) ([]byte, error) {
	opts, err := opts.Validate()
	if err != nil {
		return nil, err
	}
	ratio := opts.PixelRatio

	header := renderHeader(state)
	panels, err := renderPanels(state, ratio)
	if err != nil {
		return nil, err
	}

	width := scale(canvasWidth, ratio)
	headerHeight := scale(header.Bounds().Dy(), ratio)
	height := headerHeight
	for _, row := range panels {
		height += row[0].Bounds().Dy()
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	xdraw.BiLinear.Scale(canvas, image.Rect(0, 0, width, headerHeight), header, header.Bounds(), draw.Over, nil)

	y := headerHeight
	for _, row := range panels {
		x := 0
		for _, p := range row {
			r := p.Bounds()
			draw.Draw(canvas, image.Rect(x, y, x+r.Dx(), y+r.Dy()), p, r.Min, draw.Over)
			x += r.Dx()
		}
		y += row[0].Bounds().Dy()
	}

	var buf bytes.Buffer
	quality := int(math.Round(opts.Quality * 100))
	if quality < 1 {
		quality = 1
	}
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func scale(v int, ratio float64) int {
	return int(math.Round(float64(v) * ratio))
}

// summaryLines is the text of the header band.
func summaryLines(state contracts.State) []string {
	ins := insights.Compute(state.Dataset, state.Units)
	extreme := func(e *insights.Extreme) string {
		if e == nil {
			return "n/a"
		}
		return fmt.Sprintf("%s %s %s", e.Page, e.Metric, e.DisplayValue)
	}

	return []string{
		fmt.Sprintf("Core Web Vitals Scorecard: %s vs %s", state.Labels.Start, state.Labels.End),
		fmt.Sprintf("Best improvement: %s", extreme(ins.BestImprovement)),
		fmt.Sprintf("Worst regression: %s", extreme(ins.WorstRegression)),
		fmt.Sprintf("Average score: %d -> %d (%+d)", ins.AvgStart, ins.AvgEnd, ins.AvgDiff),
	}
}

// renderHeader draws the summary at 1x; RenderJPEG scales it up.
func renderHeader(state contracts.State) image.Image {
	lines := summaryLines(state)
	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, basePadding*2+lineHeight*len(lines)))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		d.Dot = fixed.P(basePadding, basePadding+lineHeight*(i+1)-3)
		d.DrawString(line)
	}
	return img
}

// renderPanels returns rows of panels: the overview alone, then the metric
// panels two per row.
func renderPanels(state contracts.State, ratio float64) ([][]image.Image, error) {
	ds := state.Dataset
	if ds.Len() == 0 {
		return nil, nil
	}

	bars, err := insights.Overview(ds, insights.SelectAll)
	if err != nil {
		return nil, err
	}
	starts := make([]float64, len(bars))
	ends := make([]float64, len(bars))
	for i, b := range bars {
		starts[i], ends[i] = b.Start, b.End
	}

	overview, err := renderPanel(panelData{
		title:   "Overview (all metrics)",
		yName:   "mean",
		ceiling: 100,
		pages:   ds.Names(),
		starts:  starts,
		ends:    ends,
		labels:  state.Labels,
		width:   canvasWidth,
	}, ratio)
	if err != nil {
		return nil, fmt.Errorf("render overview: %w", err)
	}
	rows := [][]image.Image{{overview}}

	var row []image.Image
	for _, def := range catalog.All() {
		starts := make([]float64, ds.Len())
		ends := make([]float64, ds.Len())
		for i, p := range ds.Pages {
			s := p.Metrics.Get(def.ID)
			starts[i], ends[i] = s.Start, s.End
		}

		panel, err := renderPanel(panelData{
			title:   def.Label,
			yName:   insights.UnitCaption(def, state.Units.Unit(def.ID)),
			ceiling: def.Ceiling,
			pages:   ds.Names(),
			starts:  starts,
			ends:    ends,
			labels:  state.Labels,
			width:   canvasWidth / panelColumns,
		}, ratio)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", def.Key, err)
		}

		row = append(row, panel)
		if len(row) == panelColumns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows, nil
}

type panelData struct {
	title   string
	yName   string
	ceiling float64
	pages   []string
	starts  []float64
	ends    []float64
	labels  contracts.PeriodLabels
	width   int
}

func seriesStyle(c drawing.Color, ratio float64) chart.Style {
	return chart.Style{
		StrokeColor: c,
		StrokeWidth: 2 * ratio,
		DotColor:    c,
		DotWidth:    3 * ratio,
	}
}

func renderPanel(pd panelData, ratio float64) (image.Image, error) {
	xs := make([]float64, len(pd.pages))
	ticks := make([]chart.Tick, len(pd.pages))
	for i, name := range pd.pages {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: name}
	}

	yMin, yMax := 0.0, pd.ceiling
	for i := range xs {
		yMin = math.Min(yMin, math.Min(pd.starts[i], pd.ends[i]))
		yMax = math.Max(yMax, math.Max(pd.starts[i], pd.ends[i]))
	}

	pad := scale(basePadding, ratio)
	ch := chart.Chart{
		Title:  pd.title,
		Width:  scale(pd.width, ratio),
		Height: scale(panelHeight, ratio),
		DPI:    baseDPI * ratio,
		Background: chart.Style{
			Padding:   chart.Box{Top: pad * 3, Left: pad, Right: pad, Bottom: pad},
			FillColor: drawing.ColorWhite,
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(xs)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  pd.yName,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: pd.labels.Start, XValues: xs, YValues: pd.starts, Style: seriesStyle(startColor, ratio)},
			chart.ContinuousSeries{Name: pd.labels.End, XValues: xs, YValues: pd.ends, Style: seriesStyle(endColor, ratio)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}
