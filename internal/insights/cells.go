package insights

import (
	"math"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
)

// Trend classifies a cell for coloring.
type Trend string

const (
	TrendImproved  Trend = "improved"
	TrendRegressed Trend = "regressed"
	TrendNeutral   Trend = "neutral"
	TrendStrong    Trend = "strong" // unchanged but already in the good band
)

// strongScoreFloor and strongCeilingShare bound the "strong" band for
// unchanged cells.
const (
	strongScoreFloor   = 80
	strongCeilingShare = 0.4
)

// Cell is the render-ready view of one (page, metric) sample.
type Cell struct {
	Metric       string        `json:"metric"`
	Unit         string        `json:"unit"`
	Start        float64       `json:"start"`
	End          float64       `json:"end"`
	StartText    string        `json:"startText"`
	EndText      string        `json:"endText"`
	Delta        float64       `json:"delta"`
	DiffText     string        `json:"diffText"`
	Trend        Trend         `json:"trend"`
	StartPercent float64       `json:"startPercent"`
	EndPercent   float64       `json:"endPercent"`
	Style        catalog.Style `json:"style"`
}

// Row is one page of cells in catalog order.
type Row struct {
	Page  string `json:"page"`
	Cells []Cell `json:"cells"`
}

// Cells builds the grid view of a dataset.
func Cells(ds contracts.Dataset, units contracts.UnitOverrides) []Row {
	rows := make([]Row, 0, ds.Len())
	defs := catalog.All()

	for _, page := range ds.Pages {
		row := Row{Page: page.Name, Cells: make([]Cell, 0, len(defs))}
		for _, def := range defs {
			row.Cells = append(row.Cells, NewCell(def, page.Metrics.Get(def.ID), units.Unit(def.ID)))
		}
		rows = append(rows, row)
	}
	return rows
}

// NewCell builds a single cell view.
func NewCell(def catalog.Definition, s contracts.Sample, unit string) Cell {
	decimals := Decimals(unit)
	delta := s.Delta()

	diff := formatFixed(math.Abs(delta), decimals)
	if delta > 0 {
		diff = "+" + diff
	}

	return Cell{
		Metric:       def.Key,
		Unit:         unit,
		Start:        s.Start,
		End:          s.End,
		StartText:    formatFixed(s.Start, decimals),
		EndText:      formatFixed(s.End, decimals),
		Delta:        delta,
		DiffText:     diff,
		Trend:        TrendOf(def, s),
		StartPercent: GaugePercent(s.Start, def.Ceiling),
		EndPercent:   GaugePercent(s.End, def.Ceiling),
		Style:        def.Style,
	}
}

// TrendOf classifies a sample under the metric's polarity.
func TrendOf(def catalog.Definition, s contracts.Sample) Trend {
	delta := s.Delta()
	switch {
	case delta != 0 && ImprovementScore(def, s) > 0:
		return TrendImproved
	case delta != 0:
		return TrendRegressed
	case !def.LowerIsBetter && s.End > strongScoreFloor:
		return TrendStrong
	case def.LowerIsBetter && s.End < def.Ceiling*strongCeilingShare:
		return TrendStrong
	default:
		return TrendNeutral
	}
}

// GaugePercent positions a value on a 0..100 track. Values above the
// ceiling are clamped; negative values are not.
func GaugePercent(v, ceiling float64) float64 {
	return math.Min(v/ceiling*100, 100)
}

// UnitCaption is the column header suffix for a metric.
func UnitCaption(def catalog.Definition, unit string) string {
	switch {
	case unit != "":
		return "(" + unit + ")"
	case def.Ceiling == 100:
		return "(0-100)"
	default:
		return ""
	}
}
