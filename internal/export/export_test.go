package export

import (
	"bytes"
	"image/jpeg"
	"io"
	"math"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/defaults"
)

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      Options
		want    Options
		wantErr bool
	}{
		{"zero uses defaults", Options{}, DefaultOptions(), false},
		{"custom", Options{PixelRatio: 2, Quality: 0.8}, Options{PixelRatio: 2, Quality: 0.8}, false},
		{"ratio too large", Options{PixelRatio: 10, Quality: 0.9}, Options{}, true},
		{"negative ratio", Options{PixelRatio: -1}, Options{}, true},
		{"quality above one", Options{PixelRatio: 1, Quality: 1.5}, Options{}, true},
		{"nan ratio", Options{PixelRatio: math.NaN(), Quality: 0.9}, Options{}, true},
		{"infinite ratio", Options{PixelRatio: math.Inf(1), Quality: 0.9}, Options{}, true},
		{"nan quality", Options{PixelRatio: 1, Quality: math.NaN()}, Options{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOptions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderJPEG_Factory(t *testing.T) {
	data, err := RenderJPEG(defaults.Factory(), Options{PixelRatio: 1, Quality: 0.9})
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, canvasWidth, b.Dx())
	// header + overview + four rows of two metric panels
	assert.Greater(t, b.Dy(), panelHeight*5)
}

func TestRenderJPEG_PixelRatioScales(t *testing.T) {
	data, err := RenderJPEG(defaults.Factory(), Options{PixelRatio: 2, Quality: 0.5})
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, canvasWidth*2, cfg.Width)
}

func TestRenderJPEG_EmptyDataset(t *testing.T) {
	state := defaults.Factory()
	state.Dataset = contracts.Dataset{}

	data, err := RenderJPEG(state, Options{PixelRatio: 1})
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Less(t, img.Bounds().Dy(), panelHeight, "only the summary header is drawn")
}

func TestRenderJPEG_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"ratio too large", Options{PixelRatio: 100}},
		{"nan ratio", Options{PixelRatio: math.NaN()}},
		{"nan quality", Options{PixelRatio: 1, Quality: math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := RenderJPEG(defaults.Factory(), tt.opts)
				assert.ErrorIs(t, err, ErrInvalidOptions)
			})
		})
	}
}

func TestSummaryLines(t *testing.T) {
	lines := summaryLines(defaults.Factory())
	require.Len(t, lines, 4)
	assert.Equal(t, "Core Web Vitals Scorecard: June vs July", lines[0])
	assert.Equal(t, "Best improvement: Cart TBT -450ms", lines[1])
	assert.Equal(t, "Worst regression: Landing Page TBT +30ms", lines[2])
}

func TestRows(t *testing.T) {
	state := defaults.Factory()
	rows := Rows(state)

	require.Len(t, rows, state.Dataset.Len()*catalog.MetricCount)
	first := rows[0]
	assert.Equal(t, "Homepage", first.Page)
	assert.Equal(t, "Performance", first.Metric)
	assert.Equal(t, 85.0, first.Start)
	assert.Equal(t, 71.0, first.End)
	assert.Equal(t, -14.0, first.Delta)
	assert.Equal(t, -14.0, first.ImprovementScore)

	lcp := rows[catalog.LCP]
	assert.Equal(t, "s", lcp.Unit)
	assert.True(t, lcp.LowerIsBetter)
	assert.InDelta(t, 0.6, lcp.ImprovementScore, 1e-9)
}

func TestWriteParquet(t *testing.T) {
	state := defaults.Factory()

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(state, &buf))

	reader := parquet.NewGenericReader[Row](bytes.NewReader(buf.Bytes()))
	defer reader.Close()

	got := make([]Row, reader.NumRows())
	n, err := reader.Read(got)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	assert.Equal(t, len(Rows(state)), n)
	assert.Equal(t, Rows(state), got)
}
