package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/defaults"
)

func TestTrendOf(t *testing.T) {
	perf := catalog.MustDefinition(catalog.Performance)
	lcp := catalog.MustDefinition(catalog.LCP)

	tests := []struct {
		name   string
		def    catalog.Definition
		sample contracts.Sample
		want   Trend
	}{
		{"score up", perf, contracts.Sample{Start: 50, End: 60}, TrendImproved},
		{"score down", perf, contracts.Sample{Start: 60, End: 50}, TrendRegressed},
		{"score flat high", perf, contracts.Sample{Start: 85, End: 85}, TrendStrong},
		{"score flat at floor", perf, contracts.Sample{Start: 80, End: 80}, TrendNeutral},
		{"lcp down", lcp, contracts.Sample{Start: 2.4, End: 1.8}, TrendImproved},
		{"lcp up", lcp, contracts.Sample{Start: 1.8, End: 2.4}, TrendRegressed},
		{"lcp flat fast", lcp, contracts.Sample{Start: 2.3, End: 2.3}, TrendStrong},
		{"lcp flat slow", lcp, contracts.Sample{Start: 2.5, End: 2.5}, TrendNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendOf(tt.def, tt.sample))
		})
	}
}

func TestNewCell(t *testing.T) {
	lcp := catalog.MustDefinition(catalog.LCP)
	c := NewCell(lcp, contracts.Sample{Start: 2.4, End: 1.8}, "s")

	assert.Equal(t, "LCP", c.Metric)
	assert.Equal(t, "2.4", c.StartText)
	assert.Equal(t, "1.8", c.EndText)
	assert.Equal(t, "0.6", c.DiffText)
	assert.Equal(t, TrendImproved, c.Trend)
	assert.InDelta(t, 40, c.StartPercent, 1e-9)
	assert.InDelta(t, 30, c.EndPercent, 1e-9)
	assert.Equal(t, catalog.StyleText, c.Style)

	tbt := catalog.MustDefinition(catalog.TBT)
	c = NewCell(tbt, contracts.Sample{Start: 280, End: 310.4}, "ms")
	assert.Equal(t, "310", c.EndText)
	assert.Equal(t, "+30", c.DiffText)
	assert.Equal(t, TrendRegressed, c.Trend)
}

func TestGaugePercent(t *testing.T) {
	assert.Equal(t, 50.0, GaugePercent(50, 100))
	assert.Equal(t, 100.0, GaugePercent(900, 600))
	assert.Equal(t, -10.0, GaugePercent(-10, 100))
}

func TestUnitCaption(t *testing.T) {
	assert.Equal(t, "(0-100)", UnitCaption(catalog.MustDefinition(catalog.SEO), ""))
	assert.Equal(t, "(pts)", UnitCaption(catalog.MustDefinition(catalog.SEO), "pts"))
	assert.Equal(t, "(ms)", UnitCaption(catalog.MustDefinition(catalog.TBT), "ms"))
	assert.Equal(t, "", UnitCaption(catalog.MustDefinition(catalog.TBT), ""))
}

func TestCells_Factory(t *testing.T) {
	s := defaults.Factory()
	rows := Cells(s.Dataset, s.Units)

	require.Len(t, rows, 5)
	assert.Equal(t, "Homepage", rows[0].Page)
	require.Len(t, rows[0].Cells, catalog.MetricCount)
	assert.Equal(t, catalog.Keys()[7], rows[0].Cells[7].Metric)
	assert.Equal(t, "s", rows[0].Cells[7].Unit)
}
