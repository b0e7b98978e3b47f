package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/defaults"
)

func TestOverview_SingleMetric(t *testing.T) {
	s := defaults.Factory()
	bars, err := Overview(s.Dataset, "Performance")
	require.NoError(t, err)

	require.Len(t, bars, 5)
	assert.Equal(t, Bar{Page: "Homepage", Start: 85, End: 71}, bars[0])
	assert.Equal(t, Bar{Page: "Cart", Start: 25, End: 66}, bars[3])
}

func TestOverview_All(t *testing.T) {
	rec := flatRecord(0)
	rec[catalog.Performance] = contracts.Sample{Start: 8, End: 4}
	rec[catalog.TBT] = contracts.Sample{Start: 8, End: 0}
	ds := mustDataset(t, contracts.Page{Name: "A", Metrics: rec})

	for _, sel := range []string{SelectAll, ""} {
		bars, err := Overview(ds, sel)
		require.NoError(t, err)
		assert.Equal(t, []Bar{{Page: "A", Start: 2, End: 1}}, bars)
	}
}

func TestOverview_UnknownMetric(t *testing.T) {
	_, err := Overview(defaults.Factory().Dataset, "CLS")
	assert.ErrorIs(t, err, catalog.ErrUnknownMetric)
}

func TestRadar(t *testing.T) {
	points := Radar(defaults.Factory().Dataset)

	require.Len(t, points, 4)
	assert.Equal(t, "Performance", points[0].Subject)
	// (85+83+57+25+65)/5 = 63, (71+63+75+66+76)/5 = 70.2
	assert.Equal(t, 63.0, points[0].Start)
	assert.Equal(t, 70.0, points[0].End)
	assert.Equal(t, 100.0, points[0].FullMark)
	assert.Equal(t, "Best Practices", points[2].Subject)
}

func TestStatCards(t *testing.T) {
	cards := StatCards(defaults.Factory().Dataset)

	require.Len(t, cards, 4)
	assert.Equal(t, StatCard{Title: "Performance", Start: 63, End: 70, Diff: 7, PercentChange: 11.1}, cards[0])
}

func TestStatCards_ZeroStart(t *testing.T) {
	rec := flatRecord(0)
	rec[catalog.SEO] = contracts.Sample{Start: 0, End: 50}
	cards := StatCards(mustDataset(t, contracts.Page{Name: "A", Metrics: rec}))

	assert.Equal(t, 50, cards[3].Diff)
	assert.Equal(t, 0.0, cards[3].PercentChange)
}

func TestCharts_EmptyDataset(t *testing.T) {
	bars, err := Overview(contracts.Dataset{}, SelectAll)
	require.NoError(t, err)
	assert.Empty(t, bars)

	for _, p := range Radar(contracts.Dataset{}) {
		assert.Zero(t, p.Start)
	}
}
