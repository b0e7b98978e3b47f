package insights

import (
	"fmt"
	"math"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
)

// SelectAll selects the per-page mean of every metric in Overview.
const SelectAll = "All"

// Bar is one page of the overview chart.
type Bar struct {
	Page  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Overview returns start/end bars per page for one metric key or SelectAll.
func Overview(ds contracts.Dataset, selection string) ([]Bar, error) {
	all := selection == SelectAll || selection == ""

	var id catalog.MetricID
	if !all {
		var err error
		if id, err = catalog.Parse(selection); err != nil {
			return nil, fmt.Errorf("overview: %w", err)
		}
	}

	bars := make([]Bar, 0, ds.Len())
	for _, page := range ds.Pages {
		bar := Bar{Page: page.Name}
		if all {
			var sumStart, sumEnd float64
			for _, s := range page.Metrics {
				sumStart += s.Start
				sumEnd += s.End
			}
			bar.Start = math.Round(sumStart / float64(catalog.MetricCount))
			bar.End = math.Round(sumEnd / float64(catalog.MetricCount))
		} else {
			s := page.Metrics.Get(id)
			bar.Start, bar.End = s.Start, s.End
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// RadarPoint is one axis of the radar comparison.
type RadarPoint struct {
	Subject  string  `json:"subject"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	FullMark float64 `json:"fullMark"`
}

// Radar averages each score metric over all pages.
func Radar(ds contracts.Dataset) []RadarPoint {
	var points []RadarPoint
	for _, def := range catalog.All() {
		if !def.IsScore() {
			continue
		}
		start, end := means(ds, def.ID)
		points = append(points, RadarPoint{
			Subject:  def.Label,
			Start:    math.Round(start),
			End:      math.Round(end),
			FullMark: def.Ceiling,
		})
	}
	return points
}

// StatCard summarizes one score metric across pages.
type StatCard struct {
	Title         string  `json:"title"`
	Start         int     `json:"start"`
	End           int     `json:"end"`
	Diff          int     `json:"diff"`
	PercentChange float64 `json:"percentChange"` // one decimal
}

// StatCards returns one card per score metric.
func StatCards(ds contracts.Dataset) []StatCard {
	var cards []StatCard
	for _, def := range catalog.All() {
		if !def.IsScore() {
			continue
		}
		startMean, endMean := means(ds, def.ID)
		card := StatCard{
			Title: def.Label,
			Start: int(math.Round(startMean)),
			End:   int(math.Round(endMean)),
		}
		card.Diff = card.End - card.Start
		if card.Start != 0 {
			card.PercentChange = roundTo(float64(card.Diff)/float64(card.Start)*100, 1)
		}
		cards = append(cards, card)
	}
	return cards
}

func means(ds contracts.Dataset, id catalog.MetricID) (start, end float64) {
	if ds.Len() == 0 {
		return 0, 0
	}
	for _, page := range ds.Pages {
		s := page.Metrics.Get(id)
		start += s.Start
		end += s.End
	}
	n := float64(ds.Len())
	return start / n, end / n
}
