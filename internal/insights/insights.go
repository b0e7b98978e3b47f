// Package insights derives summary statistics from a scorecard dataset.
// Everything here is pure and recomputed on demand.
package insights

import (
	"math"
	"strconv"
	"strings"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
)

// Extreme is one (page, metric) pair singled out as best or worst.
type Extreme struct {
	Page         string           `json:"page"`
	Metric       string           `json:"metric"` // catalog label
	MetricID     catalog.MetricID `json:"-"`
	MetricKey    string           `json:"metricId"`
	Score        float64          `json:"value"` // improvement score
	DisplayValue string           `json:"displayValue"`
}

// Insights is the summary shown above the scorecard.
type Insights struct {
	BestImprovement *Extreme `json:"maxImprovement"`
	WorstRegression *Extreme `json:"maxRegression"`
	AvgStart        int      `json:"avgStart"`
	AvgEnd          int      `json:"avgEnd"`
	AvgDiff         int      `json:"avgDiff"`
	ScoredCount     int      `json:"scoredCount"`
}

// ImprovementScore returns the polarity-normalized delta: positive is better.
func ImprovementScore(def catalog.Definition, s contracts.Sample) float64 {
	if def.LowerIsBetter {
		return -s.Delta()
	}
	return s.Delta()
}

// Compute walks pages in dataset order and metrics in catalog order.
// Ties keep the first pair seen.
func Compute(ds contracts.Dataset, units contracts.UnitOverrides) Insights {
	var (
		out              Insights
		sumStart, sumEnd float64
		defs             = catalog.All()
	)

	for _, page := range ds.Pages {
		for _, def := range defs {
			sample := page.Metrics.Get(def.ID)
			score := ImprovementScore(def, sample)

			if def.IsScore() {
				sumStart += sample.Start
				sumEnd += sample.End
				out.ScoredCount++
			}

			if out.BestImprovement == nil || score > out.BestImprovement.Score {
				out.BestImprovement = newExtreme(page.Name, def, sample, score, units.Unit(def.ID))
			}
			if out.WorstRegression == nil || score < out.WorstRegression.Score {
				out.WorstRegression = newExtreme(page.Name, def, sample, score, units.Unit(def.ID))
			}
		}
	}

	if out.ScoredCount > 0 {
		out.AvgStart = int(math.Round(sumStart / float64(out.ScoredCount)))
		out.AvgEnd = int(math.Round(sumEnd / float64(out.ScoredCount)))
	}
	out.AvgDiff = out.AvgEnd - out.AvgStart

	return out
}

func newExtreme(page string, def catalog.Definition, s contracts.Sample, score float64, unit string) *Extreme {
	return &Extreme{
		Page:         page,
		Metric:       def.Label,
		MetricID:     def.ID,
		MetricKey:    def.Key,
		Score:        score,
		DisplayValue: FormatDelta(s.Delta(), unit) + unit,
	}
}

// Decimals returns the display precision for a unit: one decimal for "s".
func Decimals(unit string) int {
	if unit == "s" {
		return 1
	}
	return 0
}

// FormatDelta formats a raw delta with an explicit "+" for positive values.
// The exact binary value is rounded half away from zero at the unit's
// precision, so 0.15 shows as 0.1.
func FormatDelta(delta float64, unit string) string {
	text := formatFixed(delta, Decimals(unit))
	if delta > 0 {
		return "+" + text
	}
	return text
}

// exactDigits is enough fractional digits to print any float64 exactly.
const exactDigits = 1074

// formatFixed renders v with a fixed number of decimals the way the browser
// client's toFixed does: the sign is kept for any negative v and the
// magnitude's exact expansion is rounded half up.
func formatFixed(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', decimals, 64)
	}

	exact := strconv.FormatFloat(math.Abs(v), 'f', exactDigits, 64)
	dot := strings.IndexByte(exact, '.')
	digits := []byte(exact[:dot] + exact[dot+1:dot+1+decimals])
	if exact[dot+1+decimals] >= '5' {
		digits = incrementDigits(digits)
	}

	text := string(digits)
	if decimals > 0 {
		split := len(text) - decimals
		text = text[:split] + "." + text[split:]
	}
	if v < 0 {
		text = "-" + text
	}
	return text
}

func incrementDigits(digits []byte) []byte {
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < '9' {
			digits[i]++
			return digits
		}
		digits[i] = '0'
	}
	return append([]byte{'1'}, digits...)
}

func roundTo(v float64, decimals int) float64 {
	rounded, err := strconv.ParseFloat(formatFixed(v, decimals), 64)
	if err != nil {
		return v
	}
	return rounded
}
