// Package catalog defines the fixed, ordered set of scorecard metrics.
package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownMetric is returned when a metric id is outside the catalog.
var ErrUnknownMetric = errors.New("unknown metric")

// MetricID identifies one catalog metric.
// Values double as indexes into fixed-size per-metric arrays.
type MetricID int

const (
	Performance MetricID = iota
	Accessibility
	BestPractices
	SEO
	LCP
	TBT
	INP
	LoadTime
)

// MetricCount is the number of catalog metrics.
const MetricCount = int(LoadTime) + 1

// Style is a rendering hint for a metric.
type Style string

const (
	StyleGauge Style = "chart" // normalized 0..ceiling gauge
	StyleText  Style = "text"  // raw value with unit
)

// Definition describes one metric.
type Definition struct {
	ID            MetricID `json:"-"`
	Key           string   `json:"id"`
	Label         string   `json:"label"`
	DefaultUnit   string   `json:"defaultUnit"`
	Ceiling       float64  `json:"ceiling"`
	LowerIsBetter bool     `json:"lowerIsBetter"`
	Style         Style    `json:"style"`
}

// IsScore reports whether the metric belongs to the 0-100 aggregate score subset.
func (d Definition) IsScore() bool {
	return d.Ceiling == 100 && !d.LowerIsBetter
}

// ⭐ SSOT: metric semantics live only here
var definitions = [MetricCount]Definition{
	{ID: Performance, Key: "Performance", Label: "Performance", DefaultUnit: "", Ceiling: 100, LowerIsBetter: false, Style: StyleGauge},
	{ID: Accessibility, Key: "Accessibility", Label: "Accessibility", DefaultUnit: "", Ceiling: 100, LowerIsBetter: false, Style: StyleGauge},
	{ID: BestPractices, Key: "BestPractices", Label: "Best Practices", DefaultUnit: "", Ceiling: 100, LowerIsBetter: false, Style: StyleGauge},
	{ID: SEO, Key: "SEO", Label: "SEO", DefaultUnit: "", Ceiling: 100, LowerIsBetter: false, Style: StyleGauge},
	{ID: LCP, Key: "LCP", Label: "LCP", DefaultUnit: "s", Ceiling: 6.0, LowerIsBetter: true, Style: StyleText},
	{ID: TBT, Key: "TBT", Label: "TBT", DefaultUnit: "ms", Ceiling: 600, LowerIsBetter: true, Style: StyleText},
	{ID: INP, Key: "INP", Label: "INP", DefaultUnit: "ms", Ceiling: 500, LowerIsBetter: true, Style: StyleText},
	{ID: LoadTime, Key: "LoadTime", Label: "Load Time", DefaultUnit: "s", Ceiling: 10.0, LowerIsBetter: true, Style: StyleText},
}

var byKey = func() map[string]MetricID {
	m := make(map[string]MetricID, MetricCount)
	for _, d := range definitions {
		m[d.Key] = d.ID
	}
	return m
}()

// Valid reports whether id is a catalog metric.
func (id MetricID) Valid() bool {
	return id >= 0 && int(id) < MetricCount
}

// String returns the metric key, e.g. "LCP".
func (id MetricID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("MetricID(%d)", int(id))
	}
	return definitions[id].Key
}

// DefinitionFor returns the definition of id.
func DefinitionFor(id MetricID) (Definition, error) {
	if !id.Valid() {
		return Definition{}, fmt.Errorf("%w: %d", ErrUnknownMetric, int(id))
	}
	return definitions[id], nil
}

// MustDefinition is DefinitionFor for ids that are known to be valid,
// such as loop variables over IDs().
func MustDefinition(id MetricID) Definition {
	d, err := DefinitionFor(id)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse converts a metric key into its id.
func Parse(key string) (MetricID, error) {
	id, ok := byKey[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, key)
	}
	return id, nil
}

// All returns every definition in catalog order.
func All() []Definition {
	out := make([]Definition, MetricCount)
	copy(out, definitions[:])
	return out
}

// IDs returns every metric id in catalog order.
func IDs() []MetricID {
	ids := make([]MetricID, MetricCount)
	for i := range ids {
		ids[i] = MetricID(i)
	}
	return ids
}

// Keys returns every metric key in catalog order.
func Keys() []string {
	keys := make([]string, MetricCount)
	for i, d := range definitions {
		keys[i] = d.Key
	}
	return keys
}

// DefaultUnits returns the default unit of every metric, indexed by id.
func DefaultUnits() [MetricCount]string {
	var units [MetricCount]string
	for i, d := range definitions {
		units[i] = d.DefaultUnit
	}
	return units
}
