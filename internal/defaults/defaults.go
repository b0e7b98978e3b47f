// Package defaults holds the factory scorecard snapshot.
package defaults

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
)

//go:embed factory.yaml
var factoryYAML []byte

type snapshotFile struct {
	Labels struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"labels"`
	Pages []struct {
		Name    string               `yaml:"name"`
		Metrics map[string][]float64 `yaml:"metrics"`
	} `yaml:"pages"`
}

var factory = mustParse(factoryYAML)

// Factory returns a fresh copy of the factory snapshot.
// Units are the catalog defaults.
func Factory() contracts.State {
	return factory.Clone()
}

// Parse reads a snapshot document in the factory.yaml layout.
func Parse(data []byte) (contracts.State, error) {
	var f snapshotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return contracts.State{}, fmt.Errorf("parse snapshot: %w", err)
	}

	var ds contracts.Dataset
	for _, p := range f.Pages {
		var rec contracts.PageRecord
		var seen [catalog.MetricCount]bool
		for key, pair := range p.Metrics {
			id, err := catalog.Parse(key)
			if err != nil {
				return contracts.State{}, fmt.Errorf("page %q: %w", p.Name, err)
			}
			if len(pair) != 2 {
				return contracts.State{}, fmt.Errorf("page %q metric %s: want [start, end], got %d values", p.Name, key, len(pair))
			}
			rec[id] = contracts.Sample{Start: pair[0], End: pair[1]}
			seen[id] = true
		}
		for _, id := range catalog.IDs() {
			if !seen[id] {
				return contracts.State{}, fmt.Errorf("page %q: missing metric %s", p.Name, id)
			}
		}
		if err := ds.AddPage(p.Name, rec); err != nil {
			return contracts.State{}, err
		}
	}

	return contracts.State{
		Dataset: ds,
		Labels:  contracts.PeriodLabels{Start: f.Labels.Start, End: f.Labels.End},
		Units:   contracts.DefaultUnitOverrides(),
	}, nil
}

func mustParse(data []byte) contracts.State {
	s, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("defaults: embedded factory snapshot: %v", err))
	}
	return s
}
