package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/insights"
)

// Row is one (page, metric) sample in the flat export.
type Row struct {
	Page             string  `parquet:"page,snappy"`
	Metric           string  `parquet:"metric,snappy"`
	Label            string  `parquet:"label,snappy"`
	Unit             string  `parquet:"unit,snappy"`
	StartLabel       string  `parquet:"start_label,snappy"`
	EndLabel         string  `parquet:"end_label,snappy"`
	Start            float64 `parquet:"start,snappy"`
	End              float64 `parquet:"end,snappy"`
	Delta            float64 `parquet:"delta,snappy"`
	ImprovementScore float64 `parquet:"improvement_score,snappy"`
	LowerIsBetter    bool    `parquet:"lower_is_better,snappy"`
}

// Rows flattens the state in page order, then catalog order.
func Rows(state contracts.State) []Row {
	defs := catalog.All()
	rows := make([]Row, 0, state.Dataset.Len()*len(defs))

	for _, p := range state.Dataset.Pages {
		for _, def := range defs {
			s := p.Metrics.Get(def.ID)
			rows = append(rows, Row{
				Page:             p.Name,
				Metric:           def.Key,
				Label:            def.Label,
				Unit:             state.Units.Unit(def.ID),
				StartLabel:       state.Labels.Start,
				EndLabel:         state.Labels.End,
				Start:            s.Start,
				End:              s.End,
				Delta:            s.Delta(),
				ImprovementScore: insights.ImprovementScore(def, s),
				LowerIsBetter:    def.LowerIsBetter,
			})
		}
	}
	return rows
}

// WriteParquet writes Rows(state) to w.
func WriteParquet(state contracts.State, w io.Writer) error {
	writer := parquet.NewGenericWriter[Row](w)

	if _, err := writer.Write(Rows(state)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
