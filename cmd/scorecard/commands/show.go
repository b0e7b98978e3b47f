package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/insights"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved scorecard as a table",
	Long: `Load the saved scorecard and print every page with its start and end
values, the change and the summary insights.

Example:
  go run ./cmd/scorecard show
  go run ./cmd/scorecard show --no-color`,
	RunE: runShow,
}

var (
	showNoColor bool
)

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showNoColor, "no-color", false, "disable colored output")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	a.store.Load(ctx)
	return writeScorecard(os.Stdout, a.store.Snapshot(), !showNoColor && !color.NoColor)
}

// writeScorecard renders the scorecard table and the insights summary
func writeScorecard(w io.Writer, st contracts.State, useColors bool) error {
	paint := map[insights.Trend]func(...any) string{
		insights.TrendImproved:  fmt.Sprint,
		insights.TrendRegressed: fmt.Sprint,
		insights.TrendStrong:    fmt.Sprint,
		insights.TrendNeutral:   fmt.Sprint,
	}
	if useColors {
		paint[insights.TrendImproved] = color.New(color.FgGreen).SprintFunc()
		paint[insights.TrendRegressed] = color.New(color.FgRed).SprintFunc()
		paint[insights.TrendStrong] = color.New(color.FgCyan).SprintFunc()
	}

	defs := catalog.All()
	headers := make([]string, 0, len(defs)+1)
	headers = append(headers, "Page")
	for _, def := range defs {
		headers = append(headers, strings.TrimSpace(def.Label+" "+insights.UnitCaption(def, st.Units.Unit(def.ID))))
	}

	var data [][]string
	for _, row := range insights.Cells(st.Dataset, st.Units) {
		line := make([]string, 0, len(row.Cells)+1)
		line = append(line, row.Page)
		for _, c := range row.Cells {
			line = append(line, paint[c.Trend](fmt.Sprintf("%s → %s (%s)", c.StartText, c.EndText, c.DiffText)))
		}
		data = append(data, line)
	}

	fmt.Fprintf(w, "Core Web Vitals Scorecard: %s vs %s\n", st.Labels.Start, st.Labels.End)

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	ins := insights.Compute(st.Dataset, st.Units)
	fmt.Fprintf(w, "Best improvement : %s\n", describeExtreme(ins.BestImprovement))
	fmt.Fprintf(w, "Worst regression : %s\n", describeExtreme(ins.WorstRegression))
	fmt.Fprintf(w, "Average score    : %d -> %d (%+d)\n", ins.AvgStart, ins.AvgEnd, ins.AvgDiff)
	return nil
}

func describeExtreme(e *insights.Extreme) string {
	if e == nil {
		return "n/a"
	}
	return fmt.Sprintf("%s %s %s", e.Page, e.Metric, e.DisplayValue)
}
