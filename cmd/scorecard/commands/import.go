package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riteshk28/Lighthouse/internal/importer"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the scorecard pages from an HTML table",
	Long: `Read the first <table> of an HTML file and replace the scorecard pages
with its rows. Labels and units are kept.

Header cells name the metrics (id or label, an optional "(unit)" suffix is
ignored); the first column holds the page name. Body cells carry the start
and end values, e.g. "85 → 71" or "2.4/1.8".

Example:
  go run ./cmd/scorecard import --file report.html`,
	RunE: runImport,
}

var (
	importFile string
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "HTML file to import")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("open %s: %w", importFile, err)
	}
	defer f.Close()

	ds, err := importer.ParseHTMLTable(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", importFile, err)
	}

	ctx := context.Background()
	a, err := newApp(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	a.store.Load(ctx)
	if err := a.store.ImportDataset(ds); err != nil {
		return err
	}
	if err := a.store.Flush(ctx); err != nil {
		return err
	}

	fmt.Printf("✅ Imported %d pages from %s\n", ds.Len(), importFile)
	return nil
}
