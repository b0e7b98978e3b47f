package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore and save the factory scorecard",
	Long: `Discard every edit and save the factory scorecard to the configured store.

Example:
  go run ./cmd/scorecard reset`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if err := a.store.Reset(); err != nil {
		return err
	}
	if err := a.store.Flush(ctx); err != nil {
		return err
	}

	fmt.Println("✅ Scorecard reset to factory defaults")
	return nil
}
