package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/riteshk28/Lighthouse/internal/mcpserver"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the scorecard as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout.

Tools: get_scorecard, get_insights, update_sample, update_unit,
update_labels, reset_scorecard. Edits are saved to the configured store.
Logs are written to stderr.

Example:
  go run ./cmd/scorecard mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// stdout carries the protocol
	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	a.store.Load(ctx)
	return mcpserver.Serve(ctx, a.store, version, a.log)
}
