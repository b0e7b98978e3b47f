package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// version is stamped at build time with -ldflags "-X .../commands.version=..."
var version = "dev"

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Core Web Vitals scorecard service",
	Long: `Core Web Vitals Scorecard

Compares Lighthouse-style page metrics between two periods, derives
insights and persists the scorecard through a pluggable backend.

Usage:
  go run ./cmd/scorecard [command]

Examples:
  go run ./cmd/scorecard api
  go run ./cmd/scorecard show
  go run ./cmd/scorecard export --format jpeg --out scorecard.jpeg
  go run ./cmd/scorecard migrate up`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: applyGlobalFlags,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production), overrides ENV")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging in console format")
}

// applyGlobalFlags hands flag overrides to config.Load through the environment
func applyGlobalFlags(cmd *cobra.Command, args []string) error {
	if env != "" {
		if err := os.Setenv("ENV", env); err != nil {
			return err
		}
	}
	if verbose {
		if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
			return err
		}
		if err := os.Setenv("LOG_FORMAT", "console"); err != nil {
			return err
		}
	}
	return nil
}
