package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riteshk28/Lighthouse/pkg/config"
	"github.com/riteshk28/Lighthouse/pkg/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the PostgreSQL schema",
	ValidArgs: []string{"up", "down"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `Run the embedded PostgreSQL migrations against DATABASE_URL.

Example:
  go run ./cmd/scorecard migrate up
  go run ./cmd/scorecard migrate down`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}

	db, err := database.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	status, err := db.Migrate(args[0] == "up")
	if err != nil {
		return err
	}

	if !status.Changed {
		fmt.Printf("ℹ️  Schema already at version %d, nothing to do\n", status.Version)
		return nil
	}
	fmt.Printf("✅ Migrated %s, schema version %d (dirty: %v)\n", args[0], status.Version, status.Dirty)
	return nil
}
