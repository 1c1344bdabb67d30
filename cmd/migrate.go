package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/facereg/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Connect to the configured database (DATABASE_DRIVER, DATABASE_URL),
apply any pending schema migrations and list the applied versions.

Migrations also run automatically when any other command opens the store.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("json", false, "Output as JSON")
}

// MigrateResult is the JSON output of the migrate command
type MigrateResult struct {
	Driver  string   `json:"driver"`
	Applied []string `json:"applied"`
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	lister, ok := store.(database.MigrationLister)
	if !ok {
		return fmt.Errorf("%s backend does not track migrations", cfg.Database.Driver)
	}
	applied, err := lister.MigrationsApplied(ctx)
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(MigrateResult{Driver: cfg.Database.Driver, Applied: applied})
	}

	fmt.Printf("Database (%s) is up to date.\n", cfg.Database.Driver)
	for _, version := range applied {
		fmt.Printf("  %s\n", version)
	}
	return nil
}
