package cmd

import (
	"fmt"

	"storefront-backend/internal/repository/postgres"
	"storefront-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the storefront tables",
	Long: `Apply the storefront schema (products, promotions, orders, order items and
order history). Safe to run repeatedly.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.DBUrl == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	pool, err := postgres.NewPgxPool(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(cmd.Context(), pool); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info().Msg("Schema is up to date")
	return nil
}
