package cmd

import (
	"fmt"
	"os"

	"storefront-backend/config"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X storefront-backend/internal/cmd.version=..."
var version = "dev"

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront backend - cart, pricing and order placement",
	Long: `Storefront serves the shopper cart, prices it with the active promotion
and turns it into a cash-on-delivery order.

Run "storefront serve" for the HTTP API, or use the other commands to
prepare the database and inspect pricing from the command line.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.LoadConfig()
		utils.SetSecret(cfg.JWTSecret)
		logger.Init(cfg.Env, cfg.LogLevel)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
