// Package cmd holds the portal's command tree.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/placement-hub/portal/internal/config"
	"github.com/placement-hub/portal/internal/observability"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Placement & Academic Hub portal server",
	Long: `portal serves the placement and academic hub: student and college registration,
profiles, resume previews, skill-gap analysis and student search, with one
session context per browser client.`,
	SilenceUsage: true,
}

// ExecuteContext runs the root command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
