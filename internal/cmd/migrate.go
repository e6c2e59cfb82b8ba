package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/placement-hub/portal/internal/persistence"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations to the portal database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		dir := cfg.Postgres.MigrationsDir
		if migrationsDir != "" {
			dir = migrationsDir
		}

		pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer pg.Close()

		if err := persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), dir, logger); err != nil {
			return err
		}
		logger.Info("migrations applied", zap.String("dir", dir))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "migrations directory (default POSTGRES_MIGRATIONS_DIR)")
}
