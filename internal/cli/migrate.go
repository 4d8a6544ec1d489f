package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"trivia-quiz/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies the Postgres score store migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	applied, err := migrations.Apply(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		log.Info("database already up to date")
		return nil
	}
	log.Info("migrations applied", "migrations", applied)
	return nil
}
