package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scrimnight/scrimnight/internal/config"
	"github.com/scrimnight/scrimnight/internal/store"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			setupLogger(cfg.LogLevel)

			if cfg.Store != config.StorePostgres {
				return errors.New("migrate requires STORE=postgres")
			}

			pool, err := store.Connect(cmd.Context(), cfg.DatabaseURL, connectTimeout)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer pool.Close()

			if err := store.Migrate(cmd.Context(), pool); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}
			slog.Info("database is up to date")
			return nil
		},
	}
}
