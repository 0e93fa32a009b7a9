package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/book-api/internal/config"
	"github.com/iliyamo/book-api/internal/database"
	"github.com/iliyamo/book-api/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.StoreDriver != config.StoreMySQL {
			return fmt.Errorf("migrate needs STORE_DRIVER=%s, got %q", config.StoreMySQL, cfg.StoreDriver)
		}
		log := logging.Must(cfg.LogLevel)
		defer func() { _ = log.Sync() }()

		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied", zap.String("db", cfg.DBName))
		return nil
	},
}
