package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"homecare/internal/config"
	"homecare/internal/database"
	"homecare/internal/database/migration"
	"homecare/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()

		log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		db, err := database.NewPostgres(cmd.Context(), cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		return migration.Run(cmd.Context(), db, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
