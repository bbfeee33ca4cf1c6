package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-docs/internal/adapters/driven/database"
	"github.com/custodia-labs/sercha-docs/internal/config"
)

func NewMigrateCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Creates the document, section and revision tables",
		Long:  "Applies the embedded schema for the configured DATABASE_TYPE. Safe to run repeatedly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			db, err := connectDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.InitSchema(ctx); err != nil {
				return err
			}
			logger.Info("schema applied", "database", db.Type())
			return nil
		},
	}

	parent.AddCommand(cmd)
}

func connectDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	dbCfg := database.DefaultConfig(cfg.Database.Type)
	dbCfg.URL = cfg.Database.URL
	dbCfg.Path = cfg.Database.Path
	dbCfg.MaxOpenConns = cfg.Database.MaxOpenConns
	dbCfg.MaxIdleConns = cfg.Database.MaxIdleConns
	dbCfg.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	return database.Connect(ctx, dbCfg)
}
