package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kitbuilder587/studynotes/internal/config"
	"github.com/kitbuilder587/studynotes/internal/repository/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbCfg, logCfg, err := config.LoadDatabase()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := config.NewLogger(logCfg)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			db, err := postgres.Connect(cmd.Context(), dbCfg.URL, postgres.Options{
				MaxConns: dbCfg.MaxConns,
				Retries:  dbCfg.ConnectRetries,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}

			logger.Info("migrations applied")
			return nil
		},
	}
}

