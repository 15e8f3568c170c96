package main

import (
	"github.com/spf13/cobra"

	"github.com/abhishekpnaik05/vigitrack/internal/migrations"
)

var migrateSteps int

var migratecmd = &cobra.Command{
	Use:   "migrate",
	Short: "manages the postgres schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "applies all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap("vigitrack-migrate")
		if err != nil {
			return err
		}
		defer log.Sync()
		return migrations.Up(cfg.DatabaseURL, log)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "rolls back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap("vigitrack-migrate")
		if err != nil {
			return err
		}
		defer log.Sync()
		return migrations.Down(cfg.DatabaseURL, migrateSteps, log)
	},
}

var _ = func() (ret bool) {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, `number of migrations to roll back. 0 rolls back everything`)
	migratecmd.AddCommand(migrateUpCmd, migrateDownCmd)
	return
}()
