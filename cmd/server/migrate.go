package main

import (
	"github.com/spf13/cobra"

	"github.com/rpattn/bidash/internal/db"
)

var migrateDown int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations, or roll back with --down",
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateDown > 0 {
			return db.RollbackMigrations(cfg.Database, migrateDown, logger)
		}
		return db.RunMigrations(cfg.Database, logger)
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateDown, "down", 0, "number of migrations to roll back")
}
