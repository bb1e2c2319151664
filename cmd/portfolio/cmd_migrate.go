package main

import (
	"github.com/aandrx/portfolio/config"
	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/store"
	"github.com/spf13/cobra"
)

// migrateCmd creates the form tables
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return err
		}
		db, err := store.Open(cmd.Context(), config.Current().Database.Driver, config.Current().Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		dlog.Info().Str("driver", config.Current().Database.Driver).Msg("database schema is up to date")
		return nil
	},
}
