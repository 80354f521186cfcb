package main

import (
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Apply the storage schema to the configured Postgres database. Statements are
idempotent, so running it against an up-to-date database is a no-op.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the store migrates when opened
		if cfg.Storage.Driver != "postgres" {
			logger.Warn().Msg("Storage driver is not postgres, nothing to migrate")
			return nil
		}
		logger.Info().Msg("Schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
