package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lewtec/photolabel/internal/repository"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the preferences database",
	Long: `Applies the embedded schema migrations to preferences.database.
Every other command does this on its own, so running it by hand is only
needed to prepare a database ahead of time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		version, dirty, err := repository.SchemaVersion(app.Database)
		if err != nil {
			return err
		}
		logger.Info().Str("database", cfg.Preferences.Database).Uint("version", version).Msg("migrate: done")
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d", version)
		if dirty {
			fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
