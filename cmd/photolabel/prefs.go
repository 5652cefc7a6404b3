package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lewtec/photolabel/label"
)

// prefsCmd represents the prefs command
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and change saved preferences",
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every preference with its effective value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		all, err := app.Preferences.All(cmd.Context())
		if err != nil {
			return err
		}
		for _, key := range label.PreferenceKeys() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, all[key])
		}
		return nil
	},
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		value, err := app.Preferences.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		return app.Preferences.Set(cmd.Context(), args[0], args[1])
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Restore one preference, or all of them, to the default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		keys := args
		if len(keys) == 0 {
			keys = label.PreferenceKeys()
		}
		lang, err := app.Preferences.Locale(ctx)
		if err != nil {
			return err
		}
		l := label.NewLocalizer(lang)
		for _, key := range keys {
			if err := app.Preferences.Reset(ctx, key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), l.LocalizeWithData("preference_reset", "Preference {{.Key}} reset to its default", map[string]any{
				"Key": key,
			}))
		}
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsListCmd, prefsGetCmd, prefsSetCmd, prefsResetCmd)
	rootCmd.AddCommand(prefsCmd)
}
