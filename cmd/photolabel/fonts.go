package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// fontsCmd represents the fonts command
var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "List the font families available for labels",
	Long: `Lists the bundled generic families and every font found in render.fonts_dir.
Unknown families fall back to sans-serif.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		for _, family := range app.Fonts.Families() {
			fmt.Fprintln(cmd.OutOrStdout(), family)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fontsCmd)
}
