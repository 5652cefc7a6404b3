package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lewtec/photolabel/internal/export"
	"github.com/lewtec/photolabel/internal/metadata"
	"github.com/lewtec/photolabel/label"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a sample configuration file",
	Long: `Creates a sample configuration file (photolabel.yaml by default) and the
preferences database it points to. An existing file is left alone.

Example:
  photolabel init
  photolabel init ~/.config/photolabel/photolabel.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := "photolabel.yaml"
		if len(args) == 1 {
			filename = args[0]
		}

		if _, err := os.Stat(filename); os.IsNotExist(err) {
			if err := createSampleConfig(filename, cfg.Preferences.Database); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", filename)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file already exists: %s\n", filename)
		}

		c, err := label.LoadConfig(filename)
		if err != nil {
			return err
		}
		app, err := label.OpenApp(c, logger)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		defer app.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Preferences stored in %s\n", c.Preferences.Database)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func createSampleConfig(filename, database string) error {
	sampleConfig := fmt.Sprintf(`# photolabel configuration file
# Every key can also be set through the environment, for example
# PHOTOLABEL_RENDER_QUALITY=0.8

log:
  level: info  # debug, info, warn, error

preferences:
  # SQLite file holding colors, font, language and the comparison date
  database: %q
  namespace: %q

render:
  quality: %v   # JPEG quality, between 0 and 1
  fonts_dir: "" # directory with .ttf/.otf files, e.g. Quantico.ttf
  timeout: 1m

extract:
  # file names like img-20230704_test.jpg carry their own date
  filename_prefix: %q

output:
  prefix: %q

locale:
  default: %q  # en, id, pt-BR
`, database, label.DefaultNamespace, export.DefaultQuality, metadata.DefaultFilenamePrefix, label.DefaultOutputPrefix, label.DefaultLocale)

	return os.WriteFile(filename, []byte(sampleConfig), 0644)
}
