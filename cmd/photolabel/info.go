package main

import (
	"path/filepath"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lewtec/photolabel/internal/datelabel"
	"github.com/lewtec/photolabel/label"
)

type infoReport struct {
	File       string         `yaml:"file"`
	MediaType  string         `yaml:"media_type"`
	Date       string         `yaml:"date,omitempty"`
	DateSource string         `yaml:"date_source"`
	Comparison string         `yaml:"comparison,omitempty"`
	Label      string         `yaml:"label"`
	Metadata   map[string]any `yaml:"metadata,omitempty"`
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Show the detected date, the label and the embedded metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		dir, name := filepath.Split(args[0])
		if dir == "" {
			dir = "."
		}
		src, err := label.ReadSource(osfs.New(dir), name)
		if err != nil {
			return err
		}

		record, candidate := app.Extractor.Extract(src)
		comparison, err := app.Preferences.Comparison(ctx)
		if err != nil {
			return err
		}
		lang, err := app.Preferences.Locale(ctx)
		if err != nil {
			return err
		}

		report := infoReport{
			File:       src.Filename,
			MediaType:  src.MediaType,
			Date:       candidate.String(),
			DateSource: string(candidate.Source),
			Comparison: comparison.String(),
			Label:      datelabel.Format(candidate.Date, comparison, label.NewLocalizer(lang)),
			Metadata:   record,
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(report)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
