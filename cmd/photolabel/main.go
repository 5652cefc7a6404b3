/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lewtec/photolabel/internal/log"
	"github.com/lewtec/photolabel/label"
)

var (
	cfgFile  string
	logLevel string

	cfg    *label.Config
	logger = zerolog.Nop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "photolabel",
	Short: "Burn the capture date into a photo",
	Long: strings.TrimSpace(`
Reads the date a photo was taken from its EXIF data, its file name or its
modification time, and writes a copy with that date printed at the bottom.
A comparison date turns the label into a relative one, such as
"15-01-2024 - 1 YEAR".
    `),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := label.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		cfg = c
		logger = log.NewWithWriter(cmd.ErrOrStderr(), c.Log.Level)
		return nil
	},
}

func openApp() (*label.App, error) {
	app, err := label.OpenApp(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	return app, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: photolabel.yaml in . or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level, overrides log.level from the config")
}
