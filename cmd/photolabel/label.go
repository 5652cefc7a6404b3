package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/spf13/cobra"

	"github.com/lewtec/photolabel/internal/domain"
	"github.com/lewtec/photolabel/label"
)

// labelCmd represents the label command
var labelCmd = &cobra.Command{
	Use:   "label <image>",
	Short: "Write a labeled copy of an image",
	Long: `Writes "[LABELED] <name>" next to the image, or into --output.

Style, comparison date and language flags are saved as preferences and
apply to later runs too. --date only affects this run.

Example: photolabel label --compare 2023-01-15 IMG-20240115-WA0001.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runLabel,
}

func init() {
	rootCmd.AddCommand(labelCmd)

	labelCmd.Flags().String("date", "", "Use this date (YYYY-MM-DD) instead of the detected one")
	labelCmd.Flags().String("compare", "", "Comparison date (YYYY-MM-DD), or \"none\" to clear it")
	labelCmd.Flags().String("fill", "", "Text color, #rgb or #rrggbb")
	labelCmd.Flags().String("stroke", "", "Outline color, #rgb or #rrggbb")
	labelCmd.Flags().Bool("outline", true, "Draw an outline around the text")
	labelCmd.Flags().String("font", "", "Font family")
	labelCmd.Flags().String("lang", "", "Language of the relative units (en, id, pt-BR)")
	labelCmd.Flags().StringP("output", "o", "", "Directory to write the labeled copy (default: next to the image)")
}

func runLabel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cfg.Render.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Render.Timeout)
		defer cancel()
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	session, err := app.NewSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := applyPreferenceFlags(ctx, cmd, session); err != nil {
		return err
	}

	dir, name := filepath.Split(args[0])
	if dir == "" {
		dir = "."
	}
	src, err := label.ReadSource(osfs.New(dir), name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	l := session.Localizer()

	accepted, err := session.Load(ctx, src)
	if !accepted {
		fmt.Fprintln(out, l.LocalizeWithData("ignored_not_image", "Ignored {{.File}}: not an image ({{.MediaType}})", map[string]any{
			"File":      src.Filename,
			"MediaType": src.MediaType,
		}))
		return nil
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("date") {
		value, _ := cmd.Flags().GetString("date")
		d, err := domain.ParseDate(value)
		if err != nil {
			return err
		}
		if _, err := session.SetCandidate(ctx, d); err != nil {
			return err
		}
	}

	candidate := session.Candidate()
	if !candidate.Valid() {
		fmt.Fprintln(out, l.LocalizeWithData("no_date_found", "No date found for {{.File}}, the label is empty", map[string]any{
			"File": src.Filename,
		}))
	} else {
		fmt.Fprintln(out, l.LocalizeWithData("date_source", "Date {{.Date}} taken from {{.Source}}", map[string]any{
			"Date":   candidate.String(),
			"Source": string(candidate.Source),
		}))
		fmt.Fprintln(out, l.LocalizeWithData("label_text", "Label: {{.Label}}", map[string]any{
			"Label": session.Label(),
		}))
	}

	outDir, _ := cmd.Flags().GetString("output")
	if outDir == "" {
		outDir = dir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	written, err := session.Download(osfs.New(outDir), "")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, l.LocalizeWithData("artifact_written", "Wrote {{.Path}}", map[string]any{
		"Path": filepath.Join(outDir, written),
	}))
	return nil
}

// applyPreferenceFlags saves the style, comparison and language flags
// given on the command line before anything is rendered.
func applyPreferenceFlags(ctx context.Context, cmd *cobra.Command, session *label.Session) error {
	flags := cmd.Flags()

	style := session.Style()
	styleChanged := false
	if flags.Changed("fill") {
		style.FillColor, _ = flags.GetString("fill")
		styleChanged = true
	}
	if flags.Changed("stroke") {
		style.StrokeColor, _ = flags.GetString("stroke")
		styleChanged = true
	}
	if flags.Changed("outline") {
		style.Outline, _ = flags.GetBool("outline")
		styleChanged = true
	}
	if flags.Changed("font") {
		style.FontFamily, _ = flags.GetString("font")
		styleChanged = true
	}
	if styleChanged {
		if err := session.SetStyle(ctx, style); err != nil {
			return err
		}
	}

	if flags.Changed("compare") {
		value, _ := flags.GetString("compare")
		var d domain.Date
		if value != "" && value != "none" {
			var err error
			if d, err = domain.ParseDate(value); err != nil {
				return err
			}
		}
		if err := session.SetComparison(ctx, d); err != nil {
			return err
		}
	}

	if flags.Changed("lang") {
		lang, _ := flags.GetString("lang")
		if err := session.SetLocale(ctx, lang); err != nil {
			return err
		}
	}
	return nil
}
