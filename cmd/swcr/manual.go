package main

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/swcr/internal/manual"
	"github.com/dgallion1/swcr/internal/output"
)

type manualFlags struct {
	in       string
	out      string
	header   string
	fontName string
	fontSize float64
}

func newManualCmd() *cobra.Command {
	var flags manualFlags
	def := manual.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Convert a Markdown user manual to DOCX",
		Long: `Convert a Markdown user manual into the Word document filed alongside the
source listing. Headings, paragraphs, lists and code blocks are kept; the
page header defaults to the configured title and version.

Examples:
  swcr manual --in docs/manual.md --out manual.docx
  swcr manual --in manual.md --header "Inventory System V2.0" --font-name SimSun`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runManual(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.in, "in", "", "Markdown input file")
	cmd.Flags().StringVar(&flags.out, "out", "manual.docx", "DOCX output file")
	cmd.Flags().StringVar(&flags.header, "header", "", "Header text (default: title and version)")
	cmd.Flags().StringVar(&flags.fontName, "font-name", def.FontName, "Font name")
	cmd.Flags().Float64Var(&flags.fontSize, "font-size", def.FontSize, "Body font size in points")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runManual(cmd *cobra.Command, flags manualFlags) error {
	printer := newPrinter(cmd)

	log, err := newLogger(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	if !strings.EqualFold(filepath.Ext(flags.out), ".docx") {
		err := output.NewUserError("--out must be a .docx file, got " + flags.out)
		printer.Error(err)
		return err
	}
	if flags.fontSize <= 0 {
		err := output.NewUserError("--font-size must be positive")
		printer.Error(err)
		return err
	}

	header := flags.header
	if header == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			printer.Error(err)
			return err
		}
		header = strings.TrimSpace(cfg.Title + " " + cfg.Version)
	}

	opts := manual.DefaultOptions()
	opts.Header = header
	opts.FontName = flags.fontName
	opts.FontSize = flags.fontSize

	if err := manual.ConvertFile(flags.in, flags.out, opts, log); err != nil {
		var exitErr *output.ExitError
		if errors.Is(err, fs.ErrNotExist) {
			exitErr = output.NewUserErrorWithCause("manual", err)
		} else {
			exitErr = output.NewSystemErrorWithCause("manual", err)
		}
		printer.Error(exitErr)
		return exitErr
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"outfile": flags.out, "header": header})
	}
	return printer.Success("wrote " + flags.out)
}
