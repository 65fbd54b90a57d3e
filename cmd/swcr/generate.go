package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/swcr/internal/output"
	"github.com/dgallion1/swcr/internal/pipeline"
)

func newGenerateCmd() *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the source listing",
		Long: `Scan the input directories, strip comments and blank lines, and write the
listing as DOCX or PDF. Long listings keep the first and last pages only,
with an ellipsis page marking the gap.

Examples:
  # 30 + 30 pages of C and Python as PDF
  swcr generate -i src -e c,h,py --title "Inventory System" -o listing.pdf

  # Word output, keep blank lines collapsed, check the result
  swcr generate -i . --blank-lines collapse -o listing.docx --verify

  # SQL with a custom comment marker
  swcr generate -i db -e sql -c "--" -c "/*|*/"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, flags)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func runGenerate(cmd *cobra.Command, flags *generateFlags) error {
	printer := newPrinter(cmd)

	log, err := newLogger(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	flags.apply(cmd.Flags(), &cfg)

	if err := cfg.Validate(); err != nil {
		exitErr := output.NewUserError(err.Error())
		printer.Error(exitErr)
		return exitErr
	}

	report, err := pipeline.Run(cmd.Context(), cfg, log)
	if err != nil {
		var exitErr *output.ExitError
		if pipeline.IsUserError(err) {
			exitErr = output.NewUserErrorWithCause("generate", err)
		} else {
			exitErr = output.NewSystemErrorWithCause("generate", err)
		}
		printer.Error(exitErr)
		return exitErr
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(report); err != nil {
			return output.NewSystemErrorWithCause("write report", err)
		}
		return nil
	}
	printReport(printer, report)
	return nil
}

func printReport(p *output.Printer, r *pipeline.Report) {
	p.Section("Sources")
	p.KeyValue("found", strconv.Itoa(r.FilesFound))
	p.KeyValue("included", strconv.Itoa(r.FilesIncluded))
	encodings := make([]string, 0, len(r.Encodings))
	for enc := range r.Encodings {
		encodings = append(encodings, enc)
	}
	sort.Strings(encodings)
	for _, enc := range encodings {
		p.KeyValue("encoding "+enc, strconv.Itoa(r.Encodings[enc]))
	}
	p.KeyValue("lines", fmt.Sprintf("%d (%d code)", r.Lines, r.EffectiveLines))
	if r.LinesPerFile.Count > 0 {
		p.KeyValue("code lines per file", fmt.Sprintf("min %d, median %.0f, p95 %.0f, max %d",
			r.LinesPerFile.Min, r.LinesPerFile.P50, r.LinesPerFile.P95, r.LinesPerFile.Max))
	}

	p.Section("Pages")
	p.KeyValue("laid out", strconv.Itoa(r.PagesTotal))
	p.KeyValue("printed", strconv.Itoa(r.PagesPrinted))
	if r.PagesElided > 0 {
		p.KeyValue("elided", strconv.Itoa(r.PagesElided))
	}
	if r.CJKFont != "" {
		p.KeyValue("cjk font", r.CJKFont)
	}

	if len(r.Skipped) > 0 {
		p.Section("Skipped")
		rows := make([][]string, 0, len(r.Skipped))
		for _, s := range r.Skipped {
			rows = append(rows, []string{s.Path, s.Reason})
		}
		p.Table([]string{"FILE", "REASON"}, rows)
		p.Warn("%d of %d files skipped", len(r.Skipped), r.FilesFound)
	}

	msg := fmt.Sprintf("wrote %s (%d pages, %s)", r.Outfile, r.PagesPrinted, r.Duration().Round(time.Millisecond))
	if r.Verified {
		msg += ", verified"
	}
	_ = p.Success(msg)
}
