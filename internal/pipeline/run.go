// Package pipeline runs a listing from source directories to a rendered,
// verified document.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dgallion1/swcr/internal/config"
	"github.com/dgallion1/swcr/internal/document"
	"github.com/dgallion1/swcr/internal/filter"
	"github.com/dgallion1/swcr/internal/finder"
	"github.com/dgallion1/swcr/internal/inspect"
	"github.com/dgallion1/swcr/internal/layout"
	"github.com/dgallion1/swcr/internal/source"
)

var (
	ErrNoFiles      = errors.New("no source files found")
	ErrNoContent    = errors.New("no code left after filtering")
	ErrPageTooSmall = errors.New("lines per page do not fit on a page")
	ErrVerify       = errors.New("page count mismatch")
)

// IsUserError reports whether err comes from the input or settings rather
// than from the system.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNoFiles) || errors.Is(err, ErrNoContent) || errors.Is(err, ErrPageTooSmall)
}

// Run generates the listing described by cfg. The report is returned even
// when the run fails, reflecting how far it got.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) (*Report, error) {
	report := newReport()
	report.Outfile = cfg.Outfile
	report.Format = cfg.ResolvedFormat()
	log = log.With("outfile", cfg.Outfile, "format", report.Format)

	style := document.Style{
		FontName:    cfg.FontName,
		FontSize:    cfg.FontSize,
		CJKFont:     cfg.CJKFont,
		SpaceBefore: cfg.SpaceBefore,
		SpaceAfter:  cfg.SpaceAfter,
		LineSpacing: cfg.LineSpacing,
	}
	capacity := style.Capacity()
	if capacity < cfg.LinesPerPage {
		return report, report.Fail(fmt.Errorf("%w: %d requested, %d fit at %gpt", ErrPageTooSmall, cfg.LinesPerPage, capacity, cfg.FontSize))
	}

	// Phase 1: Find
	report.SetStatus(StatusFinding, "finding")
	f, err := finder.New(cfg.Exts, cfg.Excludes, log)
	if err != nil {
		return report, report.Fail(err)
	}
	paths, err := f.Find(cfg.InDirs)
	if err != nil {
		return report, report.Fail(fmt.Errorf("find sources: %w", err))
	}
	report.FilesFound = len(paths)
	log.Info("found source files", "files", len(paths), "dirs", len(cfg.InDirs))
	if len(paths) == 0 {
		return report, report.Fail(fmt.Errorf("%w in %v with extensions %v", ErrNoFiles, cfg.InDirs, cfg.Exts))
	}

	// Phase 2: Load and filter
	report.SetStatus(StatusLoading, "loading")
	var custom *filter.Markers
	if len(cfg.CommentChars) > 0 {
		m := filter.ParseMarkers(cfg.CommentChars)
		custom = &m
	}
	base := commonBase(cfg.InDirs)

	var lines []filter.Line
	var perFile []int
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, report.Fail(fmt.Errorf("load sources: %w", err))
		}
		flog := log.With("file", path)

		file, err := source.Load(path, base)
		if err != nil {
			flog.Warn("skipping file", "error", err)
			report.AddSkipped(path, err.Error())
			continue
		}

		raw, err := file.Lines()
		if err != nil {
			flog.Warn("skipping file", "error", err)
			report.AddSkipped(path, err.Error())
			continue
		}

		markers := filter.DefaultMarkers(file.Ext)
		if custom != nil {
			markers = *custom
		}
		kept := filter.Apply(raw, filter.Options{
			Markers:      markers,
			BlankLines:   cfg.BlankLines,
			KeepComments: cfg.KeepComments,
			TabWidth:     cfg.TabWidth,
		})
		effective := layout.EffectiveLines(kept)
		// Comment-only files stay in when comments are kept.
		if len(kept) == 0 || (effective == 0 && !cfg.KeepComments) {
			flog.Debug("no code after filtering")
			report.AddSkipped(path, "no code after filtering")
			continue
		}

		if cfg.FileHeaders {
			lines = append(lines, filter.Line{Text: "File: " + file.RelPath})
		}
		lines = append(lines, kept...)
		perFile = append(perFile, effective)
		report.FilesIncluded++
		report.Encodings[file.Encoding]++
		flog.Debug("loaded file", "encoding", file.Encoding, "lines", len(raw), "kept", len(kept), "effective", effective)
	}

	report.Lines = len(lines)
	report.EffectiveLines = layout.EffectiveLines(lines)
	report.LinesPerFile = Summarize(perFile)
	if report.EffectiveLines == 0 {
		return report, report.Fail(ErrNoContent)
	}
	log.Info("filtered sources", "included", report.FilesIncluded, "skipped", len(report.Skipped), "lines", report.Lines)

	// Phase 3: Layout
	report.SetStatus(StatusLayout, "layout")
	res := layout.Build(lines, layout.Config{
		LinesPerPage: cfg.LinesPerPage,
		MaxLines:     capacity,
		FrontPages:   cfg.MaxFrontPages,
		BackPages:    cfg.MaxBackPages,
		Ellipsis:     cfg.EllipsisPage,
	})
	report.PagesTotal = res.Total
	report.PagesPrinted = len(res.Pages)
	report.PagesElided = res.Elided
	log.Info("laid out pages", "total", res.Total, "printed", len(res.Pages), "elided", res.Elided)

	doc := &document.Document{
		Title:   cfg.Title,
		Version: cfg.Version,
		Style:   style,
		Pages:   res.Pages,
	}

	// Phase 4: Render
	report.SetStatus(StatusRendering, "rendering")
	if report.Format == config.FormatPDF && doc.Style.CJKFont == "" && needsUnicode(doc) {
		if font := document.FindCJKFont(); font != "" {
			log.Info("using system CJK font", "font", font)
			doc.Style.CJKFont = font
		} else {
			log.Warn("text outside Latin-1 found but no CJK font is available; set cjk_font")
		}
	}
	report.CJKFont = doc.Style.CJKFont

	r, err := document.ForFormat(report.Format, log)
	if err != nil {
		return report, report.Fail(err)
	}
	start := time.Now()
	if err := document.WriteFile(cfg.Outfile, doc, r); err != nil {
		return report, report.Fail(fmt.Errorf("write output: %w", err))
	}
	log.Info("wrote document", "pages", len(doc.Pages), "duration_ms", time.Since(start).Milliseconds())

	// Phase 5: Verify
	if cfg.Verify {
		report.SetStatus(StatusVerifying, "verifying")
		sum, err := inspect.File(cfg.Outfile)
		if err != nil {
			return report, report.Fail(fmt.Errorf("verify output: %w", err))
		}
		if sum.Pages != len(doc.Pages) {
			return report, report.Fail(fmt.Errorf("%w: laid out %d pages, %s has %d", ErrVerify, len(doc.Pages), cfg.Outfile, sum.Pages))
		}
		report.Verified = true
		log.Info("verified output", "pages", sum.Pages)
	}

	report.SetStatus(StatusCompleted, "done")
	report.Finished = time.Now()
	return report, nil
}

// needsUnicode reports whether any printed text falls outside Latin-1.
func needsUnicode(doc *document.Document) bool {
	if !document.IsLatin1(doc.Header()) {
		return true
	}
	for _, line := range doc.Body() {
		if !document.IsLatin1(line) {
			return true
		}
	}
	return false
}

// commonBase returns the directory relative paths are reported against:
// the single input directory, or "" when there are several.
func commonBase(dirs []string) string {
	if len(dirs) != 1 {
		return ""
	}
	abs, err := filepath.Abs(dirs[0])
	if err != nil {
		return ""
	}
	return abs
}
