// Package layout splits filtered source lines into pages and picks the
// pages that go into a filing.
package layout

import (
	"github.com/dgallion1/swcr/internal/document"
	"github.com/dgallion1/swcr/internal/filter"
)

// Config controls pagination and page selection.
type Config struct {
	LinesPerPage int  // Effective lines per page.
	MaxLines     int  // Physical lines that fit on a page; 0 means no limit.
	FrontPages   int  // Pages kept from the start.
	BackPages    int  // Pages kept from the end.
	Ellipsis     bool // Insert an ellipsis page where pages were elided.
}

// DefaultConfig returns the usual filing layout.
func DefaultConfig() Config {
	return Config{
		LinesPerPage: 50,
		FrontPages:   30,
		BackPages:    30,
		Ellipsis:     true,
	}
}

// Result is a laid-out listing.
type Result struct {
	Pages  []*document.Page // Printed pages, numbered from 1
	Total  int              // Pages before selection
	Elided int              // Pages left out between front and back
}

// Build paginates lines and selects the printed pages.
func Build(lines []filter.Line, cfg Config) Result {
	if cfg.LinesPerPage <= 0 {
		cfg.LinesPerPage = DefaultConfig().LinesPerPage
	}
	pages := Paginate(lines, cfg.LinesPerPage, cfg.MaxLines)
	printed, elided := Select(pages, cfg.FrontPages, cfg.BackPages, cfg.Ellipsis)
	return Result{Pages: printed, Total: len(pages), Elided: elided}
}

// Paginate fills pages in order. A page is closed once it holds perPage
// effective lines, or maxLines lines of any kind when maxLines > 0. The
// last page may be short.
func Paginate(lines []filter.Line, perPage, maxLines int) []*document.Page {
	var pages []*document.Page
	var current []string
	effective := 0

	flush := func() {
		pages = append(pages, &document.Page{
			Number: len(pages) + 1,
			Source: len(pages) + 1,
			Lines:  current,
		})
		current = nil
		effective = 0
	}

	for _, l := range lines {
		current = append(current, l.Text)
		if l.Effective {
			effective++
		}
		if effective >= perPage || (maxLines > 0 && len(current) >= maxLines) {
			flush()
		}
	}
	if len(current) > 0 {
		flush()
	}
	return pages
}

// Select keeps the first front and last back pages. When pages are left
// out and ellipsis is set, a single ellipsis page stands in for them.
// Printed pages are renumbered from 1; the ellipsis page takes a number.
func Select(pages []*document.Page, front, back int, ellipsis bool) ([]*document.Page, int) {
	if front < 0 {
		front = 0
	}
	if back < 0 {
		back = 0
	}

	var printed []*document.Page
	elided := 0
	if len(pages) <= front+back {
		printed = append(printed, pages...)
	} else {
		elided = len(pages) - front - back
		printed = append(printed, pages[:front]...)
		if ellipsis {
			printed = append(printed, &document.Page{Ellipsis: true})
		}
		printed = append(printed, pages[len(pages)-back:]...)
	}

	for i, p := range printed {
		p.Number = i + 1
	}
	return printed, elided
}

// EffectiveLines counts the lines that count toward page quotas.
func EffectiveLines(lines []filter.Line) int {
	n := 0
	for _, l := range lines {
		if l.Effective {
			n++
		}
	}
	return n
}
