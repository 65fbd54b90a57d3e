package document

import "strings"

// Document is a paginated listing ready to render.
type Document struct {
	Title   string // Software name
	Version string // Software version, printed after the title
	Style   Style
	Pages   []*Page // Printed pages, in order
}

// Style holds the typography shared by all renderers. Sizes are in points.
type Style struct {
	FontName    string
	FontSize    float64
	CJKFont     string // Path to a TrueType font used for non-Latin text (PDF only)
	SpaceBefore float64
	SpaceAfter  float64
	LineSpacing float64 // Multiple of single spacing
}

// Page is one printed page.
type Page struct {
	Number   int      // 1-based printed page number
	Source   int      // 1-based page number before front/back selection (0 for the ellipsis page)
	Lines    []string // Body lines
	Ellipsis bool     // Marks the page standing in for elided pages
}

// Header returns the running header text.
func (d *Document) Header() string {
	return strings.TrimSpace(d.Title + " " + d.Version)
}

// Body returns the body lines of all non-ellipsis pages, in order.
func (d *Document) Body() []string {
	var out []string
	for _, p := range d.Pages {
		if !p.Ellipsis {
			out = append(out, p.Lines...)
		}
	}
	return out
}

// A4 geometry shared by the renderers, in points.
const (
	PageWidth    = 595.28
	PageHeight   = 841.89
	MarginLeft   = 50.0
	MarginRight  = 50.0
	MarginTop    = 80.0
	MarginBottom = 50.0
	Gutter       = 20.0 // extra left space for binding
	HeaderSize   = 10.0
	EllipsisSize = 24.0
	EllipsisText = "......"
)

// LineHeight is the vertical advance of one body line.
func (s Style) LineHeight() float64 {
	spacing := s.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	return s.FontSize*1.2*spacing + s.SpaceBefore + s.SpaceAfter
}

// Capacity is how many body lines fit on one page.
func (s Style) Capacity() int {
	lh := s.LineHeight()
	if lh <= 0 {
		return 0
	}
	return int((PageHeight - MarginTop - MarginBottom) / lh)
}

// UsableWidth is the width available to a body line.
func UsableWidth() float64 {
	return PageWidth - MarginLeft - Gutter - MarginRight
}
