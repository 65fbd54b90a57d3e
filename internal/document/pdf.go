package document

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const cjkFamily = "swcr-cjk"

// coreFonts are the PDF base fonts gofpdf can use without a font file.
var coreFonts = map[string]string{
	"courier":   "Courier",
	"helvetica": "Helvetica",
	"arial":     "Helvetica",
	"times":     "Times",
}

// PDFRenderer draws each page with a header line (title and version on the
// left, page number on the right, a rule underneath) and the body lines in
// a fixed-pitch core font. Lines with characters outside Latin-1 use the
// CJK font when one is configured.
type PDFRenderer struct {
	Log *slog.Logger
}

func (r *PDFRenderer) Render(doc *Document, w io.Writer) error {
	log := r.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	style := doc.Style

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(MarginLeft, MarginTop, MarginRight)
	pdf.SetTitle(doc.Header(), true)
	pdf.SetCreator("swcr", false)

	core, ok := coreFonts[strings.ToLower(style.FontName)]
	if !ok {
		log.Warn("font is not a PDF core font, using Courier", "font", style.FontName)
		core = "Courier"
	}

	cjk := ""
	if style.CJKFont != "" {
		pdf.AddUTF8Font(cjkFamily, "", style.CJKFont)
		if pdf.Err() {
			return fmt.Errorf("load font %s: %w", style.CJKFont, pdf.Error())
		}
		cjk = cjkFamily
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	t := &pdfText{pdf: pdf, core: core, cjk: cjk, tr: tr}

	lineHeight := style.LineHeight()
	left := MarginLeft + Gutter
	bottom := PageHeight - MarginBottom
	overflow := 0

	for _, page := range doc.Pages {
		pdf.AddPage()
		t.header(doc.Header(), page.Number)

		if page.Ellipsis {
			t.set(EllipsisText, EllipsisSize)
			tw := pdf.GetStringWidth(EllipsisText)
			pdf.Text((PageWidth-tw)/2, PageHeight/2, EllipsisText)
			continue
		}

		y := MarginTop
		for i, line := range page.Lines {
			if y > bottom {
				overflow += len(page.Lines) - i
				break
			}
			text := t.fit(line, style.FontSize, UsableWidth())
			pdf.Text(left, y, text)
			y += lineHeight
		}
	}

	if overflow > 0 {
		log.Warn("lines did not fit on their pages and were cut", "lines", overflow)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pdfText picks a font per string and keeps strings inside a width.
type pdfText struct {
	pdf  *gofpdf.Fpdf
	core string
	cjk  string
	tr   func(string) string
}

// set selects the font for s and returns s encoded for that font.
func (t *pdfText) set(s string, size float64) string {
	if t.cjk != "" && !IsLatin1(s) {
		t.pdf.SetFont(t.cjk, "", size)
		return s
	}
	t.pdf.SetFont(t.core, "", size)
	return t.tr(s)
}

// fit returns s encoded for its font, truncated with "..." when wider
// than maxWidth. The font chosen for the whole of s is kept for every
// prefix so width grows with length and the cut can be binary searched.
func (t *pdfText) fit(s string, size, maxWidth float64) string {
	enc := t.set(s, size)
	width := func(str string) float64 { return t.pdf.GetStringWidth(str) }
	if width(enc) <= maxWidth {
		return enc
	}
	encode := t.tr
	if t.cjk != "" && !IsLatin1(s) {
		encode = func(str string) string { return str }
	}

	runes := []rune(s)
	// Largest n in [0, len) whose prefix plus "..." fits.
	lo, hi := 0, len(runes)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if width(encode(string(runes[:mid])+"...")) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return encode(string(runes[:lo]) + "...")
}

func (t *pdfText) header(title string, number int) {
	y := MarginTop - 50
	left := MarginLeft + Gutter
	right := PageWidth - MarginRight

	t.pdf.Text(left, y, t.set(title, HeaderSize))

	num := t.set(strconv.Itoa(number), HeaderSize)
	t.pdf.Text(right-t.pdf.GetStringWidth(num), y, num)

	t.pdf.SetLineWidth(0.5)
	t.pdf.Line(left, y+5, right, y+5)
}

// IsLatin1 reports whether every rune of s is in Latin-1, which the PDF
// core fonts can draw.
func IsLatin1(s string) bool {
	for _, r := range s {
		if r > 0xFF {
			return false
		}
	}
	return true
}

// fontCandidates are TrueType fonts with CJK coverage found on common
// systems. Collections (.ttc) are not listed: gofpdf cannot load them.
var fontCandidates = map[string][]string{
	"windows": {
		`C:\Windows\Fonts\simhei.ttf`,
		`C:\Windows\Fonts\simkai.ttf`,
		`C:\Windows\Fonts\simfang.ttf`,
	},
	"darwin": {
		"/Library/Fonts/Arial Unicode.ttf",
		"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	},
	"linux": {
		"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
		"/usr/share/fonts/truetype/arphic-gbsn00lp/gbsn00lp.ttf",
		"/usr/share/fonts/TTF/DroidSansFallbackFull.ttf",
		"/usr/share/fonts/google-droid/DroidSansFallbackFull.ttf",
	},
}

// FindCJKFont returns the first CJK-capable TrueType font present on this
// system, or "" when there is none.
func FindCJKFont() string {
	for _, path := range fontCandidates[runtime.GOOS] {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
