package document

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXRenderer writes Word documents. Each page starts with the page number
// and running header, and ends with an explicit page break, so Word keeps
// the pagination computed by the layout.
type DOCXRenderer struct{}

func (r *DOCXRenderer) Render(doc *Document, w io.Writer) error {
	d := docx.New().WithDefaultTheme()
	style := doc.Style

	for i, page := range doc.Pages {
		num := d.AddParagraph().Justification("right")
		setSpacing(num, 0, 1)
		styleRun(num.AddText(strconv.Itoa(page.Number)), style.FontName, HeaderSize)

		header := d.AddParagraph().Justification("left")
		setSpacing(header, 0, 1)
		styleRun(header.AddText(doc.Header()), style.FontName, HeaderSize).Bold()

		last := header
		if page.Ellipsis {
			last = d.AddParagraph().Justification("center")
			styleRun(last.AddText(EllipsisText), style.FontName, EllipsisSize)
		} else {
			// Word has no space-after here, so each line carries the
			// previous line's after-spacing in its own before-spacing.
			before := style.SpaceBefore
			for _, line := range page.Lines {
				last = d.AddParagraph()
				setSpacing(last, before, style.LineSpacing)
				styleRun(last.AddText(PreserveIndent(line)), style.FontName, style.FontSize)
				before = style.SpaceAfter + style.SpaceBefore
			}
		}

		if i < len(doc.Pages)-1 {
			last.AddPageBreaks()
		}
	}
	d.Document.Body.Items = append(d.Document.Body.Items, pageSection())

	if _, err := d.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// Twips per point.
const twips = 20

// pageSection is the A4 section with the same margins the PDF uses. The
// top margin leaves room for the page number and header paragraphs so
// body lines start where Capacity expects them.
func pageSection() *docx.SectPr {
	top := MarginTop - 2*HeaderSize*1.2
	return &docx.SectPr{
		PgSz: &docx.PgSz{
			W: int(math.Round(PageWidth * twips)),
			H: int(math.Round(PageHeight * twips)),
		},
		PgMar: &docx.PgMar{
			Top:    int(math.Round(top * twips)),
			Left:   int(math.Round((MarginLeft + Gutter) * twips)),
			Bottom: int(math.Round(MarginBottom * twips)),
			Right:  int(math.Round(MarginRight * twips)),
		},
	}
}

func styleRun(run *docx.Run, font string, size float64) *docx.Run {
	return run.Size(HalfPoints(size)).Font(font, font, font, "eastAsia")
}

// setSpacing applies paragraph spacing. Word measures before in
// twentieths of a point and auto line spacing in 240ths of a line.
func setSpacing(p *docx.Paragraph, before, lineSpacing float64) {
	if p.Properties == nil {
		p.Properties = &docx.ParagraphProperties{}
	}
	if lineSpacing <= 0 {
		lineSpacing = 1
	}
	p.Properties.Spacing = &docx.Spacing{
		Before:   int(math.Round(before * twips)),
		Line:     int(math.Round(lineSpacing * 240)),
		LineRule: "auto",
	}
}

// HalfPoints converts a point size to Word's half-point string form.
func HalfPoints(size float64) string {
	return strconv.Itoa(int(math.Round(size * 2)))
}

const nbsp = '\u00a0'

// PreserveIndent swaps leading spaces for no-break spaces, which Word
// never collapses.
func PreserveIndent(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	n := len(line) - len(trimmed)
	if n == 0 {
		return line
	}
	return strings.Repeat(string(nbsp), n) + trimmed
}

// RestoreIndent undoes PreserveIndent.
func RestoreIndent(line string) string {
	trimmed := strings.TrimLeft(line, string(nbsp))
	n := len([]rune(line)) - len([]rune(trimmed))
	if n == 0 {
		return line
	}
	return strings.Repeat(" ", n) + trimmed
}
