package inspect

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFReader reads page count and plain text with ledongthuc/pdf.
type PDFReader struct{}

func (r *PDFReader) Read(path string) (*Summary, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	sum := &Summary{Format: "pdf", Pages: reader.NumPage()}
	for i := 1; i <= sum.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			sum.Text = append(sum.Text, nil)
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", i, err)
		}
		sum.Text = append(sum.Text, splitLines(text))
	}
	return sum, nil
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimRight(line, " "); line != "" {
			out = append(out, line)
		}
	}
	return out
}
