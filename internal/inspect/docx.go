package inspect

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/swcr/internal/document"
)

// DOCXReader counts pages by explicit page breaks.
type DOCXReader struct{}

func (r *DOCXReader) Read(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	sum := &Summary{Format: "docx", Pages: 1}
	var page []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text, breaks := paragraphText(para)
		page = append(page, document.RestoreIndent(text))
		for range breaks {
			sum.Text = append(sum.Text, page)
			page = nil
			sum.Pages++
		}
	}
	sum.Text = append(sum.Text, page)
	return sum, nil
}

// paragraphText returns the paragraph's text and its number of page breaks.
func paragraphText(para *docx.Paragraph) (string, int) {
	var buf strings.Builder
	breaks := 0
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch v := rc.(type) {
			case *docx.Text:
				buf.WriteString(v.Text)
			case *docx.BarterRabbet:
				if v.Type == "page" {
					breaks++
				}
			}
		}
	}
	return buf.String(), breaks
}
