// Package manual turns a Markdown user manual into a Word document for
// the filing's documentation part.
package manual

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/swcr/internal/document"
)

// Options controls the manual's typography.
type Options struct {
	Header   string  // Printed above the content; usually title and version
	FontName string  // East Asian font used for all runs
	FontSize float64 // Body size in points
	CodeFont string  // Font for code blocks
}

// DefaultOptions returns the usual manual style.
func DefaultOptions() Options {
	return Options{
		FontName: "SimHei",
		FontSize: 10.5,
		CodeFont: "Courier New",
	}
}

// headingSize maps a heading level to its point size.
func headingSize(level int, body float64) float64 {
	switch level {
	case 1:
		return 18
	case 2:
		return 16
	case 3:
		return 14
	default:
		return body + 1
	}
}

// Convert builds the document for Markdown src.
func Convert(src []byte, opts Options) *docx.Docx {
	if opts.FontName == "" {
		opts.FontName = DefaultOptions().FontName
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultOptions().FontSize
	}
	if opts.CodeFont == "" {
		opts.CodeFont = DefaultOptions().CodeFont
	}

	w := &writer{d: docx.New().WithDefaultTheme().WithA4Page(), src: src, opts: opts}
	if opts.Header != "" {
		p := w.d.AddParagraph().Justification("left")
		w.run(p, opts.Header, opts.FontName, document.HeaderSize).Bold()
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n, 0)
	}
	return w.d
}

// Write converts Markdown src and writes the DOCX to out.
func Write(src []byte, out io.Writer, opts Options) error {
	if _, err := Convert(src, opts).WriteTo(out); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// ConvertFile converts the Markdown file at in to a DOCX at out.
func ConvertFile(in, out string, opts Options, log *slog.Logger) error {
	src, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read manual: %w", err)
	}
	log.Info("converting manual", "in", in, "out", out, "bytes", len(src))
	return document.WriteAtomic(out, func(w io.Writer) error {
		return Write(src, w, opts)
	})
}

type writer struct {
	d    *docx.Docx
	src  []byte
	opts Options
}

func (w *writer) run(p *docx.Paragraph, s, font string, size float64) *docx.Run {
	return p.AddText(s).Size(document.HalfPoints(size)).Font(font, font, font, "eastAsia")
}

func (w *writer) para(s string) {
	p := w.d.AddParagraph()
	if s != "" {
		w.run(p, s, w.opts.FontName, w.opts.FontSize)
	}
}

func (w *writer) block(n ast.Node, depth int) {
	switch node := n.(type) {
	case *ast.Heading:
		p := w.d.AddParagraph()
		if node.Level == 1 {
			p.Justification("center")
		}
		w.run(p, inlineText(node, w.src), w.opts.FontName, headingSize(node.Level, w.opts.FontSize)).Bold()

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line := strings.TrimRight(string(seg.Value(w.src)), "\r\n")
			p := w.d.AddParagraph()
			w.run(p, document.PreserveIndent(line), w.opts.CodeFont, w.opts.FontSize)
		}
		w.para("")

	case *ast.List:
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			w.listItem(item, depth)
		}

	case *ast.ThematicBreak:
		w.para("")

	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			w.block(c, depth)
		}

	case *ast.HTMLBlock:
		// Raw HTML has no Word equivalent.

	default:
		if t := inlineText(n, w.src); t != "" {
			w.para(t)
		}
	}
}

func (w *writer) listItem(item ast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.List); ok {
			w.block(c, depth+1)
			continue
		}
		t := inlineText(c, w.src)
		if t == "" {
			continue
		}
		if first {
			w.para(document.PreserveIndent(indent + "- " + t))
			first = false
		} else {
			w.para(document.PreserveIndent(indent + "  " + t))
		}
	}
}

// inlineText flattens the inline content of a block. Line breaks become
// spaces.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *ast.Text:
				buf.Write(v.Segment.Value(src))
				if v.SoftLineBreak() || v.HardLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(v.Value)
			case *ast.AutoLink:
				buf.Write(v.Label(src))
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}
