package manual

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/swcr/internal/inspect"
)

const guide = "# User Guide\n\nIntro line one\ncontinues *here*.\n\n## Install\n\n- first\n- second\n  - nested\n\n```sh\ngo build\n  go test\n```\n\n---\n\nDone with `swcr`.\n"

func convert(t *testing.T, md string, opts Options) []string {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "manual.md")
	out := filepath.Join(dir, "manual.docx")
	if err := os.WriteFile(in, []byte(md), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ConvertFile(in, out, opts, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum, err := inspect.File(out)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if sum.Pages != 1 {
		t.Errorf("expected 1 page, got %d", sum.Pages)
	}
	var text []string
	for _, page := range sum.Text {
		for _, line := range page {
			if line != "" {
				text = append(text, line)
			}
		}
	}
	return text
}

func TestConvertFile(t *testing.T) {
	opts := DefaultOptions()
	opts.Header = "Inventory V1.0"
	got := convert(t, guide, opts)

	want := []string{
		"Inventory V1.0",
		"User Guide",
		"Intro line one continues here.",
		"Install",
		"- first",
		"- second",
		"  - nested",
		"go build",
		"  go test",
		"Done with swcr.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertFile_NoHeader(t *testing.T) {
	got := convert(t, "plain text\n", Options{})
	if diff := cmp.Diff([]string{"plain text"}, got); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertFile_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := ConvertFile(filepath.Join(dir, "none.md"), filepath.Join(dir, "out.docx"), DefaultOptions(), slog.New(slog.DiscardHandler))
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out.docx")); statErr == nil {
		t.Error("expected no output file")
	}
}

func TestHeadingSize(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 18}, {2, 16}, {3, 14}, {4, 11.5}, {6, 11.5},
	}
	for _, tt := range tests {
		if got := headingSize(tt.level, 10.5); got != tt.want {
			t.Errorf("headingSize(%d): expected %v, got %v", tt.level, tt.want, got)
		}
	}
}

func TestConvert_HeaderLeftAligned(t *testing.T) {
	opts := DefaultOptions()
	opts.Header = "Inventory V1.0"
	d := Convert([]byte(guide), opts)

	for _, item := range d.Document.Body.Items {
		p, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if p.Properties == nil || p.Properties.Justification == nil {
			t.Fatal("expected header paragraph to carry an alignment")
		}
		if got := p.Properties.Justification.Val; got != "left" {
			t.Errorf("expected header aligned left, got %q", got)
		}
		return
	}
	t.Fatal("expected a header paragraph")
}
