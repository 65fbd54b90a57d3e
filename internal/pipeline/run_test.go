package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/swcr/internal/config"
	"github.com/dgallion1/swcr/internal/inspect"
)

var discard = slog.New(slog.DiscardHandler)

const cSource = "/* header\n * comment */\n#include <stdio.h>\n\n// note\nint main(void)\n{\n\treturn 0;\n}\n"
const pySource = "# comment\ndef f():\n    return 1\n"

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testConfig(t *testing.T, in, outName string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Title = "Demo"
	cfg.InDirs = []string{in}
	cfg.Outfile = filepath.Join(t.TempDir(), outName)
	return cfg
}

// body drops the page number and header lines from each DOCX page.
func body(sum *inspect.Summary) []string {
	var out []string
	for _, page := range sum.Text {
		if len(page) > 2 {
			out = append(out, page[2:]...)
		}
	}
	return out
}

func TestRun_DOCXRoundTrip(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.c": cSource, "b.py": pySource, "notes.txt": "ignored"})
	cfg := testConfig(t, dir, "code.docx")
	cfg.LinesPerPage = 3
	cfg.Verify = true

	report, err := Run(context.Background(), cfg, discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != StatusCompleted {
		t.Errorf("expected status %q, got %q", StatusCompleted, report.Status)
	}
	if report.FilesFound != 2 || report.FilesIncluded != 2 {
		t.Errorf("expected 2 files found and included, got %d/%d", report.FilesFound, report.FilesIncluded)
	}
	if report.PagesTotal != 3 || report.PagesPrinted != 3 || report.PagesElided != 0 {
		t.Errorf("expected 3/3/0 pages, got %d/%d/%d", report.PagesTotal, report.PagesPrinted, report.PagesElided)
	}
	if !report.Verified {
		t.Error("expected verified output")
	}
	if report.EffectiveLines != 7 {
		t.Errorf("expected 7 effective lines, got %d", report.EffectiveLines)
	}

	sum, err := inspect.File(cfg.Outfile)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	want := []string{
		"#include <stdio.h>",
		"int main(void)",
		"{",
		"    return 0;",
		"}",
		"def f():",
		"    return 1",
	}
	if diff := cmp.Diff(want, body(sum)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_FileHeaders(t *testing.T) {
	dir := writeTree(t, map[string]string{"src/a.c": cSource})
	cfg := testConfig(t, dir, "code.docx")
	cfg.FileHeaders = true

	report, err := Run(context.Background(), cfg, discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Lines != 6 || report.EffectiveLines != 5 {
		t.Errorf("expected 6 lines with 5 effective, got %d/%d", report.Lines, report.EffectiveLines)
	}
	sum, err := inspect.File(cfg.Outfile)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if got := body(sum)[0]; got != "File: src/a.c" {
		t.Errorf("expected file header, got %q", got)
	}
}

func TestRun_PDFWithElision(t *testing.T) {
	var src string
	for i := 0; i < 100; i++ {
		src += "x = 1\n"
	}
	dir := writeTree(t, map[string]string{"main.py": src})
	cfg := testConfig(t, dir, "code.pdf")
	cfg.LinesPerPage = 10
	cfg.MaxFrontPages = 2
	cfg.MaxBackPages = 1
	cfg.Verify = true

	report, err := Run(context.Background(), cfg, discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.PagesTotal != 10 {
		t.Errorf("expected 10 total pages, got %d", report.PagesTotal)
	}
	if report.PagesPrinted != 4 || report.PagesElided != 7 {
		t.Errorf("expected 4 printed and 7 elided, got %d/%d", report.PagesPrinted, report.PagesElided)
	}
	if !report.Verified {
		t.Error("expected verified output")
	}
}

func TestRun_SkipsBadFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.c":      cSource,
		"blob.c":   "ab\x00cd",
		"empty.py": "# nothing here\n\n",
	})
	cfg := testConfig(t, dir, "code.docx")

	report, err := Run(context.Background(), cfg, discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.FilesFound != 3 || report.FilesIncluded != 1 {
		t.Errorf("expected 3 found and 1 included, got %d/%d", report.FilesFound, report.FilesIncluded)
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("expected 2 skipped files, got %d", len(report.Skipped))
	}
	if report.Skipped[0].Path != filepath.Join(dir, "blob.c") {
		t.Errorf("expected blob.c skipped first, got %s", report.Skipped[0].Path)
	}
}

func TestRun_KeepCommentsIncludesCommentOnlyFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.c":      cSource,
		"notes.py": "# only a comment\n# and another\n",
	})
	cfg := testConfig(t, dir, "code.docx")
	cfg.KeepComments = true

	report, err := Run(context.Background(), cfg, discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.FilesIncluded != 2 || len(report.Skipped) != 0 {
		t.Errorf("expected 2 included and none skipped, got %d/%d", report.FilesIncluded, len(report.Skipped))
	}

	cfg.KeepComments = false
	report, err = Run(context.Background(), cfg, discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.FilesIncluded != 1 || len(report.Skipped) != 1 {
		t.Errorf("expected comment-only file skipped, got %d/%d", report.FilesIncluded, len(report.Skipped))
	}
}

func TestRun_CustomCommentChars(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.c": "-- note\nselect 1;\n// kept\n"})
	cfg := testConfig(t, dir, "code.docx")
	cfg.CommentChars = []string{"--"}

	report, err := Run(context.Background(), cfg, discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.EffectiveLines != 2 {
		t.Errorf("expected 2 effective lines, got %d", report.EffectiveLines)
	}
}

func TestRun_UserErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		tweak func(*config.Config)
		want  error
	}{
		{
			name:  "no matching files",
			files: map[string]string{"readme.txt": "hello"},
			want:  ErrNoFiles,
		},
		{
			name:  "only comments",
			files: map[string]string{"a.c": "// one\n/* two */\n"},
			want:  ErrNoContent,
		},
		{
			name:  "font too large",
			files: map[string]string{"a.c": cSource},
			tweak: func(c *config.Config) { c.FontSize = 20 },
			want:  ErrPageTooSmall,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, writeTree(t, tt.files), "code.docx")
			if tt.tweak != nil {
				tt.tweak(&cfg)
			}
			report, err := Run(context.Background(), cfg, discard)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !IsUserError(err) {
				t.Errorf("expected a user error, got %v", err)
			}
			if report.Status != StatusFailed {
				t.Errorf("expected status %q, got %q", StatusFailed, report.Status)
			}
			if _, statErr := os.Stat(cfg.Outfile); statErr == nil {
				t.Error("expected no output file")
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.c": cSource})
	cfg := testConfig(t, dir, "code.docx")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, cfg, discard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if IsUserError(err) {
		t.Error("expected cancellation not to be a user error")
	}
	if report.Phase != "loading" {
		t.Errorf("expected failure in loading phase, got %q", report.Phase)
	}
}
