// Package document models a paginated source listing and renders it to
// DOCX or PDF.
package document

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Renderer serializes a Document.
type Renderer interface {
	Render(doc *Document, w io.Writer) error
}

// ForFormat returns the renderer for a format name.
func ForFormat(format string, log *slog.Logger) (Renderer, error) {
	switch strings.ToLower(format) {
	case "docx":
		return &DOCXRenderer{}, nil
	case "pdf":
		return &PDFRenderer{Log: log}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ForFile returns the renderer implied by a filename's extension.
func ForFile(filename string, log *slog.Logger) (Renderer, error) {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."), log)
}

// WriteFile renders doc to path.
func WriteFile(path string, doc *Document, r Renderer) error {
	return WriteAtomic(path, func(w io.Writer) error {
		if err := r.Render(doc, w); err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
		return nil
	})
}

// WriteAtomic writes path through write. The file is written next to its
// destination and renamed into place, so a failed write never leaves a
// truncated document behind.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".swcr-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
