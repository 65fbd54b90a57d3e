// Package inspect reads generated listings back to check their pagination.
package inspect

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Summary describes a rendered document.
type Summary struct {
	Format string     `json:"format"`
	Pages  int        `json:"pages"`
	Text   [][]string `json:"text,omitempty"` // Lines per page
}

// Reader extracts a Summary from a file on disk.
type Reader interface {
	Read(path string) (*Summary, error)
}

// ForFile returns the reader for a filename's extension.
func ForFile(filename string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return &DOCXReader{}, nil
	case ".pdf":
		return &PDFReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// File summarizes the document at path.
func File(path string) (*Summary, error) {
	r, err := ForFile(path)
	if err != nil {
		return nil, err
	}
	return r.Read(path)
}
