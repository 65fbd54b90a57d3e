// Package source loads source files and decodes them to UTF-8 text.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBinary is returned for files that look like binary data.
var ErrBinary = errors.New("binary content")

// File is a decoded source file.
type File struct {
	Path     string // Absolute path
	RelPath  string // Path relative to the listing base, or Path when there is none
	Ext      string // Lower-case extension without the dot
	Encoding string // Detected encoding name
	Text     string // Decoded UTF-8 content
}

// Load reads and decodes the file at path. base, when non-empty, is used to
// compute RelPath.
func Load(path, base string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text, enc, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	relPath := path
	if base != "" {
		if r, err := filepath.Rel(base, path); err == nil {
			relPath = r
		}
	}
	return &File{
		Path:     path,
		RelPath:  filepath.ToSlash(relPath),
		Ext:      strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Encoding: enc,
		Text:     text,
	}, nil
}

// Lines splits the text into lines. CRLF and lone CR endings are accepted;
// a trailing newline does not produce an empty final line.
func (f *File) Lines() ([]string, error) {
	text := strings.ReplaceAll(f.Text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("split %s: %w", f.Path, err)
	}
	return lines, nil
}
