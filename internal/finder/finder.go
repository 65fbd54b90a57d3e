// Package finder walks source trees and collects the files that belong in a
// listing.
package finder

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Finder selects source files by extension, skipping hidden entries and
// excluded paths.
type Finder struct {
	exts     []string
	excludes []string
	log      *slog.Logger
}

// New returns a Finder for the given extensions and exclude paths.
// Extensions may be given with or without a leading dot. Excludes are made
// absolute and matched as path prefixes.
func New(exts, excludes []string, log *slog.Logger) (*Finder, error) {
	f := &Finder{log: log}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		f.exts = append(f.exts, "."+ext)
	}
	if len(f.exts) == 0 {
		return nil, fmt.Errorf("no usable file extensions in %v", exts)
	}
	for _, ex := range excludes {
		abs, err := filepath.Abs(ex)
		if err != nil {
			return nil, fmt.Errorf("resolve exclude %s: %w", ex, err)
		}
		f.excludes = append(f.excludes, strings.TrimRight(abs, string(filepath.Separator)))
	}
	return f, nil
}

// IsCode reports whether name carries one of the accepted extensions.
func (f *Finder) IsCode(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range f.exts {
		if strings.HasSuffix(lower, ext) && len(lower) > len(ext) {
			return true
		}
	}
	return false
}

// Excluded reports whether the absolute path falls under an exclude prefix.
func (f *Finder) Excluded(abs string) bool {
	for _, ex := range f.excludes {
		if abs == ex || strings.HasPrefix(abs, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Find returns the absolute paths of all code files under each root, in
// root order and then lexical walk order. A file reachable from more than
// one root is returned once. Symlinks are followed; a link back to a
// directory already being walked is skipped.
func (f *Finder) Find(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}
		found, err := f.find(abs, make(map[string]bool))
		if err != nil {
			return nil, err
		}
		n := 0
		for _, path := range found {
			if seen[path] {
				continue
			}
			seen[path] = true
			files = append(files, path)
			n++
		}
		f.log.Debug("scanned directory", "dir", abs, "files", n)
	}
	return files, nil
}

func (f *Finder) find(dir string, walking map[string]bool) ([]string, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	if walking[resolved] {
		f.log.Debug("skipping symlink loop", "dir", dir)
		return nil, nil
	}
	walking[resolved] = true
	defer delete(walking, resolved)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		if strings.HasPrefix(name, ".") || f.Excluded(path) {
			continue
		}
		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				f.log.Debug("skipping broken symlink", "path", path, "error", err)
				continue
			}
			mode = info.Mode().Type()
		}
		switch {
		case mode.IsDir():
			sub, err := f.find(path, walking)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		case mode.IsRegular():
			if f.IsCode(name) {
				files = append(files, path)
			}
		}
	}
	return files, nil
}
