// Package filter strips comments and blank lines from source text.
package filter

import (
	"sort"
	"strings"
)

// BlockPair delimits a block comment.
type BlockPair struct {
	Open  string
	Close string
}

// Markers is the set of comment tokens recognized in a file.
type Markers struct {
	Line  []string
	Block []BlockPair
}

// knownPairs maps block-comment openers to their closers.
var knownPairs = map[string]string{
	"/*":     "*/",
	"<!--":   "-->",
	`"""`:    `"""`,
	"'''":    "'''",
	"--[[":   "]]",
	"=begin": "=end",
	"{-":     "-}",
	"(*":     "*)",
	"<#":     "#>",
}

// ParseMarkers classifies comment tokens. A token whose closer from the
// known pairs is also listed (or is the token itself) becomes a block
// opener; "open|close" declares a custom pair; everything else is a line
// marker. Closers that belong to a recognized pair are not line markers.
func ParseMarkers(tokens []string) Markers {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}

	var m Markers
	closers := make(map[string]bool)
	for _, tok := range tokens {
		if open, closer, ok := strings.Cut(tok, "|"); ok && open != "" && closer != "" {
			m.Block = append(m.Block, BlockPair{Open: open, Close: closer})
			continue
		}
		if closer, ok := knownPairs[tok]; ok && set[closer] {
			m.Block = append(m.Block, BlockPair{Open: tok, Close: closer})
			closers[closer] = true
		}
	}
	for _, tok := range tokens {
		if tok == "" || closers[tok] || strings.Contains(tok, "|") {
			continue
		}
		if closer, ok := knownPairs[tok]; ok && set[closer] {
			continue
		}
		m.Line = append(m.Line, tok)
	}
	m.sort()
	return m
}

// sort orders tokens longest first so "--[[" wins over "--".
func (m *Markers) sort() {
	sort.SliceStable(m.Block, func(i, j int) bool { return len(m.Block[i].Open) > len(m.Block[j].Open) })
	sort.SliceStable(m.Line, func(i, j int) bool { return len(m.Line[i]) > len(m.Line[j]) })
}

var (
	cFamily = ParseMarkers([]string{"//", "/*", "*/"})
	hash    = ParseMarkers([]string{"#"})
	python  = ParseMarkers([]string{"#", `"""`, "'''"})
	ruby    = ParseMarkers([]string{"#", "=begin", "=end"})
	shell   = ParseMarkers([]string{"#", "<#", "#>"})
	php     = ParseMarkers([]string{"//", "#", "/*", "*/"})
	markup  = ParseMarkers([]string{"<!--", "-->"})
	vue     = ParseMarkers([]string{"<!--", "-->", "//", "/*", "*/"})
	sql     = ParseMarkers([]string{"--", "/*", "*/"})
	lua     = ParseMarkers([]string{"--", "--[[", "]]"})
	haskell = ParseMarkers([]string{"--", "{-", "-}"})
	pascal  = ParseMarkers([]string{"//", "(*", "*)"})
)

var byExt = map[string]Markers{
	"c": cFamily, "h": cFamily, "cc": cFamily, "cpp": cFamily, "cxx": cFamily,
	"hpp": cFamily, "hh": cFamily, "m": cFamily, "mm": cFamily,
	"java": cFamily, "kt": cFamily, "kts": cFamily, "scala": cFamily, "groovy": cFamily,
	"js": cFamily, "jsx": cFamily, "ts": cFamily, "tsx": cFamily, "mjs": cFamily,
	"go": cFamily, "rs": cFamily, "cs": cFamily, "swift": cFamily, "dart": cFamily,
	"css": cFamily, "scss": cFamily, "less": cFamily, "proto": cFamily,
	"py": python, "pyw": python,
	"rb": ruby,
	"sh": hash, "bash": hash, "zsh": hash, "pl": hash, "r": hash,
	"yaml": hash, "yml": hash, "toml": hash, "cmake": hash, "mk": hash,
	"ps1": shell,
	"php": php,
	"html": markup, "htm": markup, "xml": markup, "svg": markup,
	"vue": vue,
	"sql": sql,
	"lua": lua,
	"hs": haskell,
	"pas": pascal,
}

// DefaultMarkers returns the comment tokens for a file extension (without
// the dot). Unknown extensions get C-style and hash comments.
func DefaultMarkers(ext string) Markers {
	if m, ok := byExt[strings.ToLower(ext)]; ok {
		return m
	}
	return ParseMarkers([]string{"//", "#", "/*", "*/"})
}
