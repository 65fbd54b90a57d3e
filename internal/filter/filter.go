package filter

import "strings"

// Blank-line policies.
const (
	BlankDrop     = "drop"
	BlankCollapse = "collapse"
	BlankKeep     = "keep"
)

// Options controls how a file's lines are filtered.
type Options struct {
	Markers      Markers
	BlankLines   string // BlankDrop, BlankCollapse or BlankKeep
	KeepComments bool   // keep comment text, but don't count it as effective
	TabWidth     int    // 0 leaves tabs untouched
}

// Line is one output line.
type Line struct {
	Text      string
	Effective bool // non-blank and not only comment
}

// Apply filters the lines of one file.
func Apply(lines []string, opts Options) []Line {
	s := NewStripper(opts.Markers)
	out := make([]Line, 0, len(lines))
	for _, raw := range lines {
		code := s.Strip(raw)
		effective := strings.TrimSpace(code) != ""

		text := code
		if opts.KeepComments {
			text = raw
		} else if !effective && strings.TrimSpace(raw) != "" {
			// Comment-only line.
			continue
		}

		out = append(out, Line{
			Text:      ExpandTabs(strings.TrimRight(text, " \t"), opts.TabWidth),
			Effective: effective,
		})
	}

	switch opts.BlankLines {
	case BlankKeep:
		return out
	case BlankCollapse:
		return CollapseBlank(out)
	default:
		return DropBlank(out)
	}
}

// DropBlank removes every blank line.
func DropBlank(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if !isBlank(l) {
			out = append(out, l)
		}
	}
	return out
}

// CollapseBlank replaces each run of blank lines with a single empty line.
// Applying it twice gives the same result as applying it once.
func CollapseBlank(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	prevBlank := false
	for _, l := range lines {
		blank := isBlank(l)
		if blank && prevBlank {
			continue
		}
		if blank {
			l = Line{}
		}
		out = append(out, l)
		prevBlank = blank
	}
	return out
}

func isBlank(l Line) bool {
	return strings.TrimSpace(l.Text) == ""
}

// ExpandTabs replaces tabs with spaces up to the next multiple of width.
func ExpandTabs(s string, width int) string {
	if width <= 0 || !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
