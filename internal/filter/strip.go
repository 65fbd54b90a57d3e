package filter

import "strings"

// State is the comment-stripping state carried from one line to the next.
type State int

const (
	Normal State = iota
	InBlock
	InString
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case InBlock:
		return "in-block"
	case InString:
		return "in-string"
	}
	return "unknown"
}

// Stripper removes comments line by line. Comments are recognized at the
// start of a line (after indentation) or right after a block closer;
// markers in the middle of code are left alone so string literals and
// operators survive. A quote-style pair (one whose opener and closer are
// the same, like Python's triple quotes) left open after code starts a
// multi-line string, and markers are ignored until it closes.
type Stripper struct {
	markers Markers
	state   State
	closer  string
}

func NewStripper(m Markers) *Stripper {
	return &Stripper{markers: m}
}

// State returns the state the next line will start in.
func (s *Stripper) State() State {
	return s.state
}

// Reset returns the stripper to Normal, e.g. at a file boundary.
func (s *Stripper) Reset() {
	s.state = Normal
	s.closer = ""
}

// Strip returns line with its comment text removed. The result is never
// longer than line, and is line itself when no comment was found.
func (s *Stripper) Strip(line string) string {
	if s.state == InString {
		i := strings.Index(line, s.closer)
		if i < 0 {
			return line
		}
		rest := line[i+len(s.closer):]
		s.state, s.closer = Normal, ""
		s.scanStrings(rest)
		return line
	}

	indent := ""
	if s.state == Normal {
		indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	}

	rest := line
	stripped := false
	for {
		if s.state == InBlock {
			i := strings.Index(rest, s.closer)
			if i < 0 {
				return ""
			}
			rest = rest[i+len(s.closer):]
			s.state, s.closer = Normal, ""
			stripped = true
			continue
		}

		trimmed := strings.TrimLeft(rest, " \t")
		if pair, ok := s.blockOpener(trimmed); ok {
			rest = trimmed[len(pair.Open):]
			s.state, s.closer = InBlock, pair.Close
			stripped = true
			continue
		}
		if s.isLineComment(trimmed) {
			return ""
		}
		if !stripped {
			s.scanStrings(trimmed)
			return line
		}
		if trimmed == "" {
			return ""
		}
		s.scanStrings(trimmed)
		return indent + trimmed
	}
}

// scanStrings follows quote-style pairs through a line of code and enters
// InString when one is left open.
func (s *Stripper) scanStrings(code string) {
	for {
		tok, i := s.nextQuote(code)
		if i < 0 {
			return
		}
		code = code[i+len(tok):]
		j := strings.Index(code, tok)
		if j < 0 {
			s.state, s.closer = InString, tok
			return
		}
		code = code[j+len(tok):]
	}
}

// nextQuote returns the earliest quote-style opener in code and its index,
// or -1 when there is none.
func (s *Stripper) nextQuote(code string) (string, int) {
	tok, at := "", -1
	for _, pair := range s.markers.Block {
		if pair.Open != pair.Close {
			continue
		}
		i := strings.Index(code, pair.Open)
		if i < 0 {
			continue
		}
		if at < 0 || i < at || (i == at && len(pair.Open) > len(tok)) {
			tok, at = pair.Open, i
		}
	}
	return tok, at
}

func (s *Stripper) blockOpener(text string) (BlockPair, bool) {
	for _, pair := range s.markers.Block {
		if strings.HasPrefix(text, pair.Open) {
			return pair, true
		}
	}
	return BlockPair{}, false
}

func (s *Stripper) isLineComment(text string) bool {
	for _, tok := range s.markers.Line {
		if strings.HasPrefix(text, tok) {
			return true
		}
	}
	return false
}
