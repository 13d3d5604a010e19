package logstmt

import (
	"regexp"
	"slices"

	"github.com/yaklabco/conlog/pkg/scan"
	"github.com/yaklabco/conlog/pkg/source"
)

// Match is one console call found in a document.
type Match struct {
	// Start is the offset of "console".
	Start int

	// End is the offset just past the closing paren, or past the ';'
	// that directly follows it.
	End int

	// Method is the console method name, for example "log".
	Method string

	// StartLine and EndLine are the 0-based lines holding Start and End-1.
	StartLine int
	EndLine   int

	// Anchored is true when the call is alone on its lines.
	Anchored bool
}

// Matcher finds console calls whose method is in its set.
type Matcher struct {
	all     bool
	methods map[string]struct{}
}

// NewMatcher creates a Matcher. With all set, every console method matches.
func NewMatcher(methods []string, all bool) *Matcher {
	set := make(map[string]struct{}, len(methods))
	for _, method := range methods {
		set[method] = struct{}{}
	}
	return &Matcher{all: all, methods: set}
}

// Methods returns the sorted method set; nil when all methods match.
func (m *Matcher) Methods() []string {
	if m.all {
		return nil
	}
	out := make([]string, 0, len(m.methods))
	for method := range m.methods {
		out = append(out, method)
	}
	slices.Sort(out)
	return out
}

// Accepts reports whether method is matched.
func (m *Matcher) Accepts(method string) bool {
	if m.all {
		return true
	}
	_, ok := m.methods[method]
	return ok
}

// Find returns every matching call in doc in source order. Calls inside
// strings or comments, and calls whose parentheses never close, are ignored.
func (m *Matcher) Find(doc *source.Document, mask scan.Mask) []Match {
	src := doc.Content
	var matches []Match

	for idx := 0; idx < len(src); {
		call, ok := callAt(src, mask, idx)
		if !ok {
			idx++
			continue
		}
		if !m.Accepts(call.Method) {
			idx += len(consoleWord)
			continue
		}

		call.StartLine = doc.LineIndex(call.Start)
		call.EndLine = doc.LineIndex(call.End - 1)
		call.Anchored = anchored(doc, call)
		matches = append(matches, call)
		idx = call.End
	}

	return matches
}

const consoleWord = "console"

//nolint:gochecknoglobals // compiled once
var logLinePattern = regexp.MustCompile(`^console\s*\.\s*[A-Za-z_$][\w$]*\s*\(`)

// IsLogLine reports whether a line's code (comments stripped, trimmed)
// starts with a console call of any method.
func IsLogLine(code string) bool {
	return logLinePattern.MatchString(code)
}

// callAt parses "console . method (...) ;" starting at idx.
func callAt(src []byte, mask scan.Mask, idx int) (Match, bool) {
	if !mask.IsCode(idx) || !hasPrefixAt(src, idx, consoleWord) {
		return Match{}, false
	}
	if idx > 0 && (isIdentByte(src[idx-1]) || src[idx-1] == '.') {
		return Match{}, false
	}

	pos := skipSpace(src, idx+len(consoleWord))
	if pos >= len(src) || src[pos] != '.' || !mask.IsCode(pos) {
		return Match{}, false
	}

	pos = skipSpace(src, pos+1)
	nameStart := pos
	for pos < len(src) && isIdentByte(src[pos]) {
		pos++
	}
	if pos == nameStart {
		return Match{}, false
	}
	method := string(src[nameStart:pos])

	pos = skipSpace(src, pos)
	if pos >= len(src) || src[pos] != '(' || !mask.IsCode(pos) {
		return Match{}, false
	}

	closing, ok := closingParen(src, mask, pos)
	if !ok {
		return Match{}, false
	}

	end := closing + 1
	if next := skipBlank(src, end); next < len(src) && src[next] == ';' && mask.IsCode(next) {
		end = next + 1
	}

	return Match{Start: idx, End: end, Method: method}, true
}

func closingParen(src []byte, mask scan.Mask, open int) (int, bool) {
	depth := 0
	for idx := open; idx < len(src); idx++ {
		if !mask.IsCode(idx) {
			continue
		}
		switch src[idx] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return idx, true
			}
		}
	}
	return 0, false
}

// anchored reports whether only whitespace surrounds the call on its lines.
func anchored(doc *source.Document, call Match) bool {
	first := doc.Lines[call.StartLine]
	for idx := first.StartOffset; idx < call.Start; idx++ {
		if !isBlankByte(doc.Content[idx]) {
			return false
		}
	}

	last := doc.Lines[call.EndLine]
	for idx := call.End; idx < last.NewlineStart; idx++ {
		if !isBlankByte(doc.Content[idx]) {
			return false
		}
	}
	return true
}

func hasPrefixAt(src []byte, idx int, word string) bool {
	return len(src)-idx >= len(word) && string(src[idx:idx+len(word)]) == word
}

// skipSpace skips all whitespace including newlines.
func skipSpace(src []byte, pos int) int {
	for pos < len(src) && (isBlankByte(src[pos]) || src[pos] == '\n' || src[pos] == '\r') {
		pos++
	}
	return pos
}

// skipBlank skips spaces and tabs only.
func skipBlank(src []byte, pos int) int {
	for pos < len(src) && isBlankByte(src[pos]) {
		pos++
	}
	return pos
}

func isBlankByte(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}
