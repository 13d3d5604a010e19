// Package scan implements a single-pass lexical scanner for JavaScript-like
// source text. It tracks string and comment state so that callers can tell
// structural characters apart from characters inside literals.
//
// The scanner is best-effort: unterminated strings or comments at end of
// input are not errors, scanning simply ends in that state.
package scan

// Context describes what kind of text a byte belongs to.
type Context uint8

const (
	// Code is ordinary program text.
	Code Context = iota

	// SingleQuote is inside a '...' string, delimiters included.
	SingleQuote

	// DoubleQuote is inside a "..." string, delimiters included.
	DoubleQuote

	// Template is inside a `...` template literal, delimiters included.
	Template

	// LineComment is inside a // comment. The terminating newline is Code.
	LineComment

	// BlockComment is inside a /* */ comment, delimiters included.
	BlockComment
)

// String returns a short name for the context.
func (c Context) String() string {
	switch c {
	case Code:
		return "code"
	case SingleQuote:
		return "single-quote"
	case DoubleQuote:
		return "double-quote"
	case Template:
		return "template"
	case LineComment:
		return "line-comment"
	case BlockComment:
		return "block-comment"
	default:
		return "unknown"
	}
}

// IsString reports whether c is one of the string literal contexts.
func (c Context) IsString() bool {
	return c == SingleQuote || c == DoubleQuote || c == Template
}

// IsComment reports whether c is one of the comment contexts.
func (c Context) IsComment() bool {
	return c == LineComment || c == BlockComment
}

// State is the mutable scanner state threaded through a scan.
// At most one of the string or comment flags is set at any time.
type State struct {
	InSingleQuote  bool
	InDoubleQuote  bool
	InTemplate     bool
	InLineComment  bool
	InBlockComment bool

	// Escaped is set after a backslash inside a string and cleared by the next byte.
	Escaped bool
}

// Context returns the context the state is currently in.
func (s State) Context() Context {
	switch {
	case s.InSingleQuote:
		return SingleQuote
	case s.InDoubleQuote:
		return DoubleQuote
	case s.InTemplate:
		return Template
	case s.InLineComment:
		return LineComment
	case s.InBlockComment:
		return BlockComment
	default:
		return Code
	}
}

// Scanner walks source bytes and reports the context of each one.
type Scanner struct {
	src   []byte
	pos   int
	state State

	// pending marks the second byte of a two-byte comment delimiter.
	pending    bool
	pendingCtx Context
}

// New creates a Scanner positioned at the start of src.
func New(src []byte) *Scanner {
	return &Scanner{src: src}
}

// Offset returns the offset of the next byte to be scanned.
func (s *Scanner) Offset() int {
	return s.pos
}

// Next scans one byte and returns its offset, value and context.
// ok is false at end of input.
func (s *Scanner) Next() (offset int, ch byte, ctx Context, ok bool) {
	if s.pos >= len(s.src) {
		return s.pos, 0, s.state.Context(), false
	}

	offset = s.pos
	ch = s.src[offset]
	s.pos++

	if s.pending {
		s.pending = false
		return offset, ch, s.pendingCtx, true
	}

	return offset, ch, s.step(ch), true
}

// step advances the state machine over ch and returns the context of ch.
func (s *Scanner) step(ch byte) Context {
	st := &s.state

	switch {
	case st.InLineComment:
		if ch == '\n' {
			st.InLineComment = false
			return Code
		}
		return LineComment

	case st.InBlockComment:
		if ch == '*' && s.peek() == '/' {
			st.InBlockComment = false
			s.pending, s.pendingCtx = true, BlockComment
		}
		return BlockComment

	case st.InSingleQuote, st.InDoubleQuote, st.InTemplate:
		ctx := st.Context()
		switch {
		case st.Escaped:
			st.Escaped = false
		case ch == '\\':
			st.Escaped = true
		case ch == '\n' && !st.InTemplate:
			// Raw newlines cannot appear in quoted strings; recover at line end.
			st.InSingleQuote, st.InDoubleQuote = false, false
			return Code
		case ch == quoteOf(ctx):
			st.InSingleQuote, st.InDoubleQuote, st.InTemplate = false, false, false
		}
		return ctx

	default:
		switch ch {
		case '\'':
			st.InSingleQuote = true
			return SingleQuote
		case '"':
			st.InDoubleQuote = true
			return DoubleQuote
		case '`':
			st.InTemplate = true
			return Template
		case '/':
			switch s.peek() {
			case '/':
				st.InLineComment = true
				s.pending, s.pendingCtx = true, LineComment
				return LineComment
			case '*':
				st.InBlockComment = true
				s.pending, s.pendingCtx = true, BlockComment
				return BlockComment
			}
		}
		return Code
	}
}

func (s *Scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func quoteOf(ctx Context) byte {
	switch ctx {
	case SingleQuote:
		return '\''
	case DoubleQuote:
		return '"'
	case Template:
		return '`'
	default:
		return 0
	}
}

// Walk scans src up to limit (exclusive, clamped to len(src)) and calls fn
// for every byte. Scanning stops early when fn returns false.
func Walk(src []byte, limit int, fn func(offset int, ch byte, ctx Context) bool) {
	limit = min(limit, len(src))
	sc := New(src)
	for sc.Offset() < limit {
		offset, ch, ctx, ok := sc.Next()
		if !ok || !fn(offset, ch, ctx) {
			return
		}
	}
}
