package stmt

import (
	"strings"

	"github.com/yaklabco/conlog/pkg/scan"
	"github.com/yaklabco/conlog/pkg/source"
)

// Line is the per-line view the classifier works on.
type Line struct {
	// Raw is the line text without its newline.
	Raw string

	// Code is the line with comment bytes removed and whitespace trimmed.
	Code string

	// StartCtx is the scanner context in effect before the first byte.
	StartCtx scan.Context
}

// IsBlank reports whether the line holds only whitespace.
func (l Line) IsBlank() bool {
	return strings.TrimSpace(l.Raw) == ""
}

// IsCommentOnly reports whether the line holds a comment and nothing else.
func (l Line) IsCommentOnly() bool {
	return !l.IsBlank() && l.Code == ""
}

// Lines builds the classifier view of every line in doc.
func Lines(doc *source.Document, mask scan.Mask) []Line {
	lines := make([]Line, len(doc.Lines))
	for idx, info := range doc.Lines {
		start := scan.Code
		if info.StartOffset > 0 {
			start = mask.At(info.StartOffset - 1)
		}
		lines[idx] = Line{
			Raw:      doc.LineText(idx),
			Code:     mask.CodeText(doc.Content, info.StartOffset, info.NewlineStart),
			StartCtx: start,
		}
	}
	return lines
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// startsWithWord reports whether text begins with word followed by a
// non-identifier byte or end of text.
func startsWithWord(text, word string) bool {
	if !strings.HasPrefix(text, word) {
		return false
	}
	return len(text) == len(word) || !isIdentByte(text[len(word)])
}

// endsWithWord reports whether text ends with word preceded by a
// non-identifier byte or start of text.
func endsWithWord(text, word string) bool {
	if !strings.HasSuffix(text, word) {
		return false
	}
	rest := len(text) - len(word)
	return rest == 0 || !isIdentByte(text[rest-1])
}

// containsWord reports whether word occurs in text as a whole identifier.
func containsWord(text, word string) bool {
	for from := 0; from < len(text); {
		idx := strings.Index(text[from:], word)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(word)
		if (start == 0 || !isIdentByte(text[start-1])) && (end == len(text) || !isIdentByte(text[end])) {
			return true
		}
		from = start + 1
	}
	return false
}
