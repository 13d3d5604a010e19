// Package source provides an immutable, line-indexed view of a source buffer.
// All offsets are byte offsets into the original content.
package source

import (
	"sort"
	"strings"
)

// Document is an immutable snapshot of a source buffer for one analysis pass.
type Document struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full buffer bytes.
	Content []byte

	// Lines contains metadata for each line in the buffer.
	Lines []LineInfo
}

// LineInfo holds metadata for a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of content).
	EndOffset int
}

// New creates a Document from content and builds its line index.
func New(path string, content []byte) *Document {
	return &Document{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// FromString creates an in-memory Document.
func FromString(text string) *Document {
	return New("", []byte(text))
}

// BuildLines constructs line metadata from content.
// It handles both LF (\n) and CRLF (\r\n) line endings. Content ending in a
// newline yields a final empty line, so empty content still has one line.
func BuildLines(content []byte) []LineInfo {
	lines := make([]LineInfo, 0, 16)
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// Len returns the content length in bytes.
func (d *Document) Len() int {
	return len(d.Content)
}

// LineText returns the text of the 0-based line, excluding the newline.
// Returns "" if the index is out of range.
func (d *Document) LineText(idx int) string {
	if idx < 0 || idx >= len(d.Lines) {
		return ""
	}
	info := d.Lines[idx]
	return string(d.Content[info.StartOffset:info.NewlineStart])
}

// IsBlank reports whether the 0-based line is empty or whitespace only.
func (d *Document) IsBlank(idx int) bool {
	return strings.TrimSpace(d.LineText(idx)) == ""
}

// Indentation returns the leading whitespace of the 0-based line.
func (d *Document) Indentation(idx int) string {
	text := d.LineText(idx)
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}

// LineIndex returns the 0-based line containing offset.
// Offsets past the end map to the last line; negative offsets map to 0.
func (d *Document) LineIndex(offset int) int {
	if offset <= 0 || len(d.Lines) == 0 {
		return 0
	}
	idx := sort.Search(len(d.Lines), func(i int) bool {
		return d.Lines[i].EndOffset > offset
	})
	if idx >= len(d.Lines) {
		idx = len(d.Lines) - 1
	}
	return idx
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (d *Document) LineAt(offset int) (int, int) {
	if offset < 0 || offset > len(d.Content) {
		return 0, 0
	}
	idx := d.LineIndex(offset)
	return idx + 1, offset - d.Lines[idx].StartOffset + 1
}

// Position returns the 1-based Position of offset.
func (d *Document) Position(offset int) Position {
	line, col := d.LineAt(offset)
	return Position{Line: line, Column: col}
}

// Offset converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (d *Document) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(d.Lines) || col < 1 {
		return 0, false
	}

	info := d.Lines[line-1]
	offset := info.StartOffset + col - 1

	// Allow column to point to end of line (for cursor positioning).
	if offset > info.NewlineStart {
		return 0, false
	}

	return offset, true
}

// Newline returns the line terminator used by the document: "\r\n" when
// its first line ends with CRLF, "\n" otherwise.
func (d *Document) Newline() string {
	if len(d.Lines) > 1 && d.Lines[0].EndOffset-d.Lines[0].NewlineStart == 2 {
		return "\r\n"
	}
	return "\n"
}
