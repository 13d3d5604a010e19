// Package insert computes the edits that add console logging statements:
// one after the statement holding a selection, or one before every
// statement of a scope.
package insert

import (
	"github.com/yaklabco/conlog/pkg/logstmt"
	"github.com/yaklabco/conlog/pkg/scan"
	"github.com/yaklabco/conlog/pkg/source"
	"github.com/yaklabco/conlog/pkg/stmt"
)

// analysis is the per-call view of a document shared by both passes.
type analysis struct {
	doc   *source.Document
	mask  scan.Mask
	lines []stmt.Line

	// blocks holds the kind of the innermost block enclosing each line start.
	blocks []stmt.BlockKind
}

func analyze(doc *source.Document) *analysis {
	mask := scan.Classify(doc.Content)
	lines := stmt.Lines(doc, mask)
	return &analysis{
		doc:    doc,
		mask:   mask,
		lines:  lines,
		blocks: blockKinds(doc, mask, lines),
	}
}

func blockKinds(doc *source.Document, mask scan.Mask, lines []stmt.Line) []stmt.BlockKind {
	src := doc.Content
	kinds := make([]stmt.BlockKind, len(doc.Lines))
	var stack []stmt.BlockKind

	current := func() stmt.BlockKind {
		if len(stack) == 0 {
			return stmt.CodeBlock
		}
		return stack[len(stack)-1]
	}

	for idx, info := range doc.Lines {
		kinds[idx] = current()

		segment := info.StartOffset
		for offset := info.StartOffset; offset < info.NewlineStart; offset++ {
			if !mask.IsStructural(src, offset) {
				continue
			}
			if src[offset] == '}' {
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				segment = offset + 1
				continue
			}

			header := mask.CodeText(src, segment, offset)
			if header == "" && segment == info.StartOffset {
				// Brace on its own line: the header is the line above.
				if prev := previousCode(lines, idx); prev >= 0 {
					header = lines[prev].Code
				}
			}
			stack = append(stack, stmt.HeaderKind(header, current()))
			segment = offset + 1
		}
	}

	return kinds
}

func previousCode(lines []stmt.Line, idx int) int {
	for prev := idx - 1; prev >= 0; prev-- {
		if lines[prev].Code != "" {
			return prev
		}
	}
	return -1
}

// prevNonBlank returns the nearest line above idx that is not blank.
func (a *analysis) prevNonBlank(idx int) int {
	for prev := idx - 1; prev >= 0; prev-- {
		if !a.lines[prev].IsBlank() {
			return prev
		}
	}
	return -1
}

// nextNonBlank returns the nearest line below idx that is not blank.
func (a *analysis) nextNonBlank(idx int) int {
	for next := idx + 1; next < len(a.lines); next++ {
		if !a.lines[next].IsBlank() {
			return next
		}
	}
	return -1
}

// isLogLine reports whether line idx starts with a console call.
func (a *analysis) isLogLine(idx int) bool {
	if idx < 0 || idx >= len(a.lines) {
		return false
	}
	line := a.lines[idx]
	return line.StartCtx == scan.Code && logstmt.IsLogLine(line.Code)
}
