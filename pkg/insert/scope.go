package insert

import (
	"github.com/yaklabco/conlog/pkg/block"
	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/logstmt"
	"github.com/yaklabco/conlog/pkg/scan"
	"github.com/yaklabco/conlog/pkg/source"
	"github.com/yaklabco/conlog/pkg/stmt"
)

// ScopeResult is the outcome of a scope insertion.
type ScopeResult struct {
	// Block is the located block; its Status is TopLevel or Unmatched
	// when the whole document was walked.
	Block block.Block

	// FirstLine and LastLine bound the walked lines (0-based, inclusive).
	FirstLine int
	LastLine  int

	// Lines are the 0-based lines that received a statement, in order.
	Lines []int

	// Edits are insertions sorted by offset.
	Edits []fix.TextEdit
}

// Scope inserts a numbered logging statement before every eligible
// statement of the block enclosing offset, or of the whole document when
// there is no enclosing block.
func Scope(doc *source.Document, offset int, prefix string) ScopeResult {
	if doc == nil {
		return ScopeResult{}
	}

	a := analyze(doc)
	result := ScopeResult{
		Block:    block.LocateMasked(doc.Content, a.mask, offset),
		LastLine: doc.LineCount() - 1,
	}

	if result.Block.Status == block.Found {
		result.FirstLine = doc.LineIndex(result.Block.Open) + 1
		result.LastLine = doc.LineIndex(result.Block.Close)
	}

	result.Lines, result.Edits = a.walk(result.FirstLine, result.LastLine, prefix)
	return result
}

func (a *analysis) walk(first, last int, prefix string) ([]int, []fix.TextEdit) {
	builder := fix.NewEditBuilder(a.doc)
	selected := make([]bool, len(a.lines))
	newline := a.doc.Newline()

	var chosen []int
	for idx := first; idx <= last; idx++ {
		if !a.eligible(idx) {
			continue
		}
		if prev := a.prevNonBlank(idx); prev >= 0 && (selected[prev] || a.isLogLine(prev)) {
			continue
		}
		if a.isLogLine(a.nextNonBlank(idx)) {
			continue
		}

		selected[idx] = true
		chosen = append(chosen, idx)
		text := a.doc.Indentation(idx) + logstmt.ForScope(prefix, len(chosen)) + newline
		builder.Insert(a.doc.Lines[idx].StartOffset, text)
	}

	return chosen, builder.Edits
}

func (a *analysis) eligible(idx int) bool {
	line := a.lines[idx]
	switch {
	case line.IsBlank(), line.IsCommentOnly():
		return false
	case line.StartCtx != scan.Code:
		return false
	case a.blocks[idx] != stmt.CodeBlock:
		return false
	case a.isLogLine(idx):
		return false
	}
	return stmt.Classify(a.lines, idx) == stmt.StatementStart
}
