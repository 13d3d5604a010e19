package insert

import (
	"strings"

	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/logstmt"
	"github.com/yaklabco/conlog/pkg/source"
	"github.com/yaklabco/conlog/pkg/stmt"
)

// SelectionResult is the outcome of a selection insertion.
type SelectionResult struct {
	// Selected is the selected text, empty for a bare cursor.
	Selected string

	// Statement is the inserted statement without indentation or newline.
	Statement string

	// AfterLine is the 0-based line the statement is placed after.
	AfterLine int

	// Edit is the insertion.
	Edit fix.TextEdit
}

// AtSelection inserts a statement logging the selection on the line after
// the end of the statement that holds the cursor. The statement takes the
// indentation of the cursor line.
func AtSelection(doc *source.Document, sel source.Selection, prefix string) (SelectionResult, bool) {
	if doc == nil {
		return SelectionResult{}, false
	}

	sel = sel.Clamp(doc.Len())
	a := analyze(doc)
	active := doc.LineIndex(sel.Active)
	after := a.statementEnd(active)

	result := SelectionResult{
		Selected:  string(doc.Content[sel.Start():sel.End()]),
		AfterLine: after,
	}
	result.Statement = logstmt.ForSelection(prefix, result.Selected)

	text := doc.Indentation(active) + result.Statement
	offset := doc.Len()
	switch {
	case after+1 < doc.LineCount():
		offset = doc.Lines[after+1].StartOffset
		text += doc.Newline()
	case doc.Len() > 0:
		// Last line has no terminator.
		text = doc.Newline() + text
	}

	builder := fix.NewEditBuilder(doc)
	builder.Insert(offset, text)
	result.Edit = builder.Edits[0]
	return result, true
}

// statementEnd walks forward from line idx to the line that closes the
// statement: its last code byte is one of ; } ) ] { and the next line does
// not continue it. Falls back to idx when no such line exists.
func (a *analysis) statementEnd(idx int) int {
	for line := idx; line < len(a.lines); line++ {
		if !a.endsStatement(line) {
			continue
		}
		next := a.nextNonBlank(line)
		if next >= 0 && stmt.Classify(a.lines, next) == stmt.Continuation {
			continue
		}
		return line
	}
	return idx
}

func (a *analysis) endsStatement(idx int) bool {
	info := a.doc.Lines[idx]
	src := a.doc.Content
	for offset := info.NewlineStart - 1; offset >= info.StartOffset; offset-- {
		ch := src[offset]
		if ch == ' ' || ch == '\t' || a.mask.At(offset).IsComment() {
			continue
		}
		if !a.mask.IsCode(offset) {
			return false
		}
		switch ch {
		case ';', '}', ')', ']':
			return true
		case '{':
			// An object literal keeps the statement open.
			header := strings.TrimSuffix(a.lines[idx].Code, "{")
			return stmt.HeaderKind(header, a.blocks[idx]) == stmt.CodeBlock
		}
		return false
	}
	return false
}
