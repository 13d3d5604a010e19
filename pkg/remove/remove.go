// Package remove computes the deletions that strip console logging
// statements from a document, collapsing the blank lines around them.
package remove

import (
	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/logstmt"
	"github.com/yaklabco/conlog/pkg/scan"
	"github.com/yaklabco/conlog/pkg/source"
)

// Options controls which statements are removed.
type Options struct {
	// Matcher selects console methods.
	Matcher *logstmt.Matcher

	// IncludeInline also removes calls that share a line with other code.
	IncludeInline bool
}

// Result is the outcome of a removal pass.
type Result struct {
	// Matches are the calls that produced an edit, in source order.
	Matches []logstmt.Match

	// Ignored are matched calls that were left alone: inline calls when
	// inline removal is off, or inline calls that are not whole statements.
	Ignored []logstmt.Match

	// Edits are non-overlapping deletions sorted by offset.
	Edits []fix.TextEdit
}

// Remove computes the removal edits for doc.
func Remove(doc *source.Document, opts Options) Result {
	return RemoveMasked(doc, scan.Classify(doc.Content), opts)
}

// RemoveMasked is Remove with a precomputed mask for doc.
func RemoveMasked(doc *source.Document, mask scan.Mask, opts Options) Result {
	var result Result
	if doc == nil || opts.Matcher == nil {
		return result
	}

	builder := fix.NewEditBuilder(doc)

	// Inline calls are held back until the next call starts on a later line.
	var pending []logstmt.Match
	for _, match := range opts.Matcher.Find(doc, mask) {
		if match.Anchored {
			first, last := LineSpan(doc, match.StartLine, match.EndLine)
			builder.Delete(doc.Lines[first].StartOffset, doc.Lines[last].EndOffset)
			result.Matches = append(result.Matches, match)
			continue
		}

		if !opts.IncludeInline || !isStatement(doc.Content, mask, match) {
			result.Ignored = append(result.Ignored, match)
			continue
		}
		if len(pending) > 0 && match.StartLine > pending[len(pending)-1].EndLine {
			deleteInline(builder, doc, pending)
			pending = pending[:0]
		}
		pending = append(pending, match)
		result.Matches = append(result.Matches, match)
	}
	deleteInline(builder, doc, pending)

	// Spans are line-disjoint by construction; merging guards the invariant.
	accepted, _, _, err := fix.PrepareEditsFiltered(builder.Edits, len(doc.Content))
	if err == nil {
		result.Edits = accepted
	}
	return result
}

// LineSpan returns the 0-based inclusive line range to delete for a
// statement on lines first..last.
//
// With a blank line directly above, the statement and the whole blank run
// below it go. Otherwise a blank run below longer than one line is cut
// down to a single blank line, and a run of exactly one is deleted too.
func LineSpan(doc *source.Document, first, last int) (int, int) {
	below := 0
	for idx := last + 1; idx < doc.LineCount() && doc.IsBlank(idx); idx++ {
		below++
	}

	blankAbove := first > 0 && doc.IsBlank(first-1)
	switch {
	case blankAbove:
		return first, last + below
	case below > 1:
		return first, last + below - 1
	default:
		return first, last + below
	}
}

// isStatement reports whether an inline call stands as its own statement,
// so deleting it leaves the surrounding code intact.
func isStatement(src []byte, mask scan.Mask, match logstmt.Match) bool {
	before := match.Start - 1
	for before >= 0 && (isBlank(src[before]) || mask.At(before).IsComment()) {
		before--
	}
	if before >= 0 && src[before] != '\n' && src[before] != ';' && src[before] != '{' && src[before] != '}' {
		return false
	}

	if src[match.End-1] == ';' {
		return true
	}
	after := match.End
	for after < len(src) && isBlank(src[after]) {
		after++
	}
	return after == len(src) || src[after] == '\n' || src[after] == '\r' || src[after] == '}'
}

// deleteInline deletes inline calls that share lines. When the calls are
// all the code on those lines, the lines go the way a statement alone on
// them would.
func deleteInline(builder *fix.EditBuilder, doc *source.Document, calls []logstmt.Match) {
	if len(calls) == 0 {
		return
	}

	first, last := calls[0].StartLine, calls[len(calls)-1].EndLine
	if onlyCalls(doc.Content, doc.Lines[first].StartOffset, doc.Lines[last].NewlineStart, calls) {
		first, last = LineSpan(doc, first, last)
		builder.Delete(doc.Lines[first].StartOffset, doc.Lines[last].EndOffset)
		return
	}

	for _, call := range calls {
		start, end := inlineSpan(doc.Content, call)
		builder.Delete(start, end)
	}
}

// onlyCalls reports whether src[start:end] holds nothing but the calls and
// blanks.
func onlyCalls(src []byte, start, end int, calls []logstmt.Match) bool {
	next := 0
	for idx := start; idx < end; idx++ {
		if next < len(calls) && idx >= calls[next].Start {
			idx = calls[next].End - 1
			next++
			continue
		}
		if !isBlank(src[idx]) {
			return false
		}
	}
	return true
}

// inlineSpan widens the call to swallow the blanks after it, and at end of
// line also the blanks that separate it from the code before it.
func inlineSpan(src []byte, match logstmt.Match) (int, int) {
	start, end := match.Start, match.End
	for end < len(src) && isBlank(src[end]) {
		end++
	}
	if end < len(src) && src[end] != '\n' && src[end] != '\r' {
		return start, end
	}

	for start > 0 && isBlank(src[start-1]) {
		start--
	}
	return start, end
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}
