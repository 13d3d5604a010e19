// Package fix provides text edit types, conflict handling, application and
// unified diffs for edits produced by the insertion and removal passes.
package fix

import "github.com/yaklabco/conlog/pkg/source"

// EditKind distinguishes insertions from deletions.
type EditKind int

const (
	// EditInsert adds text at an empty range.
	EditInsert EditKind = iota

	// EditDelete removes a range.
	EditDelete

	// EditReplace removes a range and adds text in its place.
	EditReplace
)

// String returns the kind name used in JSON output.
func (k EditKind) String() string {
	switch k {
	case EditInsert:
		return "insert"
	case EditDelete:
		return "delete"
	case EditReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// TextEdit represents a single text replacement in a document.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string

	// Start and End are the 1-based positions of the offsets in the
	// snapshot the edit was computed against. Zero when unknown.
	Start source.Position
	End   source.Position
}

// Kind reports what the edit does.
func (e TextEdit) Kind() EditKind {
	switch {
	case e.StartOffset == e.EndOffset:
		return EditInsert
	case e.NewText == "":
		return EditDelete
	default:
		return EditReplace
	}
}

// EditBuilder accumulates text edits for a document.
type EditBuilder struct {
	Edits []TextEdit

	doc *source.Document
}

// NewEditBuilder creates a new EditBuilder. When doc is non-nil, every
// edit gets its line/column positions filled in.
func NewEditBuilder(doc *source.Document) *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
		doc:   doc,
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	edit := TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	}
	if b.doc != nil {
		edit.Start = b.doc.Position(start)
		edit.End = b.doc.Position(end)
	}
	b.Edits = append(b.Edits, edit)
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}

// Len returns the number of accumulated edits.
func (b *EditBuilder) Len() int {
	return len(b.Edits)
}
