package source

// Range represents a byte range in the source content.
type Range struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r Range) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Position represents a 1-based line and column in a document.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Selection is a cursor or selection expressed in byte offsets.
// Anchor is where the selection started, Active is where the cursor is.
// An empty selection has Anchor == Active.
type Selection struct {
	Anchor int
	Active int
}

// Cursor returns an empty selection at offset.
func Cursor(offset int) Selection {
	return Selection{Anchor: offset, Active: offset}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	return min(s.Anchor, s.Active)
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	return max(s.Anchor, s.Active)
}

// IsEmpty reports whether the selection is a bare cursor.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// Clamp restricts both ends of the selection to [0, length].
func (s Selection) Clamp(length int) Selection {
	return Selection{
		Anchor: max(0, min(s.Anchor, length)),
		Active: max(0, min(s.Active, length)),
	}
}
