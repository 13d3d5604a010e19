// Package block locates the innermost pair of structural braces enclosing
// an offset in JavaScript-like source text.
package block

import (
	"github.com/yaklabco/conlog/pkg/scan"
	"github.com/yaklabco/conlog/pkg/source"
)

// Status reports the outcome of a Locate call.
type Status int

const (
	// Found means an enclosing block was located.
	Found Status = iota

	// TopLevel means no unmatched structural '{' precedes the target.
	TopLevel

	// Unmatched means an opening brace was found but its close was not.
	Unmatched
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case TopLevel:
		return "top-level"
	case Unmatched:
		return "unmatched"
	default:
		return "unknown"
	}
}

// Block is an enclosing pair of structural braces.
// Open and Close are the offsets of '{' and '}' and are only meaningful
// when Status is Found (Open is also set for Unmatched).
type Block struct {
	Open   int
	Close  int
	Status Status
}

// Content returns the byte range strictly between the braces.
func (b Block) Content() source.Range {
	if b.Status != Found {
		return source.Range{}
	}
	return source.Range{StartOffset: b.Open + 1, EndOffset: b.Close}
}

// BraceStack holds offsets of unmatched structural '{' characters.
type BraceStack []int

// Push records an opening brace.
func (s *BraceStack) Push(offset int) {
	*s = append(*s, offset)
}

// Pop removes the innermost brace. Popping an empty stack is a no-op.
func (s *BraceStack) Pop() {
	if len(*s) == 0 {
		return
	}
	*s = (*s)[:len(*s)-1]
}

// Top returns the innermost brace offset.
func (s BraceStack) Top() (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// Depth returns the number of unmatched braces.
func (s BraceStack) Depth() int {
	return len(s)
}

// Locate finds the block enclosing target in src.
func Locate(src []byte, target int) Block {
	return LocateMasked(src, scan.Classify(src), target)
}

// LocateMasked is Locate with a precomputed mask for src.
func LocateMasked(src []byte, mask scan.Mask, target int) Block {
	target = max(0, min(target, len(src)))

	var stack BraceStack
	for idx := range target {
		if !mask.IsStructural(src, idx) {
			continue
		}
		if src[idx] == '{' {
			stack.Push(idx)
		} else {
			stack.Pop()
		}
	}

	open, ok := stack.Top()
	if !ok {
		return Block{Status: TopLevel}
	}

	depth := 0
	for idx := open; idx < len(src); idx++ {
		if !mask.IsStructural(src, idx) {
			continue
		}
		if src[idx] == '{' {
			depth++
			continue
		}
		depth--
		if depth == 0 {
			return Block{Open: open, Close: idx, Status: Found}
		}
	}

	return Block{Open: open, Status: Unmatched}
}

// Depth returns the structural brace nesting depth just before offset.
func Depth(src []byte, mask scan.Mask, offset int) int {
	var stack BraceStack
	for idx := range max(0, min(offset, len(src))) {
		if !mask.IsStructural(src, idx) {
			continue
		}
		if src[idx] == '{' {
			stack.Push(idx)
		} else {
			stack.Pop()
		}
	}
	return stack.Depth()
}
