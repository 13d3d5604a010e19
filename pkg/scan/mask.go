package scan

import "strings"

// Mask records the Context of every byte in a source buffer.
// It is computed once per analysis pass and shared by all consumers.
type Mask []Context

// Classify scans all of src and returns its Mask.
func Classify(src []byte) Mask {
	mask := make(Mask, len(src))
	Walk(src, len(src), func(offset int, _ byte, ctx Context) bool {
		mask[offset] = ctx
		return true
	})
	return mask
}

// At returns the context of offset. Offsets outside the mask report Code.
func (m Mask) At(offset int) Context {
	if offset < 0 || offset >= len(m) {
		return Code
	}
	return m[offset]
}

// IsCode reports whether offset is ordinary program text.
func (m Mask) IsCode(offset int) bool {
	return m.At(offset) == Code
}

// IsStructural reports whether the byte at offset is a brace outside any
// string or comment.
func (m Mask) IsStructural(src []byte, offset int) bool {
	if offset < 0 || offset >= len(src) || !m.IsCode(offset) {
		return false
	}
	return src[offset] == '{' || src[offset] == '}'
}

// CodeText returns src[start:end] with comment bytes removed and surrounding
// whitespace trimmed. String literal contents are kept.
func (m Mask) CodeText(src []byte, start, end int) string {
	start = max(0, start)
	end = min(end, len(src))
	if start >= end {
		return ""
	}

	var builder strings.Builder
	builder.Grow(end - start)
	for idx := start; idx < end; idx++ {
		if m.At(idx).IsComment() {
			continue
		}
		builder.WriteByte(src[idx])
	}
	return strings.TrimSpace(builder.String())
}
