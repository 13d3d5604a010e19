package fix

import "bytes"

// ApplyEdits applies a sorted, validated slice of edits to content.
// Edits must be prepared with PrepareEdits or PrepareEditsFiltered first.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}

// Apply prepares edits with conflict merging and applies the accepted ones.
// It returns the new content and the edits that had to be skipped.
func Apply(content []byte, edits []TextEdit) ([]byte, []TextEdit, error) {
	accepted, skipped, _, err := PrepareEditsFiltered(edits, len(content))
	if err != nil {
		return nil, nil, err
	}
	return ApplyEdits(content, accepted), skipped, nil
}
