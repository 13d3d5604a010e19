package fix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/conlog/pkg/fix"
)

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edits   []fix.TextEdit
		wantErr string
	}{
		{"valid", []fix.TextEdit{{StartOffset: 0, EndOffset: 4}}, ""},
		{"insert at end", []fix.TextEdit{{StartOffset: 10, EndOffset: 10, NewText: "x"}}, ""},
		{"negative start", []fix.TextEdit{{StartOffset: -1, EndOffset: 2}}, "start offset is negative"},
		{"reversed", []fix.TextEdit{{StartOffset: 5, EndOffset: 2}}, "end offset is before start offset"},
		{"past end", []fix.TextEdit{{StartOffset: 5, EndOffset: 11}}, "exceeds content length 10"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := fix.ValidateEdits(testCase.edits, 10)
			if testCase.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var validationErr *fix.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}

func TestSortEdits_KeepsInsertOrder(t *testing.T) {
	t.Parallel()

	edits := []fix.TextEdit{
		{StartOffset: 8, EndOffset: 9},
		{StartOffset: 2, EndOffset: 2, NewText: "first"},
		{StartOffset: 2, EndOffset: 2, NewText: "second"},
		{StartOffset: 0, EndOffset: 1},
	}
	fix.SortEdits(edits)

	assert.Equal(t, 0, edits[0].StartOffset)
	assert.Equal(t, "first", edits[1].NewText)
	assert.Equal(t, "second", edits[2].NewText)
	assert.Equal(t, 8, edits[3].StartOffset)
}

func TestPrepareEdits_Conflict(t *testing.T) {
	t.Parallel()

	_, err := fix.PrepareEdits([]fix.TextEdit{
		{StartOffset: 0, EndOffset: 5, NewText: "a"},
		{StartOffset: 3, EndOffset: 7, NewText: "b"},
	}, 10)

	var conflict *fix.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 3, conflict.Edit2.StartOffset)
}

func TestPrepareEdits_Insertions(t *testing.T) {
	t.Parallel()

	edits, err := fix.PrepareEdits([]fix.TextEdit{
		{StartOffset: 6, EndOffset: 6, NewText: "b"},
		{StartOffset: 0, EndOffset: 0, NewText: "a"},
		{StartOffset: 6, EndOffset: 6, NewText: "c"},
	}, 10)
	require.NoError(t, err)
	require.Len(t, edits, 3)
	assert.Equal(t, "a", edits[0].NewText)
	assert.Equal(t, "b", edits[1].NewText)
	assert.Equal(t, "c", edits[2].NewText)

	_, err = fix.PrepareEdits([]fix.TextEdit{{StartOffset: 4, EndOffset: 2}}, 10)
	var invalid *fix.ValidationError
	require.ErrorAs(t, err, &invalid)
}

func TestPrepareEditsFiltered(t *testing.T) {
	t.Parallel()

	t.Run("merges overlapping deletions", func(t *testing.T) {
		t.Parallel()

		accepted, skipped, merged, err := fix.PrepareEditsFiltered([]fix.TextEdit{
			{StartOffset: 4, EndOffset: 9},
			{StartOffset: 0, EndOffset: 6},
		}, 10)
		require.NoError(t, err)
		assert.Empty(t, skipped)
		assert.Equal(t, 1, merged)
		assert.Equal(t, []fix.TextEdit{{StartOffset: 0, EndOffset: 9}}, accepted)
	})

	t.Run("skips replacement overlapping a deletion", func(t *testing.T) {
		t.Parallel()

		accepted, skipped, merged, err := fix.PrepareEditsFiltered([]fix.TextEdit{
			{StartOffset: 0, EndOffset: 6},
			{StartOffset: 2, EndOffset: 3, NewText: "x"},
		}, 10)
		require.NoError(t, err)
		assert.Zero(t, merged)
		assert.Len(t, accepted, 1)
		assert.Len(t, skipped, 1)
	})

	t.Run("rejects invalid ranges", func(t *testing.T) {
		t.Parallel()

		_, _, _, err := fix.PrepareEditsFiltered([]fix.TextEdit{{StartOffset: 0, EndOffset: 99}}, 10)
		assert.Error(t, err)
	})
}
