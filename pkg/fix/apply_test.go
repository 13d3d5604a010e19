package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/conlog/pkg/fix"
)

func TestApplyEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		edits   []fix.TextEdit
		want    string
	}{
		{"no edits", "a();\n", nil, "a();\n"},
		{
			name:    "insert line",
			content: "a();\nb();\n",
			edits:   []fix.TextEdit{{StartOffset: 5, EndOffset: 5, NewText: "console.log(\"1\");\n"}},
			want:    "a();\nconsole.log(\"1\");\nb();\n",
		},
		{
			name:    "delete line",
			content: "a();\nconsole.log(x);\nb();\n",
			edits:   []fix.TextEdit{{StartOffset: 5, EndOffset: 20}},
			want:    "a();\nb();\n",
		},
		{
			name:    "several inserts",
			content: "a;\nb;\n",
			edits: []fix.TextEdit{
				{StartOffset: 0, EndOffset: 0, NewText: "1\n"},
				{StartOffset: 3, EndOffset: 3, NewText: "2\n"},
			},
			want: "1\na;\n2\nb;\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			got := fix.ApplyEdits([]byte(testCase.content), testCase.edits)
			assert.Equal(t, testCase.want, string(got))
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	out, skipped, err := fix.Apply([]byte("abcdef"), []fix.TextEdit{
		{StartOffset: 4, EndOffset: 6},
		{StartOffset: 0, EndOffset: 1},
		{StartOffset: 5, EndOffset: 6},
	})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, "bcd", string(out))

	_, _, err = fix.Apply([]byte("ab"), []fix.TextEdit{{StartOffset: 1, EndOffset: 5}})
	assert.Error(t, err)
}
