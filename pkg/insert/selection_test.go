package insert_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/insert"
	"github.com/yaklabco/conlog/pkg/source"
)

// selectLast selects the last occurrence of word in src.
func selectLast(src, word string) source.Selection {
	start := strings.LastIndex(src, word)
	return source.Selection{Anchor: start, Active: start + len(word)}
}

func TestAtSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		word  string
		after int
		want  []string
	}{
		{
			name:  "single identifier",
			lines: []string{"function f(userId) {", "  const x = get(userId);", "  return x;", "}"},
			word:  "userId",
			after: 1,
			want: []string{
				"function f(userId) {",
				"  const x = get(userId);",
				"  console.log('👉🏻 --->| userId: ', userId);",
				"  return x;",
				"}",
			},
		},
		{
			name:  "multi-line expression",
			lines: []string{"const total = price +", "  tax;", "next();"},
			word:  "total",
			after: 1,
			want: []string{
				"const total = price +",
				"  tax;",
				"console.log('👉🏻 --->| total: ', total);",
				"next();",
			},
		},
		{
			name:  "method chain",
			lines: []string{"promise", "  .then(f)", "  .catch(g);", "next();"},
			word:  "promise",
			after: 2,
			want: []string{
				"promise",
				"  .then(f)",
				"  .catch(g);",
				"console.log('👉🏻 --->| promise: ', promise);",
				"next();",
			},
		},
		{
			name:  "object literal",
			lines: []string{"const o = {", "  a: 1,", "};", "run();"},
			word:  "o",
			after: 2,
			want: []string{
				"const o = {",
				"  a: 1,",
				"};",
				"console.log('👉🏻 --->| o: ', o);",
				"run();",
			},
		},
		{
			name:  "function header",
			lines: []string{"function f(a) {", "  go();", "}"},
			word:  "a",
			after: 0,
			want: []string{
				"function f(a) {",
				"console.log('👉🏻 --->| a: ', a);",
				"  go();",
				"}",
			},
		},
		{
			name:  "multi word selection",
			lines: []string{"  doWork(a, b);"},
			word:  "a, b",
			after: 0,
			want:  []string{"  doWork(a, b);", "  console.log('👉🏻 --->| a, b');"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			src := strings.Join(testCase.lines, "\n")
			result, ok := insert.AtSelection(source.FromString(src), selectLast(src, testCase.word), "👉🏻 --->|")
			require.True(t, ok)
			assert.Equal(t, testCase.after, result.AfterLine)
			assert.Equal(t, testCase.word, result.Selected)

			out, _, err := fix.Apply([]byte(src), []fix.TextEdit{result.Edit})
			require.NoError(t, err)
			assert.Equal(t, testCase.want, strings.Split(string(out), "\n"))
		})
	}
}

func TestAtSelection_InsertedText(t *testing.T) {
	t.Parallel()

	src := "if (ok) {\n  send(userId);\n}\n"
	result, ok := insert.AtSelection(source.FromString(src), selectLast(src, "userId"), "👉🏻 --->|")
	require.True(t, ok)

	assert.Equal(t, "  console.log('👉🏻 --->| userId: ', userId);\n", result.Edit.NewText)
	assert.Equal(t, fix.EditInsert, result.Edit.Kind())
	assert.Equal(t, source.Position{Line: 3, Column: 1}, result.Edit.Start)
}

func TestAtSelection_EmptyCursor(t *testing.T) {
	t.Parallel()

	src := "a();\nb();\n"
	result, ok := insert.AtSelection(source.FromString(src), source.Cursor(1), "dbg")
	require.True(t, ok)
	assert.Equal(t, "console.log('dbg ');", result.Statement)
	assert.Equal(t, 5, result.Edit.StartOffset)
}

func TestAtSelection_EndOfFile(t *testing.T) {
	t.Parallel()

	src := "  foo(x);"
	result, ok := insert.AtSelection(source.FromString(src), selectLast(src, "x"), "p")
	require.True(t, ok)
	assert.Equal(t, len(src), result.Edit.StartOffset)
	assert.Equal(t, "\n  console.log('p x: ', x);", result.Edit.NewText)

	result, ok = insert.AtSelection(source.FromString(""), source.Cursor(0), "p")
	require.True(t, ok)
	assert.Equal(t, "console.log('p ');", result.Edit.NewText)
}

func TestAtSelection_CRLF(t *testing.T) {
	t.Parallel()

	src := "a(x);\r\nb();\r\n"
	result, ok := insert.AtSelection(source.FromString(src), selectLast(src, "x"), "p")
	require.True(t, ok)
	assert.Equal(t, "console.log('p x: ', x);\r\n", result.Edit.NewText)
	assert.Equal(t, 7, result.Edit.StartOffset)
}

func TestAtSelection_NilDocument(t *testing.T) {
	t.Parallel()

	_, ok := insert.AtSelection(nil, source.Cursor(0), "p")
	assert.False(t, ok)
}
