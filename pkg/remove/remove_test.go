package remove_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/logstmt"
	"github.com/yaklabco/conlog/pkg/remove"
	"github.com/yaklabco/conlog/pkg/source"
)

func logOnly() remove.Options {
	return remove.Options{Matcher: logstmt.NewMatcher([]string{"log"}, false)}
}

func run(t *testing.T, src string, opts remove.Options) (string, remove.Result) {
	t.Helper()

	result := remove.Remove(source.FromString(src), opts)
	out, skipped, err := fix.Apply([]byte(src), result.Edits)
	require.NoError(t, err)
	require.Empty(t, skipped)
	return string(out), result
}

func TestRemove_BlankLinePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "blank above removes whole run below",
			lines: []string{"a;", "", "console.log('x');", "", "", "b;"},
			want:  []string{"a;", "", "b;"},
		},
		{
			name:  "no blank above keeps one of a longer run",
			lines: []string{"a;", "console.log('x');", "", "", "b;"},
			want:  []string{"a;", "", "b;"},
		},
		{
			name:  "no blank above removes a single blank",
			lines: []string{"a;", "console.log('x');", "", "b;"},
			want:  []string{"a;", "b;"},
		},
		{
			name:  "no blanks",
			lines: []string{"a;", "console.log('x');", "b;"},
			want:  []string{"a;", "b;"},
		},
		{
			name:  "first line",
			lines: []string{"console.log('x');", "", "", "", "b;"},
			want:  []string{"", "b;"},
		},
		{
			name:  "consecutive statements",
			lines: []string{"a;", "console.log(1);", "console.log(2);", "b;"},
			want:  []string{"a;", "b;"},
		},
		{
			name:  "multi-line call",
			lines: []string{"a;", "  console.log(", "    x,", "  )", "b;"},
			want:  []string{"a;", "b;"},
		},
		{
			name:  "indented in a function",
			lines: []string{"function f() {", "  console.log('in');", "  return 1;", "}"},
			want:  []string{"function f() {", "  return 1;", "}"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			out, _ := run(t, strings.Join(testCase.lines, "\n"), logOnly())
			assert.Equal(t, testCase.want, strings.Split(out, "\n"))
		})
	}
}

func TestRemove_Methods(t *testing.T) {
	t.Parallel()

	src := "console.log(1);\nconsole.warn(2);\nconsole.error(3);\nconsole.table(4);\n"

	out, result := run(t, src, logOnly())
	assert.Equal(t, "console.warn(2);\nconsole.error(3);\nconsole.table(4);\n", out)
	assert.Len(t, result.Matches, 1)

	out, _ = run(t, src, remove.Options{Matcher: logstmt.NewMatcher([]string{"log", "warn", "error"}, false)})
	assert.Equal(t, "console.table(4);\n", out)

	out, _ = run(t, src, remove.Options{Matcher: logstmt.NewMatcher(nil, true)})
	assert.Empty(t, out)
}

func TestRemove_Inline(t *testing.T) {
	t.Parallel()

	src := "a(); console.log(x); b();\nif (y) console.log(y);\nc(); console.log(z);\n"

	out, result := run(t, src, logOnly())
	assert.Equal(t, src, out)
	assert.Len(t, result.Ignored, 3)

	opts := logOnly()
	opts.IncludeInline = true
	out, result = run(t, src, opts)
	assert.Equal(t, "a(); b();\nif (y) console.log(y);\nc();\n", out)
	assert.Len(t, result.Matches, 2)
	assert.Len(t, result.Ignored, 1)
}

func TestRemove_InlineWholeLine(t *testing.T) {
	t.Parallel()

	opts := logOnly()
	opts.IncludeInline = true

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "two calls",
			src:  "a;\nconsole.log('x'); console.log('y');\nb;",
			want: "a;\nb;",
		},
		{
			name: "indented with blank below",
			src:  "{\n  console.log(1);  console.log(2);\n\n\n  g();\n}",
			want: "{\n\n  g();\n}",
		},
		{
			name: "other code kept",
			src:  "a;\nconsole.log('x'); b(); console.log('y');\nc;",
			want: "a;\nb();\nc;",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			out, result := run(t, testCase.src, opts)
			assert.Equal(t, testCase.want, out)
			assert.Len(t, result.Matches, 2)
		})
	}
}

func TestRemove_LiteralsUntouched(t *testing.T) {
	t.Parallel()

	src := "const s = 'console.log(1);';\n// console.log(2);\nconst t = `\nconsole.log(3);\n`;\n"
	out, result := run(t, src, logOnly())
	assert.Equal(t, src, out)
	assert.Empty(t, result.Edits)
}

func TestRemove_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"a;\n\nconsole.log('x');\n\n\nb;\n",
		"function f() {\n  console.log(1);\n\n  console.log(2);\n\n\n  g();\n}\n",
		"console.log(\n  'multi',\n  (1 + 2)\n);\nconsole.log(3)\n",
		"x(); console.log(1); y();\n",
		"a;\n\nconsole.log(1); console.log(2);\n\nb;\n",
	}

	opts := logOnly()
	opts.IncludeInline = true

	for _, input := range inputs {
		once, _ := run(t, input, opts)
		twice, result := run(t, once, opts)
		assert.Empty(t, result.Edits, "second pass over %q", once)
		assert.Equal(t, once, twice)
	}
}

func TestRemove_EditPositions(t *testing.T) {
	t.Parallel()

	result := remove.Remove(source.FromString("a;\nconsole.log(1);\nb;"), logOnly())
	require.Len(t, result.Edits, 1)
	assert.Equal(t, source.Position{Line: 2, Column: 1}, result.Edits[0].Start)
	assert.Equal(t, source.Position{Line: 3, Column: 1}, result.Edits[0].End)
	assert.Equal(t, fix.EditDelete, result.Edits[0].Kind())
}

func TestRemove_NilInputs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, remove.Remove(source.FromString("console.log(1);"), remove.Options{}).Edits)
}

func TestLineSpan(t *testing.T) {
	t.Parallel()

	doc := source.FromString("a;\n\nconsole.log(1);\n\n\nb;")
	first, last := remove.LineSpan(doc, 2, 2)
	assert.Equal(t, 2, first)
	assert.Equal(t, 4, last)
}
