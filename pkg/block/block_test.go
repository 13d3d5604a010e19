package block_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/conlog/pkg/block"
	"github.com/yaklabco/conlog/pkg/scan"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		cursor string // the target is the offset of the first occurrence
		status block.Status
		body   string
	}{
		{
			name:   "function body",
			src:    "function f() {\n  a();\n}\n",
			cursor: "a()",
			status: block.Found,
			body:   "\n  a();\n",
		},
		{
			name:   "innermost block",
			src:    "if (x) { if (y) { b(); } c(); }",
			cursor: "b()",
			status: block.Found,
			body:   " b(); ",
		},
		{
			name:   "after inner block",
			src:    "if (x) { if (y) { b(); } c(); }",
			cursor: "c()",
			status: block.Found,
			body:   " if (y) { b(); } c(); ",
		},
		{
			name:   "braces in strings are ignored",
			src:    "{ s = '}'; t = \"{\"; u(); }",
			cursor: "u()",
			status: block.Found,
			body:   " s = '}'; t = \"{\"; u(); ",
		},
		{
			name:   "braces in comments are ignored",
			src:    "{ // }\n /* { */ v(); }",
			cursor: "v()",
			status: block.Found,
			body:   " // }\n /* { */ v(); ",
		},
		{
			name:   "top level",
			src:    "a();\nb();",
			cursor: "b()",
			status: block.TopLevel,
		},
		{
			name:   "only non-structural braces",
			src:    "x = '{'; // {\ny = `{`; /* { */ z();",
			cursor: "z()",
			status: block.TopLevel,
		},
		{
			name:   "unmatched",
			src:    "function f() {\n  a();\n",
			cursor: "a()",
			status: block.Unmatched,
		},
		{
			name:   "template literal braces",
			src:    "{ s = `${a}}`; w(); }",
			cursor: "w()",
			status: block.Found,
			body:   " s = `${a}}`; w(); ",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			target := strings.Index(testCase.src, testCase.cursor)
			require.GreaterOrEqual(t, target, 0)

			got := block.Locate([]byte(testCase.src), target)
			assert.Equal(t, testCase.status, got.Status)
			if testCase.status != block.Found {
				assert.True(t, got.Content().IsEmpty())
				return
			}

			content := got.Content()
			assert.Equal(t, testCase.body, testCase.src[content.StartOffset:content.EndOffset])
			assert.LessOrEqual(t, content.StartOffset, target)
			assert.LessOrEqual(t, target, content.EndOffset)
		})
	}
}

func TestLocate_OutOfRangeTarget(t *testing.T) {
	t.Parallel()

	src := []byte("{ a(); }")
	assert.Equal(t, block.Found, block.Locate(src, 3).Status)
	assert.Equal(t, block.TopLevel, block.Locate(src, -4).Status)
	assert.Equal(t, block.TopLevel, block.Locate(src, 400).Status)
	assert.Equal(t, block.TopLevel, block.Locate(nil, 0).Status)
}

func TestBraceStack(t *testing.T) {
	t.Parallel()

	var stack block.BraceStack
	stack.Pop()
	_, ok := stack.Top()
	assert.False(t, ok)

	stack.Push(3)
	stack.Push(9)
	top, ok := stack.Top()
	assert.True(t, ok)
	assert.Equal(t, 9, top)

	stack.Pop()
	top, _ = stack.Top()
	assert.Equal(t, 3, top)
	assert.Equal(t, 1, stack.Depth())
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "found", block.Found.String())
	assert.Equal(t, "top-level", block.TopLevel.String())
	assert.Equal(t, "unmatched", block.Unmatched.String())
	assert.Equal(t, "unknown", block.Status(42).String())
}

func FuzzLocate(f *testing.F) {
	f.Add("function f() { if (a) { b('}'); } }", 20)
	f.Add("{ /* { */ `}` }", 3)
	f.Add("{{{", 2)
	f.Add("}}}{", 4)

	f.Fuzz(func(t *testing.T, src string, target int) {
		data := []byte(src)
		mask := scan.Classify(data)
		got := block.LocateMasked(data, mask, target)

		if got.Status != block.Found {
			return
		}

		clamped := max(0, min(target, len(data)))
		if got.Open < 0 || got.Close >= len(data) || got.Open >= got.Close {
			t.Fatalf("invalid bounds %+v for len %d", got, len(data))
		}
		if data[got.Open] != '{' || data[got.Close] != '}' {
			t.Fatalf("bounds %+v are not braces", got)
		}
		content := got.Content()
		if clamped < content.StartOffset || clamped > content.EndOffset {
			t.Fatalf("target %d outside content %+v", clamped, content)
		}
		if block.Depth(data, mask, got.Close) != block.Depth(data, mask, got.Open)+1 {
			t.Fatalf("depth mismatch between %d and %d", got.Open, got.Close)
		}
	})
}
