package stmt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/conlog/pkg/scan"
	"github.com/yaklabco/conlog/pkg/source"
	"github.com/yaklabco/conlog/pkg/stmt"
)

func linesOf(src string) []stmt.Line {
	doc := source.FromString(src)
	return stmt.Lines(doc, scan.Classify(doc.Content))
}

// classifyLast classifies the final line of the joined input.
func classifyLast(input ...string) stmt.Kind {
	lines := linesOf(strings.Join(input, "\n"))
	return stmt.Classify(lines, len(lines)-1)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  stmt.Kind
	}{
		{"first line", []string{"foo();"}, stmt.StatementStart},
		{"after semicolon", []string{"a();", "b();"}, stmt.StatementStart},
		{"after open brace", []string{"function f() {", "b();"}, stmt.StatementStart},
		{"after close brace", []string{"}", "b();"}, stmt.StatementStart},
		{"blank line", []string{"a();", "   "}, stmt.CommentOrBlank},
		{"comment line", []string{"a();", "  // note"}, stmt.CommentOrBlank},
		{"block comment body", []string{"/*", " * doc", " */"}, stmt.CommentOrBlank},
		{"lone open brace", []string{"if (x)", "{"}, stmt.BraceOnly},
		{"closing brace with tail", []string{"a();", "});"}, stmt.BraceOnly},
		{"closing paren", []string{"foo(", ")"}, stmt.BraceOnly},
		{"closing bracket", []string{"x = [", "];"}, stmt.BraceOnly},
		{"import", []string{"import x from 'y';"}, stmt.Declaration},
		{"export", []string{"a;", "export const x = 1;"}, stmt.Declaration},
		{"type alias", []string{"type Id = string;"}, stmt.Declaration},
		{"type as identifier", []string{"a;", "type = 4;"}, stmt.StatementStart},
		{"interface", []string{"interface A {"}, stmt.Declaration},
		{"function", []string{"function f() {"}, stmt.Declaration},
		{"async function", []string{"async function f() {"}, stmt.Declaration},
		{"decorator", []string{"@Component({"}, stmt.Declaration},
		{"case", []string{"switch (x) {", "case 1:"}, stmt.LabelOrCaseHeader},
		{"default", []string{"switch (x) {", "default:"}, stmt.LabelOrCaseHeader},
		{"property", []string{"const o = {", "key: 1,"}, stmt.LabelOrCaseHeader},
		{"after case header", []string{"case 1:", "run();"}, stmt.StatementStart},
		{"after label", []string{"outer:", "for (;;) {"}, stmt.Continuation},
		{"after object key", []string{"const o = {", "key:", "value,"}, stmt.Continuation},
		{"after comma", []string{"foo(a,", "b);"}, stmt.Continuation},
		{"after open paren", []string{"foo(", "b);"}, stmt.Continuation},
		{"after arrow", []string{"const f = () =>", "x + 1;"}, stmt.Continuation},
		{"after binary operator", []string{"const x = a +", "b;"}, stmt.Continuation},
		{"after assignment", []string{"const x =", "b;"}, stmt.Continuation},
		{"leading dot", []string{"promise", ".then(x);"}, stmt.Continuation},
		{"leading ternary", []string{"const x = a", "? b", ": c;"}, stmt.Continuation},
		{"leading logical", []string{"const x = a", "&& b;"}, stmt.Continuation},
		{"else on own line", []string{"if (x) a();", "else b();"}, stmt.Continuation},
		{"unbraced if body", []string{"if (x)", "a();"}, stmt.Continuation},
		{"unbraced for body", []string{"for (let i = 0; i < n; i++)", "a(i);"}, stmt.Continuation},
		{"unbraced else body", []string{"} else", "a();"}, stmt.Continuation},
		{"call without semicolon", []string{"foo()", "bar()"}, stmt.StatementStart},
		{"increment without semicolon", []string{"i++", "bar()"}, stmt.StatementStart},
		{"object literal body", []string{"const o = {", "...rest,"}, stmt.Continuation},
		{"returned object", []string{"return {", "a"}, stmt.Continuation},
		{"identifier without semicolon", []string{"let a = b", "c()"}, stmt.StatementStart},
		{"skips one comment", []string{"foo(a,", "// why", "b);"}, stmt.Continuation},
		{"two comments means no signal", []string{"foo(a,", "// one", "// two", "b);"}, stmt.StatementStart},
		{"skips blank lines", []string{"x = y +", "", "", "z;"}, stmt.Continuation},
		{"trailing comment ignored", []string{"a(); // done,", "b();"}, stmt.StatementStart},
		{"inside template literal", []string{"const s = `line", "more`;"}, stmt.Continuation},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, classifyLast(testCase.input...), "got %s", classifyLast(testCase.input...))
		})
	}
}

func TestClassify_OutOfRange(t *testing.T) {
	t.Parallel()

	lines := linesOf("a();")
	assert.Equal(t, stmt.CommentOrBlank, stmt.Classify(lines, -1))
	assert.Equal(t, stmt.CommentOrBlank, stmt.Classify(lines, 5))
}

func TestHeaderKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		parent stmt.BlockKind
		want   stmt.BlockKind
	}{
		{"function f()", stmt.CodeBlock, stmt.CodeBlock},
		{"if (x)", stmt.CodeBlock, stmt.CodeBlock},
		{"} else", stmt.CodeBlock, stmt.CodeBlock},
		{"try", stmt.CodeBlock, stmt.CodeBlock},
		{"const f = () =>", stmt.CodeBlock, stmt.CodeBlock},
		{"case 1:", stmt.CodeBlock, stmt.CodeBlock},
		{"outer:", stmt.CodeBlock, stmt.CodeBlock},
		{"", stmt.NonCodeBlock, stmt.NonCodeBlock},
		{"", stmt.CodeBlock, stmt.CodeBlock},
		{"const o =", stmt.CodeBlock, stmt.NonCodeBlock},
		{"foo(", stmt.CodeBlock, stmt.NonCodeBlock},
		{"return", stmt.CodeBlock, stmt.NonCodeBlock},
		{"export default", stmt.CodeBlock, stmt.NonCodeBlock},
		{"key:", stmt.NonCodeBlock, stmt.NonCodeBlock},
		{"},", stmt.NonCodeBlock, stmt.NonCodeBlock},
		{"class A extends B", stmt.CodeBlock, stmt.NonCodeBlock},
		{"export interface Props", stmt.CodeBlock, stmt.NonCodeBlock},
		{"enum Color", stmt.CodeBlock, stmt.NonCodeBlock},
		{"type Shape =", stmt.CodeBlock, stmt.NonCodeBlock},
		{"constructor(a)", stmt.NonCodeBlock, stmt.CodeBlock},
		{"if (el.class)", stmt.CodeBlock, stmt.CodeBlock},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, stmt.HeaderKind(testCase.header, testCase.parent), "header %q", testCase.header)
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "statement-start", stmt.StatementStart.String())
	assert.Equal(t, "brace-only", stmt.BraceOnly.String())
	assert.Equal(t, "unknown", stmt.Kind(99).String())
}
