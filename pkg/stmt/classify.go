// Package stmt decides whether a source line begins a standalone statement
// or continues a previous one. The rules are heuristic: they look at the
// line itself and at its nearest non-blank predecessor, never at a parse tree.
package stmt

import (
	"regexp"
	"strings"
)

// Kind classifies a line.
type Kind int

const (
	// StatementStart begins a new statement.
	StatementStart Kind = iota

	// Continuation continues the statement of a previous line.
	Continuation

	// Declaration is an import, export, type or function/class declaration.
	Declaration

	// LabelOrCaseHeader is a case/default clause, a label or an object key.
	LabelOrCaseHeader

	// CommentOrBlank holds no code.
	CommentOrBlank

	// BraceOnly is a lone brace or starts by closing a bracket.
	BraceOnly
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case StatementStart:
		return "statement-start"
	case Continuation:
		return "continuation"
	case Declaration:
		return "declaration"
	case LabelOrCaseHeader:
		return "label-or-case"
	case CommentOrBlank:
		return "comment-or-blank"
	case BraceOnly:
		return "brace-only"
	default:
		return "unknown"
	}
}

//nolint:gochecknoglobals // read-only keyword tables
var (
	declarationWords = []string{
		"import", "export", "interface", "enum", "function", "class",
		"declare", "namespace", "abstract",
	}

	continuationWords = []string{"else", "catch", "finally"}

	// Leading tokens that can only continue an expression.
	leadingContinuations = []string{".", "?", ":", "&&", "||", "??", "=", "=>"}

	// Keywords that cannot end a statement.
	trailingWords = []string{"else", "new", "typeof", "instanceof", "in", "of", "await", "yield", "extends"}

	conditionalHeads = []string{"if", "for", "while", "else if", "} else if"}

	labelPattern = regexp.MustCompile(`^(?:[A-Za-z_$][\w$]*|'[^']*'|"[^"]*"|\[[^\]]*\])\??\s*:(?:\s|$)`)
	typePattern  = regexp.MustCompile(`^type\s+[A-Za-z_$]`)
)

// Classify returns the kind of lines[idx].
func Classify(lines []Line, idx int) Kind {
	if idx < 0 || idx >= len(lines) {
		return CommentOrBlank
	}
	line := lines[idx]

	if line.IsBlank() || line.IsCommentOnly() {
		return CommentOrBlank
	}
	if line.StartCtx.IsString() {
		return Continuation
	}

	code := line.Code
	if code == "{" || code == "}" || strings.HasPrefix(code, "}") ||
		strings.HasPrefix(code, ")") || strings.HasPrefix(code, "]") {
		return BraceOnly
	}

	if IsDeclaration(code) {
		return Declaration
	}
	if IsCaseHeader(code) || IsLabel(code) {
		return LabelOrCaseHeader
	}

	if startsWithContinuation(code) {
		return Continuation
	}

	ref, ok := reference(lines, idx)
	if !ok {
		return StatementStart
	}
	return afterReference(ref)
}

// IsDeclaration reports whether code starts a declaration.
func IsDeclaration(code string) bool {
	if strings.HasPrefix(code, "@") || typePattern.MatchString(code) {
		return true
	}
	for _, word := range declarationWords {
		if startsWithWord(code, word) {
			return true
		}
	}
	return strings.HasPrefix(code, "async ") && startsWithWord(strings.TrimSpace(code[len("async"):]), "function")
}

// IsCaseHeader reports whether code is a case or default clause header.
func IsCaseHeader(code string) bool {
	if startsWithWord(code, "case") {
		return strings.HasSuffix(code, ":") || strings.HasSuffix(code, "{")
	}
	if !startsWithWord(code, "default") {
		return false
	}
	rest := strings.TrimSpace(code[len("default"):])
	return strings.HasPrefix(rest, ":")
}

// IsLabel reports whether code begins with a label or an object key.
func IsLabel(code string) bool {
	return labelPattern.MatchString(code) && !strings.HasPrefix(code, "default")
}

func startsWithContinuation(code string) bool {
	for _, token := range leadingContinuations {
		if strings.HasPrefix(code, token) {
			return true
		}
	}
	for _, word := range continuationWords {
		if startsWithWord(code, word) {
			return true
		}
	}
	return false
}

// reference returns the nearest previous non-blank line. A comment line is
// skipped once; a second comment means there is no usable signal.
func reference(lines []Line, idx int) (Line, bool) {
	skippedComment := false
	for prev := idx - 1; prev >= 0; prev-- {
		line := lines[prev]
		if line.IsBlank() {
			continue
		}
		if line.IsCommentOnly() {
			if skippedComment {
				return Line{}, false
			}
			skippedComment = true
			continue
		}
		return line, true
	}
	return Line{}, false
}

func afterReference(ref Line) Kind {
	code := ref.Code

	switch {
	case strings.HasSuffix(code, ";"):
		return StatementStart
	case strings.HasSuffix(code, "{"):
		if HeaderKind(strings.TrimSuffix(code, "{"), CodeBlock) == NonCodeBlock {
			return Continuation
		}
		return StatementStart
	case strings.HasSuffix(code, "}"):
		return StatementStart
	case IsCaseHeader(code):
		return StatementStart
	case IsLabel(code) && strings.HasSuffix(code, ":"):
		// A bare label belongs to the statement that follows it.
		return Continuation
	case strings.HasSuffix(code, ")"):
		if isConditionalHeader(code) {
			return Continuation
		}
		return StatementStart
	case strings.HasSuffix(code, "++") || strings.HasSuffix(code, "--"):
		return StatementStart
	case endsWithOperator(code):
		return Continuation
	}

	for _, word := range trailingWords {
		if endsWithWord(code, word) {
			return Continuation
		}
	}

	return StatementStart
}

func endsWithOperator(code string) bool {
	if code == "" {
		return false
	}
	switch code[len(code)-1] {
	case ',', '(', '[', '.', '+', '-', '*', '/', '%', '=', '&', '|', '^', '?', ':', '<', '>', '!', '~':
		return true
	}
	return false
}

// isConditionalHeader reports whether code is an if/for/while header with
// no braced body, so the next line is its body.
func isConditionalHeader(code string) bool {
	for _, head := range conditionalHeads {
		if startsWithWord(code, head) {
			return balancedParens(code)
		}
	}
	return false
}

func balancedParens(code string) bool {
	depth := 0
	for idx := range len(code) {
		switch code[idx] {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth == 0
}
