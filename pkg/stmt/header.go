package stmt

import "strings"

// BlockKind says whether a braced block holds statements.
type BlockKind int

const (
	// CodeBlock holds statements: function bodies, control flow, bare blocks.
	CodeBlock BlockKind = iota

	// NonCodeBlock holds members or entries: object literals, class,
	// interface and enum bodies, destructuring patterns.
	NonCodeBlock
)

//nolint:gochecknoglobals // read-only keyword tables
var (
	// Trailing tokens after which '{' opens an object literal.
	objectOpeners = []string{"=", "(", ",", ":", "[", "?", "||", "&&", "??", "...", "<"}

	objectOpenerWords = []string{"return", "default", "yield", "await", "typeof", "in", "of"}

	memberBodyWords = []string{"class", "interface", "enum"}
)

// HeaderKind classifies the block opened by a '{' whose preceding code on
// the same line (comments stripped) is header. parent is the kind of the
// block the brace itself sits in.
func HeaderKind(header string, parent BlockKind) BlockKind {
	header = strings.TrimSpace(header)

	switch {
	case header == "":
		return parent
	case strings.HasSuffix(header, "=>"):
		return CodeBlock
	case IsCaseHeader(header):
		return CodeBlock
	case strings.HasSuffix(header, ":") && IsLabel(header) && parent == CodeBlock:
		// A label in front of a bare block.
		return CodeBlock
	}

	for _, word := range memberBodyWords {
		if containsWord(header, word) && !strings.HasSuffix(header, ")") {
			return NonCodeBlock
		}
	}
	if startsWithWord(header, "type") || startsWithWord(header, "declare") {
		return NonCodeBlock
	}

	for _, token := range objectOpeners {
		if strings.HasSuffix(header, token) {
			return NonCodeBlock
		}
	}
	for _, word := range objectOpenerWords {
		if endsWithWord(header, word) {
			return NonCodeBlock
		}
	}

	return CodeBlock
}
