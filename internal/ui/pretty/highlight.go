package pretty

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/yaklabco/conlog/pkg/langdetect"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// lexerName maps a dialect to a chroma lexer name.
func lexerName(lang langdetect.Language) string {
	switch lang {
	case langdetect.TypeScript, langdetect.TSX:
		return "typescript"
	case langdetect.JSX:
		return "react"
	case langdetect.Vue:
		return "vue"
	case langdetect.Svelte:
		return "svelte"
	default:
		return "javascript"
	}
}

// Highlight returns src with terminal syntax highlighting. Without color, or
// if chroma fails, src is returned unchanged.
func (s *Styles) Highlight(src string, lang langdetect.Language) string {
	if !s.ColorEnabled || src == "" {
		return src
	}

	var builder strings.Builder
	if err := quick.Highlight(&builder, src, lexerName(lang), highlightFormatter, highlightStyle); err != nil {
		return src
	}
	return strings.TrimSuffix(builder.String(), "\n")
}
