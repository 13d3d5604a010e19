// Package langdetect decides whether files and Markdown code fences hold
// JavaScript-family source. It uses go-enry for extension, shebang, alias,
// vendor and generated-file detection.
package langdetect

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language is a JavaScript-family dialect, or None.
type Language string

const (
	None       Language = ""
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	JSX        Language = "jsx"
	TSX        Language = "tsx"
	Vue        Language = "vue"
	Svelte     Language = "svelte"
	Markdown   Language = "markdown"
)

// IsScript reports whether console calls in the language can be processed.
func (l Language) IsScript() bool {
	switch l {
	case JavaScript, TypeScript, JSX, TSX, Vue, Svelte:
		return true
	default:
		return false
	}
}

// extensions maps file extensions to dialects. enry does not know every
// module-flavoured extension, so this table is consulted first.
//
//nolint:gochecknoglobals // Read-only lookup table.
var extensions = map[string]Language{
	".js":       JavaScript,
	".mjs":      JavaScript,
	".cjs":      JavaScript,
	".jsx":      JSX,
	".ts":       TypeScript,
	".mts":      TypeScript,
	".cts":      TypeScript,
	".tsx":      TSX,
	".vue":      Vue,
	".svelte":   Svelte,
	".md":       Markdown,
	".markdown": Markdown,
}

// fenceTags maps common fence info strings to dialects.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fenceTags = map[string]Language{
	"js":         JavaScript,
	"javascript": JavaScript,
	"mjs":        JavaScript,
	"cjs":        JavaScript,
	"node":       JavaScript,
	"jsx":        JSX,
	"ts":         TypeScript,
	"typescript": TypeScript,
	"mts":        TypeScript,
	"cts":        TypeScript,
	"tsx":        TSX,
	"vue":        Vue,
	"svelte":     Svelte,
}

// fromEnry maps enry language names to dialects.
func fromEnry(name string) Language {
	switch name {
	case "JavaScript":
		return JavaScript
	case "TypeScript":
		return TypeScript
	case "JSX":
		return JSX
	case "TSX":
		return TSX
	case "Vue":
		return Vue
	case "Svelte":
		return Svelte
	case "Markdown":
		return Markdown
	default:
		return None
	}
}

// ForFile detects the dialect of a file from its name and, for
// extensionless scripts, its shebang line.
func ForFile(path string, content []byte) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensions[ext]; ok {
		return lang
	}

	if lang, safe := enry.GetLanguageByExtension(path); safe {
		if detected := fromEnry(lang); detected != None {
			return detected
		}
	}

	if ext == "" && len(content) > 0 {
		if lang, safe := enry.GetLanguageByShebang(content); safe {
			return fromEnry(lang)
		}
	}

	return None
}

// ForFence detects the dialect of a fenced code block from its info string.
// Untagged fences are only claimed when their content is clearly script.
func ForFence(info string, content []byte) Language {
	tag := strings.ToLower(strings.TrimSpace(info))
	if idx := strings.IndexAny(tag, " \t{,"); idx >= 0 {
		tag = tag[:idx]
	}

	if tag == "" {
		return detectUntagged(content)
	}

	if lang, ok := fenceTags[tag]; ok {
		return lang
	}

	if lang, ok := enry.GetLanguageByAlias(tag); ok {
		if detected := fromEnry(lang); detected.IsScript() {
			return detected
		}
	}

	return None
}

// scriptHints are constructs that, together with a console call, make an
// untagged snippet almost certainly JavaScript.
//
//nolint:gochecknoglobals // compiled once
var scriptHints = regexp.MustCompile(`\bconsole\s*\.\s*[A-Za-z_$]+\s*\(|=>|\b(?:const|let|var|function)\s`)

// classifierCandidates are the languages the enry classifier chooses from
// for untagged fences.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"JavaScript", "TypeScript", "Go", "Python", "Shell", "Ruby",
	"Rust", "Java", "C", "JSON", "YAML", "HTML", "CSS",
}

func detectUntagged(content []byte) Language {
	if len(content) == 0 || !scriptHints.Match(content) {
		return None
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fromEnry(lang)
	}

	lang, _ := enry.GetLanguageByClassifier(content, classifierCandidates)
	if detected := fromEnry(lang); detected.IsScript() {
		return detected
	}
	return None
}

// IsVendored reports whether path looks like third-party or build output
// that should not be rewritten (node_modules, dist bundles, minified files).
func IsVendored(path string) bool {
	slashed := filepath.ToSlash(path)
	return enry.IsVendor(slashed) || strings.HasSuffix(slashed, ".min.js")
}

// IsGenerated reports whether the file is machine generated.
func IsGenerated(path string, content []byte) bool {
	return enry.IsGenerated(filepath.ToSlash(path), content)
}
