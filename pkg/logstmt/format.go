// Package logstmt builds console logging statements and finds existing ones.
package logstmt

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultPrefix is the label prefix used when none is configured.
const DefaultPrefix = "👉🏻 --->|"

//nolint:gochecknoglobals // read-only replacer
var (
	singleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	doubleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
)

// Label joins prefix and text with exactly one space. Trailing spaces on
// the prefix are dropped; an empty prefix yields text unchanged.
func Label(prefix, text string) string {
	prefix = strings.TrimRight(prefix, " \t")
	if prefix == "" {
		return text
	}
	return prefix + " " + text
}

// IsSingleExpression reports whether a selection is logged by value, that is
// it is non-empty and contains no whitespace.
func IsSingleExpression(selected string) bool {
	if selected == "" {
		return false
	}
	return !strings.ContainsFunc(selected, unicode.IsSpace)
}

// ForSelection returns the statement logging selected, without indentation
// or newline.
//
//	userId       -> console.log('<prefix> userId: ', userId);
//	two words    -> console.log('<prefix> two words');
//	(empty)      -> console.log('<prefix> ');
func ForSelection(prefix, selected string) string {
	trimmed := strings.TrimSpace(selected)
	if IsSingleExpression(trimmed) {
		label := singleQuoteEscaper.Replace(Label(prefix, trimmed+": "))
		return "console.log('" + label + "', " + trimmed + ");"
	}

	return "console.log('" + singleQuoteEscaper.Replace(Label(prefix, trimmed)) + "');"
}

// ForScope returns the n-th numbered statement of a scope insertion.
func ForScope(prefix string, n int) string {
	return `console.log("` + doubleQuoteEscaper.Replace(Label(prefix, strconv.Itoa(n))) + `");`
}
