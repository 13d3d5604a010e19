package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/conlog/pkg/engine"
	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/langdetect"
)

// FormatFinding formats a single console call for terminal output:
//
//	src/app.js:12:3  console.log  console.log(user)
//
// With showSource, the call is printed on its own lines below, highlighted.
func (s *Styles) FormatFinding(finding engine.Finding, lang langdetect.Language, showSource bool) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(finding.Path),
		finding.Start.Line,
		finding.Start.Column,
	)

	builder.WriteString("  " + location + "  " + s.FormatMethod(finding.Method))
	if !finding.Removable {
		builder.WriteString("  " + s.Kept.Render("(inline, kept)"))
	}

	text := finding.Text
	if !showSource {
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			text = text[:idx] + " ..."
		}
		builder.WriteString("  " + s.Dim.Render(text) + "\n")
		return builder.String()
	}

	builder.WriteString("\n")
	builder.WriteString(s.FormatSource(text, lang, finding.Start.Line))
	return builder.String()
}

// FormatSource renders a snippet with a line-number gutter starting at line.
func (s *Styles) FormatSource(text string, lang langdetect.Language, line int) string {
	const indent = "    "

	lines := strings.Split(s.Highlight(text, lang), "\n")
	width := len(strconv.Itoa(line + len(lines) - 1))

	var builder strings.Builder
	for i, l := range lines {
		gutter := fmt.Sprintf("%*d |", width, line+i)
		builder.WriteString(indent + s.Gutter.Render(gutter) + " " + l + "\n")
	}
	return builder.String()
}

// FormatMethod renders "console.<method>" colored by method.
func (s *Styles) FormatMethod(method string) string {
	name := "console." + method
	switch method {
	case "error", "assert", "trace":
		return s.Error.Render(name)
	case "warn":
		return s.Warning.Render(name)
	case "log", "info", "debug":
		return s.Info.Render(name)
	default:
		return s.Method.Render(name)
	}
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, count int) string {
	header := s.FilePath.Render(path)
	if count > 0 {
		word := "statements"
		if count == 1 {
			word = "statement"
		}
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", count, word))
	}
	return header
}

// FormatDiff renders a unified diff with colored lines.
func (s *Styles) FormatDiff(diff *fix.Diff, displayPath string) string {
	if !diff.HasChanges() {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(s.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)) + "\n")
	builder.WriteString(s.DiffRemove.Render("--- a/"+displayPath) + "\n")
	builder.WriteString(s.DiffAdd.Render("+++ b/"+displayPath) + "\n")

	for _, hunk := range diff.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)
		builder.WriteString(s.DiffHunk.Render(header) + "\n")

		for _, line := range hunk.Lines {
			text := string(line.Kind.Prefix()) + line.Content
			switch line.Kind {
			case fix.DiffLineAdd:
				text = s.DiffAdd.Render(text)
			case fix.DiffLineRemove:
				text = s.DiffRemove.Render(text)
			default:
				text = s.DiffContext.Render(text)
			}
			builder.WriteString(text + "\n")
		}
	}

	return builder.String()
}
