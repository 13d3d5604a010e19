package pretty

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/conlog/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
	wordStatement       = "statement"
	wordStatements      = "statements"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 statements in 2 files, 4 removable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.MatchesTotal == 0 {
		return s.Success.Render("No console statements found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))) +
			"\n"
	}

	parts := []string{
		fmt.Sprintf("%d %s in %d %s",
			stats.MatchesTotal, plural(stats.MatchesTotal, wordStatement, wordStatements),
			stats.FilesWithMatches, plural(stats.FilesWithMatches, wordFile, wordFiles)),
	}

	if stats.MatchesRemoved > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d removed from %d %s",
			stats.MatchesRemoved, stats.FilesModified, plural(stats.FilesModified, wordFile, wordFiles))))
	} else if stats.MatchesRemovable > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d removable", stats.MatchesRemovable)))
	}

	if kept := stats.MatchesTotal - stats.MatchesRemovable; kept > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d inline kept", kept)))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s failed",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block with a
// per-method breakdown table.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:       " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesWithMatches > 0 {
		builder.WriteString("  Files with console:  " +
			s.Warning.Render(strconv.Itoa(stats.FilesWithMatches)) + "\n")
	}
	if stats.FilesModified > 0 {
		builder.WriteString("  Files cleaned:       " +
			s.Success.Render(strconv.Itoa(stats.FilesModified)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:       " +
			s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:        " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Statements found:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.MatchesTotal)) + "\n")

	if len(stats.MatchesByMethod) > 0 {
		builder.WriteString(s.FormatMethodTable(stats.MatchesByMethod))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Completed with errors"))
	case stats.MatchesRemoved > 0:
		builder.WriteString(s.Success.Render("Console statements removed"))
	case stats.MatchesTotal > 0:
		builder.WriteString(s.Warning.Render("Console statements found"))
	default:
		builder.WriteString(s.Success.Render("Clean"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// FormatMethodTable renders per-method counts, most frequent first.
func (s *Styles) FormatMethodTable(counts map[string]int) string {
	methods := make([]string, 0, len(counts))
	for method := range counts {
		methods = append(methods, method)
	}
	slices.SortFunc(methods, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})

	rows := make([][]string, 0, len(methods))
	for _, method := range methods {
		rows = append(rows, []string{"console." + method, strconv.Itoa(counts[method])})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.TableBorder).
		Headers("METHOD", "COUNT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.TableHeader.Padding(0, 1)
			}
			if col == 1 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	// Indent the table to line up with the rest of the block.
	lines := strings.Split(tbl.String(), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
