package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaklabco/conlog/internal/ui/pretty"
	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/langdetect"
	"github.com/yaklabco/conlog/pkg/source"
)

// JSONEdit is the wire form of a text edit.
type JSONEdit struct {
	Kind        string          `json:"kind"`
	StartOffset int             `json:"start_offset"`
	EndOffset   int             `json:"end_offset"`
	Start       source.Position `json:"start"`
	End         source.Position `json:"end"`
	NewText     string          `json:"new_text"`
}

func toJSONEdits(edits []fix.TextEdit) []JSONEdit {
	if len(edits) == 0 {
		return nil
	}
	out := make([]JSONEdit, 0, len(edits))
	for _, edit := range edits {
		out = append(out, JSONEdit{
			Kind:        edit.Kind().String(),
			StartOffset: edit.StartOffset,
			EndOffset:   edit.EndOffset,
			Start:       edit.Start,
			End:         edit.End,
			NewText:     edit.NewText,
		})
	}
	return out
}

// EditSet is the outcome of an insert, scope or remove action on one
// document.
type EditSet struct {
	// Action names the operation, e.g. "insert".
	Action string

	// Path is the document path, or "-" for stdin.
	Path string

	Language langdetect.Language

	// Document is the snapshot the edits were computed against.
	Document *source.Document

	Edits []fix.TextEdit
}

// EditOutput is the JSON form of an EditSet.
type EditOutput struct {
	Action string     `json:"action"`
	Path   string     `json:"path,omitempty"`
	Edits  []JSONEdit `json:"edits"`
}

// NewEditOutput converts set to its JSON form. Edits is never nil.
func NewEditOutput(set EditSet) EditOutput {
	edits := toJSONEdits(set.Edits)
	if edits == nil {
		edits = []JSONEdit{}
	}
	return EditOutput{Action: set.Action, Path: set.Path, Edits: edits}
}

// EditReporter writes edit sets for the single-document commands.
type EditReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewEditReporter creates a new edit reporter.
func NewEditReporter(opts Options) *EditReporter {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	return &EditReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Report writes set in the configured format.
func (r *EditReporter) Report(_ context.Context, set EditSet) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	switch r.opts.Format {
	case FormatJSON:
		encoder := json.NewEncoder(bw)
		encoder.SetEscapeHTML(false)
		if !r.opts.Compact {
			encoder.SetIndent("", "  ")
		}
		if err := encoder.Encode(NewEditOutput(set)); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
	case FormatDiff:
		if set.Document == nil {
			return nil
		}
		modified, _, err := fix.Apply(set.Document.Content, set.Edits)
		if err != nil {
			return fmt.Errorf("apply edits: %w", err)
		}
		diff := fix.GenerateDiff(set.Path, set.Document.Content, modified)
		fmt.Fprint(bw, r.styles.FormatDiff(diff, r.opts.displayPath(set.Path)))
	default:
		r.writeText(bw, set)
	}

	return nil
}

func (r *EditReporter) writeText(bw *bufio.Writer, set EditSet) {
	if len(set.Edits) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Dim.Render("No edits."))
		}
		return
	}

	for _, edit := range set.Edits {
		location := fmt.Sprintf("%s:%d:%d", r.opts.displayPath(set.Path), edit.Start.Line, edit.Start.Column)
		fmt.Fprintf(bw, "  %s  %s\n", r.styles.FilePath.Render(location), r.styles.Bold.Render(edit.Kind().String()))
		if edit.NewText != "" {
			text := strings.Trim(edit.NewText, "\r\n")
			fmt.Fprint(bw, r.styles.FormatSource(text, set.Language, edit.Start.Line))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(bw, r.styles.Dim.Render(fmt.Sprintf("%d %s", len(set.Edits), pluralize(len(set.Edits), "edit", "edits"))))
	}
}
