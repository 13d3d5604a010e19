// Package engine runs removal analysis over whole files, including
// JavaScript fences inside Markdown, and drives the safe write pipeline.
package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/conlog/pkg/config"
	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/langdetect"
	"github.com/yaklabco/conlog/pkg/logstmt"
	"github.com/yaklabco/conlog/pkg/markdown"
	"github.com/yaklabco/conlog/pkg/remove"
	"github.com/yaklabco/conlog/pkg/source"
)

// Finding is one console call located in a file.
type Finding struct {
	Path   string `json:"path"`
	Method string `json:"method"`

	StartOffset int             `json:"start_offset"`
	EndOffset   int             `json:"end_offset"`
	Start       source.Position `json:"start"`
	End         source.Position `json:"end"`

	// Text is the source of the call.
	Text string `json:"text"`

	// Removable is false for inline calls that removal leaves alone.
	Removable bool `json:"removable"`
}

// FileResult contains the results of analysing a single file.
type FileResult struct {
	Path     string
	Language langdetect.Language

	// Document is the analysed snapshot.
	Document *source.Document

	// Findings lists every matched call in source order.
	Findings []Finding

	// Edits contains validated, sorted deletions.
	Edits []fix.TextEdit

	// SkippedEdits contains edits dropped because they overlapped others.
	SkippedEdits []fix.TextEdit
}

// HasFindings returns true if any console call matched.
func (fr *FileResult) HasFindings() bool {
	return len(fr.Findings) > 0
}

// HasEdits returns true if removal would change the file.
func (fr *FileResult) HasEdits() bool {
	return len(fr.Edits) > 0
}

// RemovableCount returns the number of findings that produce an edit.
func (fr *FileResult) RemovableCount() int {
	count := 0
	for _, f := range fr.Findings {
		if f.Removable {
			count++
		}
	}
	return count
}

// Engine coordinates language detection and the removal pass.
type Engine struct {
	// Markdown extracts script fences from Markdown files.
	Markdown *markdown.Parser
}

// New creates an Engine.
func New() *Engine {
	return &Engine{Markdown: markdown.NewParser()}
}

// Process analyses one file's content under cfg.
func (e *Engine) Process(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	doc := source.New(path, content)
	result := &FileResult{
		Path:     path,
		Language: langdetect.ForFile(path, content),
		Document: doc,
	}

	opts := remove.Options{
		Matcher:       cfg.Matcher(),
		IncludeInline: cfg.Inline(),
	}

	var edits []fix.TextEdit
	if result.Language == langdetect.Markdown {
		if !cfg.MarkdownEnabled() {
			return result, nil
		}
		var err error
		edits, err = e.processFences(ctx, result, opts)
		if err != nil {
			return nil, err
		}
	} else {
		removal := remove.Remove(doc, opts)
		result.addFindings(removal, func(offset int) int { return offset })
		edits = removal.Edits
	}

	accepted, skipped, _, err := fix.PrepareEditsFiltered(edits, len(content))
	if err != nil {
		return nil, fmt.Errorf("prepare edits: %w", err)
	}
	result.Edits = accepted
	result.SkippedEdits = skipped

	return result, nil
}

// processFences runs removal inside every script fence and maps the
// results back onto the Markdown document.
func (e *Engine) processFences(ctx context.Context, result *FileResult, opts remove.Options) ([]fix.TextEdit, error) {
	parser := e.Markdown
	if parser == nil {
		parser = markdown.NewParser()
	}

	doc := result.Document
	fences, err := parser.Fences(ctx, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}

	builder := fix.NewEditBuilder(doc)
	for _, fence := range fences {
		removal := remove.Remove(source.New(result.Path, fence.Text(doc.Content)), opts)
		result.addFindings(removal, fence.DocumentOffset)
		for _, edit := range removal.Edits {
			builder.ReplaceRange(fence.DocumentOffset(edit.StartOffset), fence.DocumentOffset(edit.EndOffset), edit.NewText)
		}
	}
	return builder.Edits, nil
}

func (fr *FileResult) addFindings(removal remove.Result, toDocument func(int) int) {
	add := func(matches []logstmt.Match, removable bool) {
		for _, match := range matches {
			start, end := toDocument(match.Start), toDocument(match.End)
			fr.Findings = append(fr.Findings, Finding{
				Path:        fr.Path,
				Method:      match.Method,
				StartOffset: start,
				EndOffset:   end,
				Start:       fr.Document.Position(start),
				End:         fr.Document.Position(end),
				Text:        string(fr.Document.Content[start:end]),
				Removable:   removable,
			})
		}
	}
	add(removal.Matches, true)
	add(removal.Ignored, false)
	sortFindings(fr.Findings)
}

func sortFindings(findings []Finding) {
	slices.SortStableFunc(findings, func(a, b Finding) int {
		return cmp.Compare(a.StartOffset, b.StartOffset)
	})
}
