package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/conlog/pkg/engine"
	"github.com/yaklabco/conlog/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string           `json:"path"`
	Language string           `json:"language,omitempty"`
	Findings []engine.Finding `json:"findings"`
	Edits    []JSONEdit       `json:"edits,omitempty"`
	Modified bool             `json:"modified,omitempty"`
	Backup   bool             `json:"backup,omitempty"`
	Skipped  string           `json:"skipped,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked      int            `json:"filesChecked"`
	FilesWithMatches  int            `json:"filesWithMatches"`
	FilesModified     int            `json:"filesModified"`
	FilesErrored      int            `json:"filesErrored"`
	StatementsFound   int            `json:"statementsFound"`
	StatementsRemoved int            `json:"statementsRemoved"`
	ByMethod          map[string]int `json:"byMethod"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.StatementsFound, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	version := r.opts.Version
	if version == "" {
		version = "dev"
	}

	output := &JSONOutput{
		Version: version,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{ByMethod: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)
		fileResult := JSONFileResult{
			Path:     path,
			Findings: make([]engine.Finding, 0),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		if res := file.Result; res != nil && res.FileResult != nil {
			fileResult.Language = string(res.Language)
			fileResult.Modified = res.Written
			fileResult.Backup = res.BackupCreated
			if res.Skipped {
				fileResult.Skipped = res.SkipReason
			}
			for _, finding := range res.Findings {
				finding.Path = path
				fileResult.Findings = append(fileResult.Findings, finding)
			}
			fileResult.Edits = toJSONEdits(res.Edits)
		}

		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary.FilesChecked = stats.FilesProcessed
	output.Summary.FilesWithMatches = stats.FilesWithMatches
	output.Summary.FilesModified = stats.FilesModified
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.StatementsFound = stats.MatchesTotal
	output.Summary.StatementsRemoved = stats.MatchesRemoved
	for method, count := range stats.MatchesByMethod {
		output.Summary.ByMethod[method] = count
	}

	return output
}
