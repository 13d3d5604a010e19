package runner

import "github.com/yaklabco/conlog/pkg/engine"

// FileOutcome wraps a pipeline result with its path.
type FileOutcome struct {
	Path string

	// Result is nil if the file could not be processed.
	Result *engine.Result

	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int

	// FilesSkipped counts files left alone because they changed on disk.
	FilesSkipped int
	FilesErrored int

	// MatchesTotal counts every console call found.
	MatchesTotal int

	// MatchesRemovable counts calls that removal would delete.
	MatchesRemovable int

	// MatchesByMethod maps console method names to counts.
	MatchesByMethod map[string]int

	FilesWithMatches int
	FilesModified    int

	// MatchesRemoved counts calls deleted from written files.
	MatchesRemoved int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasMatches reports whether any console call was found.
func (r *Result) HasMatches() bool {
	if r == nil {
		return false
	}
	return r.Stats.MatchesTotal > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

// NewResult builds a Result from outcomes computed outside Run, such as a
// document read from stdin.
func NewResult(outcomes ...FileOutcome) *Result {
	result := &Result{Stats: newStats()}
	result.Stats.FilesDiscovered = len(outcomes)
	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	return result
}

func newStats() Stats {
	return Stats{MatchesByMethod: make(map[string]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++

	if outcome.Result.Skipped {
		r.Stats.FilesSkipped++
	}

	if outcome.Result.FileResult == nil {
		return
	}

	findings := outcome.Result.Findings
	removable := outcome.Result.RemovableCount()
	r.Stats.MatchesTotal += len(findings)
	r.Stats.MatchesRemovable += removable
	if len(findings) > 0 {
		r.Stats.FilesWithMatches++
	}
	for _, finding := range findings {
		r.Stats.MatchesByMethod[finding.Method]++
	}

	if outcome.Result.Written {
		r.Stats.FilesModified++
		r.Stats.MatchesRemoved += removable
	}
}
