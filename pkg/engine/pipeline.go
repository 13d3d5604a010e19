package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/yaklabco/conlog/internal/logging"
	"github.com/yaklabco/conlog/pkg/config"
	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/fsutil"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// Result contains the outcome of running one file through the pipeline.
type Result struct {
	*FileResult

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Modified is true if removal changes the content.
	Modified bool

	// ModifiedContent is the content after removal (nil if not modified).
	ModifiedContent []byte

	// Diff is the unified diff of the change, when requested.
	Diff *fix.Diff

	// Skipped is true if the file was not written (e.g., concurrent modification).
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a sidecar backup was written.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool
}

// Summary returns a short human-readable status.
func (r *Result) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "cleaned (backup created)"
	case r.Written:
		return "cleaned"
	case r.Modified:
		return "changes pending"
	case r.FileResult != nil && r.HasFindings():
		return "statements found"
	default:
		return "ok"
	}
}

// Options controls pipeline behavior.
type Options struct {
	// Write applies removals to disk.
	Write bool

	// DryRun computes changes and diffs without writing.
	DryRun bool

	// Diff generates a unified diff for modified files.
	Diff bool

	// Backup writes a sidecar backup before the first change to a file.
	Backup bool
}

// OptionsFromConfig derives pipeline options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{
		Write:  cfg.Write && !cfg.DryRun,
		DryRun: cfg.DryRun,
		Diff:   cfg.DryRun || cfg.Format == config.FormatDiff,
		Backup: cfg.BackupsEnabled(),
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	Engine *Engine
}

// NewPipeline creates a pipeline around engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile runs the full pipeline for a single file:
//  1. Read and hash the original file.
//  2. Compute the removal edits and apply them in memory.
//  3. Generate a diff (dry-run or diff output).
//  4. Check for concurrent modification.
//  5. Create a sidecar backup (if enabled).
//  6. Write the new content atomically.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts Options,
) (*Result, error) {
	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, original, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified || !opts.Write || opts.DryRun {
		return result, nil
	}

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	logger := logging.FromContext(ctx)
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		logger.Warn("skipped file", logging.FieldPath, path, logging.FieldReason, result.SkipReason)
		return result, nil
	}

	if opts.Backup {
		created, err := fsutil.CreateBackup(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode.Perm()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	logger.Debug("wrote file",
		logging.FieldPath, path,
		logging.FieldEdits, len(result.Edits),
		logging.FieldBackup, result.BackupCreated,
	)

	return result, nil
}

// ProcessContent processes in-memory content without file I/O.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	opts Options,
) (*Result, error) {
	fileResult, err := p.Engine.Process(ctx, path, content, cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{FileResult: fileResult}
	if len(fileResult.SkippedEdits) > 0 {
		logging.FromContext(ctx).Warn("skipped overlapping edits",
			logging.FieldPath, path,
			logging.FieldEdits, len(fileResult.SkippedEdits),
		)
	}
	if !fileResult.HasEdits() {
		return result, nil
	}

	result.ModifiedContent = fix.ApplyEdits(content, fileResult.Edits)
	result.Modified = true

	if opts.Diff || opts.DryRun {
		result.Diff = fix.GenerateDiff(path, content, result.ModifiedContent)
	}

	return result, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrWriteFailure)
}
