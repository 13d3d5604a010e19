// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Request fields.
	FieldAction = "action"
	FieldOffset = "offset"
	FieldEdits  = "edits"

	// Configuration fields.
	FieldMethods  = "methods"
	FieldMethod   = "method"
	FieldSelected = "selected"
	FieldKnown    = "known"
	FieldWrite    = "write"
	FieldDryRun   = "dry_run"
	FieldJobs     = "jobs"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesWithCalls  = "files_with_calls"
	FieldMatchesTotal    = "matches_total"
	FieldFilesModified   = "files_modified"

	// Pipeline fields.
	FieldReason = "reason"
	FieldBackup = "backup"

	// Watch fields.
	FieldEvent = "event"
	FieldDirs  = "dirs"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
