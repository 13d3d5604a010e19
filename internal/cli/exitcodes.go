package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/yaklabco/conlog/internal/configloader"
	"github.com/yaklabco/conlog/pkg/engine"
	"github.com/yaklabco/conlog/pkg/fsutil"
	"github.com/yaklabco/conlog/pkg/runner"
)

// Exit codes for conlog.
const (
	// ExitSuccess indicates successful execution with nothing to report.
	ExitSuccess = 0

	// ExitStatementsFound indicates console statements were found, or the
	// command failed for a reason without a more specific code.
	ExitStatementsFound = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrStatementsFound is returned by check when console statements remain.
	ErrStatementsFound = errors.New("console statements found")

	// ErrUsage marks invalid flag or argument combinations.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration load and validation failures.
	ErrConfig = errors.New("configuration error")

	// ErrInternal marks failures that indicate a bug or broken output stream.
	ErrInternal = errors.New("internal error")
)

// ExitCodeFromResult determines the exit code of a check run.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasMatches() || result.HasErrors() {
		return ExitStatementsFound
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrStatementsFound):
		return ExitStatementsFound
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, ErrInternal):
		return ExitInternalError
	case errors.Is(err, context.Canceled):
		return ExitStatementsFound
	case errors.Is(err, engine.ErrFileNotFound),
		errors.Is(err, engine.ErrPermissionDenied),
		errors.Is(err, engine.ErrWriteFailure),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrModified),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitStatementsFound
	}
}

// IsQuiet reports whether err is only a signal for the exit code and
// should not be logged.
func IsQuiet(err error) bool {
	return errors.Is(err, ErrStatementsFound)
}
