package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/conlog/pkg/fsutil"
	"github.com/yaklabco/conlog/pkg/source"
)

// stdinPath names a document read from standard input.
const stdinPath = "-"

// errNoInput is returned when a document is expected on stdin but stdin is
// an interactive terminal.
var errNoInput = errors.New("no input: pass --file or pipe a document on stdin")

// input is a document loaded for a single-document command.
type input struct {
	// Path is the file path, or the --stdin-filename hint for stdin.
	Path string

	// Info is the file state at read time; nil for stdin.
	Info *fsutil.FileInfo

	Document *source.Document
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// readInput loads the document named by path, or stdin when path is empty
// or "-". hint names a stdin document for language detection.
func readInput(cmd *cobra.Command, path, hint string) (*input, error) {
	if path != "" && path != stdinPath {
		content, info, err := fsutil.ReadFile(commandContext(cmd), path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return &input{Path: path, Info: info, Document: source.New(path, content)}, nil
	}

	stdin := cmd.InOrStdin()
	if isTerminal(stdin) {
		return nil, fmt.Errorf("%w: %w", ErrUsage, errNoInput)
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	name := hint
	if name == "" {
		name = stdinPath
	}
	return &input{Path: name, Document: source.New(name, content)}, nil
}

// resolveOffset turns --offset or --line/--column into a byte offset.
// Line and column are 1-based; column counts bytes.
func resolveOffset(doc *source.Document, offset, line, column int) (int, error) {
	if line > 0 {
		if column <= 0 {
			column = 1
		}
		resolved, ok := doc.Offset(line, column)
		if !ok {
			return 0, fmt.Errorf("%w: position %d:%d is outside the document", ErrUsage, line, column)
		}
		return resolved, nil
	}

	if offset < 0 || offset > doc.Len() {
		return 0, fmt.Errorf("%w: offset %d is outside the document (length %d)", ErrUsage, offset, doc.Len())
	}
	return offset, nil
}
