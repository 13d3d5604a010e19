package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/conlog/internal/logging"
	"github.com/yaklabco/conlog/pkg/config"
	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/fsutil"
	"github.com/yaklabco/conlog/pkg/insert"
	"github.com/yaklabco/conlog/pkg/langdetect"
	"github.com/yaklabco/conlog/pkg/reporter"
	"github.com/yaklabco/conlog/pkg/source"
)

// documentFlags select the document and cursor of a single-document command.
type documentFlags struct {
	file          string
	stdinFilename string
	offset        int
	selectionEnd  int
	line          int
	column        int

	format  string
	write   bool
	print   bool
	compact bool
}

func addDocumentFlags(cmd *cobra.Command, flags *documentFlags, withSelection bool) {
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "document to edit (default: stdin)")
	cmd.Flags().StringVar(&flags.stdinFilename, "stdin-filename", "", "file name used for language detection of stdin")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "cursor byte offset")
	cmd.Flags().IntVar(&flags.line, "line", 0, "cursor line (1-based), instead of --offset")
	cmd.Flags().IntVar(&flags.column, "column", 1, "cursor column (1-based bytes), with --line")
	if withSelection {
		cmd.Flags().IntVar(&flags.selectionEnd, "selection-end", -1, "byte offset of the selection end; the cursor sits here")
	}
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "apply the edits to --file")
	cmd.Flags().BoolVar(&flags.print, "print", false, "print the edited document instead of the edits")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
}

func newInsertCommand() *cobra.Command {
	flags := &documentFlags{}
	rflags := &removalFlags{}

	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert a statement logging the selection",
		Long: `Insert a console.log statement for the selected text after the
statement that holds the cursor.

A single identifier is logged with a label and its value; other text is
logged as a string. The new line takes the indentation of the cursor line.

Examples:
  conlog insert -f app.js --offset 120 --selection-end 125
  conlog insert -f app.js --line 12 --column 9 --write
  cat app.js | conlog insert --offset 40 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInsert(cmd, flags, rflags)
		},
	}

	addDocumentFlags(cmd, flags, true)
	addPrefixFlag(cmd, rflags)

	return cmd
}

func newScopeCommand() *cobra.Command {
	flags := &documentFlags{}
	rflags := &removalFlags{}

	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Insert numbered statements through the enclosing block",
		Long: `Insert a numbered console.log before every statement of the block
that encloses the cursor, or of the whole document at top level.

Continuation lines, declarations, case labels and existing log lines are
skipped, and numbering has no gaps.

Examples:
  conlog scope -f app.js --line 30
  conlog scope -f app.js --offset 512 --format diff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScope(cmd, flags, rflags)
		},
	}

	addDocumentFlags(cmd, flags, false)
	addPrefixFlag(cmd, rflags)

	return cmd
}

func runInsert(cmd *cobra.Command, flags *documentFlags, rflags *removalFlags) error {
	in, cfg, err := prepareDocument(cmd, flags, rflags)
	if err != nil {
		return err
	}

	offset, err := resolveOffset(in.Document, flags.offset, flags.line, flags.column)
	if err != nil {
		return err
	}

	sel := source.Cursor(offset)
	if flags.selectionEnd >= 0 {
		sel.Active = flags.selectionEnd
	}

	var edits []fix.TextEdit
	if res, ok := insert.AtSelection(in.Document, sel, cfg.Prefix()); ok {
		logging.FromContext(commandContext(cmd)).Debug("selection insertion",
			logging.FieldOffset, offset,
			"after_line", res.AfterLine+1,
			"statement", res.Statement,
		)
		edits = []fix.TextEdit{res.Edit}
	}

	return emitEdits(cmd, flags, in, "insert", edits)
}

func runScope(cmd *cobra.Command, flags *documentFlags, rflags *removalFlags) error {
	in, cfg, err := prepareDocument(cmd, flags, rflags)
	if err != nil {
		return err
	}

	offset, err := resolveOffset(in.Document, flags.offset, flags.line, flags.column)
	if err != nil {
		return err
	}

	res := insert.Scope(in.Document, offset, cfg.Prefix())
	logging.FromContext(commandContext(cmd)).Debug("scope insertion",
		logging.FieldOffset, offset,
		"block", res.Block.Status.String(),
		"first_line", res.FirstLine+1,
		"last_line", res.LastLine+1,
		logging.FieldEdits, len(res.Edits),
	)

	return emitEdits(cmd, flags, in, "scope", res.Edits)
}

// prepareDocument validates flags, loads configuration and reads the document.
func prepareDocument(cmd *cobra.Command, flags *documentFlags, rflags *removalFlags) (*input, *config.Config, error) {
	if flags.write && (flags.file == "" || flags.file == stdinPath) {
		return nil, nil, fmt.Errorf("%w: --write needs --file", ErrUsage)
	}
	if _, err := reporter.ParseFormat(flags.format); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cli := &config.Config{}
	rflags.apply(cmd, cli)

	cfg, _, err := loadConfig(cmd, cli)
	if err != nil {
		return nil, nil, err
	}

	in, err := readInput(cmd, flags.file, flags.stdinFilename)
	if err != nil {
		return nil, nil, err
	}

	return in, cfg, nil
}

// emitEdits writes, prints or reports the edits of a single-document
// command.
func emitEdits(cmd *cobra.Command, flags *documentFlags, in *input, action string, edits []fix.TextEdit) error {
	ctx := commandContext(cmd)
	content := in.Document.Content

	if flags.write || flags.print {
		prepared, err := fix.PrepareEdits(edits, len(content))
		if err != nil {
			return fmt.Errorf("%w: apply edits: %w", ErrInternal, err)
		}
		modified := fix.ApplyEdits(content, prepared)

		if flags.print {
			if _, err := cmd.OutOrStdout().Write(modified); err != nil {
				return fmt.Errorf("%w: write output: %w", ErrInternal, err)
			}
			return nil
		}

		if err := fsutil.WriteChecked(ctx, in.Info, modified); err != nil {
			return fmt.Errorf("write %s: %w", in.Path, err)
		}
		logging.FromContext(ctx).Info("updated file",
			logging.FieldPath, in.Path,
			logging.FieldAction, action,
			logging.FieldEdits, len(edits),
		)
		return nil
	}

	format, _ := reporter.ParseFormat(flags.format)
	rep := reporter.NewEditReporter(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowSummary: true,
		Compact:     flags.compact,
	})

	err := rep.Report(ctx, reporter.EditSet{
		Action:   action,
		Path:     in.Path,
		Language: langdetect.ForFile(in.Path, content),
		Document: in.Document,
		Edits:    edits,
	})
	if err != nil {
		return fmt.Errorf("%w: report edits: %w", ErrInternal, err)
	}
	return nil
}
