package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/conlog/internal/logging"
	"github.com/yaklabco/conlog/pkg/config"
	"github.com/yaklabco/conlog/pkg/engine"
	"github.com/yaklabco/conlog/pkg/reporter"
	"github.com/yaklabco/conlog/pkg/runner"
)

type batchFlags struct {
	format          string
	ignore          []string
	extensions      []string
	markdown        bool
	includeVendored bool
	followSymlinks  bool
	showSource      bool
	summary         bool
	compact         bool
	stdinFilename   string
}

func addBatchFlags(cmd *cobra.Command, cfg *config.Config, flags *batchFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to process, e.g. .js,.ts")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "also process fenced code in Markdown files")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false, "process node_modules, bundles and minified files")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVar(&flags.showSource, "source", false, "print each matched call")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a detailed summary with per-method counts")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().StringVar(&flags.stdinFilename, "stdin-filename", "", "file name used for language detection of stdin")
}

func (f *batchFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
	if changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if changed("ext") {
		cfg.Extensions = f.extensions
	}
	if changed("markdown") {
		cfg.Markdown = config.Ptr(f.markdown)
	}
}

func newRemoveCommand() *cobra.Command {
	var cfg config.Config
	flags := &batchFlags{}
	rflags := &removalFlags{}

	cmd := &cobra.Command{
		Use:   "remove [paths...]",
		Short: "Remove console statements from files",
		Long: `Find console statements in JavaScript and TypeScript files and remove them.

Without --write, matches are only reported. With --write, files are
rewritten atomically after a sidecar backup (.conlog.bak) is made. Blank
lines around a removed statement are collapsed so no gap is left behind.

Use "-" as the only path to read a document from stdin; the cleaned
document is written to stdout.

Examples:
  conlog remove                      # report in the current directory
  conlog remove src --write          # clean src/ in place
  conlog remove --dry-run            # show diffs without writing
  conlog remove --warn --error -w    # also remove console.warn and console.error
  conlog remove - < app.js           # filter stdin`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, &cfg, flags, rflags, false)
		},
	}

	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", false, "write changes to files")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show diffs without writing")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "do not create .conlog.bak backups")
	addBatchFlags(cmd, &cfg, flags)
	addRemovalFlags(cmd, rflags)

	return cmd
}

func newCheckCommand() *cobra.Command {
	var cfg config.Config
	flags := &batchFlags{}
	rflags := &removalFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Fail when console statements are present",
		Long: `Report console statements without changing any file.

The exit code is 1 when a statement is found, which makes check suitable
for CI and pre-commit hooks.

Examples:
  conlog check
  conlog check src --all --format json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, &cfg, flags, rflags, true)
		},
	}

	addBatchFlags(cmd, &cfg, flags)
	addRemovalFlags(cmd, rflags)

	return cmd
}

func runBatch(
	cmd *cobra.Command,
	args []string,
	cli *config.Config,
	flags *batchFlags,
	rflags *removalFlags,
	check bool,
) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if cli.Write && cli.DryRun {
		logger.Warn("--dry-run given with --write; nothing will be written")
	}

	flags.apply(cmd, cli)
	rflags.apply(cmd, cli)

	cfg, workDir, err := loadConfig(cmd, cli)
	if err != nil {
		return err
	}

	pipeline := engine.NewPipeline(engine.New())

	if len(args) == 1 && args[0] == stdinPath {
		return runStdin(cmd, pipeline, cfg, flags, format, check)
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir
	runOpts.IncludeVendored = flags.includeVendored
	runOpts.FollowSymlinks = flags.followSymlinks

	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(pipeline).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	logger.Debug("run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesWithCalls, result.Stats.FilesWithMatches,
		logging.FieldMatchesTotal, result.Stats.MatchesTotal,
		logging.FieldFilesModified, result.Stats.FilesModified,
	)

	rep, err := reporter.New(reporter.Options{
		Writer:          cmd.OutOrStdout(),
		ErrorWriter:     cmd.ErrOrStderr(),
		Format:          format,
		Color:           colorMode(cmd),
		ShowSource:      flags.showSource,
		ShowSummary:     true,
		DetailedSummary: flags.summary,
		Compact:         flags.compact,
		WorkingDir:      workDir,
		Version:         cmd.Root().Version,
	})
	if err != nil {
		return fmt.Errorf("%w: create reporter: %w", ErrInternal, err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("%w: report results: %w", ErrInternal, err)
	}

	return batchError(result, check)
}

// batchError turns a run result into the command error: file failures
// first, then statements found when checking.
func batchError(result *runner.Result, check bool) error {
	if result.HasErrors() {
		errs := make([]error, 0, len(result.Errors)+result.Stats.FilesErrored)
		errs = append(errs, result.Errors...)
		for _, file := range result.Files {
			if file.Error != nil {
				errs = append(errs, file.Error)
			}
		}
		return fmt.Errorf("%d %s failed: %w", len(errs), pluralFiles(len(errs)), errors.Join(errs...))
	}

	if check && ExitCodeFromResult(result) != ExitSuccess {
		return ErrStatementsFound
	}
	return nil
}

func pluralFiles(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}

// runStdin processes one document from stdin. In text format, remove
// prints the cleaned document and check prints findings; json and diff
// output describe the edits.
func runStdin(
	cmd *cobra.Command,
	pipeline *engine.Pipeline,
	cfg *config.Config,
	flags *batchFlags,
	format reporter.Format,
	check bool,
) error {
	ctx := commandContext(cmd)

	in, err := readInput(cmd, stdinPath, flags.stdinFilename)
	if err != nil {
		return err
	}

	res, err := pipeline.ProcessContent(ctx, in.Path, in.Document.Content, cfg, engine.Options{})
	if err != nil {
		return fmt.Errorf("process stdin: %w", err)
	}
	result := runner.NewResult(runner.FileOutcome{Path: in.Path, Result: res})

	out := cmd.OutOrStdout()
	switch {
	case format != reporter.FormatText:
		err = reporter.NewEditReporter(reporter.Options{
			Writer:  out,
			Format:  format,
			Color:   colorMode(cmd),
			Compact: flags.compact,
		}).Report(ctx, reporter.EditSet{
			Action:   "remove",
			Path:     in.Path,
			Language: res.Language,
			Document: in.Document,
			Edits:    res.Edits,
		})
	case check:
		_, err = reporter.NewTextReporter(reporter.Options{
			Writer:      out,
			Color:       colorMode(cmd),
			ShowSource:  flags.showSource,
			ShowSummary: true,
		}).Report(ctx, result)
	default:
		content := in.Document.Content
		if res.Modified {
			content = res.ModifiedContent
		}
		_, err = out.Write(content)
	}
	if err != nil {
		return fmt.Errorf("%w: write output: %w", ErrInternal, err)
	}

	return batchError(result, check)
}
