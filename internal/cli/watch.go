package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/conlog/internal/logging"
	"github.com/yaklabco/conlog/internal/watch"
	"github.com/yaklabco/conlog/pkg/config"
	"github.com/yaklabco/conlog/pkg/engine"
	"github.com/yaklabco/conlog/pkg/reporter"
	"github.com/yaklabco/conlog/pkg/runner"
)

func newWatchCommand() *cobra.Command {
	var cfg config.Config
	flags := &batchFlags{}
	rflags := &removalFlags{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-run check whenever source files change",
		Long: `Run check once, then watch the given paths and check every file that
is created or saved. Files are never modified. Stop with Ctrl-C.

Examples:
  conlog watch
  conlog watch src --warn --error`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, &cfg, flags, rflags, debounce)
		},
	}

	addBatchFlags(cmd, &cfg, flags)
	addRemovalFlags(cmd, rflags)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-checking")

	return cmd
}

func runWatch(
	cmd *cobra.Command,
	args []string,
	cli *config.Config,
	flags *batchFlags,
	rflags *removalFlags,
	debounce time.Duration,
) error {
	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	flags.apply(cmd, cli)
	rflags.apply(cmd, cli)

	cfg, workDir, err := loadConfig(cmd, cli)
	if err != nil {
		return err
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir
	runOpts.IncludeVendored = flags.includeVendored
	runOpts.FollowSymlinks = flags.followSymlinks

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

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewInteractive()
	ctx = logging.WithLogger(ctx, logger)
	watcher := watch.New(runner.New(engine.NewPipeline(engine.New())), watch.Options{
		Run:      runOpts,
		Debounce: debounce,
	}, func(ctx context.Context, result *runner.Result) error {
		if _, err := rep.Report(ctx, result); err != nil {
			return fmt.Errorf("report results: %w", err)
		}
		return nil
	})

	if err := watcher.Run(ctx); err != nil {
		return err
	}
	logger.Info("stopped watching")
	return nil
}
