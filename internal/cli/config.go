package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/conlog/internal/configloader"
	"github.com/yaklabco/conlog/internal/logging"
	"github.com/yaklabco/conlog/pkg/config"
)

// commandContext returns the command context, or a background context
// when the command runs outside Execute (e.g. in tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves configuration for a command, with cli holding the
// values of flags that were set explicitly.
func loadConfig(cmd *cobra.Command, cli *config.Config) (*config.Config, string, error) {
	logger := logging.FromContext(commandContext(cmd))

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("%w: get config flag: %w", ErrInternal, err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldMethods, cfg.LogMethods(),
		logging.FieldWrite, cfg.Write,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}

// colorMode reads the persistent --color flag.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return "auto"
	}
	return mode
}

// removalFlags are the configuration switches shared by the commands that
// match console calls.
type removalFlags struct {
	prefix  string
	all     bool
	warn    bool
	errors  bool
	debug   bool
	inline  bool
	methods []string
}

func addRemovalFlags(cmd *cobra.Command, flags *removalFlags) {
	cmd.Flags().BoolVar(&flags.all, "all", false, "match every console method")
	cmd.Flags().BoolVar(&flags.warn, "warn", false, "also match console.warn")
	cmd.Flags().BoolVar(&flags.errors, "error", false, "also match console.error")
	cmd.Flags().BoolVar(&flags.debug, "debug-calls", false, "also match console.debug")
	cmd.Flags().BoolVar(&flags.inline, "inline", false, "also remove calls that share a line with other code")
	cmd.Flags().StringSliceVar(&flags.methods, "method", nil, "additional console methods to match")
}

func addPrefixFlag(cmd *cobra.Command, flags *removalFlags) {
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "label prefix for inserted statements")
}

// apply copies explicitly set flags into cfg.
func (f *removalFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("prefix") {
		cfg.LogPrefix = config.Ptr(f.prefix)
	}
	if changed("all") {
		cfg.IncludeAll = config.Ptr(f.all)
	}
	if changed("warn") {
		cfg.IncludeWarn = config.Ptr(f.warn)
	}
	if changed("error") {
		cfg.IncludeError = config.Ptr(f.errors)
	}
	if changed("debug-calls") {
		cfg.IncludeDebug = config.Ptr(f.debug)
	}
	if changed("inline") {
		cfg.IncludeInline = config.Ptr(f.inline)
	}
	if changed("method") {
		cfg.Methods = f.methods
	}
}
