package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/conlog/internal/configloader"
	"github.com/yaklabco/conlog/internal/logging"
	"github.com/yaklabco/conlog/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	user   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new conlog configuration file",
		Long: `Create a .conlog.yml configuration file in the current directory. The
minimal template lists every option commented out; --full writes the
defaults as live values.

Examples:
  conlog init                      Create minimal .conlog.yml
  conlog init --full               Write every option with its default
  conlog init --format toml        Create .conlog.toml instead
  conlog init --user               Write the user-level config
  conlog init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every option set")
	cmd.Flags().BoolVar(&flags.user, "user", false, "Write to the user config directory")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .conlog.yml or .conlog.toml)")

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.NewInteractive()

	format := config.FileFormat(flags.format)
	if format != config.FileYAML && format != config.FileTOML {
		return fmt.Errorf("%w: invalid format %q: must be yaml or toml", ErrUsage, flags.format)
	}

	outputPath, err := initOutputPath(flags, format)
	if err != nil {
		return err
	}

	err = configloader.WriteTemplate(outputPath, config.TemplateOptions{Full: flags.full, Format: format}, flags.force)
	if errors.Is(err, configloader.ErrConfigExists) {
		return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, outputPath)
	}
	if err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'conlog methods' to see which console methods are matched")

	return nil
}

func initOutputPath(flags *initFlags, format config.FileFormat) (string, error) {
	if flags.output != "" {
		if flags.user {
			return "", fmt.Errorf("%w: --output and --user are mutually exclusive", ErrUsage)
		}
		return filepath.Abs(flags.output)
	}

	if flags.user {
		dir, err := configloader.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locate user config: %w", err)
		}
		return filepath.Join(dir, "config."+string(format)), nil
	}

	name := ".conlog.yml"
	if format == config.FileTOML {
		name = ".conlog.toml"
	}
	return filepath.Abs(name)
}
