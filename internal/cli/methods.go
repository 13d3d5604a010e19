package cli

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/conlog/internal/configloader"
	"github.com/yaklabco/conlog/internal/logging"
	"github.com/yaklabco/conlog/pkg/config"
)

const formatJSON = "json"

// methodInfo represents a console method in JSON output.
type methodInfo struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
	Known    bool   `json:"known"`
}

func newMethodsCommand() *cobra.Command {
	var cfg config.Config
	rflags := &removalFlags{}
	var format string

	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List console methods and which ones are matched",
		Long: `List the methods of the console object and mark the ones that remove
and check would match with the current configuration and flags.

Methods configured but not defined by the console object are listed too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "text" && format != formatJSON {
				return fmt.Errorf("%w: invalid format %q; must be text or json", ErrUsage, format)
			}

			rflags.apply(cmd, &cfg)
			resolved, _, err := loadConfig(cmd, &cfg)
			if err != nil {
				return err
			}

			infos := methodInfos(resolved)
			if format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(infos); err != nil {
					return fmt.Errorf("encoding methods: %w", err)
				}
				return nil
			}

			logger := logging.NewWithWriter(cmd.OutOrStdout(), "info")
			logger.Info("console methods")
			for _, info := range infos {
				logger.Info(info.Name,
					logging.FieldSelected, info.Selected,
					logging.FieldKnown, info.Known,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")
	addRemovalFlags(cmd, rflags)

	return cmd
}

// methodInfos lists the known console methods followed by any extra
// configured methods.
func methodInfos(cfg *config.Config) []methodInfo {
	selected := cfg.LogMethods()
	all := cfg.All()

	infos := make([]methodInfo, 0, len(configloader.KnownConsoleMethods)+len(selected))
	for _, name := range configloader.KnownConsoleMethods {
		infos = append(infos, methodInfo{
			Name:     name,
			Selected: all || slices.Contains(selected, name),
			Known:    true,
		})
	}
	for _, name := range selected {
		if slices.Contains(configloader.KnownConsoleMethods, name) {
			continue
		}
		infos = append(infos, methodInfo{Name: name, Selected: true})
	}
	return infos
}
