package configloader

import (
	"slices"

	"github.com/yaklabco/conlog/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Pointer fields: override wins whenever it is non-nil, so false can undo true
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	if override == nil {
		return base.Clone()
	}

	result := base.Clone()

	result.LogPrefix = pick(result.LogPrefix, override.LogPrefix)
	result.IncludeAll = pick(result.IncludeAll, override.IncludeAll)
	result.IncludeWarn = pick(result.IncludeWarn, override.IncludeWarn)
	result.IncludeError = pick(result.IncludeError, override.IncludeError)
	result.IncludeDebug = pick(result.IncludeDebug, override.IncludeDebug)
	result.IncludeInline = pick(result.IncludeInline, override.IncludeInline)
	result.Markdown = pick(result.Markdown, override.Markdown)
	result.Backups.Enabled = pick(result.Backups.Enabled, override.Backups.Enabled)

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// CLI-only switches can only be turned on by a later layer.
	if override.Write {
		result.Write = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Methods != nil {
		result.Methods = slices.Clone(override.Methods)
	}
	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return result
}

func pick[T any](base, override *T) *T {
	if override == nil {
		return base
	}
	v := *override
	return &v
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
