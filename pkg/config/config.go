// Package config defines the configuration types for conlog.
// These types are plain data with no dependency on the loader that fills them.
package config

import (
	"slices"

	"github.com/yaklabco/conlog/pkg/logstmt"
)

// OutputFormat specifies how results are rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// BackupMode selects where backups are written.
type BackupMode string

const (
	BackupSidecar BackupMode = "sidecar"
	BackupNone    BackupMode = "none"
)

// BackupsConfig controls backup behavior when writing files.
type BackupsConfig struct {
	Enabled *bool      `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Mode    BackupMode `yaml:"mode,omitempty" toml:"mode,omitempty"`
}

// StandardMethods lists the console methods with a dedicated include flag.
//
//nolint:gochecknoglobals // read-only list
var StandardMethods = []string{"log", "warn", "error", "debug"}

// DefaultExtensions are the source file extensions processed by default.
//
//nolint:gochecknoglobals // read-only list
var DefaultExtensions = []string{
	".js", ".jsx", ".mjs", ".cjs",
	".ts", ".tsx", ".mts", ".cts",
	".vue", ".svelte",
}

// Config is the root configuration structure.
// Pointer fields distinguish "unset" from the zero value so that layered
// configuration files can turn options off again.
type Config struct {
	// LogPrefix starts the label of every inserted statement.
	LogPrefix *string `yaml:"log_prefix,omitempty" toml:"log_prefix,omitempty"`

	// IncludeAll matches every console method during removal.
	IncludeAll *bool `yaml:"include_all,omitempty" toml:"include_all,omitempty"`

	// IncludeWarn, IncludeError and IncludeDebug add those methods to "log".
	IncludeWarn  *bool `yaml:"include_warn,omitempty" toml:"include_warn,omitempty"`
	IncludeError *bool `yaml:"include_error,omitempty" toml:"include_error,omitempty"`
	IncludeDebug *bool `yaml:"include_debug,omitempty" toml:"include_debug,omitempty"`

	// IncludeInline removes calls that share a line with other code.
	IncludeInline *bool `yaml:"include_inline,omitempty" toml:"include_inline,omitempty"`

	// Methods are additional console methods to remove, e.g. "table".
	Methods []string `yaml:"methods,omitempty" toml:"methods,omitempty"`

	// Extensions overrides the file extensions processed in directories.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Markdown also processes fenced JavaScript/TypeScript code in .md files.
	Markdown *bool `yaml:"markdown,omitempty" toml:"markdown,omitempty"`

	// Backups configures backup behavior when writing.
	Backups BackupsConfig `yaml:"backups,omitempty" toml:"backups,omitempty"`

	// CLI-level options (not persisted to config files).

	// Write applies removals to files in place.
	Write bool `yaml:"-" toml:"-"`

	// DryRun shows what would change without writing.
	DryRun bool `yaml:"-" toml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`

	// NoBackups disables backup creation when writing.
	NoBackups bool `yaml:"-" toml:"-"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		LogPrefix:     Ptr(logstmt.DefaultPrefix),
		IncludeAll:    Ptr(false),
		IncludeWarn:   Ptr(false),
		IncludeError:  Ptr(false),
		IncludeDebug:  Ptr(false),
		IncludeInline: Ptr(false),
		Markdown:      Ptr(false),
		Backups: BackupsConfig{
			Enabled: Ptr(true),
			Mode:    BackupSidecar,
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

func boolValue(p *bool) bool {
	return p != nil && *p
}

// Prefix returns the configured log prefix, or the default when unset.
func (c *Config) Prefix() string {
	if c == nil || c.LogPrefix == nil {
		return logstmt.DefaultPrefix
	}
	return *c.LogPrefix
}

// All reports whether every console method is removed.
func (c *Config) All() bool {
	return c != nil && boolValue(c.IncludeAll)
}

// Inline reports whether inline calls are removed.
func (c *Config) Inline() bool {
	return c != nil && boolValue(c.IncludeInline)
}

// MarkdownEnabled reports whether Markdown fences are processed.
func (c *Config) MarkdownEnabled() bool {
	return c != nil && boolValue(c.Markdown)
}

// BackupsEnabled reports whether a backup is written before a file changes.
func (c *Config) BackupsEnabled() bool {
	if c == nil || c.NoBackups || c.Backups.Mode == BackupNone {
		return false
	}
	return c.Backups.Enabled == nil || *c.Backups.Enabled
}

// LogMethods returns the console methods selected for removal, without
// duplicates and in a stable order.
func (c *Config) LogMethods() []string {
	methods := []string{"log"}
	if c == nil {
		return methods
	}
	if boolValue(c.IncludeWarn) {
		methods = append(methods, "warn")
	}
	if boolValue(c.IncludeError) {
		methods = append(methods, "error")
	}
	if boolValue(c.IncludeDebug) {
		methods = append(methods, "debug")
	}
	for _, method := range c.Methods {
		if !slices.Contains(methods, method) {
			methods = append(methods, method)
		}
	}
	return methods
}

// Matcher builds the console call matcher for this configuration.
func (c *Config) Matcher() *logstmt.Matcher {
	return logstmt.NewMatcher(c.LogMethods(), c.All())
}

// FileExtensions returns the extensions processed in directories,
// including ".md" when Markdown processing is enabled.
func (c *Config) FileExtensions() []string {
	exts := DefaultExtensions
	if c != nil && len(c.Extensions) > 0 {
		exts = c.Extensions
	}
	exts = slices.Clone(exts)
	if c.MarkdownEnabled() && !slices.Contains(exts, ".md") {
		exts = append(exts, ".md", ".markdown")
	}
	return exts
}
