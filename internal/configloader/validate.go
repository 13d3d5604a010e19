package configloader

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/yaklabco/conlog/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.mode").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown console methods).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// KnownConsoleMethods lists the methods of the standard console object.
//
//nolint:gochecknoglobals // Read-only lookup table.
var KnownConsoleMethods = []string{
	"assert", "clear", "count", "countReset", "debug", "dir", "dirxml",
	"error", "group", "groupCollapsed", "groupEnd", "info", "log",
	"profile", "profileEnd", "table", "time", "timeEnd", "timeLog",
	"timeStamp", "trace", "warn",
}

// methodPattern matches a valid JavaScript member name.
//
//nolint:gochecknoglobals // compiled once
var methodPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// maxSuggestionDistance bounds the edit distance for "did you mean" hints.
const maxSuggestionDistance = 2

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, diff", cfg.Format),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.Backups.Mode != "" && !IsValidBackupMode(cfg.Backups.Mode) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "backups.mode",
			Value:   cfg.Backups.Mode,
			Message: fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode),
		})
	}

	if cfg.LogPrefix != nil && strings.ContainsAny(*cfg.LogPrefix, "\r\n") {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_prefix",
			Value:   *cfg.LogPrefix,
			Message: "log prefix must be a single line",
		})
	}

	validateMethods(cfg, result)
	validateExtensions(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

// validateMethods rejects malformed method names and warns about names
// that the console object does not define.
func validateMethods(cfg *config.Config, result *ValidationResult) {
	for i, method := range cfg.Methods {
		field := fmt.Sprintf("methods[%d]", i)
		if !methodPattern.MatchString(method) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Value:   method,
				Message: fmt.Sprintf("invalid method name %q", method),
			})
			continue
		}

		if slices.Contains(KnownConsoleMethods, method) {
			continue
		}

		msg := fmt.Sprintf("unknown console method %q", method)
		if suggestion := SuggestMethod(method); suggestion != "" {
			msg += fmt.Sprintf("; did you mean %q?", suggestion)
		}
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   field,
			Value:   method,
			Message: msg,
		})
	}
}

// SuggestMethod returns the known console method closest to name, or ""
// when nothing is close enough.
func SuggestMethod(name string) string {
	if name == "" {
		return ""
	}

	// Prefix-like input such as "grp" or "timeend".
	ranks := fuzzy.RankFindNormalizedFold(name, KnownConsoleMethods)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", maxSuggestionDistance+1
	for _, candidate := range KnownConsoleMethods {
		distance := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(candidate))
		if distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

func validateExtensions(cfg *config.Config, result *ValidationResult) {
	for i, ext := range cfg.Extensions {
		if len(ext) < 2 || ext[0] != '.' || strings.ContainsAny(ext, `/\`) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("extensions[%d]", i),
				Value:   ext,
				Message: fmt.Sprintf("invalid extension %q; must look like \".js\"", ext),
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern %q", pattern),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return f.IsValid()
}

// IsValidBackupMode returns true if the backup mode is valid.
func IsValidBackupMode(mode config.BackupMode) bool {
	return mode == config.BackupSidecar || mode == config.BackupNone
}
