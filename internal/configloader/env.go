package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/conlog/pkg/config"
)

// envVarPrefix is the prefix for all conlog environment variables.
const envVarPrefix = "CONLOG_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"LOG_PREFIX":      {field: "log_prefix", typ: envTypeString},
	"INCLUDE_ALL":     {field: "include_all", typ: envTypeBool},
	"INCLUDE_WARN":    {field: "include_warn", typ: envTypeBool},
	"INCLUDE_ERROR":   {field: "include_error", typ: envTypeBool},
	"INCLUDE_DEBUG":   {field: "include_debug", typ: envTypeBool},
	"INCLUDE_INLINE":  {field: "include_inline", typ: envTypeBool},
	"METHODS":         {field: "methods", typ: envTypeSlice},
	"EXTENSIONS":      {field: "extensions", typ: envTypeSlice},
	"IGNORE":          {field: "ignore", typ: envTypeSlice},
	"MARKDOWN":        {field: "markdown", typ: envTypeBool},
	"FORMAT":          {field: "format", typ: envTypeString},
	"JOBS":            {field: "jobs", typ: envTypeInt},
	"WRITE":           {field: "write", typ: envTypeBool},
	"DRY_RUN":         {field: "dry_run", typ: envTypeBool},
	"BACKUPS_ENABLED": {field: "backups.enabled", typ: envTypeBool},
	"BACKUPS_MODE":    {field: "backups.mode", typ: envTypeString},
	"NO_BACKUPS":      {field: "no_backups", typ: envTypeBool},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with CONLOG_ (e.g., CONLOG_INCLUDE_ALL).
// CONLOG_LOG_PREFIX is applied even when empty-valued only if it is set.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value, ok := lookup(envVar)
		if !ok || (value == "" && mapping.field != "log_prefix") {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "log_prefix":
		cfg.LogPrefix = config.Ptr(value)
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "backups.mode":
		cfg.Backups.Mode = config.BackupMode(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "include_all":
		cfg.IncludeAll = config.Ptr(value)
	case "include_warn":
		cfg.IncludeWarn = config.Ptr(value)
	case "include_error":
		cfg.IncludeError = config.Ptr(value)
	case "include_debug":
		cfg.IncludeDebug = config.Ptr(value)
	case "include_inline":
		cfg.IncludeInline = config.Ptr(value)
	case "markdown":
		cfg.Markdown = config.Ptr(value)
	case "write":
		cfg.Write = value
	case "dry_run":
		cfg.DryRun = value
	case "backups.enabled":
		cfg.Backups.Enabled = config.Ptr(value)
	case "no_backups":
		cfg.NoBackups = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "methods":
		cfg.Methods = value
	case "extensions":
		cfg.Extensions = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"CONLOG_LOG_PREFIX":      "Label prefix for inserted statements",
		"CONLOG_INCLUDE_ALL":     "Remove every console method: true or false",
		"CONLOG_INCLUDE_WARN":    "Also remove console.warn: true or false",
		"CONLOG_INCLUDE_ERROR":   "Also remove console.error: true or false",
		"CONLOG_INCLUDE_DEBUG":   "Also remove console.debug: true or false",
		"CONLOG_INCLUDE_INLINE":  "Remove calls sharing a line with other code: true or false",
		"CONLOG_METHODS":         "Comma-separated list of extra console methods",
		"CONLOG_EXTENSIONS":      "Comma-separated list of file extensions",
		"CONLOG_IGNORE":          "Comma-separated list of ignore patterns",
		"CONLOG_MARKDOWN":        "Process fenced code in Markdown: true or false",
		"CONLOG_FORMAT":          "Output format: text, json, or diff",
		"CONLOG_JOBS":            "Number of parallel workers (0 = auto)",
		"CONLOG_WRITE":           "Write removals to files: true or false",
		"CONLOG_DRY_RUN":         "Dry-run mode: true or false",
		"CONLOG_BACKUPS_ENABLED": "Enable backups when writing: true or false",
		"CONLOG_BACKUPS_MODE":    "Backup mode: sidecar or none",
		"CONLOG_NO_BACKUPS":      "Disable backups: true or false",
	}
}
