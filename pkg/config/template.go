package config

import (
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every option with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the file format: "yaml" or "toml".
	Format FileFormat
}

const templateHeader = `conlog configuration
See: https://github.com/yaklabco/conlog`

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case FileYAML, "":
		opts.Format = FileYAML
	case FileTOML:
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}

	if opts.Full {
		cfg := NewConfig()
		cfg.Ignore = []string{"dist/**", "build/**", "**/*.min.js"}
		return cfg.EncodeWithHeader(opts.Format, commentLines(templateHeader+"\n\nAll options with their default values."))
	}

	if opts.Format == FileTOML {
		return []byte(minimalTOML), nil
	}
	return []byte(minimalYAML), nil
}

func commentLines(text string) string {
	lines := strings.Split(text, "\n")
	for idx, line := range lines {
		lines[idx] = strings.TrimRight("# "+line, " ")
	}
	return strings.Join(lines, "\n")
}

const minimalYAML = `# conlog configuration
# See: https://github.com/yaklabco/conlog

# Label prefix for inserted statements
# log_prefix: "👉🏻 --->|"

# Remove every console method, not only console.log
# include_all: false

# Also remove console.warn / console.error / console.debug
# include_warn: false
# include_error: false
# include_debug: false

# Remove calls that share a line with other code
# include_inline: false

# Extra console methods to remove
# methods:
#   - table
#   - trace

# Process javascript/typescript fences in Markdown files
# markdown: false

# File patterns to ignore (glob patterns)
# ignore:
#   - "dist/**"
#   - "**/*.min.js"

# Backups written before a file is changed
# backups:
#   enabled: true
#   mode: sidecar
`

const minimalTOML = `# conlog configuration
# See: https://github.com/yaklabco/conlog

# Label prefix for inserted statements
# log_prefix = "👉🏻 --->|"

# Remove every console method, not only console.log
# include_all = false

# Also remove console.warn / console.error / console.debug
# include_warn = false
# include_error = false
# include_debug = false

# Remove calls that share a line with other code
# include_inline = false

# Extra console methods to remove
# methods = ["table", "trace"]

# Process javascript/typescript fences in Markdown files
# markdown = false

# File patterns to ignore (glob patterns)
# ignore = ["dist/**", "**/*.min.js"]

# Backups written before a file is changed
# [backups]
# enabled = true
# mode = "sidecar"
`
