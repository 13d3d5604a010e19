package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileFormat is the on-disk encoding of a configuration file.
type FileFormat string

const (
	FileYAML FileFormat = "yaml"
	FileTOML FileFormat = "toml"
)

// FormatForPath picks the file format from a path's extension.
// Anything that is not .toml is read as YAML.
func FormatForPath(path string) FileFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FileTOML
	}
	return FileYAML
}

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToTOML serializes the configuration to TOML format.
func (c *Config) ToTOML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode serializes the configuration in the given format.
func (c *Config) Encode(format FileFormat) ([]byte, error) {
	if format == FileTOML {
		return c.ToTOML()
	}
	return c.ToYAML()
}

// EncodeWithHeader serializes the configuration with a leading comment.
func (c *Config) EncodeWithHeader(format FileFormat, header string) ([]byte, error) {
	body, err := c.Encode(format)
	if err != nil {
		return nil, err
	}

	if header == "" {
		return body, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(body)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// FromTOML parses a configuration from TOML bytes.
func FromTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	return cfg, nil
}

// Decode parses a configuration in the given format.
func Decode(format FileFormat, data []byte) (*Config, error) {
	if format == FileTOML {
		return FromTOML(data)
	}
	return FromYAML(data)
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.LogPrefix = clonePtr(c.LogPrefix)
	clone.IncludeAll = clonePtr(c.IncludeAll)
	clone.IncludeWarn = clonePtr(c.IncludeWarn)
	clone.IncludeError = clonePtr(c.IncludeError)
	clone.IncludeDebug = clonePtr(c.IncludeDebug)
	clone.IncludeInline = clonePtr(c.IncludeInline)
	clone.Markdown = clonePtr(c.Markdown)
	clone.Backups.Enabled = clonePtr(c.Backups.Enabled)
	clone.Methods = slices.Clone(c.Methods)
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Ignore = slices.Clone(c.Ignore)

	return &clone
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
