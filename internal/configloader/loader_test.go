package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/conlog/pkg/config"
	"github.com/yaklabco/conlog/pkg/logstmt"
)

// projectDir returns a temp directory that is its own VCS root, so that
// upward discovery never leaves it.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, logstmt.DefaultPrefix, result.Config.Prefix())
	assert.Equal(t, []string{"log"}, result.Config.LogMethods())
	assert.True(t, result.Config.BackupsEnabled())
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "yaml",
			file: ".conlog.yml",
			body: "log_prefix: \"DBG\"\ninclude_warn: true\nmethods: [table]\n",
		},
		{
			name: "toml",
			file: ".conlog.toml",
			body: "log_prefix = \"DBG\"\ninclude_warn = true\nmethods = [\"table\"]\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			path := filepath.Join(dir, testCase.file)
			writeFile(t, path, testCase.body)

			result, err := Load(context.Background(), isolated(dir))
			require.NoError(t, err)

			assert.Equal(t, []string{path}, result.LoadedFrom)
			assert.Equal(t, "DBG", result.Config.Prefix())
			assert.Equal(t, []string{"log", "warn", "table"}, result.Config.LogMethods())
		})
	}
}

func TestLoad_SearchesUpward(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".conlog.yaml"), "include_all: true\n")
	nested := filepath.Join(dir, "src", "app")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolated(nested))
	require.NoError(t, err)
	assert.True(t, result.Config.All())
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".conlog.yml"), "include_all: true\n")
	inner := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(inner, ".git"), 0o755))

	path, err := FindProjectConfig(context.Background(), inner)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".conlog.yml"), "include_inline: true\nlog_prefix: project\n")
	explicit := filepath.Join(dir, "custom.yaml")
	writeFile(t, explicit, "include_inline: false\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Len(t, result.LoadedFrom, 2)
	assert.Equal(t, explicit, result.Paths.Explicit)
	assert.False(t, result.Config.Inline(), "a later false must undo an earlier true")
	assert.Equal(t, "project", result.Config.Prefix())
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".conlog.yml"), "include_debug: true\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{
		IncludeDebug: config.Ptr(false),
		Format:       config.FormatJSON,
		Jobs:         3,
		Write:        true,
	}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"log"}, result.Config.LogMethods())
	assert.Equal(t, config.FormatJSON, result.Config.Format)
	assert.Equal(t, 3, result.Config.Jobs)
	assert.True(t, result.Config.Write)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"malformed yaml", "methods: [", "parse yaml"},
		{"bad backup mode", "backups:\n  mode: cloud\n", "backups.mode"},
		{"bad glob", "ignore: [\"[\"]\n", "ignore[0]"},
		{"bad method", "methods: [\"not a name\"]\n", "methods[0]"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			writeFile(t, filepath.Join(dir, ".conlog.yml"), testCase.body)

			_, err := Load(context.Background(), isolated(dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}

func TestLoad_UnknownMethodWarning(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".conlog.yml"), "methods: [tabel]\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `did you mean "table"?`)
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(projectDir(t)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"CONLOG_LOG_PREFIX":     "",
		"CONLOG_INCLUDE_ERROR":  "1",
		"CONLOG_METHODS":        " table , trace ,",
		"CONLOG_JOBS":           "4",
		"CONLOG_BACKUPS_MODE":   "none",
		"CONLOG_INCLUDE_INLINE": "",
	}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}

	cfg := config.NewConfig()
	require.NoError(t, loadFromLookup(cfg, lookup))

	assert.Empty(t, cfg.Prefix(), "an explicitly empty prefix is honoured")
	assert.Equal(t, []string{"log", "error", "table", "trace"}, cfg.LogMethods())
	assert.Equal(t, 4, cfg.Jobs)
	assert.False(t, cfg.BackupsEnabled())
	assert.False(t, cfg.Inline())
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key   string
		value string
	}{
		{"CONLOG_INCLUDE_ALL", "maybe"},
		{"CONLOG_JOBS", "many"},
	}

	for _, testCase := range tests {
		t.Run(testCase.key, func(t *testing.T) {
			t.Parallel()

			lookup := func(key string) (string, bool) {
				if key == testCase.key {
					return testCase.value, true
				}
				return "", false
			}
			err := loadFromLookup(config.NewConfig(), lookup)
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.key)
		})
	}
}

func TestGetEnvVarName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CONLOG_INCLUDE_ALL", GetEnvVarName("include_all"))
	assert.Empty(t, GetEnvVarName("nope"))
	assert.Contains(t, ListEnvVars(), "CONLOG_BACKUPS_MODE")
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	merged := MergeAll(
		config.NewConfig(),
		&config.Config{IncludeAll: config.Ptr(true), Ignore: []string{"a/**"}},
		&config.Config{Ignore: []string{"b/**"}},
		nil,
	)

	assert.True(t, merged.All())
	assert.Equal(t, []string{"b/**"}, merged.Ignore)
	assert.Nil(t, MergeAll())
}

func TestSuggestMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"tabel", "table"},
		{"grp", "group"},
		{"WARN", "warn"},
		{"frobnicate", ""},
		{"", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, SuggestMethod(testCase.input))
		})
	}
}

func TestWriteTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".conlog.toml")

	require.NoError(t, WriteTemplate(path, config.TemplateOptions{}, false))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# conlog configuration")

	err = WriteTemplate(path, config.TemplateOptions{}, false)
	require.ErrorIs(t, err, ErrConfigExists)
	require.NoError(t, WriteTemplate(path, config.TemplateOptions{Full: true}, true))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, logstmt.DefaultPrefix, cfg.Prefix())
}
