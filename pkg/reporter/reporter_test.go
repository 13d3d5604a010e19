package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/conlog/pkg/config"
	"github.com/yaklabco/conlog/pkg/engine"
	"github.com/yaklabco/conlog/pkg/reporter"
	"github.com/yaklabco/conlog/pkg/runner"
)

const appSource = "const a = 1;\nconsole.log(a);\nif (a) { console.log('inline'); }\n"

// runFixture processes a single app.js in a temp dir and returns the result
// and the directory.
func runFixture(t *testing.T, cfg *config.Config) (*runner.Result, string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte(appSource), 0o644))

	opts := runner.OptionsFromConfig(cfg, nil)
	opts.WorkingDir = dir

	result, err := runner.New(engine.NewPipeline(engine.New())).Run(context.Background(), opts)
	require.NoError(t, err)
	return result, dir
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "unknown format", input: "xml", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(testCase.input)
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, reporter.FormatText, reporter.FromConfig(""))
	assert.Equal(t, reporter.FormatJSON, reporter.FromConfig(config.FormatJSON))
	assert.Equal(t, reporter.FormatDiff, reporter.FromConfig(config.FormatDiff))
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "diff reporter", format: reporter.FormatDiff},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "sarif", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{Writer: &buf, Format: testCase.format, Color: "never"})
			if testCase.wantErr {
				require.Error(t, err)
				assert.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestTextReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Contains(t, buf.String(), "No files to check")
}

func TestTextReporter_WithFindings(t *testing.T) {
	t.Parallel()

	result, dir := runFixture(t, config.NewConfig())

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  dir,
	})

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "app.js (2 statements)")
	assert.Contains(t, output, "app.js:2:1  console.log  console.log(a);")
	assert.Contains(t, output, "(inline, kept)")
	assert.Contains(t, output, "2 statements in 1 file, 1 removable, 1 inline kept")
}

func TestTextReporter_DetailedSummary(t *testing.T) {
	t.Parallel()

	result, dir := runFixture(t, config.NewConfig())

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:          &buf,
		Color:           "never",
		ShowSummary:     true,
		DetailedSummary: true,
		ShowSource:      true,
		WorkingDir:      dir,
	})

	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "2 | console.log(a);")
	assert.Contains(t, buf.String(), "METHOD")
}

func TestTextReporter_Written(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Write = true
	result, dir := runFixture(t, cfg)

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true, WorkingDir: dir})
	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "cleaned (backup created)")
	assert.Contains(t, buf.String(), "1 removed from 1 file")
}

func TestJSONReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "dev", output.Version)
	assert.Empty(t, output.Files)
}

func TestJSONReporter_WithFindings(t *testing.T) {
	t.Parallel()

	result, dir := runFixture(t, config.NewConfig())

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: dir, Version: "1.2.3", Compact: true})

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "1.2.3", output.Version)
	require.Len(t, output.Files, 1)

	file := output.Files[0]
	assert.Equal(t, "app.js", file.Path)
	assert.Equal(t, "javascript", file.Language)
	require.Len(t, file.Findings, 2)
	assert.Equal(t, "log", file.Findings[0].Method)
	assert.Equal(t, 2, file.Findings[0].Start.Line)
	assert.True(t, file.Findings[0].Removable)
	assert.False(t, file.Findings[1].Removable)
	require.Len(t, file.Edits, 1)
	assert.Equal(t, "delete", file.Edits[0].Kind)

	assert.Equal(t, 2, output.Summary.StatementsFound)
	assert.Equal(t, map[string]int{"log": 2}, output.Summary.ByMethod)
}

func TestJSONReporter_FileError(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{{Path: "gone.js", Error: engine.ErrFileNotFound}},
		Stats: runner.Stats{FilesErrored: 1},
	}

	var buf bytes.Buffer
	_, err := reporter.NewJSONReporter(reporter.Options{Writer: &buf}).Report(context.Background(), result)
	require.NoError(t, err)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "file not found", output.Files[0].Error)
	assert.Equal(t, 1, output.Summary.FilesErrored)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.DryRun = true
	result, dir := runFixture(t, cfg)

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true, WorkingDir: dir})

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "diff --git a/app.js b/app.js")
	assert.Contains(t, output, "-console.log(a);")
	assert.Contains(t, output, "1 file changed, 1 deletion(-)")
}
