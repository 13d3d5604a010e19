package runner_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/conlog/internal/logging"
	"github.com/yaklabco/conlog/pkg/config"
	"github.com/yaklabco/conlog/pkg/engine"
	"github.com/yaklabco/conlog/pkg/fsutil"
	"github.com/yaklabco/conlog/pkg/runner"
)

const dirty = "const a = 1;\nconsole.log(a);\nconsole.error(a);\n"

func newRunner() *runner.Runner {
	return runner.New(engine.NewPipeline(engine.New()))
}

func TestNew(t *testing.T) {
	t.Parallel()

	pipeline := engine.NewPipeline(engine.New())
	r := runner.New(pipeline)
	require.NotNil(t, r)
	assert.Same(t, pipeline, r.Pipeline)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasMatches())
	assert.False(t, result.HasErrors())
}

func TestRunner_Run_ReportOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.js":     dirty,
		"b.ts":     "export const b = 2;\n",
		"c/d.jsx":  "console.log('x');\n",
		"notes.md": "console.log('ignored');\n",
	})

	cfg := config.NewConfig()
	result, err := newRunner().Run(context.Background(), optionsIn(dir, cfg))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.js", "b.ts", "c/d.jsx"}, outcomePaths(t, dir, result))
	assert.Equal(t, 3, result.Stats.FilesDiscovered)
	assert.Equal(t, 3, result.Stats.FilesProcessed)
	assert.Equal(t, 2, result.Stats.FilesWithMatches)
	assert.Equal(t, 2, result.Stats.MatchesTotal)
	assert.Equal(t, map[string]int{"log": 2}, result.Stats.MatchesByMethod)
	assert.Zero(t, result.Stats.FilesModified)

	content, err := os.ReadFile(filepath.Join(dir, "a.js"))
	require.NoError(t, err)
	assert.Equal(t, dirty, string(content), "report-only runs never touch files")
}

func TestRunner_Run_Write(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.js": dirty})

	cfg := config.NewConfig()
	cfg.IncludeError = config.Ptr(true)
	cfg.Write = true

	result, err := newRunner().Run(context.Background(), optionsIn(dir, cfg))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Equal(t, 2, result.Stats.MatchesRemoved)

	path := filepath.Join(dir, "a.js")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "const a = 1;\n", string(content))
	assert.True(t, fsutil.BackupExists(path))

	// A second run finds nothing left to remove.
	again, err := newRunner().Run(context.Background(), optionsIn(dir, cfg))
	require.NoError(t, err)
	assert.False(t, again.HasMatches())
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.js": dirty})

	cfg := config.NewConfig()
	cfg.Write = true
	cfg.DryRun = true

	result, err := newRunner().Run(context.Background(), optionsIn(dir, cfg))
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	outcome := result.Files[0]
	require.NotNil(t, outcome.Result)
	assert.True(t, outcome.Result.Modified)
	assert.False(t, outcome.Result.Written)
	require.NotNil(t, outcome.Result.Diff)

	content, err := os.ReadFile(filepath.Join(dir, "a.js"))
	require.NoError(t, err)
	assert.Equal(t, dirty, string(content))
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := make(map[string]string)
	for i := range 20 {
		files[fmt.Sprintf("src/f%02d.js", i)] = dirty
	}
	writeTree(t, dir, files)

	run := func(jobs int) *runner.Result {
		opts := runner.Options{WorkingDir: dir, Jobs: jobs, Config: config.NewConfig()}
		result, err := newRunner().Run(context.Background(), opts)
		require.NoError(t, err)
		return result
	}

	serial := run(1)
	parallel := run(8)

	assert.Equal(t, outcomePaths(t, dir, serial), outcomePaths(t, dir, parallel))
	assert.Equal(t, serial.Stats, parallel.Stats)
	assert.Equal(t, 20, parallel.Stats.MatchesTotal)
}

func TestRunner_RunFiles_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.js": dirty})

	var logs bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&logs, "debug"))

	files := []string{filepath.Join(dir, "a.js"), filepath.Join(dir, "gone.js")}
	result, err := newRunner().RunFiles(ctx, files, runner.Options{})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "file failed")

	assert.True(t, result.HasErrors())
	assert.Equal(t, 1, result.Stats.FilesErrored)
	require.Len(t, result.Files, 2)
	require.ErrorIs(t, result.Files[1].Error, engine.ErrFileNotFound)
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.js": dirty})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestResult_NilSafe(t *testing.T) {
	t.Parallel()

	var result *runner.Result
	assert.False(t, result.HasMatches())
	assert.False(t, result.HasErrors())
}

func outcomePaths(t *testing.T, dir string, result *runner.Result) []string {
	t.Helper()
	paths := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	return relPaths(t, dir, paths)
}

func optionsIn(dir string, cfg *config.Config) runner.Options {
	opts := runner.OptionsFromConfig(cfg, nil)
	opts.WorkingDir = dir
	return opts
}
