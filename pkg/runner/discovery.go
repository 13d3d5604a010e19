package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/conlog/pkg/fsutil"
	"github.com/yaklabco/conlog/pkg/langdetect"
)

// skippedDirs are directory names never descended into.
//
//nolint:gochecknoglobals // Read-only lookup table.
var skippedDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	"jspm_packages":    true,
}

// Discover finds source files matching opts.
// It returns a deterministically sorted list of absolute file paths.
// Files named explicitly are kept even when their extension is not in the
// extension list; directories are filtered by extension.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	extensions := opts.effectiveExtensions()

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if !isExcluded(relative(workDir, absPath), opts.ExcludeGlobs) {
				add(absPath)
			}
			continue
		}

		discovered, err := walkDirectory(ctx, absPath, workDir, extensions, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	sort.Strings(files)

	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func relative(workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func walkDirectory(
	ctx context.Context,
	root string,
	workDir string,
	extensions []string,
	opts Options,
) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		relPath := relative(workDir, path)
		name := entry.Name()

		if entry.IsDir() {
			if path != root && skipDir(relPath, name, opts) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // inaccessible targets are skipped
			}
			if info.IsDir() {
				if !opts.FollowSymlinks {
					return nil
				}
				subFiles, err := walkDirectory(ctx, realPath, workDir, extensions, opts)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if strings.HasPrefix(name, ".") || fsutil.IsBackup(name) {
			return nil
		}

		if matchesFile(relPath, extensions, opts) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

func skipDir(relPath, name string, opts Options) bool {
	if strings.HasPrefix(name, ".") || skippedDirs[name] {
		return true
	}
	if !opts.IncludeVendored && langdetect.IsVendored(relPath+"/") {
		return true
	}
	return isExcluded(relPath, opts.ExcludeGlobs)
}

// Dirs lists the directories Discover would descend into, for watching.
// A file path contributes its parent directory.
func Dirs(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	seen := make(map[string]struct{})
	var dirs []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			dirs = append(dirs, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		root := inputPath
		if !filepath.IsAbs(root) {
			root = filepath.Join(workDir, root)
		}
		root = filepath.Clean(root)

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if walkErr != nil {
				if errors.Is(walkErr, fs.ErrPermission) {
					return nil
				}
				return walkErr
			}
			if !entry.IsDir() {
				return nil
			}
			if path != root && skipDir(relative(workDir, path), entry.Name(), opts) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk directory %s: %w", root, err)
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// Matches reports whether a directory walk under opts would pick up the
// file at path.
func Matches(opts Options, path string) bool {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || fsutil.IsBackup(name) {
		return false
	}

	relPath := relative(workDir, path)
	for _, part := range strings.Split(relPath, "/") {
		if part != ".." && (strings.HasPrefix(part, ".") || skippedDirs[part]) {
			return false
		}
	}
	return matchesFile(relPath, opts.effectiveExtensions(), opts)
}

func matchesFile(relPath string, extensions []string, opts Options) bool {
	if !hasMatchingExtension(relPath, extensions) {
		return false
	}
	if !opts.IncludeVendored && langdetect.IsVendored(relPath) {
		return false
	}
	return !isExcluded(relPath, opts.ExcludeGlobs)
}

func hasMatchingExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// isExcluded matches a slash-separated relative path against the exclude
// globs. Patterns without a slash are also tried against the base name, so
// "*.min.js" works at any depth.
func isExcluded(relPath string, patterns []string) bool {
	base := relPath
	if idx := strings.LastIndexByte(relPath, '/'); idx >= 0 {
		base = relPath[idx+1:]
	}
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, base); err == nil && matched {
				return true
			}
		}
		// "dist/**" also excludes the "dist" directory itself.
		if trimmed, ok := strings.CutSuffix(pattern, "/**"); ok {
			if matched, err := doublestar.Match(trimmed, relPath); err == nil && matched {
				return true
			}
		}
	}
	return false
}
