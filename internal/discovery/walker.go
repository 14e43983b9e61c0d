// Package discovery walks a project directory to find and classify the
// Python files pyedit can operate on.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/pyedit/pyedit/pkg/types"
)

// skipDirs lists directory names that are never walked into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	".venv":        true,
	"venv":         true,
	"env":          true,
	".tox":         true,
	".mypy_cache":  true,
	".pytest_cache": true,
}

// Walker discovers and classifies Python files in a directory tree.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Discover walks rootDir recursively, finds every .py file, classifies it
// as source or test, and returns a ScanResult. Files excluded by .gitignore
// are recorded as excluded but not counted as source or test; skipped and
// hidden directories are not descended into, so nothing under them is
// recorded.
func (w *Walker) Discover(rootDir string) (*types.ScanResult, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("cannot access root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", rootDir)
	}

	var gitIgnore *ignore.GitIgnore
	gitignorePath := filepath.Join(rootDir, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		gitIgnore, err = ignore.CompileIgnoreFile(gitignorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse .gitignore: %w", err)
		}
	}

	result := &types.ScanResult{RootDir: rootDir}

	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		// Symlinks are skipped entirely: following them risks walking outside
		// the project root or looping.
		if d.Type()&fs.ModeSymlink != 0 {
			fmt.Fprintf(os.Stderr, "warning: skipping symlink %s\n", path)
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if strings.HasPrefix(name, ".") && name != "." {
				return fs.SkipDir
			}
			if skipDirs[name] {
				return fs.SkipDir
			}
			return nil
		}

		if filepath.Ext(name) != ".py" {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: failed to compute relative path: %v\n", path, err)
			return nil
		}

		file := types.DiscoveredFile{Path: path, RelPath: relPath}

		if gitIgnore != nil && gitIgnore.MatchesPath(relPath) {
			file.Class = types.ClassExcluded
			file.ExcludeReason = "gitignore"
			result.Files = append(result.Files, file)
			result.GitignoreCount++
			result.TotalFiles++
			return nil
		}

		file.Class = classifyPythonFile(name)
		result.Files = append(result.Files, file)
		result.TotalFiles++

		switch file.Class {
		case types.ClassSource:
			result.SourceCount++
		case types.ClassTest:
			result.TestCount++
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk error: %w", err)
	}

	return result, nil
}

// classifyPythonFile classifies a Python file by its filename, following
// pytest's own test-discovery convention.
func classifyPythonFile(name string) types.FileClass {
	if strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test.py") {
		return types.ClassTest
	}
	if name == "conftest.py" {
		return types.ClassTest
	}
	return types.ClassSource
}
