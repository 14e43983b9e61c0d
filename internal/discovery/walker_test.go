package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pyedit/pyedit/pkg/types"
)

func TestDiscoverValidProject(t *testing.T) {
	tmpDir := t.TempDir()

	write(t, tmpDir, "app.py", "def handler():\n    return 1\n")
	write(t, tmpDir, "test_app.py", "def test_handler():\n    assert True\n")
	write(t, tmpDir, "conftest.py", "import pytest\n")
	write(t, tmpDir, filepath.Join("pkg", "util.py"), "def helper():\n    pass\n")
	write(t, tmpDir, ".gitignore", "ignored.py\n")
	write(t, tmpDir, "ignored.py", "x = 1\n")
	write(t, tmpDir, "README.md", "not python\n")

	w := NewWalker()
	result, err := w.Discover(tmpDir)
	if err != nil {
		t.Fatalf("Discover(%q) returned error: %v", tmpDir, err)
	}

	fileMap := make(map[string]types.DiscoveredFile)
	for _, f := range result.Files {
		fileMap[f.RelPath] = f
	}

	assertFile(t, fileMap, "app.py", types.ClassSource, "")
	assertFile(t, fileMap, "test_app.py", types.ClassTest, "")
	assertFile(t, fileMap, "conftest.py", types.ClassTest, "")
	assertFile(t, fileMap, filepath.Join("pkg", "util.py"), types.ClassSource, "")
	assertFile(t, fileMap, "ignored.py", types.ClassExcluded, "gitignore")

	if _, ok := fileMap["README.md"]; ok {
		t.Error("README.md should not be discovered; only .py files are walked")
	}

	if result.SourceCount != 2 {
		t.Errorf("SourceCount = %d, want 2", result.SourceCount)
	}
	if result.TestCount != 2 {
		t.Errorf("TestCount = %d, want 2", result.TestCount)
	}
	if result.GitignoreCount != 1 {
		t.Errorf("GitignoreCount = %d, want 1", result.GitignoreCount)
	}
	if result.TotalFiles != 5 {
		t.Errorf("TotalFiles = %d, want 5", result.TotalFiles)
	}
}

func TestDiscoverSkipsVenvAndCaches(t *testing.T) {
	tmpDir := t.TempDir()

	write(t, tmpDir, "main.py", "print('hi')\n")
	write(t, tmpDir, filepath.Join(".venv", "lib", "site.py"), "x = 1\n")
	write(t, tmpDir, filepath.Join("__pycache__", "main.cpython-312.pyc.py"), "x = 1\n")
	write(t, tmpDir, filepath.Join(".git", "hooks", "pre-commit.py"), "x = 1\n")

	w := NewWalker()
	result, err := w.Discover(tmpDir)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}

	for _, f := range result.Files {
		if f.RelPath != "main.py" {
			t.Errorf("unexpected file discovered from a skipped directory: %s", f.RelPath)
		}
	}
	_ = result
	if len(result.Files) != 1 {
		t.Fatalf("got %d files, want 1 (main.py only)", len(result.Files))
	}
	if result.Files[0].RelPath != "main.py" {
		t.Errorf("RelPath = %q, want main.py", result.Files[0].RelPath)
	}
}

func TestDiscoverEmptyDir(t *testing.T) {
	tmpDir := t.TempDir()

	w := NewWalker()
	result, err := w.Discover(tmpDir)
	if err != nil {
		t.Fatalf("Discover(%q) returned error: %v", tmpDir, err)
	}

	if len(result.Files) != 0 {
		t.Errorf("expected empty file list, got %d files", len(result.Files))
	}
	if result.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", result.TotalFiles)
	}
}

func TestDiscoverNonExistentDir(t *testing.T) {
	w := NewWalker()
	_, err := w.Discover("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory, got nil")
	}
}

func TestWalkerSymlinkSkipped(t *testing.T) {
	tmpDir := t.TempDir()

	write(t, tmpDir, "real.py", "x = 1\n")

	if err := os.Symlink(filepath.Join(tmpDir, "real.py"), filepath.Join(tmpDir, "link.py")); err != nil {
		t.Skipf("symlink creation not supported: %v", err)
	}

	w := NewWalker()
	result, err := w.Discover(tmpDir)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}

	for _, f := range result.Files {
		if f.RelPath == "link.py" {
			t.Error("symlinked file should have been skipped")
		}
	}
	if len(result.Files) != 1 {
		t.Fatalf("got %d files, want 1 (real.py only)", len(result.Files))
	}
}

func TestClassifyPythonFile(t *testing.T) {
	tests := []struct {
		name string
		want types.FileClass
	}{
		{"app.py", types.ClassSource},
		{"test_app.py", types.ClassTest},
		{"app_test.py", types.ClassTest},
		{"conftest.py", types.ClassTest},
		{"models.py", types.ClassSource},
	}
	for _, tt := range tests {
		if got := classifyPythonFile(tt.name); got != tt.want {
			t.Errorf("classifyPythonFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func write(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertFile(t *testing.T, fileMap map[string]types.DiscoveredFile, relPath string, wantClass types.FileClass, wantReason string) {
	t.Helper()
	f, ok := fileMap[relPath]
	if !ok {
		t.Errorf("file %q not found in results", relPath)
		return
	}
	if f.Class != wantClass {
		t.Errorf("file %q: Class = %v, want %v", relPath, f.Class, wantClass)
	}
	if wantReason != "" && f.ExcludeReason != wantReason {
		t.Errorf("file %q: ExcludeReason = %q, want %q", relPath, f.ExcludeReason, wantReason)
	}
}
