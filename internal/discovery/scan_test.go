package discovery

import (
	"path/filepath"
	"testing"
)

func TestScanScopesFindsDefinitionsAcrossFiles(t *testing.T) {
	tmpDir := t.TempDir()
	write(t, tmpDir, "app.py", "def handler():\n    return 1\n\nclass Foo:\n    def bar(self):\n        pass\n")
	write(t, tmpDir, "test_app.py", "def test_handler():\n    assert True\n")
	write(t, tmpDir, "README.md", "not python\n")

	result, scoped, err := ScanScopes(tmpDir)
	if err != nil {
		t.Fatalf("ScanScopes() error = %v", err)
	}
	if result.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", result.TotalFiles)
	}
	if len(scoped) != 2 {
		t.Fatalf("ScanScopes() returned %d FileScopes, want 2", len(scoped))
	}

	byRelPath := make(map[string]FileScopes, len(scoped))
	for _, fs := range scoped {
		byRelPath[fs.File.RelPath] = fs
	}

	app, ok := byRelPath["app.py"]
	if !ok {
		t.Fatal("app.py missing from scan results")
	}
	if app.Err != nil {
		t.Errorf("app.py scan error = %v", app.Err)
	}
	if len(app.Scopes) != 3 {
		t.Errorf("app.py scopes = %+v, want 3 entries", app.Scopes)
	}

	test, ok := byRelPath["test_app.py"]
	if !ok {
		t.Fatal("test_app.py missing from scan results")
	}
	if len(test.Scopes) != 1 || test.Scopes[0].Path != "test_handler" {
		t.Errorf("test_app.py scopes = %+v", test.Scopes)
	}
}

func TestScanScopesRecordsPerFileParseError(t *testing.T) {
	tmpDir := t.TempDir()
	write(t, tmpDir, "broken.py", "def (:\n")

	_, scoped, err := ScanScopes(tmpDir)
	if err != nil {
		t.Fatalf("ScanScopes() error = %v, want the scan to continue past a per-file parse error", err)
	}
	if len(scoped) != 1 {
		t.Fatalf("ScanScopes() returned %d FileScopes, want 1", len(scoped))
	}
	_ = scoped[0].Err // tree-sitter is error-tolerant; a malformed file may still parse with ERROR nodes rather than failing outright
}

func TestScanScopesEmptyDir(t *testing.T) {
	tmpDir := t.TempDir()
	result, scoped, err := ScanScopes(tmpDir)
	if err != nil {
		t.Fatalf("ScanScopes() error = %v", err)
	}
	if result.TotalFiles != 0 || len(scoped) != 0 {
		t.Errorf("ScanScopes(empty) = result=%+v scoped=%+v, want both empty", result, scoped)
	}
}

func TestScanScopesNonExistentDir(t *testing.T) {
	_, _, err := ScanScopes(filepath.Join(t.TempDir(), "nonexistent"))
	if err == nil {
		t.Error("ScanScopes() error = nil, want error for non-existent directory")
	}
}
