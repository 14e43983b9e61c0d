package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPatchCmdMetadata(t *testing.T) {
	if patchCmd.Use != "patch <file> <patch-file>" {
		t.Errorf("expected Use='patch <file> <patch-file>', got %q", patchCmd.Use)
	}
	if !patchCmd.SilenceUsage {
		t.Error("patch command should have SilenceUsage=true")
	}
}

func TestPatchCmdRequiresTwoArgs(t *testing.T) {
	if err := patchCmd.Args(patchCmd, []string{"only-one"}); err == nil {
		t.Error("patch should require exactly 2 arguments, got no error for 1 arg")
	}
	if err := patchCmd.Args(patchCmd, []string{"a", "b"}); err != nil {
		t.Errorf("patch should accept exactly 2 arguments, got error: %v", err)
	}
}

func TestPatchRunE_AppliesHunk(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "app.py")
	if err := os.WriteFile(target, []byte("x = 1\ny = 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	patchFile := filepath.Join(dir, "change.patch")
	if err := os.WriteFile(patchFile, []byte("\n@@ -1,2 +1,2 @@\nx = 1\n-y = 2\n+y = 3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"patch", target, patchFile})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(got), "y = 3") {
		t.Errorf("file content = %q, want it to contain %q", got, "y = 3")
	}
}

func TestPatchRunE_MissingPatchFileIsExitError(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "app.py")
	if err := os.WriteFile(target, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"patch", target, filepath.Join(dir, "missing.patch")})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Execute() error = nil, want an error for a missing patch file")
	}
}
