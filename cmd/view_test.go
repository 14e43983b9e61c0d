package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetViewFlags() {
	viewMaxLines = 500
	viewConfigPath = ""
	verbose = false
}

func TestViewCmdFlags(t *testing.T) {
	f := viewCmd.Flags().Lookup("max-lines")
	if f == nil {
		t.Fatal("max-lines flag not registered on view command")
	}
	if f.DefValue != "500" {
		t.Errorf("max-lines default = %q, want %q", f.DefValue, "500")
	}
	if viewCmd.Flags().Lookup("config") == nil {
		t.Error("config flag not registered on view command")
	}
}

func TestViewCmdMetadata(t *testing.T) {
	if viewCmd.Use != "view <target_scope>" {
		t.Errorf("expected Use='view <target_scope>', got %q", viewCmd.Use)
	}
	if !viewCmd.SilenceUsage {
		t.Error("view command should have SilenceUsage=true")
	}
}

func TestViewRunE_PrintsFile(t *testing.T) {
	resetViewFlags()
	defer resetViewFlags()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"view", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "x = 1") {
		t.Errorf("output = %q, want it to contain the file content", buf.String())
	}
}

func TestViewRunE_FileNotFoundIsExitError(t *testing.T) {
	resetViewFlags()
	defer resetViewFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"view", "/no/such/file.py"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Execute() error = nil, want an error for a missing file")
	}
}
