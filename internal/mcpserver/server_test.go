package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil {
		t.Fatal("result is nil")
	}
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("result.Content[0] = %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestNewRegistersEditViewAndPatch(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() = nil")
	}
}

func TestHandleEditReplacesScope(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("def foo():\n    return 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	req := callRequest("edit", map[string]any{
		"target_scope": path + "::foo",
		"code":         "def foo():\n    return 2\n",
	})
	res, err := handleEdit(context.Background(), req)
	if err != nil {
		t.Fatalf("handleEdit() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("handleEdit() result is an error: %s", resultText(t, res))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(got), "return 2") {
		t.Errorf("file content = %q, want it to contain %q", got, "return 2")
	}
}

func TestHandleEditMissingTargetScopeIsError(t *testing.T) {
	req := callRequest("edit", map[string]any{})
	res, err := handleEdit(context.Background(), req)
	if err != nil {
		t.Fatalf("handleEdit() error = %v, want a tool error result instead", err)
	}
	if !res.IsError {
		t.Error("handleEdit() without target_scope should return an error result")
	}
}

func TestHandleViewReturnsSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	req := callRequest("view", map[string]any{"target_scope": path})
	res, err := handleView(context.Background(), req)
	if err != nil {
		t.Fatalf("handleView() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("handleView() result is an error: %s", resultText(t, res))
	}
	if resultText(t, res) != "x = 1\n" {
		t.Errorf("handleView() text = %q", resultText(t, res))
	}
}

func TestHandleViewFileNotFoundIsError(t *testing.T) {
	req := callRequest("view", map[string]any{"target_scope": "/no/such/file.py"})
	res, err := handleView(context.Background(), req)
	if err != nil {
		t.Fatalf("handleView() error = %v", err)
	}
	if !res.IsError {
		t.Error("handleView() on a missing file should return an error result")
	}
}

func TestHandlePatchAppliesHunk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("x = 1\ny = 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	patchContent := "@@ -1,2 +1,2 @@\nx = 1\n-y = 2\n+y = 3\n"
	req := callRequest("patch", map[string]any{
		"file_path":     path,
		"patch_content": patchContent,
	})
	res, err := handlePatch(context.Background(), req)
	if err != nil {
		t.Fatalf("handlePatch() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("handlePatch() result is an error: %s", resultText(t, res))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(got), "y = 3") {
		t.Errorf("file content = %q, want it to contain %q", got, "y = 3")
	}
}

func TestHandlePatchMissingArgsIsError(t *testing.T) {
	req := callRequest("patch", map[string]any{"file_path": "/tmp/x.py"})
	res, err := handlePatch(context.Background(), req)
	if err != nil {
		t.Fatalf("handlePatch() error = %v", err)
	}
	if !res.IsError {
		t.Error("handlePatch() without patch_content should return an error result")
	}
}
