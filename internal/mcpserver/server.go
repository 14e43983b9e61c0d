// Package mcpserver exposes edit, view, and patch as Model Context
// Protocol tools over stdio, so an LLM agent can call this editor directly
// as tool-use functions instead of shelling out to the CLI.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pyedit/pyedit/internal/patch"
	"github.com/pyedit/pyedit/internal/pyedit"
	"github.com/pyedit/pyedit/pkg/version"
)

// New builds the MCP server with edit, view, and patch registered as tools.
func New() *server.MCPServer {
	s := server.NewMCPServer("pyedit", version.Version)

	s.AddTool(mcp.NewTool("edit",
		mcp.WithDescription("Replace, insert after, or delete a class/function scope in a Python file. target_scope is \"path/to/file.py::Class::method\"; empty code deletes the target."),
		mcp.WithString("target_scope", mcp.Required(), mcp.Description(`File path, optionally followed by "::"-separated class/function names, e.g. "app/models.py::User::save".`)),
		mcp.WithString("code", mcp.Description("Replacement or inserted code. Empty deletes the target.")),
		mcp.WithString("coscope_with", mcp.Description(`Insert after this named sibling, quoted statement pattern, __FILE_START__, or __FILE_END__, instead of replacing target_scope.`)),
		mcp.WithBoolean("delete_a_lot", mcp.Description("Set true to permit an edit that would delete more than 100 lines.")),
	), handleEdit)

	s.AddTool(mcp.NewTool("view",
		mcp.WithDescription("Print the source of a file, class, or function, scope-aware-truncated if it exceeds max_lines."),
		mcp.WithString("target_scope", mcp.Required(), mcp.Description(`File path, optionally followed by "::"-separated class/function names.`)),
		mcp.WithNumber("max_lines", mcp.Description("Maximum lines before truncation kicks in; 0 disables truncation. Defaults to 500.")),
	), handleView)

	s.AddTool(mcp.NewTool("patch",
		mcp.WithDescription("Apply a unified-diff patch to a file using fuzzy, whitespace-tolerant context matching."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to the file to patch. A nonexistent file is treated as empty.")),
		mcp.WithString("patch_content", mcp.Required(), mcp.Description(`One or more "@@ -start,len +start,len @@" hunks, each followed by context/-/+ lines.`)),
	), handlePatch)

	return s
}

// Serve runs the MCP server over stdio until the transport closes.
func Serve() error {
	return server.ServeStdio(New())
}

func handleEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetScope, err := req.RequireString("target_scope")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	code := req.GetString("code", "")
	coscopeWith := req.GetString("coscope_with", "")
	deleteALot := req.GetBool("delete_a_lot", false)

	editor, err := pyedit.NewEditor(pyedit.OSBackend{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Tool Failed: %v", err)), nil
	}
	defer editor.Close()

	result, err := editor.Edit(targetScope, code, coscopeWith, deleteALot)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result), nil
}

func handleView(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetScope, err := req.RequireString("target_scope")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	const defaultMaxLines = 500 // matches pyedit.View's own default
	maxLines := int(req.GetFloat("max_lines", defaultMaxLines))

	editor, err := pyedit.NewEditor(pyedit.OSBackend{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Tool Failed: %v", err)), nil
	}
	defer editor.Close()

	result, err := editor.View(targetScope, maxLines)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result), nil
}

func handlePatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	patchContent, err := req.RequireString("patch_content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := patch.ApplyToFile(filePath, patchContent)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(patch.Summary(result)), nil
}
