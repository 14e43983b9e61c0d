package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyedit/pyedit/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing edit, view, and patch over stdio",
	Long: `mcp starts a Model Context Protocol server on stdin/stdout, registering
edit, view, and patch as tools so an LLM agent can call this editor
directly instead of shelling out to the CLI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mcpserver.Serve(); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
