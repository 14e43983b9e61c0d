// Package cmd implements the pyedit command-line interface: structural
// Python editing, scope viewing, unified-diff patching, project scanning,
// and an MCP server, all built on a single shared editor core
// (internal/pyedit) and patch engine (internal/patch).
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyedit/pyedit/pkg/types"
	"github.com/pyedit/pyedit/pkg/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "pyedit",
	Short:   "Structural editing, viewing, and patching of Python source",
	Long:    "pyedit edits, views, and patches Python source files at the level of\nclasses and functions instead of raw text, so a caller -- typically an\nLLM agent -- can make precise, syntax-aware changes without\nreconstructing the surrounding file from scratch.",
	Version: version.Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.SilenceErrors = true
}

// Execute runs the root command and exits with code 1 on error.
// An *types.ExitError is handled specially: its Code becomes the process
// exit status, distinguishing safety-gate trips and ambiguous patches from
// ordinary failures.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *types.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
