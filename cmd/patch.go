package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyedit/pyedit/internal/patch"
	"github.com/pyedit/pyedit/pkg/types"
)

var patchCmd = &cobra.Command{
	Use:   "patch <file> <patch-file>",
	Short: "Apply a unified diff patch to a file with fuzzy context matching",
	Long: `patch applies the unified-diff-style hunks in patch-file (one or more
"@@ -start,len +start,len @@" headers, each followed by context/-/+
lines) to file. Context is matched exactly first, then
whitespace-tolerantly, then by relocating anywhere in the file; a hunk
that matches more than one place is rejected as ambiguous rather than
guessed at.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, patchFile := args[0], args[1]

		patchContent, err := os.ReadFile(patchFile)
		if err != nil {
			return &types.ExitError{Code: types.ExitGeneric, Message: fmt.Sprintf("reading patch-file: %s", err)}
		}

		result, err := patch.ApplyToFile(filePath, string(patchContent))
		if err != nil {
			return toPatchExitError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), patch.Summary(result))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patchCmd)
}

// toPatchExitError maps a patch.Error's kind to a process exit code: an
// ambiguous hunk match gets its own code so an agent can tell "your patch
// matched nowhere" apart from "your patch matched more than once".
func toPatchExitError(err error) error {
	var pe *patch.Error
	if errors.As(err, &pe) && pe.Kind == patch.ErrAmbiguous {
		return &types.ExitError{Code: types.ExitAmbiguousEdit, Message: err.Error()}
	}
	return &types.ExitError{Code: types.ExitGeneric, Message: err.Error()}
}
