package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pyedit/pyedit/internal/config"
	"github.com/pyedit/pyedit/internal/pyedit"
	"github.com/pyedit/pyedit/pkg/types"
)

var (
	editCode        string
	editCodeFile    string
	editCoscopeWith string
	editDeleteALot  bool
	editConfigPath  string
)

var editCmd = &cobra.Command{
	Use:   "edit <target_scope>",
	Short: "Replace, insert after, or delete a scope in a Python file",
	Long: `edit locates target_scope ("path/to/file.py::Class::method") and
replaces it with the given code. Pass --coscope-with to insert code
immediately after a named sibling, a matched statement, __FILE_START__,
or __FILE_END__ instead of replacing; target "file.py::__FIRST__" to
address the first top-level class or function. Empty code deletes
the target scope instead of erroring. Code comes from --code or
--code-file (exactly one is required).`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetScope := args[0]

		code, err := resolveEditCode()
		if err != nil {
			return &types.ExitError{Code: types.ExitGeneric, Message: err.Error()}
		}

		filePath, _ := pyedit.SplitScope(targetScope)
		projectCfg, err := config.LoadProjectConfig(filepath.Dir(filePath), editConfigPath)
		if err != nil {
			return err
		}
		deleteALot := editDeleteALot
		if projectCfg != nil && projectCfg.Edit.DeleteALot {
			deleteALot = true
		}

		editor, err := pyedit.NewEditor(pyedit.OSBackend{})
		if err != nil {
			return err
		}
		defer editor.Close()

		result, err := editor.Edit(targetScope, code, editCoscopeWith, deleteALot)
		if err != nil {
			return toExitError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editCode, "code", "", "replacement/insertion code, given inline")
	editCmd.Flags().StringVar(&editCodeFile, "code-file", "", "path to a file holding the replacement/insertion code")
	editCmd.Flags().StringVar(&editCoscopeWith, "coscope-with", "", "insert after this named sibling, quoted statement pattern, __FILE_START__, or __FILE_END__ instead of replacing")
	editCmd.Flags().BoolVar(&editDeleteALot, "delete-a-lot", false, "allow an edit that deletes more than 100 lines")
	editCmd.Flags().StringVar(&editConfigPath, "config", "", "path to .pyeditrc.yml project config file")
	rootCmd.AddCommand(editCmd)
}

func resolveEditCode() (string, error) {
	if editCode != "" && editCodeFile != "" {
		return "", fmt.Errorf("--code and --code-file are mutually exclusive")
	}
	if editCodeFile != "" {
		data, err := os.ReadFile(editCodeFile)
		if err != nil {
			return "", fmt.Errorf("reading --code-file: %w", err)
		}
		return string(data), nil
	}
	return editCode, nil
}

// toExitError maps a pyedit.EditError's kind to the process exit code the
// caller should see: a safety-gate trip is distinguishable from an
// ordinary failure so an agent can decide whether to retry with
// --delete-a-lot.
func toExitError(err error) error {
	var ee *pyedit.EditError
	if errors.As(err, &ee) && ee.Kind == pyedit.ErrSafetyGate {
		return &types.ExitError{Code: types.ExitSafetyGate, Message: err.Error()}
	}
	return &types.ExitError{Code: types.ExitGeneric, Message: err.Error()}
}
