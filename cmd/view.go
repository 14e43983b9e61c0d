package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pyedit/pyedit/internal/config"
	"github.com/pyedit/pyedit/internal/pyedit"
)

var (
	viewMaxLines   int
	viewConfigPath string
)

var viewCmd = &cobra.Command{
	Use:   "view <target_scope>",
	Short: "Print the source of a file, class, or function",
	Long: `view renders target_scope ("path/to/file.py" or
"path/to/file.py::Class::method"). When the result would exceed
--max-lines, nested scopes are progressively collapsed into "..."
markers, falling back to a signature-only outline.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetScope := args[0]

		filePath, _ := pyedit.SplitScope(targetScope)
		projectCfg, err := config.LoadProjectConfig(filepath.Dir(filePath), viewConfigPath)
		if err != nil {
			return err
		}
		maxLines := viewMaxLines
		if !cmd.Flags().Changed("max-lines") && projectCfg != nil && projectCfg.View.MaxLines > 0 {
			maxLines = projectCfg.View.MaxLines
		}

		editor, err := pyedit.NewEditor(pyedit.OSBackend{})
		if err != nil {
			return err
		}
		defer editor.Close()

		result, err := editor.View(targetScope, maxLines)
		if err != nil {
			return toExitError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	viewCmd.Flags().IntVar(&viewMaxLines, "max-lines", 500, "maximum lines before scope-aware truncation kicks in; 0 disables truncation")
	viewCmd.Flags().StringVar(&viewConfigPath, "config", "", "path to .pyeditrc.yml project config file")
	rootCmd.AddCommand(viewCmd)
}
