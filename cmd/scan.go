package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pyedit/pyedit/internal/cliutil"
	"github.com/pyedit/pyedit/internal/discovery"
	"github.com/pyedit/pyedit/pkg/types"
)

var scanJSONOutput bool

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "List every Python source/test file and addressable scope under a directory",
	Long: `scan walks directory, classifies every Python file as source, test,
or excluded (honoring .gitignore), and lists the class/function scopes
found inside each source and test file -- the target_scope strings edit
and view accept.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("cannot resolve path: %s", err)
		}

		result, fileScopes, err := discovery.ScanScopes(dir)
		if err != nil {
			return err
		}

		if scanJSONOutput {
			return renderScanJSON(cmd, result, fileScopes)
		}
		renderScanText(cmd, result, fileScopes)
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSONOutput, "json", false, "output results as JSON")
	rootCmd.AddCommand(scanCmd)
}

func renderScanText(cmd *cobra.Command, result *types.ScanResult, fileScopes []discovery.FileScopes) {
	w := cmd.OutOrStdout()
	p := cliutil.NewPalette(w)

	p.Bold.Fprintf(w, "pyedit scan: %s\n", result.RootDir)
	fmt.Fprintln(w, "────────────────────────────────────────")
	fmt.Fprintf(w, "Files discovered: %d\n", result.TotalFiles)
	p.Green.Fprintf(w, "  Source files: %d\n", result.SourceCount)
	p.Yellow.Fprintf(w, "  Test files:   %d\n", result.TestCount)
	if result.GitignoreCount > 0 {
		fmt.Fprintf(w, "  Gitignored (excluded): %d\n", result.GitignoreCount)
	}

	for _, fs := range fileScopes {
		fmt.Fprintln(w)
		p.Bold.Fprintf(w, "%s  [%s]\n", fs.File.RelPath, fs.File.Class.String())
		if fs.Err != nil {
			p.Red.Fprintf(w, "  %s\n", fs.Err.Error())
			continue
		}
		if len(fs.Scopes) == 0 {
			p.Dim.Fprintln(w, "  (no classes or functions)")
			continue
		}
		for _, s := range fs.Scopes {
			indent := ""
			for i := 0; i < s.Depth; i++ {
				indent += "  "
			}
			fmt.Fprintf(w, "  %s%s %s  (%d-%d)\n", indent, s.Kind, s.Path, s.StartLine, s.EndLine)
		}
	}
}

// scanJSONFile is the JSON shape of one scanned file's result, keeping the
// field names stable and documented separately from discovery.FileScopes'
// internal Go-idiomatic naming.
type scanJSONFile struct {
	Path   string            `json:"path"`
	Class  string            `json:"class"`
	Scopes []pyeditScopeEntry `json:"scopes,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type pyeditScopeEntry struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Depth     int    `json:"depth"`
}

func renderScanJSON(cmd *cobra.Command, result *types.ScanResult, fileScopes []discovery.FileScopes) error {
	out := struct {
		RootDir string         `json:"root_dir"`
		Summary string         `json:"summary"`
		Files   []scanJSONFile `json:"files"`
	}{
		RootDir: result.RootDir,
		Summary: result.String(),
	}

	for _, fs := range fileScopes {
		jf := scanJSONFile{Path: fs.File.RelPath, Class: fs.File.Class.String()}
		if fs.Err != nil {
			jf.Error = fs.Err.Error()
		}
		for _, s := range fs.Scopes {
			jf.Scopes = append(jf.Scopes, pyeditScopeEntry{
				Path: s.Path, Kind: s.Kind, StartLine: s.StartLine, EndLine: s.EndLine, Depth: s.Depth,
			})
		}
		out.Files = append(out.Files, jf)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
