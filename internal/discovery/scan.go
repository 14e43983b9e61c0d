package discovery

import (
	"golang.org/x/sync/errgroup"

	"github.com/pyedit/pyedit/internal/pyedit"
	"github.com/pyedit/pyedit/pkg/types"
)

// FileScopes pairs a discovered file with the scopes found inside it.
type FileScopes struct {
	File   types.DiscoveredFile
	Scopes []pyedit.ScopeEntry
	Err    error
}

// maxScanWorkers bounds how many files are parsed concurrently during a
// scan; each worker owns its own Editor (and so its own tree-sitter
// parser), so parses are not serialized behind one shared parser's mutex.
const maxScanWorkers = 8

// ScanScopes walks rootDir and lists every addressable scope in every
// source/test .py file it finds, bounding concurrency at maxScanWorkers.
// A per-file parse failure is recorded on that file's FileScopes.Err
// rather than aborting the whole scan.
func ScanScopes(rootDir string) (*types.ScanResult, []FileScopes, error) {
	result, err := NewWalker().Discover(rootDir)
	if err != nil {
		return nil, nil, err
	}

	var toScan []types.DiscoveredFile
	for _, f := range result.Files {
		if f.Class == types.ClassSource || f.Class == types.ClassTest {
			toScan = append(toScan, f)
		}
	}

	out := make([]FileScopes, len(toScan))
	var g errgroup.Group
	g.SetLimit(maxScanWorkers)

	for i, f := range toScan {
		i, f := i, f
		g.Go(func() error {
			editor, err := pyedit.NewEditor(pyedit.OSBackend{})
			if err != nil {
				out[i] = FileScopes{File: f, Err: err}
				return nil
			}
			defer editor.Close()

			scopes, err := editor.ListScopes(f.Path)
			out[i] = FileScopes{File: f, Scopes: scopes, Err: err}
			return nil
		})
	}
	_ = g.Wait() // per-file errors are carried in FileScopes.Err, not propagated

	return result, out, nil
}
