package pyedit

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// ScopeEntry is one addressable class or function scope discovered by
// ListScopes, identified by its pytest-style path and source line span.
type ScopeEntry struct {
	// Path is the "::"-joined path of this scope below the file, e.g.
	// "MyClass" or "MyClass::method".
	Path string
	// Kind is "class" or "function".
	Kind string
	// StartLine and EndLine are 1-based, inclusive.
	StartLine int
	EndLine   int
	// Depth is 0 for a top-level definition, 1 for a method, and so on.
	Depth int
}

// ListScopes parses filePath and returns every class/function definition it
// contains, in source order, so a caller can discover valid target_scope
// strings before calling Edit or View.
func (e *Editor) ListScopes(filePath string) ([]ScopeEntry, error) {
	if !e.Backend.Exists(filePath) {
		return nil, newEditError(ErrFileNotFound, "File not found: %s", filePath)
	}
	content, err := e.Backend.ReadFile(filePath)
	if err != nil {
		return nil, newEditError(ErrIO, "Error reading file %s: %v", filePath, err)
	}

	tree, err := e.parser.Parse(content)
	if err != nil {
		return nil, newEditError(ErrParse, "Error parsing file %s: %v", filePath, err)
	}
	defer tree.Close()

	var entries []ScopeEntry
	walkScopes(tree.RootNode(), content, nil, 0, &entries)
	return entries, nil
}

// walkScopes recursively visits node, appending a ScopeEntry for every
// class_definition/function_definition found directly inside it, and
// recursing into class bodies to find nested methods.
func walkScopes(node *tree_sitter.Node, content []byte, path []string, depth int, out *[]ScopeEntry) {
	for _, d := range topLevelDefs(node) {
		name := d.Name(content)
		fullPath := append(append([]string(nil), path...), name)

		kind := "function"
		if d.Kind() == "class_definition" {
			kind = "class"
		}

		*out = append(*out, ScopeEntry{
			Path:      joinPath(fullPath),
			Kind:      kind,
			StartLine: lineOf(content, d.Outer.StartByte()) + 1,
			EndLine:   lineOf(content, d.Outer.EndByte()) + 1,
			Depth:     depth,
		})

		if body := d.Body(); body != nil {
			walkScopes(body, content, fullPath, depth+1, out)
		}
	}
}

func joinPath(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "::"
		}
		out += p
	}
	return out
}
