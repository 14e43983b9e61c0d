package pyedit

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// importKey is the dedup identity of a single imported name, matching
// python_edit.py's existing_imports tuple scheme: ("import", module) or
// ("from", module, name) with name "*" for a wildcard import.
type importKey struct {
	from   bool
	module string
	name   string
}

// collectImportKeys returns the dedup keys for every name an import
// statement at the top level of scope brings into the namespace.
func collectImportKeys(scope *tree_sitter.Node, content []byte) map[importKey]bool {
	keys := make(map[importKey]bool)
	count := int(scope.ChildCount())
	for i := 0; i < count; i++ {
		child := scope.Child(uint(i))
		if child == nil {
			continue
		}
		for k := range importKeysOf(child, content) {
			keys[k] = true
		}
	}
	return keys
}

// importKeysOf returns the dedup keys introduced by a single statement, if
// it is an import_statement or import_from_statement. Other statement
// kinds return nil.
func importKeysOf(stmt *tree_sitter.Node, content []byte) map[importKey]bool {
	switch stmt.Kind() {
	case "import_statement":
		keys := make(map[importKey]bool)
		for _, name := range importedNames(stmt, content) {
			keys[importKey{from: false, module: name}] = true
		}
		return keys
	case "import_from_statement":
		moduleNode := stmt.ChildByFieldName("module_name")
		if moduleNode == nil {
			return nil
		}
		module := nodeText(moduleNode, content)
		keys := make(map[importKey]bool)
		if hasWildcardImport(stmt) {
			keys[importKey{from: true, module: module, name: "*"}] = true
			return keys
		}
		for _, name := range importedNames(stmt, content) {
			keys[importKey{from: true, module: module, name: name}] = true
		}
		return keys
	default:
		return nil
	}
}

// importedNames walks the dotted_name/aliased_import children of an import
// statement, returning the imported module or name of each -- for an
// aliased import, the name before "as", not the alias. The module of a
// from-import is not itself one of the imported names.
func importedNames(stmt *tree_sitter.Node, content []byte) []string {
	var names []string
	module := stmt.ChildByFieldName("module_name")
	count := int(stmt.ChildCount())
	for i := 0; i < count; i++ {
		child := stmt.Child(uint(i))
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			if module != nil && child.StartByte() == module.StartByte() {
				continue
			}
			names = append(names, nodeText(child, content))
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			if nameNode != nil {
				names = append(names, nodeText(nameNode, content))
			}
		}
	}
	return names
}

func hasWildcardImport(stmt *tree_sitter.Node) bool {
	count := int(stmt.ChildCount())
	for i := 0; i < count; i++ {
		child := stmt.Child(uint(i))
		if child != nil && child.Kind() == "wildcard_import" {
			return true
		}
	}
	return false
}

// splitImportsAndBody splits the top-level statements of a freshly parsed
// snippet of new code into its import statements (by source text) and
// everything else, in source order.
func splitImportsAndBody(root *tree_sitter.Node, content []byte) (imports []string, rest []string) {
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		child := root.Child(uint(i))
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "import_statement", "import_from_statement":
			imports = append(imports, nodeText(child, content))
		default:
			rest = append(rest, nodeText(child, content))
		}
	}
	return imports, rest
}

// dedupImportLines filters out import statement source lines that would
// introduce a name already present in existing.
func dedupImportLines(newSnippetRoot *tree_sitter.Node, newContent []byte, existing map[importKey]bool) []string {
	var kept []string
	count := int(newSnippetRoot.ChildCount())
	for i := 0; i < count; i++ {
		stmt := newSnippetRoot.Child(uint(i))
		if stmt == nil {
			continue
		}
		switch stmt.Kind() {
		case "import_statement", "import_from_statement":
			keys := importKeysOf(stmt, newContent)
			novel := false
			for k := range keys {
				if !existing[k] {
					novel = true
					break
				}
			}
			if novel || len(keys) == 0 {
				kept = append(kept, nodeText(stmt, newContent))
			}
		}
	}
	return kept
}
