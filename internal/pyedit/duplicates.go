package pyedit

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// duplicateInfo records a name that already exists in the scope new code
// is about to be inserted into, and what kind of definition it is.
type duplicateInfo struct {
	Name string
	Kind string // "function", "class", or "method"
}

// findDuplicates compares the names defined at the top level of newRoot
// against the existing definitions of scope, mirroring
// python_edit.py::_check_for_duplicates. scopeIsClass distinguishes the
// "method" label (used when scope is a class body) from "function"/"class"
// at file level.
func findDuplicates(scope *tree_sitter.Node, content []byte, newRoot *tree_sitter.Node, newContent []byte, scopeIsClass bool) []duplicateInfo {
	newNames := make(map[string]bool)
	for _, d := range topLevelDefs(newRoot) {
		newNames[d.Name(newContent)] = true
	}
	if len(newNames) == 0 {
		return nil
	}

	var dups []duplicateInfo
	for _, d := range topLevelDefs(scope) {
		name := d.Name(content)
		if !newNames[name] {
			continue
		}
		kind := "function"
		if scopeIsClass {
			kind = "method"
		} else if d.Kind() == "class_definition" {
			kind = "class"
		}
		dups = append(dups, duplicateInfo{Name: name, Kind: kind})
	}
	return dups
}

// removeDuplicateNames returns the byte ranges of scope's top-level
// definitions whose name is in names, for deletion before insertion.
func removeDuplicateNames(scope *tree_sitter.Node, content []byte, names map[string]bool) []byteRange {
	var ranges []byteRange
	for _, d := range topLevelDefs(scope) {
		if names[d.Name(content)] {
			ranges = append(ranges, byteRange{Start: d.Outer.StartByte(), End: d.Outer.EndByte()})
		}
	}
	return ranges
}
