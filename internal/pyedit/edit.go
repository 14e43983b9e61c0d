package pyedit

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/pyedit/pyedit/internal/parser"
)

// maxSafeDeletionLines is the line-count threshold above which a
// replacement or deletion is refused unless deleteALot is set.
const maxSafeDeletionLines = 100

// Editor performs structural edits, views, and scope listings against
// Python source files on a FileBackend.
type Editor struct {
	Backend FileBackend
	parser  *parser.TreeSitterParser
}

// NewEditor creates an Editor backed by backend. Pass OSBackend{} for the
// real filesystem.
func NewEditor(backend FileBackend) (*Editor, error) {
	p, err := parser.NewTreeSitterParser()
	if err != nil {
		return nil, fmt.Errorf("create editor: %w", err)
	}
	return &Editor{Backend: backend, parser: p}, nil
}

// Close releases the Editor's pooled parser.
func (e *Editor) Close() {
	if e.parser != nil {
		e.parser.Close()
	}
}

// Edit locates targetScope ("file.py::Class::method") and replaces it with
// code, or -- when coscopeWith is set -- inserts code immediately after the
// anchor coscopeWith identifies within that scope. Empty code (after
// dedent/trim) deletes the target instead of raising an error.
//
// deleteALot must be true to permit an operation that would delete more
// than 100 lines; otherwise Edit returns an *EditError of kind
// ErrSafetyGate.
func (e *Editor) Edit(targetScope, code string, coscopeWith string, deleteALot bool) (string, error) {
	filePath, pathElements := SplitScope(targetScope)

	if !strings.HasSuffix(filePath, ".py") {
		return e.editNonPythonFile(filePath, pathElements, code)
	}

	if err := ValidateIdentifiers(pathElementsWithoutFirst(pathElements)); err != nil {
		return "", err
	}

	absPath, err := ensureFile(e.Backend, filePath)
	if err != nil {
		return "", err
	}

	originalContent, err := e.Backend.ReadFile(absPath)
	if err != nil {
		return "", newEditError(ErrIO, "Error reading file %s: %v", absPath, err)
	}
	wasOriginallyEmpty := strings.TrimSpace(string(originalContent)) == ""

	tree, err := e.parser.Parse(originalContent)
	if err != nil {
		return "", newEditError(ErrParse, "Error parsing file %s: %v", absPath, err)
	}
	defer tree.Close()
	if tree.RootNode().HasError() {
		return "", newEditError(ErrParse, "Error parsing file %s: file contains invalid Python syntax", absPath)
	}

	cleanedCode := dedentAndTrim(code)

	if cleanedCode == "" {
		if coscopeWith != "" {
			return "", newEditError(ErrInvalidArgument, "Cannot use empty code with insert_after - nothing to insert")
		}
		return e.handleDeletion(absPath, targetScope, pathElements, originalContent, tree, deleteALot)
	}

	if wasOriginallyEmpty && len(pathElements) == 0 {
		if err := e.Backend.WriteFile(absPath, []byte(cleanedCode)); err != nil {
			return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
		}
		return fmt.Sprintf("Code added to '%s'.", absPath), nil
	}

	newTree, err := e.parser.Parse([]byte(cleanedCode))
	if err != nil {
		return "", newEditError(ErrParse, "Error parsing new code: %v", err)
	}
	// Comment-only code parses cleanly (the comment is just an extra node,
	// producing an empty body) but isn't a placeable statement; synthesize a
	// pass carrying it as a trailing comment so it can still be spliced in
	// (python_edit.py::_create_statement_with_comment). Anything else that
	// fails to parse is rejected outright, whether or not it starts with #.
	needsSynthesis := strings.HasPrefix(cleanedCode, "#") &&
		(newTree.RootNode().HasError() || hasNoRealStatements(newTree.RootNode()))
	if needsSynthesis {
		newTree.Close()
		cleanedCode = synthesizePassComment(cleanedCode)
		newTree, err = e.parser.Parse([]byte(cleanedCode))
		if err != nil {
			return "", newEditError(ErrParse, "Error parsing new code: %v", err)
		}
		if newTree.RootNode().HasError() {
			newTree.Close()
			return "", newEditError(ErrParse, "Error parsing new code: new code is not valid Python")
		}
	} else if newTree.RootNode().HasError() {
		newTree.Close()
		return "", newEditError(ErrParse, "Error parsing new code: new code is not valid Python")
	}
	defer newTree.Close()
	newContent := []byte(cleanedCode)

	if len(pathElements) > 0 && pathElements[0] == FirstSentinel {
		if len(pathElements) > 1 {
			return "", newEditError(ErrInvalidPath, "__FIRST__ cannot be combined with other path elements")
		}
		return e.handleFirstDefinition(absPath, originalContent, tree, newContent, newTree, coscopeWith)
	}

	// Duplicate detection + removal happens against the pre-edit tree, so
	// it must be done before any byte-range splice below.
	var dupCount int
	workingContent := originalContent
	workingTree := tree
	if coscopeWith != "" {
		scope := workingTree.RootNode()
		scopeIsClass := false
		if len(pathElements) > 0 {
			target, ok := resolveScope(workingTree.RootNode(), workingContent, pathElements)
			if !ok {
				return "", newEditError(ErrScopeNotFound, "Target scope not found: %s", targetScope)
			}
			if target.Kind() != "class_definition" {
				// Only class bodies are scanned for duplicate methods;
				// function-scope insertion never introduces sibling defs.
				scope = nil
			} else {
				scope = target.Body()
				scopeIsClass = true
			}
		}
		if scope != nil {
			dups := findDuplicates(scope, workingContent, newTree.RootNode(), newContent, scopeIsClass)
			if len(dups) > 0 {
				names := make(map[string]bool, len(dups))
				for _, d := range dups {
					names[d.Name] = true
				}
				ranges := removeDuplicateNames(scope, workingContent, names)
				workingContent = deleteRanges(workingContent, ranges)
				workingTree, err = e.parser.Parse(workingContent)
				if err != nil {
					return "", newEditError(ErrParse, "Error reprocessing file after removing duplicates: %v", err)
				}
				defer workingTree.Close()
				dupCount = len(dups)
			}
		}
	}

	suffix := ""
	if dupCount > 0 {
		suffix = fmt.Sprintf(" (Overwrote %d existing definition(s))", dupCount)
	}

	if (coscopeWith == FileStartSentinel || coscopeWith == FileEndSentinel) && len(pathElements) > 0 {
		return "", newEditError(ErrInvalidArgument,
			"Cannot use %s with scoped target '%s'. File-level tokens (__FILE_START__, __FILE_END__) "+
				"can only be used with file-level targets (e.g., 'file.py').", coscopeWith, targetScope)
	}

	switch {
	case coscopeWith == FileStartSentinel:
		result, err := e.handleFileStartInsertion(absPath, workingContent, workingTree, newTree.RootNode(), newContent)
		if err != nil {
			return "", err
		}
		return result + suffix, nil

	case coscopeWith == FileEndSentinel:
		result, err := e.handleFileEndInsertion(absPath, workingContent, newContent)
		if err != nil {
			return "", err
		}
		return result + suffix, nil

	case len(pathElements) == 0:
		if coscopeWith != "" {
			result, err := e.handleFileLevelInsertion(absPath, workingContent, workingTree, coscopeWith, newContent)
			if err != nil {
				return "", err
			}
			return result + suffix, nil
		}
		linesToDelete := countLinesToBeDeleted(originalContent, cleanedCode)
		if linesToDelete > maxSafeDeletionLines && !deleteALot {
			return "", safetyGateError(linesToDelete)
		}
		if err := e.Backend.WriteFile(absPath, []byte(cleanedCode)); err != nil {
			return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
		}
		return fmt.Sprintf("Code replaced at file level in '%s'.", absPath), nil

	default:
		return e.handleScopedEdit(absPath, targetScope, pathElements, workingContent, workingTree, coscopeWith, newTree.RootNode(), newContent, suffix)
	}
}

// synthesizePassComment implements python_edit.py::_create_statement_with_comment:
// code that is nothing but a comment can't stand on its own as a Python
// statement, so it's wrapped in a pass with the comment's first line
// trailing it.
func synthesizePassComment(code string) string {
	line := strings.TrimSpace(code)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "#")
	line = strings.TrimSpace(line)
	return fmt.Sprintf("pass  # %s", line)
}

// hasNoRealStatements reports whether root has no children other than
// comments -- e.g. a module consisting solely of "# some note", which
// tree-sitter parses without error as an empty body plus a comment extra.
func hasNoRealStatements(root *tree_sitter.Node) bool {
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		child := root.Child(uint(i))
		if child != nil && child.Kind() != "comment" {
			return false
		}
	}
	return true
}

func pathElementsWithoutFirst(path []string) []string {
	if len(path) == 1 && path[0] == FirstSentinel {
		return nil
	}
	return path
}

func safetyGateError(lines int) *EditError {
	return newEditError(ErrSafetyGate,
		"Safety check: this operation would delete %d lines. If intentional, set delete_a_lot=True. "+
			"Consider using 'insert_after' parameter to add code without deleting existing content.", lines)
}

// countLinesToBeDeleted mirrors python_edit.py::_count_lines_to_be_deleted.
func countLinesToBeDeleted(original []byte, newContent string) int {
	originalLines := 0
	if strings.TrimSpace(string(original)) != "" {
		originalLines = strings.Count(string(original), "\n") + 1
	}
	newLines := 0
	if strings.TrimSpace(newContent) != "" {
		newLines = strings.Count(newContent, "\n") + 1
	}
	delta := originalLines - newLines
	if delta < 0 {
		return 0
	}
	return delta
}

// editNonPythonFile implements python_edit.py's degraded-mode handling of
// non-.py targets: a brand new file is written verbatim with a warning; an
// existing or scoped non-.py target is always an error.
func (e *Editor) editNonPythonFile(filePath string, pathElements []string, code string) (string, error) {
	if len(pathElements) > 0 {
		return "", newEditError(ErrInvalidPath, "File path must end with .py: %s", filePath)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", newEditError(ErrIO, "Error resolving path %s: %v", filePath, err)
	}
	if e.Backend.Exists(absPath) {
		return "", newEditError(ErrInvalidPath, "File path must end with .py: %s", filePath)
	}
	if err := e.Backend.MkdirAll(filepath.Dir(absPath)); err != nil {
		return "", newEditError(ErrIO, "Error creating directories %s: %v", filepath.Dir(absPath), err)
	}
	if err := e.Backend.WriteFile(absPath, []byte(code)); err != nil {
		return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
	}
	return fmt.Sprintf(
		"WARNING: pyedit edit is for python files. As a courtesy, this new file has been written verbatim, "+
			"but pyedit edit will not be able to edit the file.\nFile created: '%s'", absPath), nil
}

// handleFirstDefinition implements python_edit.py::_handle_first_definition:
// targets the first top-level class/function definition in the file,
// whatever its name.
func (e *Editor) handleFirstDefinition(absPath string, original []byte, tree *tree_sitter.Tree, newContent []byte, newTree *tree_sitter.Tree, coscopeWith string) (string, error) {
	defs := topLevelDefs(tree.RootNode())
	if len(defs) == 0 {
		return "", newEditError(ErrScopeNotFound, "No function or class definition found in file")
	}
	first := defs[0]

	if coscopeWith != "" {
		pos := first.Outer.EndByte()
		col := columnOf(original, first.Outer.StartByte())
		snippet := "\n" + indentBlock(string(newContent), col)
		result := insertAt(original, pos, snippet)
		if err := e.Backend.WriteFile(absPath, result); err != nil {
			return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
		}
		return fmt.Sprintf("Code inserted after first definition in '%s'.", absPath), nil
	}

	col := columnOf(original, first.Outer.StartByte())
	replacement := indentBlock(string(newContent), col)
	result := replaceRange(original, byteRange{Start: first.Outer.StartByte(), End: first.Outer.EndByte()}, replacement)
	if err := e.Backend.WriteFile(absPath, result); err != nil {
		return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
	}
	return fmt.Sprintf("First definition replaced in '%s'.", absPath), nil
}

// handleFileEndInsertion implements python_edit.py::_handle_file_end_insertion.
func (e *Editor) handleFileEndInsertion(absPath string, original []byte, newContent []byte) (string, error) {
	out := append([]byte(nil), original...)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	if len(out) > 0 {
		out = append(out, '\n')
	}
	out = append(out, newContent...)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	if err := e.Backend.WriteFile(absPath, out); err != nil {
		return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
	}
	return fmt.Sprintf("Code inserted at end of '%s'.", absPath), nil
}

// handleFileStartInsertion implements
// python_edit.py::_handle_file_start_insertion: imports already present in
// the file are filtered out of the inserted snippet before it is prepended.
// Per spec.md §4.5, the snippet is placed after the module docstring (if
// any) and after all `from __future__` imports, not at byte 0.
func (e *Editor) handleFileStartInsertion(absPath string, original []byte, tree *tree_sitter.Tree, newRoot *tree_sitter.Node, newContent []byte) (string, error) {
	existing := collectImportKeys(tree.RootNode(), original)
	_, rest := splitImportsAndBody(newRoot, newContent)
	kept := dedupImportLines(newRoot, newContent, existing)

	var snippet strings.Builder
	for _, imp := range kept {
		snippet.WriteString(imp)
		snippet.WriteString("\n")
	}
	for _, stmt := range rest {
		snippet.WriteString(stmt)
		snippet.WriteString("\n")
	}
	if snippet.Len() > 0 {
		snippet.WriteString("\n")
	}

	pos := leadingPreludeEnd(tree.RootNode(), original)
	out := insertAt(original, pos, spliceLeadIn(pos)+snippet.String())
	if err := e.Backend.WriteFile(absPath, out); err != nil {
		return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
	}
	return fmt.Sprintf("Code inserted at start of '%s' (duplicate imports filtered).", absPath), nil
}

// spliceLeadIn returns "\n" when pos is mid-file (a statement's EndByte()
// sits just before that statement's own trailing newline, so text inserted
// there needs its own newline first to avoid merging with the preceding
// token), or "" when pos is 0.
func spliceLeadIn(pos uint) string {
	if pos == 0 {
		return ""
	}
	return "\n"
}

// isDocstringStatement reports whether stmt is a standalone string-literal
// expression statement -- the shape a module docstring takes in the CST.
func isDocstringStatement(stmt *tree_sitter.Node) bool {
	if stmt == nil || stmt.Kind() != "expression_statement" {
		return false
	}
	if stmt.ChildCount() != 1 {
		return false
	}
	child := stmt.Child(0)
	return child != nil && child.Kind() == "string"
}

// isFutureImport reports whether stmt is `from __future__ import ...`.
func isFutureImport(stmt *tree_sitter.Node, content []byte) bool {
	if stmt != nil && stmt.Kind() == "future_import_statement" {
		return true
	}
	if stmt == nil || stmt.Kind() != "import_from_statement" {
		return false
	}
	module := stmt.ChildByFieldName("module_name")
	return module != nil && nodeText(module, content) == "__future__"
}

// leadingPreludeEnd returns the byte offset just past a leading module
// docstring (if present) and any `from __future__` imports that follow it,
// matching spec.md §4.5's placement rule for __FILE_START__ insertions.
func leadingPreludeEnd(root *tree_sitter.Node, content []byte) uint {
	count := int(root.ChildCount())
	idx := 0
	pos := uint(0)
	if idx < count {
		if stmt := root.Child(uint(idx)); isDocstringStatement(stmt) {
			pos = stmt.EndByte()
			idx++
		}
	}
	for idx < count {
		stmt := root.Child(uint(idx))
		if !isFutureImport(stmt, content) {
			break
		}
		pos = stmt.EndByte()
		idx++
	}
	return pos
}

// moduleImportInsertPos returns the byte offset just past a leading module
// docstring (if present) and the contiguous run of top-level import
// statements that follow it -- the splice point for hoisting imports out of
// a scoped replacement (spec.md §4.2 step 4 / §4.5).
func moduleImportInsertPos(root *tree_sitter.Node, content []byte) uint {
	count := int(root.ChildCount())
	idx := 0
	pos := uint(0)
	if idx < count {
		if stmt := root.Child(uint(idx)); isDocstringStatement(stmt) {
			pos = stmt.EndByte()
			idx++
		}
	}
	for idx < count {
		stmt := root.Child(uint(idx))
		if stmt == nil || (stmt.Kind() != "import_statement" && stmt.Kind() != "import_from_statement" && stmt.Kind() != "future_import_statement") {
			break
		}
		pos = stmt.EndByte()
		idx++
	}
	return pos
}

// handleFileLevelInsertion implements
// python_edit.py::_handle_file_level_insertion / FileOnlyInserter: inserts
// after the first top-level statement whose name or source text matches
// pattern.
func (e *Editor) handleFileLevelInsertion(absPath string, original []byte, tree *tree_sitter.Tree, rawPattern string, newContent []byte) (string, error) {
	pattern := strings.TrimSpace(rawPattern)
	if isQuoted(pattern) {
		pattern = pattern[1 : len(pattern)-1]
	}

	root := tree.RootNode()
	count := int(root.ChildCount())
	var matchEnd uint
	found := false
	for i := 0; i < count; i++ {
		stmt := root.Child(uint(i))
		if stmt == nil {
			continue
		}
		if stmtMatchesPattern(stmt, original, pattern) {
			matchEnd = stmt.EndByte()
			found = true
			break
		}
	}
	if !found {
		return "", newEditError(ErrInsertPointNotFound, "Insert point not found at file level: %s", rawPattern)
	}

	snippet := "\n" + string(newContent)
	out := insertAt(original, matchEnd, snippet)
	if err := e.Backend.WriteFile(absPath, out); err != nil {
		return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
	}
	return fmt.Sprintf("Code inserted after '%s' in '%s'.", rawPattern, absPath), nil
}

func stmtMatchesPattern(stmt *tree_sitter.Node, content []byte, pattern string) bool {
	if stmt.Kind() == "function_definition" || stmt.Kind() == "class_definition" {
		if name := stmt.ChildByFieldName("name"); name != nil && nodeText(name, content) == pattern {
			return true
		}
	}
	if stmt.Kind() == "decorated_definition" {
		if inner := stmt.ChildByFieldName("definition"); inner != nil {
			if name := inner.ChildByFieldName("name"); name != nil && nodeText(name, content) == pattern {
				return true
			}
		}
	}
	return strings.Contains(strings.TrimSpace(nodeText(stmt, content)), pattern)
}

// handleDeletion implements python_edit.py::_handle_deletion / ScopeDeleter:
// empty replacement code deletes the target scope (or the whole file, at
// file level) instead of erroring.
func (e *Editor) handleDeletion(absPath, targetScope string, pathElements []string, original []byte, tree *tree_sitter.Tree, deleteALot bool) (string, error) {
	linesToDelete := countLinesToBeDeleted(original, "")
	if linesToDelete > maxSafeDeletionLines && !deleteALot {
		return "", safetyGateError(linesToDelete)
	}

	if len(pathElements) == 0 {
		if err := e.Backend.WriteFile(absPath, nil); err != nil {
			return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
		}
		return fmt.Sprintf("File '%s' cleared (deleted all content).", absPath), nil
	}

	target, ok := resolveScope(tree.RootNode(), original, pathElements)
	if !ok {
		return "", newEditError(ErrScopeNotFound, "Target scope not found for deletion: %s", targetScope)
	}
	out := deleteRanges(original, []byteRange{{Start: target.Outer.StartByte(), End: target.Outer.EndByte()}})
	if err := e.Backend.WriteFile(absPath, out); err != nil {
		return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
	}
	return fmt.Sprintf("Deleted scope '%s' from '%s'.", targetScope, absPath), nil
}

// handleScopedEdit implements the core of ScopeReplacer: replacing a
// resolved class/function definition in place, or inserting new code
// immediately after a named sibling or a pattern-matched statement inside
// it.
func (e *Editor) handleScopedEdit(absPath, targetScope string, pathElements []string, content []byte, tree *tree_sitter.Tree, coscopeWith string, newRoot *tree_sitter.Node, newContent []byte, suffix string) (string, error) {
	target, ok := resolveScope(tree.RootNode(), content, pathElements)
	if !ok {
		if coscopeWith != "" {
			return "", newEditError(ErrScopeNotFound, "Target scope not found: %s", targetScope)
		}
		return "", newEditError(ErrScopeNotFound, "Target scope not found: %s", targetScope)
	}

	if coscopeWith != "" {
		anchor := ParseAnchor(coscopeWith)
		pos, err := e.resolveInsertionPoint(target, content, anchor, coscopeWith, pathElements)
		if err != nil {
			return "", err
		}
		col := columnOf(content, bodyIndentColumn(target, content))
		snippet := "\n" + strings.Repeat(" ", col) + indentBlock(string(newContent), col)
		out := insertAt(content, pos, snippet)
		if err := e.Backend.WriteFile(absPath, out); err != nil {
			return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
		}
		return fmt.Sprintf("Code inserted after '%s' in '%s'.", coscopeWith, absPath) + suffix, nil
	}

	col := columnOf(content, target.Outer.StartByte())
	matchedText, additionalTexts := extractReplacementPieces(newRoot, newContent, target.Name(content))

	var body strings.Builder
	body.WriteString(indentBlock(matchedText, col))
	pad := strings.Repeat(" ", col)
	for _, extra := range additionalTexts {
		body.WriteString("\n\n")
		body.WriteString(pad)
		body.WriteString(indentBlock(extra, col))
	}

	out := replaceRange(content, byteRange{Start: target.Outer.StartByte(), End: target.Outer.EndByte()}, body.String())

	hoisted := dedupImportLines(newRoot, newContent, collectImportKeys(tree.RootNode(), content))
	if len(hoisted) > 0 {
		var importSnippet strings.Builder
		for _, imp := range hoisted {
			importSnippet.WriteString(imp)
			importSnippet.WriteString("\n")
		}
		importSnippet.WriteString("\n")
		importPos := moduleImportInsertPos(tree.RootNode(), content)
		out = insertAt(out, importPos, spliceLeadIn(importPos)+importSnippet.String())
	}

	if err := e.Backend.WriteFile(absPath, out); err != nil {
		return "", newEditError(ErrIO, "Error writing file %s: %v", absPath, err)
	}
	return fmt.Sprintf("Code replaced at '%s'.", targetScope) + suffix, nil
}

// extractReplacementPieces implements ScopeReplacer._handle_scope_node's
// extraction logic: the top-level definition in the new code whose name
// matches targetName becomes the literal replacement text; every other
// top-level class/function definition in the new code becomes an
// "additional" sibling inserted right after it. Import statements are
// excluded here -- they are hoisted to module level separately. If no
// definition in the new code matches targetName, the new code's first
// top-level statement, together with a comment that trails it on the same
// line, is used as the replacement (mirroring the original's fallback to
// new_code.body[0]).
func extractReplacementPieces(newRoot *tree_sitter.Node, newContent []byte, targetName string) (matched string, additional []string) {
	defs := topLevelDefs(newRoot)
	for i, d := range defs {
		if d.Name(newContent) != targetName {
			continue
		}
		matched = nodeText(d.Outer, newContent)
		for j, other := range defs {
			if j == i {
				continue
			}
			additional = append(additional, nodeText(other.Outer, newContent))
		}
		return matched, additional
	}

	if newRoot.ChildCount() == 0 {
		return string(newContent), nil
	}
	first := newRoot.Child(0)
	matched = nodeText(first, newContent)
	if next := first.NextSibling(); next != nil && next.Kind() == "comment" && next.StartPosition().Row == first.EndPosition().Row {
		matched = string(newContent[first.StartByte():next.EndByte()])
	}
	for _, d := range defs {
		if d.Outer.StartByte() == first.StartByte() && d.Outer.EndByte() == first.EndByte() {
			continue
		}
		additional = append(additional, nodeText(d.Outer, newContent))
	}
	return matched, additional
}

// bodyIndentColumn returns the byte offset of the first statement in
// target's body, used only to measure its indentation column.
func bodyIndentColumn(target defNode, content []byte) uint {
	body := target.Body()
	if body == nil {
		return target.Outer.StartByte()
	}
	defs := topLevelDefs(body)
	if len(defs) > 0 {
		return defs[0].Outer.StartByte()
	}
	return body.StartByte()
}

// resolveInsertionPoint finds the byte offset after which new code should
// be spliced, for a coscopeWith anchor evaluated within target's body.
// pathElements is the path that resolved target, used to validate a
// dotted "Outer::inner" anchor's scope prefix.
func (e *Editor) resolveInsertionPoint(target defNode, content []byte, anchor Anchor, raw string, pathElements []string) (uint, error) {
	body := target.Body()
	if body == nil {
		return 0, newEditError(ErrInsertPointNotFound, "Insert point not found: %s", raw)
	}

	switch anchor.Kind {
	case AnchorNamedScope:
		// _insert_after_named_scope: a scope prefix ("Outer" in
		// "Outer::inner") must match the tail of the path that resolved the
		// current target, not merely name a same-named definition anywhere.
		if len(anchor.Scope) > 0 {
			if len(anchor.Scope) > len(pathElements) || !scopePrefixMatches(anchor.Scope, pathElements) {
				return 0, newEditError(ErrInsertPointNotFound, "Insert point not found: %s", raw)
			}
		}
		child, ok := findNamedChild(body, content, anchor.Name)
		if !ok {
			return 0, newEditError(ErrInsertPointNotFound, "Insert point not found: %s", raw)
		}
		return child.Outer.EndByte(), nil

	case AnchorExpression:
		pos, ok := findExpressionAnchor(body, content, anchor.Pattern)
		if !ok {
			return 0, newEditError(ErrInsertPointNotFound, "Insert point not found: %s", raw)
		}
		return pos, nil

	default:
		return 0, newEditError(ErrInsertPointNotFound, "Insert point not found: %s", raw)
	}
}

// scopePrefixMatches reports whether scope equals the trailing len(scope)
// elements of path.
func scopePrefixMatches(scope, path []string) bool {
	tail := path[len(path)-len(scope):]
	for i, s := range scope {
		if s != tail[i] {
			return false
		}
	}
	return true
}

// findExpressionAnchor mirrors ScopeReplacer._insert_after_expression: a
// single-line pattern matches any direct-child statement whose stripped
// source contains it or starts with it; a multi-line pattern matches
// structurally instead, comparing each line's relative indent rank and
// stripped content against the candidate statement's leading lines so a
// pattern written at a different absolute indentation still matches.
func findExpressionAnchor(body *tree_sitter.Node, content []byte, pattern string) (uint, bool) {
	patternLines := strings.Split(pattern, "\n")
	multiline := len(patternLines) > 1
	var patternStructure []structureLine
	if multiline {
		patternStructure = lineStructure(patternLines)
	}

	count := int(body.ChildCount())
	var lastMatch uint
	found := false
	for i := 0; i < count; i++ {
		stmt := body.Child(uint(i))
		if stmt == nil {
			continue
		}
		stmtCode := strings.TrimRight(nodeText(stmt, content), "\n")

		var matched bool
		if multiline {
			stmtLines := strings.Split(stmtCode, "\n")
			if len(stmtLines) >= len(patternLines) {
				matched = structuresEqual(patternStructure, lineStructure(stmtLines[:len(patternLines)]))
			}
		} else {
			trimmedPattern := strings.TrimSpace(pattern)
			trimmedStmt := strings.TrimSpace(stmtCode)
			matched = strings.Contains(trimmedStmt, trimmedPattern) || strings.HasPrefix(trimmedStmt, trimmedPattern)
		}
		if matched {
			lastMatch = stmt.EndByte()
			found = true
			break
		}
	}
	return lastMatch, found
}

// structureLine is one line's shape for relative-indent pattern matching:
// its indent rank among the distinct indent widths in its block, and its
// stripped content.
type structureLine struct {
	level   int
	content string
}

func lineStructure(lines []string) []structureLine {
	var levels []int
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		levels = append(levels, len(line)-len(strings.TrimLeft(line, " \t")))
	}
	sort.Ints(levels)
	unique := levels[:0:0]
	for _, l := range levels {
		if len(unique) == 0 || unique[len(unique)-1] != l {
			unique = append(unique, l)
		}
	}

	result := make([]structureLine, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			result[i] = structureLine{level: 0, content: ""}
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		level := 0
		for _, u := range unique {
			if u == indent {
				break
			}
			level++
		}
		result[i] = structureLine{level: level, content: strings.TrimSpace(line)}
	}
	return result
}

func structuresEqual(a, b []structureLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
