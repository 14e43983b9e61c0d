package pyedit

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// defaultMaxLines is python_view's own default when the caller does not
// specify max_lines.
const defaultMaxLines = 500

// View renders the source of targetScope ("file.py::Class::method"),
// applying scope-aware truncation when the result would exceed maxLines.
// maxLines <= 0 disables truncation entirely. A targetScope with no path
// elements views the whole file.
func (e *Editor) View(targetScope string, maxLines int) (string, error) {
	filePath, pathElements := SplitScope(targetScope)
	if !strings.HasSuffix(filePath, ".py") {
		return "", newEditError(ErrInvalidPath, "File path must end with .py: %s", filePath)
	}
	if err := ValidateIdentifiers(pathElements); err != nil {
		return "", err
	}

	if !e.Backend.Exists(filePath) {
		return "", newEditError(ErrFileNotFound, "File not found: %s", filePath)
	}
	content, err := e.Backend.ReadFile(filePath)
	if err != nil {
		return "", newEditError(ErrIO, "Error reading file %s: %v", filePath, err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return fmt.Sprintf("File '%s' is empty.", filePath), nil
	}

	if len(pathElements) == 0 {
		if maxLines > 0 {
			return e.applyScopeAwareTruncation(string(content), maxLines), nil
		}
		return string(content), nil
	}

	tree, err := e.parser.Parse(content)
	if err != nil {
		return "", newEditError(ErrParse, "Error parsing file %s: %v", filePath, err)
	}
	defer tree.Close()

	target, ok := resolveScope(tree.RootNode(), content, pathElements)
	if !ok {
		return "", newEditError(ErrScopeNotFound, "Target scope not found: %s", targetScope)
	}

	result := nodeText(target.Outer, content)
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	if maxLines > 0 {
		return e.applyScopeAwareTruncation(result, maxLines), nil
	}
	return result, nil
}

// scopeEntry is a flattened record of one class/function definition found
// while walking a view, used to drive progressive truncation.
type scopeEntry struct {
	Kind      string // "function_definition" or "class_definition"
	Name      string
	StartLine int // 0-based
	EndLine   int // 0-based, inclusive
	Depth     int
}

// applyScopeAwareTruncation mirrors python_edit.py::_apply_scope_aware_truncation:
// progressively collapse the deepest scopes into "..." markers until the
// result fits maxLines, falling back to a signature-only outline.
func (e *Editor) applyScopeAwareTruncation(source string, maxLines int) string {
	if strings.TrimSpace(source) == "" {
		return source
	}
	lines := strings.Split(source, "\n")
	if len(lines) <= maxLines {
		return source
	}

	tree, err := e.parser.Parse([]byte(source))
	if err != nil {
		return source
	}
	defer tree.Close()

	var entries []scopeEntry
	collectScopeEntries(tree.RootNode(), []byte(source), &entries, 0)

	maxDepth := 0
	for _, e := range entries {
		if e.Depth > maxDepth {
			maxDepth = e.Depth
		}
	}

	for depthLimit := maxDepth; depthLimit >= 0; depthLimit-- {
		result := createOutlineView(entries, depthLimit, lines)
		if len(result) <= maxLines {
			return strings.Join(result, "\n")
		}
	}

	result := createSignatureOutline(entries, lines, maxLines)
	return strings.Join(result, "\n")
}

// collectScopeEntries walks node recursively, recording every class or
// function definition's line span and nesting depth.
func collectScopeEntries(node *tree_sitter.Node, content []byte, entries *[]scopeEntry, depth int) {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		inner := child
		if child.Kind() == "decorated_definition" {
			if def := child.ChildByFieldName("definition"); def != nil {
				inner = def
			}
		}
		if inner.Kind() == "function_definition" || inner.Kind() == "class_definition" {
			name := ""
			if n := inner.ChildByFieldName("name"); n != nil {
				name = nodeText(n, content)
			}
			startLine := lineOf(content, child.StartByte())
			endLine := lineOf(content, child.EndByte())
			*entries = append(*entries, scopeEntry{
				Kind: inner.Kind(), Name: name, StartLine: startLine, EndLine: endLine, Depth: depth,
			})
			if body := inner.ChildByFieldName("body"); body != nil {
				collectScopeEntries(body, content, entries, depth+1)
			}
			continue
		}
		collectScopeEntries(child, content, entries, depth)
	}
}

func lineOf(content []byte, pos uint) int {
	line := 0
	for i := uint(0); i < pos && i < uint(len(content)); i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}

// createOutlineView replaces the body of every scope deeper than
// depthLimit with a single "..." line.
func createOutlineView(entries []scopeEntry, depthLimit int, lines []string) []string {
	result := append([]string(nil), lines...)

	var toTruncate []scopeEntry
	for _, e := range entries {
		if e.Depth > depthLimit && e.StartLine < len(lines) {
			toTruncate = append(toTruncate, e)
		}
	}
	sortEntriesDescending(toTruncate)

	for _, e := range toTruncate {
		start := e.StartLine
		end := e.EndLine
		if end > len(result)-1 {
			end = len(result) - 1
		}
		if start >= len(result) || start > end {
			continue
		}
		defLine := result[start]
		indent := len(defLine) - len(strings.TrimLeft(defLine, " \t"))
		truncLine := strings.Repeat(" ", indent+4) + "..."
		if start+1 <= end {
			result = append(result[:start+1], append([]string{truncLine}, result[end+1:]...)...)
		}
	}
	return result
}

func sortEntriesDescending(entries []scopeEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].StartLine < entries[j].StartLine; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}

// createSignatureOutline mirrors python_edit.py::_create_signature_outline:
// a compact import summary plus top-level signatures, used when even a
// fully collapsed outline still exceeds maxLines.
func createSignatureOutline(entries []scopeEntry, lines []string, maxLines int) []string {
	var result []string

	firstDefLine := len(lines)
	for _, e := range entries {
		if e.Depth == 0 && e.StartLine < firstDefLine {
			firstDefLine = e.StartLine
		}
	}

	var importLines []string
	for _, line := range lines[:firstDefLine] {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
			importLines = append(importLines, line)
		}
	}
	if len(importLines) > 0 {
		shown := importLines
		if len(shown) > 3 {
			shown = shown[:3]
		}
		result = append(result, shown...)
		if len(importLines) > 3 {
			result = append(result, fmt.Sprintf("# ... %d more imports ...", len(importLines)-3))
		}
		result = append(result, "")
	}

	var topLevel []scopeEntry
	for _, e := range entries {
		if e.Depth == 0 {
			topLevel = append(topLevel, e)
		}
	}

	linesUsed := len(result)
	shownCount := 0
	for _, entry := range topLevel {
		if linesUsed >= maxLines-5 {
			break
		}
		if entry.StartLine < 0 || entry.StartLine >= len(lines) {
			continue
		}
		sigLine := lines[entry.StartLine]
		result = append(result, sigLine)
		linesUsed++
		shownCount++

		if entry.Kind == "class_definition" {
			var nested []scopeEntry
			for _, e := range entries {
				if e.Depth == 1 && e.StartLine > entry.StartLine && e.StartLine < entry.EndLine {
					nested = append(nested, e)
				}
			}
			shown := nested
			if len(shown) > 3 {
				shown = shown[:3]
			}
			for _, n := range shown {
				if linesUsed >= maxLines-3 {
					break
				}
				if n.StartLine < 0 || n.StartLine >= len(lines) {
					continue
				}
				result = append(result, lines[n.StartLine])
				linesUsed++
			}
			if len(nested) > 3 {
				indent := len(sigLine) - len(strings.TrimLeft(sigLine, " \t"))
				result = append(result, strings.Repeat(" ", indent+4)+fmt.Sprintf("# ... %d more methods ...", len(nested)-3))
				linesUsed++
			}
		} else {
			indent := len(sigLine) - len(strings.TrimLeft(sigLine, " \t"))
			result = append(result, strings.Repeat(" ", indent+4)+"...")
			linesUsed++
		}
		result = append(result, "")
		linesUsed++
	}

	if shownCount < len(topLevel) {
		result = append(result, fmt.Sprintf("# ... %d more top-level definitions ...", len(topLevel)-shownCount))
	}

	return result
}
