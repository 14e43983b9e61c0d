package pyedit

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// defNode wraps a class_definition or function_definition node together
// with its decorated_definition wrapper, if any. Decorators must move with
// the definition on replace/delete/insert-after.
type defNode struct {
	// Outer is the node to splice/delete: the decorated_definition if the
	// definition carries decorators, otherwise the definition itself.
	Outer *tree_sitter.Node
	// Inner is always the class_definition/function_definition node,
	// used to read the name and body.
	Inner *tree_sitter.Node
}

func (d defNode) Kind() string {
	return d.Inner.Kind()
}

func (d defNode) Name(content []byte) string {
	name := d.Inner.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return nodeText(name, content)
}

func (d defNode) Body() *tree_sitter.Node {
	return d.Inner.ChildByFieldName("body")
}

// nodeText extracts the exact source text of node from content.
func nodeText(node *tree_sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}

// topLevelDefs returns the class/function definitions that are direct
// children of a module or a class body block, in source order.
func topLevelDefs(scope *tree_sitter.Node) []defNode {
	var defs []defNode
	count := int(scope.ChildCount())
	for i := 0; i < count; i++ {
		child := scope.Child(uint(i))
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "function_definition", "class_definition":
			defs = append(defs, defNode{Outer: child, Inner: child})
		case "decorated_definition":
			inner := child.ChildByFieldName("definition")
			if inner != nil && (inner.Kind() == "function_definition" || inner.Kind() == "class_definition") {
				defs = append(defs, defNode{Outer: child, Inner: inner})
			}
		}
	}
	return defs
}

// resolveScope walks path through nested class bodies starting at the
// module root, mirroring ScopeFinder's current-path-stack visitor: each
// path element must name a class or function definition directly inside
// the previous one.
func resolveScope(root *tree_sitter.Node, content []byte, path []string) (defNode, bool) {
	scope := root
	var found defNode
	for i, want := range path {
		defs := topLevelDefs(scope)
		matched := false
		for _, d := range defs {
			if d.Name(content) != want {
				continue
			}
			found = d
			matched = true
			if i < len(path)-1 {
				body := d.Body()
				if body == nil || body.Kind() != "block" {
					return defNode{}, false
				}
				scope = body
			}
			break
		}
		if !matched {
			return defNode{}, false
		}
	}
	return found, len(path) > 0
}

// findNamedChild returns the first direct child definition of scope named
// name, mirroring _insert_after_named_scope / duplicate lookups.
func findNamedChild(scope *tree_sitter.Node, content []byte, name string) (defNode, bool) {
	for _, d := range topLevelDefs(scope) {
		if d.Name(content) == name {
			return d, true
		}
	}
	return defNode{}, false
}
