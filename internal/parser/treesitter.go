// Package parser provides pooled Tree-sitter parsing of Python source.
//
// Tree-sitter parsers require CGO_ENABLED=1. Every Tree must be explicitly
// closed to avoid memory leaks.
package parser

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ParsedFile holds a parsed Tree-sitter syntax tree alongside the exact byte
// buffer it was parsed from. Every node's StartByte()/EndByte() indexes into
// Content, which is what makes the parse tree "lossless": slicing Content
// between a node's byte offsets always reproduces the original source for
// that node, untouched subtrees included.
type ParsedFile struct {
	Path    string
	Tree    *tree_sitter.Tree
	Content []byte
}

// Close releases the underlying Tree-sitter tree.
func (f *ParsedFile) Close() {
	if f != nil && f.Tree != nil {
		f.Tree.Close()
	}
}

// TreeSitterParser holds a pooled Tree-sitter Python parser. Tree-sitter
// parsers are NOT thread-safe, so all parse operations are serialized via a
// mutex. Trees returned from parsing are safe to use concurrently after
// parsing completes.
type TreeSitterParser struct {
	mu     sync.Mutex
	parser *tree_sitter.Parser
}

// NewTreeSitterParser creates a pooled Python parser.
func NewTreeSitterParser() (*TreeSitterParser, error) {
	p := tree_sitter.NewParser()
	lang := tree_sitter.NewLanguage(tree_sitter_python.Language())
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("set python language: %w", err)
	}
	return &TreeSitterParser{parser: p}, nil
}

// Close releases the parser resource. Must be called when done.
func (p *TreeSitterParser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Parse parses Python source content. Returns a Tree the caller must close.
// Thread-safe; parsing is serialized internally.
//
// Tree-sitter is error-tolerant: malformed input still produces a non-nil
// tree, with the broken regions represented as ERROR nodes rather than
// surfaced as a Go error. Callers that need to reject invalid Python must
// check tree.RootNode().HasError() themselves; Parse only fails when the
// underlying parser returns no tree at all.
func (p *TreeSitterParser) Parse(content []byte) (*tree_sitter.Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tree := p.parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter parse returned nil")
	}
	return tree, nil
}

// ParseFile parses Python source content read from path, bundling the tree
// with the buffer it was parsed from.
func (p *TreeSitterParser) ParseFile(path string, content []byte) (*ParsedFile, error) {
	tree, err := p.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &ParsedFile{Path: path, Tree: tree, Content: content}, nil
}
