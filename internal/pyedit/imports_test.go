package pyedit

import (
	"testing"

	"github.com/pyedit/pyedit/internal/parser"
)

func TestCollectImportKeysPlainAndFrom(t *testing.T) {
	p, err := parser.NewTreeSitterParser()
	if err != nil {
		t.Fatalf("NewTreeSitterParser() error = %v", err)
	}
	defer p.Close()

	content := []byte("import os\nimport sys as system\nfrom collections import OrderedDict\nfrom typing import *\n")
	tree, err := p.Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defer tree.Close()

	keys := collectImportKeys(tree.RootNode(), content)

	want := []importKey{
		{from: false, module: "os"},
		{from: false, module: "sys"},
		{from: true, module: "collections", name: "OrderedDict"},
		{from: true, module: "typing", name: "*"},
	}
	if len(keys) != len(want) {
		t.Fatalf("collectImportKeys() = %d keys, want %d (%v)", len(keys), len(want), keys)
	}
	for _, k := range want {
		if !keys[k] {
			t.Errorf("collectImportKeys() missing %+v", k)
		}
	}
}

func TestSplitImportsAndBody(t *testing.T) {
	p, err := parser.NewTreeSitterParser()
	if err != nil {
		t.Fatalf("NewTreeSitterParser() error = %v", err)
	}
	defer p.Close()

	content := []byte("import os\nfrom sys import argv\n\ndef foo():\n    pass\n")
	tree, err := p.Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defer tree.Close()

	imports, rest := splitImportsAndBody(tree.RootNode(), content)
	if len(imports) != 2 {
		t.Fatalf("splitImportsAndBody() imports = %v, want 2 entries", imports)
	}
	if imports[0] != "import os" || imports[1] != "from sys import argv" {
		t.Errorf("splitImportsAndBody() imports = %v", imports)
	}
	if len(rest) != 1 {
		t.Fatalf("splitImportsAndBody() rest = %v, want 1 entry", rest)
	}
}

func TestDedupImportLinesDropsExisting(t *testing.T) {
	p, err := parser.NewTreeSitterParser()
	if err != nil {
		t.Fatalf("NewTreeSitterParser() error = %v", err)
	}
	defer p.Close()

	existingSrc := []byte("import os\n")
	existingTree, err := p.Parse(existingSrc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defer existingTree.Close()
	existing := collectImportKeys(existingTree.RootNode(), existingSrc)

	newSrc := []byte("import os\nimport json\n")
	newTree, err := p.Parse(newSrc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defer newTree.Close()

	kept := dedupImportLines(newTree.RootNode(), newSrc, existing)
	if len(kept) != 1 || kept[0] != "import json" {
		t.Errorf("dedupImportLines() = %v, want [\"import json\"]", kept)
	}
}

func TestHasWildcardImport(t *testing.T) {
	p, err := parser.NewTreeSitterParser()
	if err != nil {
		t.Fatalf("NewTreeSitterParser() error = %v", err)
	}
	defer p.Close()

	content := []byte("from os import *\n")
	tree, err := p.Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defer tree.Close()

	stmt := tree.RootNode().Child(0)
	if stmt == nil || !hasWildcardImport(stmt) {
		t.Error("hasWildcardImport() = false, want true")
	}
}
