// Command pyedit is a structural Python source editor meant to be driven
// by an LLM agent: it edits, views, and patches Python files at the level
// of classes and functions instead of raw text ranges.
package main

import "github.com/pyedit/pyedit/cmd"

func main() {
	cmd.Execute()
}
