// Package pyedit implements structural editing, viewing, and scope
// enumeration for Python source files. Callers address a class or function
// with a pytest-style scope path ("file.py::MyClass::method") instead of
// line numbers, so edits survive unrelated changes elsewhere in the file.
//
// Every node in the underlying Tree-sitter parse carries the exact byte
// range it occupies in the original buffer, so an edit is implemented as a
// byte-range splice rather than a tree reconstruction: untouched code is
// never re-serialized, only sliced.
package pyedit

import (
	"strings"
)

// Sentinel path elements with special meaning to Edit.
const (
	FirstSentinel     = "__FIRST__"
	FileStartSentinel = "__FILE_START__"
	FileEndSentinel   = "__FILE_END__"
)

// SplitScope splits a pytest-style scope path ("file.py::Class::method")
// into the file path and the remaining dotted path elements.
func SplitScope(targetScope string) (filePath string, pathElements []string) {
	parts := strings.Split(targetScope, "::")
	return parts[0], parts[1:]
}

// ValidateIdentifiers checks that every path element is either a valid
// Python identifier or the __FIRST__ sentinel.
func ValidateIdentifiers(pathElements []string) error {
	for _, el := range pathElements {
		if el == FirstSentinel {
			continue
		}
		if !isPythonIdentifier(el) {
			return newEditError(ErrInvalidPath, "Invalid identifier in path: %s", el)
		}
	}
	return nil
}

// isPythonIdentifier reports whether s is a valid Python identifier. This
// does not special-case Python keywords, matching str.isidentifier()'s own
// leniency (it also accepts keywords).
func isPythonIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// formatScope re-joins a file path and path elements into display form,
// mirroring the "::"-delimited input syntax.
func formatScope(filePath string, pathElements []string) string {
	if len(pathElements) == 0 {
		return filePath
	}
	return filePath + "::" + strings.Join(pathElements, "::")
}
