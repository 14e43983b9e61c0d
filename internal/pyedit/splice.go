package pyedit

import (
	"sort"
	"strings"
)

// byteRange is a half-open [Start, End) span into a source buffer.
type byteRange struct {
	Start uint
	End   uint
}

// deleteRanges removes every range from content, expanding each range to
// also consume one trailing newline so deleting a statement doesn't leave
// a blank line behind. Ranges may be given in any order and must not
// overlap.
func deleteRanges(content []byte, ranges []byteRange) []byte {
	if len(ranges) == 0 {
		return content
	}
	sorted := append([]byteRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var out []byte
	cursor := uint(0)
	for _, r := range sorted {
		start, end := expandRangeForDeletion(content, r.Start, r.End)
		if start < cursor {
			continue
		}
		out = append(out, content[cursor:start]...)
		cursor = end
	}
	out = append(out, content[cursor:]...)
	return out
}

// expandRangeForDeletion widens [start,end) to consume the line's leading
// indentation and exactly one trailing newline, so a deleted definition
// does not leave a blank line or dangling indentation in its place.
func expandRangeForDeletion(content []byte, start, end uint) (uint, uint) {
	for start > 0 && (content[start-1] == ' ' || content[start-1] == '\t') {
		start--
	}
	if end < uint(len(content)) && content[end] == '\n' {
		end++
	}
	return start, end
}

// replaceRange substitutes the bytes in [r.Start, r.End) with replacement.
func replaceRange(content []byte, r byteRange, replacement string) []byte {
	out := make([]byte, 0, len(content)-int(r.End-r.Start)+len(replacement))
	out = append(out, content[:r.Start]...)
	out = append(out, replacement...)
	out = append(out, content[r.End:]...)
	return out
}

// insertAt splices text in at byte offset pos without removing anything.
func insertAt(content []byte, pos uint, text string) []byte {
	out := make([]byte, 0, len(content)+len(text))
	out = append(out, content[:pos]...)
	out = append(out, text...)
	out = append(out, content[pos:]...)
	return out
}

// columnOf returns the 0-based column of byte offset pos on its line.
func columnOf(content []byte, pos uint) int {
	col := 0
	for i := int(pos) - 1; i >= 0 && content[i] != '\n'; i-- {
		col++
	}
	return col
}

// indentBlock indents every non-blank line of code by n spaces, except the
// first line (the caller is responsible for placing the first line at the
// correct column, since it's spliced in at an existing position).
func indentBlock(code string, n int) string {
	if n <= 0 {
		return code
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(code, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

// dedentAndTrim mirrors textwrap.dedent(code).strip(): removes the common
// leading whitespace across all lines, then trims leading/trailing blank
// lines and whitespace.
func dedentAndTrim(code string) string {
	lines := strings.Split(code, "\n")

	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if common == -1 || indent < common {
			common = indent
		}
	}
	if common > 0 {
		for i, line := range lines {
			if len(line) >= common {
				lines[i] = line[common:]
			} else {
				lines[i] = strings.TrimLeft(line, " \t")
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
