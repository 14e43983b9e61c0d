package patch

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result is the outcome of a successful Apply: the new file content plus
// the human-readable notes patch_edit itself used to emit for each hunk
// (exact match, whitespace-tolerant match, relocated match, ...).
type Result struct {
	Content string
	Notes   []string
}

// Apply applies patchContent (a unified diff) to content, returning the
// patched text. Each hunk is matched against the current lines first at
// its claimed position, then (if that fails) anywhere in the file, first
// requiring an exact match and falling back to a whitespace-insensitive
// one; a hunk that matches more than one location is rejected as
// ambiguous rather than guessed at.
func Apply(content string, patchContent string) (Result, error) {
	hunks, err := ParseHunks(patchContent)
	if err != nil {
		return Result{}, err
	}

	var currentLines []string
	if content != "" {
		currentLines = splitLines(content)
	}

	var notes []string
	lineOffset := 0
	changed := false

	for _, h := range hunks {
		if len(currentLines) == 0 && h.OldStart <= 0 && len(h.ContextBefore) == 0 && len(h.Removals) == 0 {
			currentLines = append(currentLines, h.Additions...)
			notes = append(notes, "Applied changes to new file")
			changed = true
			continue
		}

		adjustedStart := h.OldStart + lineOffset
		found := false
		matchLine := adjustedStart
		exactMatch := false

		if adjustedStart <= len(currentLines) {
			var wasWhitespace bool
			found, wasWhitespace = checkMatchType(currentLines, adjustedStart, h.ContextBefore, nil)
			if found {
				exactMatch = !wasWhitespace
				if wasWhitespace {
					notes = append(notes, fmt.Sprintf("Note: Applied hunk starting with %s, but had to ignore whitespace to find match", h.Preview))
				} else {
					notes = append(notes, fmt.Sprintf("Applied hunk starting with %s with exact match", h.Preview))
				}
			}
		}

		if !found {
			var exactMatches, whitespaceMatches []int
			limit := len(currentLines) - len(h.ContextBefore)
			for i := 0; i <= limit; i++ {
				ok, wasWhitespace := checkMatchType(currentLines, i, h.ContextBefore, nil)
				if !ok {
					continue
				}
				if wasWhitespace {
					whitespaceMatches = append(whitespaceMatches, i)
				} else {
					exactMatches = append(exactMatches, i)
				}
			}

			switch {
			case len(exactMatches) > 0:
				if len(exactMatches) > 1 {
					return Result{}, newError(ErrAmbiguous, ambiguousMessage(exactMatches, h.Preview, ""))
				}
				matchLine = exactMatches[0]
				exactMatch = true
				found = true
				notes = append(notes, fmt.Sprintf("Note: Applied hunk starting with %s at line %d (different from specified line %d)", h.Preview, matchLine+1, h.OldStart+1))
			case len(whitespaceMatches) > 0:
				if len(whitespaceMatches) > 1 {
					return Result{}, newError(ErrAmbiguous, ambiguousMessage(whitespaceMatches, h.Preview, "\nPlease provide more context to disambiguate."))
				}
				matchLine = whitespaceMatches[0]
				found = true
				notes = append(notes, fmt.Sprintf("Note: Applied hunk starting with %s at line %d (different from specified line %d), and had to ignore whitespace to find match", h.Preview, matchLine+1, h.OldStart+1))
			}
		}

		if !found {
			if len(h.ContextBefore) > 0 {
				_, bestLine, quality, _ := findBlockInContent(currentLines, h.ContextBefore, true)
				if quality > 0.05 {
					ctx := getContext(currentLines, bestLine-1, 2)
					return Result{}, newError(ErrNoMatch, fmt.Sprintf("Could not find match. Best potential match: %d\nContext:\n%s\nMatch quality: %.2f", bestLine, strings.Join(ctx, "\n"), quality))
				}
				var ctx []string
				if h.OldStart >= 0 {
					ctx = getContext(currentLines, h.OldStart, 2)
				}
				return Result{}, newError(ErrNoMatch, fmt.Sprintf("Could not find match or close match.\nExpected:\n%v\nFound:\n%v", h.ContextBefore, ctx))
			}
			return Result{}, newError(ErrNoMatch, "Could not find match or close match.")
		}

		pos := matchLine + len(h.ContextBefore)
		var additions []string
		if exactMatch {
			additions = h.Additions
		} else {
			targetIndent := ""
			if len(currentLines) > 0 {
				switch {
				case pos < len(currentLines) && len(h.Removals) > 0:
					targetIndent = lineIndentation(currentLines[pos])
				case pos < len(currentLines):
					if pos > 0 {
						targetIndent = lineIndentation(currentLines[pos-1])
					}
				case pos > 0:
					targetIndent = lineIndentation(currentLines[pos-1])
				}
			}
			additions = adjustIndentation(h.Additions, targetIndent)
		}

		if len(h.Removals) > 0 {
			currentLines = spliceReplace(currentLines, pos, pos+len(h.Removals), additions)
		} else {
			currentLines = spliceReplace(currentLines, pos, pos, additions)
		}
		lineOffset += len(h.Additions) - len(h.Removals)
		changed = true
	}

	if !changed {
		return Result{}, newError(ErrEmpty, "No changes were applied")
	}

	newContent := strings.Join(currentLines, "\n")
	if !strings.HasSuffix(newContent, "\n") {
		newContent += "\n"
	}
	return Result{Content: newContent, Notes: notes}, nil
}

func ambiguousMessage(matches []int, preview, suffix string) string {
	var lines []string
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("- at line %d", m+1))
	}
	return fmt.Sprintf("Multiple possible matches found:\n%s for hunk starting with %s%s", strings.Join(lines, "\n"), preview, suffix)
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func spliceReplace(lines []string, start, end int, replacement []string) []string {
	out := append([]string(nil), lines[:start]...)
	out = append(out, replacement...)
	out = append(out, lines[end:]...)
	return out
}

// checkMatchType reports whether content matches ctx (and, if given,
// removals immediately following it) at startPos, distinguishing an exact
// textual match from one that only agrees after trimming whitespace.
func checkMatchType(content []string, startPos int, ctx []string, removals []string) (found bool, wasWhitespace bool) {
	if startPos+len(ctx) > len(content) {
		return false, false
	}
	exact := true
	whitespace := true
	for i, c := range ctx {
		line := content[startPos+i]
		if line != c {
			exact = false
		}
		if strings.TrimSpace(line) != strings.TrimSpace(c) {
			whitespace = false
		}
	}
	if !whitespace {
		return false, false
	}
	if len(removals) > 0 {
		pos := startPos + len(ctx)
		if pos+len(removals) > len(content) {
			return false, false
		}
		for i, r := range removals {
			line := content[pos+i]
			if line != r {
				exact = false
			}
			if strings.TrimSpace(line) != strings.TrimSpace(r) {
				return false, false
			}
		}
	}
	return true, !exact
}

// findBlockInContent searches content for block, first for an exact run,
// then (if ignoreWhitespace) for a whitespace-insensitive run, and
// otherwise returns the best fuzzy match by similarity ratio.
func findBlockInContent(content []string, block []string, ignoreWhitespace bool) (found bool, line int, quality float64, wasWhitespace bool) {
	if len(block) == 0 {
		return false, 0, 0, false
	}
	n := len(content) - len(block)
	for i := 0; i <= n; i++ {
		if equalLines(content[i:i+len(block)], block) {
			return true, i + 1, 1.0, false
		}
	}
	if ignoreWhitespace {
		for i := 0; i <= n; i++ {
			if equalTrimmedLines(content[i:i+len(block)], block) {
				return true, i + 1, 0.9, true
			}
		}
	}

	best := 0.0
	bestLine := 0
	blockJoined := strings.Join(block, "\n")
	for i := 0; i <= n; i++ {
		candidate := strings.Join(content[i:i+len(block)], "\n")
		ratio := similarityRatio(candidate, blockJoined)
		if ratio > best {
			best = ratio
			bestLine = i + 1
		}
	}
	return false, bestLine, best, false
}

func equalLines(a, b []string) bool {
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

func equalTrimmedLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.TrimSpace(a[i]) != strings.TrimSpace(b[i]) {
			return false
		}
	}
	return true
}

// similarityRatio scores how alike a and b are, the same way
// difflib.SequenceMatcher.ratio() does: twice the number of matching
// characters over the combined length of both strings. Matching
// characters are the bytes diffmatchpatch classifies as DiffEqual.
func similarityRatio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	matched := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += len(d.Text)
		}
	}
	return 2.0 * float64(matched) / float64(total)
}

func getContext(lines []string, centerIdx, size int) []string {
	start := centerIdx - size
	if start < 0 {
		start = 0
	}
	end := centerIdx + size + 1
	if end > len(lines) {
		end = len(lines)
	}
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, fmt.Sprintf("%d:%s", i+1, lines[i]))
	}
	return out
}

func lineIndentation(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	return line[:len(line)-len(trimmed)]
}

// adjustIndentation re-bases lines onto targetIndent while preserving
// whatever indentation they had relative to each other.
func adjustIndentation(lines []string, targetIndent string) []string {
	if len(lines) == 0 {
		return lines
	}
	var baseIndent string
	haveBase := false
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			baseIndent = lineIndentation(line)
			haveBase = true
			break
		}
	}
	if !haveBase {
		return lines
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = ""
			continue
		}
		cur := lineIndentation(line)
		relative := len(cur) - len(baseIndent)
		if relative < 0 {
			relative = 0
		}
		out[i] = targetIndent + strings.Repeat(" ", relative) + strings.TrimLeft(line, " \t")
	}
	return out
}
