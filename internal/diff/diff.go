// Package diff computes line-level diffs between two rendered prompts via a
// longest-common-subsequence table, with a normalization pass that masks
// non-deterministic run metadata so only real drift is reported.
package diff

import (
	"strings"

	"promptforge/internal/logging"
)

// LineType represents the type of diff line
type LineType int

const (
	LineContext LineType = iota // Unchanged context line
	LineAdded                   // Added line
	LineRemoved                 // Removed line
)

// Line is a single record in the ordered diff output. Added lines carry
// new-file line numbers, removed lines old-file numbers, context lines
// new-file numbers.
type Line struct {
	Type    LineType
	LineNum int
	Text    string
}

// Result is the structured outcome of one comparison. Diffing is asymmetric
// by design: Compare(A, B) reports as added what Compare(B, A) reports as
// removed for the same textual change.
type Result struct {
	Added     int
	Removed   int
	Unchanged int
	Lines     []Line
}

// HasChanges reports whether any line was added or removed.
func (r *Result) HasChanges() bool {
	return r.Added > 0 || r.Removed > 0
}

// Compare diffs old against new at line granularity. Line equality ignores
// trailing whitespace only; leading whitespace differences still count.
func Compare(oldText, newText string) *Result {
	timer := logging.StartTimer(logging.CategoryDiff, "Compare")
	defer timer.Stop()

	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	table := lcsTable(oldLines, newLines)
	result := &Result{}
	backtrack(table, oldLines, newLines, result)

	logging.Diff("diff: +%d -%d =%d", result.Added, result.Removed, result.Unchanged)
	return result
}

// lineEqual compares two lines ignoring trailing whitespace.
func lineEqual(a, b string) bool {
	return strings.TrimRight(a, " \t") == strings.TrimRight(b, " \t")
}

// lcsTable builds the standard dynamic-programming LCS length table, where
// table[i][j] is the LCS length of oldLines[:i] and newLines[:j].
func lcsTable(oldLines, newLines []string) [][]int {
	table := make([][]int, len(oldLines)+1)
	for i := range table {
		table[i] = make([]int, len(newLines)+1)
	}
	for i := 1; i <= len(oldLines); i++ {
		for j := 1; j <= len(newLines); j++ {
			if lineEqual(oldLines[i-1], newLines[j-1]) {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}
	return table
}

// backtrack walks the table from the end, emitting records in order and
// tallying counts. Removals are emitted before additions at the same
// position so the output reads old-to-new.
func backtrack(table [][]int, oldLines, newLines []string, result *Result) {
	i, j := len(oldLines), len(newLines)
	var reversed []Line

	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && lineEqual(oldLines[i-1], newLines[j-1]):
			reversed = append(reversed, Line{Type: LineContext, LineNum: j, Text: newLines[j-1]})
			result.Unchanged++
			i--
			j--
		case j > 0 && (i == 0 || table[i][j-1] >= table[i-1][j]):
			reversed = append(reversed, Line{Type: LineAdded, LineNum: j, Text: newLines[j-1]})
			result.Added++
			j--
		default:
			reversed = append(reversed, Line{Type: LineRemoved, LineNum: i, Text: oldLines[i-1]})
			result.Removed++
			i--
		}
	}

	result.Lines = make([]Line, len(reversed))
	for k, line := range reversed {
		result.Lines[len(reversed)-1-k] = line
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
