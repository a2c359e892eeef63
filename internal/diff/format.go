package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	summaryStyle = lipgloss.NewStyle().Bold(true)
	markStyle    = lipgloss.NewStyle().Underline(true)
)

// Format renders a result for the terminal: colored +/-/space prefixed
// lines and a summary footer. Presentation only; counts always come from
// the Result itself.
func Format(r *Result) string {
	var b strings.Builder
	lines := r.Lines

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch line.Type {
		case LineAdded:
			b.WriteString(addedStyle.Render("+ " + line.Text))
		case LineRemoved:
			// A removal immediately followed by an addition is a replaced
			// line; refine it with word-level marks.
			if i+1 < len(lines) && lines[i+1].Type == LineAdded {
				oldMarked, newMarked := markWords(line.Text, lines[i+1].Text)
				b.WriteString(removedStyle.Render("- " + oldMarked))
				b.WriteString("\n")
				b.WriteString(addedStyle.Render("+ " + newMarked))
				i++
			} else {
				b.WriteString(removedStyle.Render("- " + line.Text))
			}
		case LineContext:
			b.WriteString(contextStyle.Render("  " + line.Text))
		}
		b.WriteString("\n")
	}

	b.WriteString(summaryStyle.Render(Summary(r)))
	return b.String()
}

// Summary is the one-line count footer.
func Summary(r *Result) string {
	if !r.HasChanges() {
		return fmt.Sprintf("no changes (%d lines)", r.Unchanged)
	}
	return fmt.Sprintf("+%d added, -%d removed, %d unchanged", r.Added, r.Removed, r.Unchanged)
}

// markWords underlines the changed spans of a replaced line pair using a
// word-level diff. Never affects counts.
func markWords(oldLine, newLine string) (string, string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldLine, newLine, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var oldOut, newOut strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldOut.WriteString(d.Text)
			newOut.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			oldOut.WriteString(markStyle.Render(d.Text))
		case diffmatchpatch.DiffInsert:
			newOut.WriteString(markStyle.Render(d.Text))
		}
	}
	return oldOut.String(), newOut.String()
}
