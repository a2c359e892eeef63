package constraint

import (
	"fmt"
	"strings"
)

// Header is the title line of the injected constraint block. The renderer
// appends this block after all template content; even a template emitting a
// section with the same title cannot suppress or reorder it.
const Header = "## Research Constraints (auto-derived)"

// Format serializes constraints canonically: fixed header, Universal then
// Directional, rules numbered per section, one rule per line tagged with its
// category. Byte-identical inputs yield byte-identical output, which is what
// makes constraint drift detectable by the snapshot hash alone.
func Format(c Constraints) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n### Universal\n")
	writeRules(&b, c.Universal)
	b.WriteString("\n### Directional\n")
	writeRules(&b, c.Directional)
	return strings.TrimRight(b.String(), "\n")
}

func writeRules(b *strings.Builder, rules []Rule) {
	if len(rules) == 0 {
		b.WriteString("(none)\n")
		return
	}
	for i, r := range rules {
		fmt.Fprintf(b, "%d. [%s] %s\n", i+1, r.Category, r.Directive)
	}
}
