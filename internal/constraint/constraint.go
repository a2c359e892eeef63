// Package constraint derives guardrail rules from the domain objects.
// Rules are derived, never authored: the same inputs always yield the same
// rules in the same order, so a changed constraint block in a rendered
// prompt can only mean a changed input, never silent drift.
package constraint

// Category tags a rule with the concern it enforces.
type Category string

const (
	CategoryEvidence     Category = "evidence"
	CategoryExclusion    Category = "exclusion"
	CategorySourcePolicy Category = "source_policy"
	CategoryBrand        Category = "brand"
	CategoryForbidden    Category = "forbidden_content"
)

// Rule is one guardrail directive.
type Rule struct {
	Category  Category
	Directive string
}

// Constraints holds the derived rules. Universal rules apply regardless of
// topic specifics; directional rules depend on the topic's claim direction,
// category, entity type or confidence level. Both lists are ordered and the
// order is deterministic.
type Constraints struct {
	Universal   []Rule
	Directional []Rule
}

// Empty reports whether no rules were derived at all.
func (c Constraints) Empty() bool {
	return len(c.Universal) == 0 && len(c.Directional) == 0
}

// Len returns the total rule count.
func (c Constraints) Len() int {
	return len(c.Universal) + len(c.Directional)
}
