package constraint

import (
	"fmt"
	"strings"

	"promptforge/internal/logging"
	"promptforge/internal/types"
)

// Build derives the constraint set for a topic. spec and standards are
// optional; absence degrades gracefully to fewer rules and never errors.
// Build is a pure function: identical inputs produce byte-identical rules
// in identical order.
func Build(topic types.Topic, spec *types.ResearchSpec, standards *types.ContentStandards) Constraints {
	var c Constraints

	if spec != nil {
		c.Universal = append(c.Universal, evidenceRules(spec)...)
		c.Universal = append(c.Universal, sourcePolicyRules(spec)...)
	}
	if standards != nil {
		c.Universal = append(c.Universal, forbiddenContentRules(standards)...)
		c.Universal = append(c.Universal, brandRules(standards)...)
	}

	c.Directional = append(c.Directional, directionRules(topic)...)
	c.Directional = append(c.Directional, categoryRules(topic)...)
	c.Directional = append(c.Directional, confidenceRules(topic)...)

	logging.Constraint("derived %d universal + %d directional rules for topic %s",
		len(c.Universal), len(c.Directional), topic.ID)

	return c
}

func evidenceRules(spec *types.ResearchSpec) []Rule {
	q := spec.Quality
	rules := []Rule{{
		Category: CategoryEvidence,
		Directive: fmt.Sprintf("Cite at least %d distinct citations drawn from at least %d independent sources.",
			q.MinCitations, q.MinSources),
	}}
	if q.MaxSourceAgeYears > 0 {
		rules = append(rules, Rule{
			Category:  CategoryEvidence,
			Directive: fmt.Sprintf("Reject sources published more than %d years ago.", q.MaxSourceAgeYears),
		})
	}
	if len(q.EvidenceTypes) > 0 {
		rules = append(rules, Rule{
			Category:  CategoryEvidence,
			Directive: fmt.Sprintf("Acceptable evidence types: %s.", strings.Join(q.EvidenceTypes, ", ")),
		})
	}
	if q.RequireHighQuality {
		rules = append(rules, Rule{
			Category:  CategoryEvidence,
			Directive: "Include at least one high-quality source (systematic review or meta-analysis).",
		})
	}
	return rules
}

func sourcePolicyRules(spec *types.ResearchSpec) []Rule {
	s := spec.Sources
	var rules []Rule
	if s.ExcludePreprints {
		rules = append(rules, Rule{
			Category:  CategorySourcePolicy,
			Directive: "Exclude preprint servers; preprints are not citable evidence.",
		})
	}
	if s.RequirePeerReview {
		rules = append(rules, Rule{
			Category:  CategorySourcePolicy,
			Directive: "Every cited study must have passed peer review.",
		})
	}
	if len(s.ExcludedPublishers) > 0 {
		rules = append(rules, Rule{
			Category:  CategorySourcePolicy,
			Directive: fmt.Sprintf("Never cite these publishers: %s.", strings.Join(s.ExcludedPublishers, ", ")),
		})
	}
	if len(s.ExcludedDomains) > 0 {
		rules = append(rules, Rule{
			Category:  CategorySourcePolicy,
			Directive: fmt.Sprintf("Never cite content from these domains: %s.", strings.Join(s.ExcludedDomains, ", ")),
		})
	}
	return rules
}

func forbiddenContentRules(standards *types.ContentStandards) []Rule {
	var rules []Rule
	if len(standards.ForbiddenPhrases) > 0 {
		rules = append(rules, Rule{
			Category:  CategoryForbidden,
			Directive: fmt.Sprintf("Never use these exact phrases: %s.", quoteJoin(standards.ForbiddenPhrases)),
		})
	}
	if len(standards.ForbiddenClaimCategories) > 0 {
		rules = append(rules, Rule{
			Category:  CategoryForbidden,
			Directive: fmt.Sprintf("Never make claims in these categories: %s.", strings.Join(standards.ForbiddenClaimCategories, ", ")),
		})
	}
	return rules
}

func brandRules(standards *types.ContentStandards) []Rule {
	b := standards.Brand
	var rules []Rule
	if b.VeganFraming {
		name := b.Name
		if name == "" {
			name = "the brand"
		}
		rules = append(rules, Rule{
			Category:  CategoryBrand,
			Directive: fmt.Sprintf("All framing must align with the vegan, cruelty-free positioning of %s.", name),
		})
	}
	if len(b.DeEmphasize) > 0 {
		rules = append(rules, Rule{
			Category:  CategoryBrand,
			Directive: fmt.Sprintf("De-emphasize these themes: %s.", strings.Join(b.DeEmphasize, ", ")),
		})
	}
	return rules
}

// directionRules forbids arguing the opposite claim direction, and for
// harmful claims additionally forbids minimizing the effect.
func directionRules(topic types.Topic) []Rule {
	entity, condition := topic.Entity, topic.Condition
	switch topic.Claim.Direction {
	case types.DirectionHelps:
		return []Rule{{
			Category: CategoryExclusion,
			Directive: fmt.Sprintf("Exclude evidence arguing that %s harms %s; the claim under research is that it helps.",
				entity, condition),
		}}
	case types.DirectionHarms:
		return []Rule{
			{
				Category: CategoryExclusion,
				Directive: fmt.Sprintf("Exclude evidence arguing that %s helps %s; the claim under research is that it harms.",
					entity, condition),
			},
			{
				Category: CategoryExclusion,
				Directive: fmt.Sprintf("Do not minimize or normalize the harmful effect of %s on %s.",
					entity, condition),
			},
		}
	}
	return nil
}

func categoryRules(topic types.Topic) []Rule {
	entity := topic.Entity
	switch topic.Category {
	case types.CategoryAnimalDerived:
		return []Rule{
			{
				Category:  CategoryBrand,
				Directive: fmt.Sprintf("Address the animal-welfare and ethical concerns of %s explicitly.", entity),
			},
			{
				Category:  CategoryBrand,
				Directive: fmt.Sprintf("Present vegan alternatives whenever %s is discussed.", entity),
			},
		}
	case types.CategoryRegulated:
		return []Rule{
			{
				Category:  CategorySourcePolicy,
				Directive: fmt.Sprintf("Cite the current regulatory status of %s from an official regulator.", entity),
			},
			{
				Category:  CategorySourcePolicy,
				Directive: "Disclose industry funding behind any cited study.",
			},
		}
	case types.CategoryModifiable:
		return []Rule{{
			Category:  CategoryExclusion,
			Directive: fmt.Sprintf("Do not frame %s as a fixed or non-modifiable risk factor.", entity),
		}}
	}
	return nil
}

func confidenceRules(topic types.Topic) []Rule {
	switch topic.Claim.Confidence {
	case types.ConfidencePreliminary:
		return []Rule{{
			Category:  CategoryEvidence,
			Directive: "Include an explicit evidence-limitation disclosure; confidence is preliminary.",
		}}
	case types.ConfidenceEmerging:
		return []Rule{{
			Category:  CategoryEvidence,
			Directive: "Use hedging language throughout; the evidence base is still emerging.",
		}}
	}
	return nil
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = `"` + s + `"`
	}
	return strings.Join(quoted, ", ")
}
