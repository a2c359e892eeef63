package prompt

import (
	"regexp"
	"sort"
	"strings"

	"promptforge/internal/logging"
)

// Operator is the comparison a conditional block performs.
type Operator string

const (
	OpTruthy    Operator = "truthy"
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not_equals"
)

// Conditional is one parsed {{#if ...}}...{{/if}} block. Bodies may contain
// placeholders but never another conditional.
type Conditional struct {
	Variable  string
	Operator  Operator
	Value     string   // literal for equals/not_equals, empty for truthy
	Body      string   // raw body text, placeholders unexpanded
	Variables []string // deduplicated sorted placeholders inside Body
}

// Template is a parsed template: every variable it references is a member of
// the context schema, enforced here at parse time. Parse once per source
// string; the result is immutable and reusable across renders.
type Template struct {
	Name         string
	Source       string
	Variables    []string // deduplicated sorted placeholders outside conditionals
	Conditionals []Conditional
}

var (
	// {{#if var}}body{{/if}} and {{#if var == "lit"}} / != variants.
	// Non-greedy body; nesting is rejected separately so mispairing on
	// nested input never reaches the renderer.
	conditionalRe = regexp.MustCompile(`(?s)\{\{#if\s+(.+?)\s*\}\}(.*?)\{\{/if\}\}`)

	// var, or: var == "literal", var != "literal"
	conditionHeaderRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_.]*)(?:\s*(==|!=)\s*"([^"]*)")?$`)

	// {{ variable.path }} - whitespace inside braces tolerated. The leading
	// letter requirement keeps {{#if and {{/if}} out of placeholder scans.
	placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_.]*)\s*\}\}`)
)

// Parse tokenizes and validates template source. It returns a *ParseError
// enumerating every issue found, never just the first one.
func Parse(name, source string) (*Template, error) {
	timer := logging.StartTimer(logging.CategoryParse, "Parse "+name)
	defer timer.Stop()

	var issues []ParseIssue

	opens := strings.Count(source, "{{#if")
	closes := strings.Count(source, "{{/if}}")
	if opens != closes {
		issues = append(issues, ParseIssue{
			Kind:   IssueUnbalancedConditional,
			Detail: unbalancedDetail(opens, closes),
		})
	}

	seenUnknown := make(map[string]bool)
	unknown := func(variable string) {
		if !seenUnknown[variable] {
			seenUnknown[variable] = true
			issues = append(issues, ParseIssue{Kind: IssueUnknownVariable, Variable: variable})
		}
	}

	var conditionals []Conditional
	for _, m := range conditionalRe.FindAllStringSubmatch(source, -1) {
		header, body := m[1], m[2]

		cond, ok := parseConditionHeader(header)
		if !ok {
			issues = append(issues, ParseIssue{Kind: IssueMalformedConditional, Detail: header})
			continue
		}

		if strings.Contains(body, "{{#if") {
			issues = append(issues, ParseIssue{Kind: IssueNestedConditional, Variable: cond.Variable})
			continue
		}

		if !IsKnownVariable(cond.Variable) {
			unknown(cond.Variable)
		} else if cond.Operator != OpTruthy {
			if allowed, has := EnumValues(cond.Variable); has && !contains(allowed, cond.Value) {
				issues = append(issues, ParseIssue{
					Kind:     IssueIllegalLiteral,
					Variable: cond.Variable,
					Allowed:  allowed,
					Detail:   `"` + cond.Value + `"`,
				})
			}
		}

		cond.Body = body
		cond.Variables = scanPlaceholders(body)
		for _, v := range cond.Variables {
			if !IsKnownVariable(v) {
				unknown(v)
			}
		}
		conditionals = append(conditionals, cond)
	}

	// Placeholders outside conditional spans.
	stripped := conditionalRe.ReplaceAllString(source, "")
	variables := scanPlaceholders(stripped)
	for _, v := range variables {
		if !IsKnownVariable(v) {
			unknown(v)
		}
	}

	if len(issues) > 0 {
		logging.Parse("template %s rejected with %d issue(s)", name, len(issues))
		return nil, &ParseError{Template: name, Issues: issues}
	}

	logging.ParseDebug("template %s: %d placeholders, %d conditionals",
		name, len(variables), len(conditionals))

	return &Template{
		Name:         name,
		Source:       source,
		Variables:    variables,
		Conditionals: conditionals,
	}, nil
}

// ReferencedVariables returns every variable the template mentions anywhere:
// flat placeholders, conditional subjects, and placeholders inside
// conditional bodies (taken or not). Sorted and deduplicated.
func (t *Template) ReferencedVariables() []string {
	seen := make(map[string]bool)
	for _, v := range t.Variables {
		seen[v] = true
	}
	for _, c := range t.Conditionals {
		seen[c.Variable] = true
		for _, v := range c.Variables {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func parseConditionHeader(header string) (Conditional, bool) {
	m := conditionHeaderRe.FindStringSubmatch(header)
	if m == nil {
		return Conditional{}, false
	}
	cond := Conditional{Variable: m[1], Operator: OpTruthy}
	switch m[2] {
	case "==":
		cond.Operator = OpEquals
		cond.Value = m[3]
	case "!=":
		cond.Operator = OpNotEquals
		cond.Value = m[3]
	}
	return cond, true
}

// scanPlaceholders extracts placeholder names from text, deduplicated and
// sorted.
func scanPlaceholders(text string) []string {
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = true
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func unbalancedDetail(opens, closes int) string {
	if opens > closes {
		return "unbalanced conditionals: missing {{/if}}"
	}
	return "unbalanced conditionals: {{/if}} without {{#if}}"
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
