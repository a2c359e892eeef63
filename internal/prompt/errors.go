package prompt

import (
	"fmt"
	"strings"
)

// IssueKind classifies a single template parse issue.
type IssueKind string

const (
	IssueUnknownVariable       IssueKind = "unknown_variable"
	IssueIllegalLiteral        IssueKind = "illegal_literal"
	IssueNestedConditional     IssueKind = "nested_conditional"
	IssueUnbalancedConditional IssueKind = "unbalanced_conditional"
	IssueMalformedConditional  IssueKind = "malformed_conditional"
)

// ParseIssue is one problem found while parsing a template. Parsing collects
// every issue before surfacing, so template authors can fix a file in one
// pass instead of replaying fail-fast errors.
type ParseIssue struct {
	Kind     IssueKind
	Variable string
	Allowed  []string // legal values, for IssueIllegalLiteral
	Detail   string
}

func (i ParseIssue) String() string {
	switch i.Kind {
	case IssueUnknownVariable:
		return fmt.Sprintf("unknown variable %q", i.Variable)
	case IssueIllegalLiteral:
		return fmt.Sprintf("illegal value for %q: %s (allowed: %s)",
			i.Variable, i.Detail, strings.Join(i.Allowed, ", "))
	case IssueNestedConditional:
		return fmt.Sprintf("conditional on %q contains a nested conditional", i.Variable)
	case IssueUnbalancedConditional:
		return i.Detail
	case IssueMalformedConditional:
		return fmt.Sprintf("malformed conditional: %s", i.Detail)
	}
	return i.Detail
}

// ParseError reports every issue found in one template.
type ParseError struct {
	Template string
	Issues   []ParseIssue
}

func (e *ParseError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("template %q: %d parse issue(s): %s",
		e.Template, len(e.Issues), strings.Join(parts, "; "))
}

// MissingVariablesError reports live template variables that resolved to the
// Unset sentinel during a strict render. The list is always complete.
type MissingVariablesError struct {
	Template  string
	Variables []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("template %q: unresolved variables: %s",
		e.Template, strings.Join(e.Variables, ", "))
}

// UnusedVariablesError reports context variables the template never
// references anywhere, including inside untaken conditional branches.
// Strict mode only. The list is always complete.
type UnusedVariablesError struct {
	Template  string
	Variables []string
}

func (e *UnusedVariablesError) Error() string {
	return fmt.Sprintf("template %q: context variables never referenced: %s",
		e.Template, strings.Join(e.Variables, ", "))
}
