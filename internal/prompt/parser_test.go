package prompt

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidTemplate(t *testing.T) {
	src := `Study {{topic.entity}} for {{ topic.condition }}.
{{#if topic.claim.direction == "helps"}}Focus on benefits of {{topic.entity}}.{{/if}}
Audience: {{topic.audience}}`

	tpl, err := Parse("brief.txt", src)
	require.NoError(t, err)

	// Deduplicated, sorted, outside-conditional placeholders only.
	want := []string{"topic.audience", "topic.condition", "topic.entity"}
	if diff := cmp.Diff(want, tpl.Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, tpl.Conditionals, 1)
	cond := tpl.Conditionals[0]
	assert.Equal(t, "topic.claim.direction", cond.Variable)
	assert.Equal(t, OpEquals, cond.Operator)
	assert.Equal(t, "helps", cond.Value)
	assert.Equal(t, "Focus on benefits of {{topic.entity}}.", cond.Body)
	assert.Equal(t, []string{"topic.entity"}, cond.Variables)
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		name string
		src  string
		op   Operator
		val  string
	}{
		{"truthy", `{{#if seo.primaryKeyword}}k{{/if}}`, OpTruthy, ""},
		{"equals", `{{#if topic.claim.direction == "harms"}}w{{/if}}`, OpEquals, "harms"},
		{"not equals", `{{#if topic.category != "regulated_chemical"}}x{{/if}}`, OpNotEquals, "regulated_chemical"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := Parse("t", tt.src)
			require.NoError(t, err)
			require.Len(t, tpl.Conditionals, 1)
			assert.Equal(t, tt.op, tpl.Conditionals[0].Operator)
			assert.Equal(t, tt.val, tpl.Conditionals[0].Value)
		})
	}
}

func TestParseReportsAllUnknownVariables(t *testing.T) {
	src := `{{topic.entity}} {{bogus.one}} {{bogus.two}}`

	_, err := Parse("bad.txt", src)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))

	var names []string
	for _, issue := range parseErr.Issues {
		require.Equal(t, IssueUnknownVariable, issue.Kind)
		names = append(names, issue.Variable)
	}
	// Exactly the two unknown names, not just the first.
	assert.ElementsMatch(t, []string{"bogus.one", "bogus.two"}, names)
}

func TestParseUnknownConditionalVariable(t *testing.T) {
	_, err := Parse("t", `{{#if nope.nope}}x{{/if}}`)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Len(t, parseErr.Issues, 1)
	assert.Equal(t, IssueUnknownVariable, parseErr.Issues[0].Kind)
	assert.Equal(t, "nope.nope", parseErr.Issues[0].Variable)
}

func TestParseRejectsNestedConditionals(t *testing.T) {
	src := `{{#if topic.audience}}outer {{#if topic.slug}}inner{{/if}}{{/if}}`

	_, err := Parse("t", src)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))

	found := false
	for _, issue := range parseErr.Issues {
		if issue.Kind == IssueNestedConditional {
			found = true
		}
	}
	assert.True(t, found, "expected a nested-conditional issue, got %v", parseErr.Issues)
}

func TestParseRejectsUnbalancedConditionals(t *testing.T) {
	t.Run("missing close", func(t *testing.T) {
		_, err := Parse("t", `{{#if topic.audience}}body`)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, IssueUnbalancedConditional, parseErr.Issues[0].Kind)
	})

	t.Run("stray close", func(t *testing.T) {
		_, err := Parse("t", `body{{/if}}`)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, IssueUnbalancedConditional, parseErr.Issues[0].Kind)
	})
}

func TestParseEnumLiteralValidation(t *testing.T) {
	t.Run("legal literal", func(t *testing.T) {
		_, err := Parse("t", `{{#if topic.claim.direction == "helps"}}x{{/if}}`)
		assert.NoError(t, err)
	})

	t.Run("illegal literal lists allowed values", func(t *testing.T) {
		_, err := Parse("t", `{{#if topic.claim.direction == "maybe"}}x{{/if}}`)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		require.Len(t, parseErr.Issues, 1)
		issue := parseErr.Issues[0]
		assert.Equal(t, IssueIllegalLiteral, issue.Kind)
		assert.Equal(t, "topic.claim.direction", issue.Variable)
		assert.ElementsMatch(t, []string{"helps", "harms"}, issue.Allowed)
	})

	t.Run("illegal literal on not-equals", func(t *testing.T) {
		_, err := Parse("t", `{{#if topic.category != "weird_stuff"}}x{{/if}}`)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, IssueIllegalLiteral, parseErr.Issues[0].Kind)
	})

	t.Run("free-text variable takes any literal", func(t *testing.T) {
		_, err := Parse("t", `{{#if topic.entity == "anything at all"}}x{{/if}}`)
		assert.NoError(t, err)
	})
}

func TestParseCollectsMixedIssues(t *testing.T) {
	src := `{{unknown.var}}{{#if topic.claim.direction == "sideways"}}x{{/if}}`

	_, err := Parse("t", src)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Len(t, parseErr.Issues, 2)

	kinds := map[IssueKind]bool{}
	for _, issue := range parseErr.Issues {
		kinds[issue.Kind] = true
	}
	assert.True(t, kinds[IssueUnknownVariable])
	assert.True(t, kinds[IssueIllegalLiteral])
}

func TestReferencedVariables(t *testing.T) {
	src := `{{topic.entity}}{{#if topic.claim.direction == "helps"}}{{topic.condition}}{{/if}}`

	tpl, err := Parse("t", src)
	require.NoError(t, err)

	want := []string{"topic.claim.direction", "topic.condition", "topic.entity"}
	assert.Equal(t, want, tpl.ReferencedVariables())
}

func TestParseWhitespaceTolerance(t *testing.T) {
	tpl, err := Parse("t", `{{   topic.entity   }}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"topic.entity"}, tpl.Variables)
}

func TestParseEmptyTemplate(t *testing.T) {
	tpl, err := Parse("empty.txt", "")
	require.NoError(t, err)
	assert.Empty(t, tpl.Variables)
	assert.Empty(t, tpl.Conditionals)
}
