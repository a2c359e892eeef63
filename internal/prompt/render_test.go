package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptforge/internal/constraint"
	"promptforge/internal/types"
)

func mustParse(t *testing.T, src string) *Template {
	t.Helper()
	tpl, err := Parse("test.txt", src)
	require.NoError(t, err)
	return tpl
}

func TestRenderBasicSubstitution(t *testing.T) {
	tpl := mustParse(t, `Study {{topic.entity}} for {{topic.condition}}.`)
	ctx := BuildContext(testTopic(), nil, nil, nil)

	out, err := Render(tpl, ctx, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Study turmeric for redness_hyperpigmentation.", out)
}

func TestRenderDirectionalConditionals(t *testing.T) {
	src := `{{#if topic.claim.direction == "helps"}}BENEFIT.{{/if}}{{#if topic.claim.direction == "harms"}}WARNING.{{/if}}`
	tpl := mustParse(t, src)

	t.Run("helps topic", func(t *testing.T) {
		ctx := BuildContext(testTopic(), nil, nil, nil)
		out, err := Render(tpl, ctx, RenderOptions{})
		require.NoError(t, err)
		assert.Contains(t, out, "BENEFIT.")
		assert.NotContains(t, out, "WARNING.")
	})

	t.Run("harms topic", func(t *testing.T) {
		topic := testTopic()
		topic.Claim.Direction = types.DirectionHarms
		ctx := BuildContext(topic, nil, nil, nil)
		out, err := Render(tpl, ctx, RenderOptions{})
		require.NoError(t, err)
		assert.Contains(t, out, "WARNING.")
		assert.NotContains(t, out, "BENEFIT.")
	})
}

func TestRenderExpandsPlaceholdersInsideIncludedBodies(t *testing.T) {
	src := `{{#if topic.claim.direction == "helps"}}Benefits of {{topic.entity}}.{{/if}}`
	tpl := mustParse(t, src)
	ctx := BuildContext(testTopic(), nil, nil, nil)

	out, err := Render(tpl, ctx, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Benefits of turmeric.", out)
}

func TestRenderNotEqualsIncludesWhenUnset(t *testing.T) {
	// research.* is absent, so runId is Unset and != holds.
	src := `{{#if research.runId != "x"}}included{{/if}}`
	tpl := mustParse(t, src)
	ctx := BuildContext(testTopic(), nil, nil, nil)

	out, err := Render(tpl, ctx, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "included", out)
}

func TestRenderNonStrictKeepsSentinelVisible(t *testing.T) {
	tpl := mustParse(t, `run: {{research.runId}}`)
	ctx := BuildContext(testTopic(), nil, nil, nil)

	out, err := Render(tpl, ctx, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "run: "+Unset, out)
}

func TestRenderStrictMissingVariables(t *testing.T) {
	// Reference every context variable somewhere so the unused check
	// passes, then leave research/standards/seo objects out so their
	// placeholders are all unresolved.
	var b strings.Builder
	for _, key := range SchemaKeys() {
		b.WriteString("{{" + key + "}}\n")
	}
	tpl := mustParse(t, b.String())
	ctx := BuildContext(testTopic(), nil, nil, nil)

	_, err := Render(tpl, ctx, RenderOptions{Strict: true})
	require.Error(t, err)

	var missingErr *MissingVariablesError
	require.True(t, errors.As(err, &missingErr))
	assert.Contains(t, missingErr.Variables, VarResearchRunID)
	assert.Contains(t, missingErr.Variables, VarSEOPrimaryKeyword)
	assert.NotContains(t, missingErr.Variables, VarTopicEntity)

	var unusedErr *UnusedVariablesError
	assert.False(t, errors.As(err, &unusedErr), "all variables are referenced")
}

func TestRenderStrictUnusedVariables(t *testing.T) {
	tpl := mustParse(t, `{{topic.entity}}`)
	ctx := BuildContext(testTopic(), testSpec(), nil, nil)

	_, err := Render(tpl, ctx, RenderOptions{Strict: true})
	require.Error(t, err)

	var unusedErr *UnusedVariablesError
	require.True(t, errors.As(err, &unusedErr))
	// Everything except topic.entity is unreferenced.
	assert.Len(t, unusedErr.Variables, len(SchemaKeys())-1)
	assert.NotContains(t, unusedErr.Variables, VarTopicEntity)
	assert.Contains(t, unusedErr.Variables, VarTopicCondition)
}

func TestRenderStrictCountsExcludedBranchReferences(t *testing.T) {
	// The harms branch is not taken for a helps topic, but its variables
	// still count as referenced for the unused audit, and its unresolved
	// placeholders must NOT count as missing.
	var b strings.Builder
	b.WriteString(`{{#if topic.claim.direction == "harms"}}{{research.runId}}{{/if}}`)
	for _, key := range SchemaKeys() {
		if key == VarResearchRunID {
			continue
		}
		b.WriteString("{{" + key + "}}")
	}
	tpl := mustParse(t, b.String())

	ctx := BuildContext(testTopic(), nil, nil, nil) // helps, research absent

	_, err := Render(tpl, ctx, RenderOptions{Strict: true})
	require.Error(t, err)

	var unusedErr *UnusedVariablesError
	assert.False(t, errors.As(err, &unusedErr),
		"runId referenced inside untaken branch should satisfy the unused audit")

	var missingErr *MissingVariablesError
	require.True(t, errors.As(err, &missingErr))
	assert.NotContains(t, missingErr.Variables, VarResearchRunID,
		"excluded-branch placeholder must not be a missing variable")
}

func TestRenderStrictReportsBothErrorKinds(t *testing.T) {
	tpl := mustParse(t, `{{research.runId}}`)
	ctx := BuildContext(testTopic(), nil, nil, nil)

	_, err := Render(tpl, ctx, RenderOptions{Strict: true})
	require.Error(t, err)

	var missingErr *MissingVariablesError
	var unusedErr *UnusedVariablesError
	assert.True(t, errors.As(err, &missingErr))
	assert.True(t, errors.As(err, &unusedErr))
	assert.Equal(t, []string{VarResearchRunID}, missingErr.Variables)
}

func TestRenderAppendsConstraintsLast(t *testing.T) {
	topic := testTopic()
	c := constraint.Build(topic, testSpec(), nil)
	require.False(t, c.Empty())

	tpl := mustParse(t, "Body text.\n\n"+constraint.Header+"\nfake section from template")
	ctx := BuildContext(topic, nil, nil, nil)

	out, err := Render(tpl, ctx, RenderOptions{Constraints: &c})
	require.NoError(t, err)

	// The injected block always appears after all template content, even
	// when the template emits a same-titled section.
	injected := constraint.Format(c)
	assert.True(t, strings.HasSuffix(out, injected))
	assert.Contains(t, out, "fake section from template")
	assert.Equal(t, 2, strings.Count(out, constraint.Header))
}

func TestRenderWithoutConstraintsOmitsBlock(t *testing.T) {
	tpl := mustParse(t, `plain`)
	ctx := BuildContext(testTopic(), nil, nil, nil)

	out, err := Render(tpl, ctx, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "plain", out)
}

func TestRenderDeterministic(t *testing.T) {
	topic := testTopic()
	c := constraint.Build(topic, testSpec(), nil)
	tpl := mustParse(t, `{{topic.entity}} and {{topic.condition}}`)
	ctx := BuildContext(topic, testSpec(), nil, nil)

	first, err := Render(tpl, ctx, RenderOptions{Constraints: &c})
	require.NoError(t, err)
	second, err := Render(tpl, ctx, RenderOptions{Constraints: &c})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
