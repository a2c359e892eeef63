package constraint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptforge/internal/types"
)

func helpsTopic() types.Topic {
	return types.Topic{
		ID:         "topic-001",
		Entity:     "turmeric",
		EntityType: types.EntityIngredient,
		Condition:  "redness_hyperpigmentation",
		Category:   types.CategoryBotanical,
		Claim: types.Claim{
			Direction:  types.DirectionHelps,
			Confidence: types.ConfidenceProbable,
		},
	}
}

func harmsTopic() types.Topic {
	return types.Topic{
		ID:         "topic-002",
		Entity:     "sodium lauryl sulfate",
		EntityType: types.EntityIngredient,
		Condition:  "dryness_flaking",
		Category:   types.CategorySynthetic,
		Claim: types.Claim{
			Direction:  types.DirectionHarms,
			Confidence: types.ConfidenceEstablished,
		},
	}
}

func fullSpec() *types.ResearchSpec {
	return &types.ResearchSpec{
		RunID: "20240115-a1b2c3",
		Quality: types.QualityRequirements{
			MinCitations:       8,
			MinSources:         5,
			MaxSourceAgeYears:  7,
			EvidenceTypes:      []string{"rct", "meta_analysis"},
			RequireHighQuality: true,
		},
		Sources: types.SourcePolicy{
			ExcludePreprints:   true,
			RequirePeerReview:  true,
			ExcludedPublishers: []string{"predatory-press"},
			ExcludedDomains:    []string{"contentfarm.example"},
		},
	}
}

func fullStandards() *types.ContentStandards {
	return &types.ContentStandards{
		ForbiddenPhrases:         []string{"miracle cure", "clinically proven"},
		ForbiddenClaimCategories: []string{"disease_treatment"},
		Brand: types.BrandRules{
			Name:         "Verdura",
			VeganFraming: true,
			DeEmphasize:  []string{"collagen"},
		},
	}
}

func TestBuildDeterministic(t *testing.T) {
	c1 := Build(helpsTopic(), fullSpec(), fullStandards())
	c2 := Build(helpsTopic(), fullSpec(), fullStandards())

	// Byte-identical serialization is the load-bearing guarantee.
	assert.Equal(t, Format(c1), Format(c2))
	assert.Equal(t, c1, c2)
}

func TestBuildDirectionExclusion(t *testing.T) {
	t.Run("helps topic excludes harms evidence", func(t *testing.T) {
		c := Build(helpsTopic(), nil, nil)

		var found bool
		for _, r := range c.Directional {
			if r.Category == CategoryExclusion &&
				strings.Contains(r.Directive, "turmeric") &&
				strings.Contains(r.Directive, "harms") {
				found = true
			}
		}
		assert.True(t, found, "helps topic must exclude opposite-direction evidence naming its entity")
	})

	t.Run("harms topic excludes helps evidence and minimizing", func(t *testing.T) {
		c := Build(harmsTopic(), nil, nil)

		var opposite, minimize bool
		for _, r := range c.Directional {
			if r.Category != CategoryExclusion {
				continue
			}
			if strings.Contains(r.Directive, "sodium lauryl sulfate") &&
				strings.Contains(r.Directive, "helps") {
				opposite = true
			}
			if strings.Contains(r.Directive, "minimize") {
				minimize = true
			}
		}
		assert.True(t, opposite)
		assert.True(t, minimize)
	})
}

func TestBuildCategoryRules(t *testing.T) {
	t.Run("animal derived", func(t *testing.T) {
		topic := helpsTopic()
		topic.Entity = "lanolin"
		topic.Category = types.CategoryAnimalDerived

		c := Build(topic, nil, nil)
		joined := Format(c)
		assert.Contains(t, joined, "animal-welfare")
		assert.Contains(t, joined, "vegan alternatives")
	})

	t.Run("regulated chemical", func(t *testing.T) {
		topic := helpsTopic()
		topic.Entity = "hydroquinone"
		topic.Category = types.CategoryRegulated

		c := Build(topic, nil, nil)
		joined := Format(c)
		assert.Contains(t, joined, "regulatory status")
		assert.Contains(t, joined, "industry funding")
	})

	t.Run("modifiable habit", func(t *testing.T) {
		topic := helpsTopic()
		topic.Entity = "sleep schedule"
		topic.Category = types.CategoryModifiable

		c := Build(topic, nil, nil)
		assert.Contains(t, Format(c), "non-modifiable")
	})

	t.Run("botanical has no category rule", func(t *testing.T) {
		c := Build(helpsTopic(), nil, nil)
		for _, r := range c.Directional {
			assert.NotContains(t, r.Directive, "vegan alternatives")
		}
	})
}

func TestBuildConfidenceRules(t *testing.T) {
	t.Run("preliminary", func(t *testing.T) {
		topic := helpsTopic()
		topic.Claim.Confidence = types.ConfidencePreliminary
		c := Build(topic, nil, nil)
		assert.Contains(t, Format(c), "evidence-limitation disclosure")
	})

	t.Run("emerging", func(t *testing.T) {
		topic := helpsTopic()
		topic.Claim.Confidence = types.ConfidenceEmerging
		c := Build(topic, nil, nil)
		assert.Contains(t, Format(c), "hedging language")
	})

	t.Run("established adds nothing", func(t *testing.T) {
		topic := helpsTopic()
		topic.Claim.Confidence = types.ConfidenceEstablished
		c := Build(topic, nil, nil)
		assert.NotContains(t, Format(c), "hedging")
		assert.NotContains(t, Format(c), "disclosure")
	})
}

func TestBuildUniversalFromSpec(t *testing.T) {
	c := Build(helpsTopic(), fullSpec(), nil)
	out := Format(c)

	assert.Contains(t, out, "at least 8 distinct citations")
	assert.Contains(t, out, "at least 5 independent sources")
	assert.Contains(t, out, "more than 7 years ago")
	assert.Contains(t, out, "rct, meta_analysis")
	assert.Contains(t, out, "high-quality source")
	assert.Contains(t, out, "preprint")
	assert.Contains(t, out, "peer review")
	assert.Contains(t, out, "predatory-press")
	assert.Contains(t, out, "contentfarm.example")
}

func TestBuildUniversalFromStandards(t *testing.T) {
	c := Build(helpsTopic(), nil, fullStandards())
	out := Format(c)

	assert.Contains(t, out, `"miracle cure"`)
	assert.Contains(t, out, "disease_treatment")
	assert.Contains(t, out, "Verdura")
	assert.Contains(t, out, "collagen")
}

func TestBuildDegradesGracefully(t *testing.T) {
	// No optional inputs: universal is empty, directional still derives.
	c := Build(helpsTopic(), nil, nil)

	assert.Empty(t, c.Universal)
	require.NotEmpty(t, c.Directional)
	assert.False(t, c.Empty())
}

func TestFormatLayout(t *testing.T) {
	c := Build(helpsTopic(), fullSpec(), fullStandards())
	out := Format(c)

	require.True(t, strings.HasPrefix(out, Header))
	assert.Contains(t, out, "### Universal\n1. [evidence]")
	assert.Contains(t, out, "### Directional\n1. [exclusion]")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestFormatEmptySections(t *testing.T) {
	out := Format(Constraints{})
	assert.Contains(t, out, "### Universal\n(none)")
	assert.Contains(t, out, "### Directional\n(none)")
}
