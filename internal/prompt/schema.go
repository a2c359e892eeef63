// Package prompt implements the deterministic prompt render core: the closed
// context variable schema, the context builder, the template parser, the
// conditional evaluator and the renderer.
//
// The schema is a fixed enumeration known at build time. "Is this variable
// legal" is a set-membership check; unknown variables are parse errors, never
// render-time blanks.
package prompt

import (
	"sort"

	"promptforge/internal/types"
)

// Unset marks a context slot whose source object was not supplied.
// It is distinct from the empty string: an empty field was supplied and
// empty, an Unset field was never supplied at all.
const Unset = "__UNSET__"

// Context variable names. Every legal name appears here; nothing else ever
// enters a Context.
const (
	VarTopicID           = "topic.id"
	VarTopicSlug         = "topic.slug"
	VarTopicEntity       = "topic.entity"
	VarTopicEntityType   = "topic.entityType"
	VarTopicCondition    = "topic.condition"
	VarTopicCategory     = "topic.category"
	VarTopicAudience     = "topic.audience"
	VarTopicSearchIntent = "topic.searchIntent"

	VarClaimDirection  = "topic.claim.direction"
	VarClaimMechanism  = "topic.claim.mechanism"
	VarClaimConfidence = "topic.claim.confidence"
	VarClaimStatement  = "topic.claim.statement"

	VarResearchRunID              = "research.runId"
	VarResearchVersion            = "research.version"
	VarResearchDate               = "research.date"
	VarResearchTopicCount         = "research.topicCount"
	VarResearchBatchSize          = "research.batchSize"
	VarResearchMinCitations       = "research.minCitations"
	VarResearchMinSources         = "research.minSources"
	VarResearchMaxSourceAgeYears  = "research.maxSourceAgeYears"
	VarResearchEvidenceTypes      = "research.evidenceTypes"
	VarResearchRequireHighQuality = "research.requireHighQuality"
	VarResearchExcludePreprints   = "research.excludePreprints"
	VarResearchRequirePeerReview  = "research.requirePeerReview"
	VarResearchExcludedPublishers = "research.excludedPublishers"
	VarResearchExcludedDomains    = "research.excludedDomains"

	VarStandardsTone               = "contentStandards.tone"
	VarStandardsReadingLevel       = "contentStandards.readingLevel"
	VarStandardsCitationStyle      = "contentStandards.citationStyle"
	VarStandardsMaxClaimStrength   = "contentStandards.maxClaimStrength"
	VarStandardsForbiddenPhrases   = "contentStandards.forbiddenPhrases"
	VarStandardsForbiddenCatgories = "contentStandards.forbiddenClaimCategories"
	VarStandardsBrandName          = "contentStandards.brandName"
	VarStandardsBrandVoice         = "contentStandards.brandVoice"
	VarStandardsVeganFraming       = "contentStandards.veganFraming"
	VarStandardsDeEmphasize        = "contentStandards.deEmphasize"

	VarSEOPrimaryKeyword     = "seo.primaryKeyword"
	VarSEOSecondaryKeywords  = "seo.secondaryKeywords"
	VarSEOMinWordCount       = "seo.minWordCount"
	VarSEOMaxWordCount       = "seo.maxWordCount"
	VarSEOKeywordDensityMax  = "seo.keywordDensityMax"
	VarSEOTitleMaxLength     = "seo.titleMaxLength"
	VarSEOMetaDescriptionMax = "seo.metaDescriptionMax"
	VarSEOHeadingDepth       = "seo.headingDepth"
	VarSEOFAQCount           = "seo.faqCount"
)

// schemaVars is the closed set of legal context variables. Variables with a
// non-nil enum carry a closed legal-value set checked against ==/!= literals
// at parse time.
var schemaVars = map[string][]string{
	VarTopicID:           nil,
	VarTopicSlug:         nil,
	VarTopicEntity:       nil,
	VarTopicEntityType:   types.EntityTypes(),
	VarTopicCondition:    nil,
	VarTopicCategory:     types.TopicCategories(),
	VarTopicAudience:     nil,
	VarTopicSearchIntent: types.SearchIntents(),

	VarClaimDirection:  types.ClaimDirections(),
	VarClaimMechanism:  nil,
	VarClaimConfidence: types.ClaimConfidences(),
	VarClaimStatement:  nil,

	VarResearchRunID:              nil,
	VarResearchVersion:            nil,
	VarResearchDate:               nil,
	VarResearchTopicCount:         nil,
	VarResearchBatchSize:          nil,
	VarResearchMinCitations:       nil,
	VarResearchMinSources:         nil,
	VarResearchMaxSourceAgeYears:  nil,
	VarResearchEvidenceTypes:      nil,
	VarResearchRequireHighQuality: {"true", "false"},
	VarResearchExcludePreprints:   {"true", "false"},
	VarResearchRequirePeerReview:  {"true", "false"},
	VarResearchExcludedPublishers: nil,
	VarResearchExcludedDomains:    nil,

	VarStandardsTone:               nil,
	VarStandardsReadingLevel:       nil,
	VarStandardsCitationStyle:      nil,
	VarStandardsMaxClaimStrength:   nil,
	VarStandardsForbiddenPhrases:   nil,
	VarStandardsForbiddenCatgories: nil,
	VarStandardsBrandName:          nil,
	VarStandardsBrandVoice:         nil,
	VarStandardsVeganFraming:       {"true", "false"},
	VarStandardsDeEmphasize:        nil,

	VarSEOPrimaryKeyword:     nil,
	VarSEOSecondaryKeywords:  nil,
	VarSEOMinWordCount:       nil,
	VarSEOMaxWordCount:       nil,
	VarSEOKeywordDensityMax:  nil,
	VarSEOTitleMaxLength:     nil,
	VarSEOMetaDescriptionMax: nil,
	VarSEOHeadingDepth:       nil,
	VarSEOFAQCount:           nil,
}

// IsKnownVariable reports whether name is a member of the context schema.
func IsKnownVariable(name string) bool {
	_, ok := schemaVars[name]
	return ok
}

// EnumValues returns the closed legal-value set for a variable, if it has
// one. Variables without an enumeration return (nil, false).
func EnumValues(name string) ([]string, bool) {
	vals, ok := schemaVars[name]
	if !ok || vals == nil {
		return nil, false
	}
	return vals, true
}

// SchemaKeys returns every legal variable name in sorted order.
func SchemaKeys() []string {
	keys := make([]string, 0, len(schemaVars))
	for k := range schemaVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
