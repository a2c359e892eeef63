package prompt

import (
	"sort"
	"strconv"
	"strings"

	"promptforge/internal/types"
)

// Context is an immutable mapping from the closed variable schema to string
// values. Every schema key is always present; slots whose source object was
// not supplied hold the Unset sentinel rather than being absent. Built once
// per (topic, spec, standards, seo) combination and never mutated.
type Context struct {
	values map[string]string
}

// BuildContext maps the domain objects into a complete Context. The topic is
// required; spec, standards and seo may be nil, in which case their slots
// hold Unset. Absence is always representable, so this never fails.
func BuildContext(topic types.Topic, spec *types.ResearchSpec, standards *types.ContentStandards, seo *types.SEOGuidelines) *Context {
	v := make(map[string]string, len(schemaVars))
	for key := range schemaVars {
		v[key] = Unset
	}

	v[VarTopicID] = topic.ID
	v[VarTopicSlug] = topic.Slug
	v[VarTopicEntity] = topic.Entity
	v[VarTopicEntityType] = string(topic.EntityType)
	v[VarTopicCondition] = topic.Condition
	v[VarTopicCategory] = string(topic.Category)
	v[VarTopicAudience] = topic.Audience
	v[VarTopicSearchIntent] = string(topic.SearchIntent)

	v[VarClaimDirection] = string(topic.Claim.Direction)
	v[VarClaimMechanism] = topic.Claim.Mechanism
	v[VarClaimConfidence] = string(topic.Claim.Confidence)
	v[VarClaimStatement] = topic.Claim.Statement

	if spec != nil {
		v[VarResearchRunID] = spec.RunID
		v[VarResearchVersion] = spec.Version
		v[VarResearchDate] = spec.Date
		v[VarResearchTopicCount] = strconv.Itoa(spec.TopicCount)
		v[VarResearchBatchSize] = strconv.Itoa(spec.BatchSize)
		v[VarResearchMinCitations] = strconv.Itoa(spec.Quality.MinCitations)
		v[VarResearchMinSources] = strconv.Itoa(spec.Quality.MinSources)
		v[VarResearchMaxSourceAgeYears] = strconv.Itoa(spec.Quality.MaxSourceAgeYears)
		v[VarResearchEvidenceTypes] = joinList(spec.Quality.EvidenceTypes)
		v[VarResearchRequireHighQuality] = strconv.FormatBool(spec.Quality.RequireHighQuality)
		v[VarResearchExcludePreprints] = strconv.FormatBool(spec.Sources.ExcludePreprints)
		v[VarResearchRequirePeerReview] = strconv.FormatBool(spec.Sources.RequirePeerReview)
		v[VarResearchExcludedPublishers] = joinList(spec.Sources.ExcludedPublishers)
		v[VarResearchExcludedDomains] = joinList(spec.Sources.ExcludedDomains)
	}

	if standards != nil {
		v[VarStandardsTone] = standards.Tone
		v[VarStandardsReadingLevel] = standards.ReadingLevel
		v[VarStandardsCitationStyle] = standards.CitationStyle
		v[VarStandardsMaxClaimStrength] = standards.MaxClaimStrength
		v[VarStandardsForbiddenPhrases] = joinList(standards.ForbiddenPhrases)
		v[VarStandardsForbiddenCatgories] = joinList(standards.ForbiddenClaimCategories)
		v[VarStandardsBrandName] = standards.Brand.Name
		v[VarStandardsBrandVoice] = standards.Brand.Voice
		v[VarStandardsVeganFraming] = strconv.FormatBool(standards.Brand.VeganFraming)
		v[VarStandardsDeEmphasize] = joinList(standards.Brand.DeEmphasize)
	}

	if seo != nil {
		v[VarSEOPrimaryKeyword] = seo.PrimaryKeyword
		v[VarSEOSecondaryKeywords] = joinList(seo.SecondaryKeywords)
		v[VarSEOMinWordCount] = strconv.Itoa(seo.MinWordCount)
		v[VarSEOMaxWordCount] = strconv.Itoa(seo.MaxWordCount)
		v[VarSEOKeywordDensityMax] = strconv.FormatFloat(seo.KeywordDensityMax, 'g', -1, 64)
		v[VarSEOTitleMaxLength] = strconv.Itoa(seo.TitleMaxLength)
		v[VarSEOMetaDescriptionMax] = strconv.Itoa(seo.MetaDescriptionMax)
		v[VarSEOHeadingDepth] = strconv.Itoa(seo.HeadingDepth)
		v[VarSEOFAQCount] = strconv.Itoa(seo.FAQCount)
	}

	return &Context{values: v}
}

// Get returns the value for a variable. The second return is false only for
// names outside the schema; schema members always resolve.
func (c *Context) Get(name string) (string, bool) {
	val, ok := c.values[name]
	return val, ok
}

// IsSet reports whether a variable holds a real (non-Unset) value.
func (c *Context) IsSet(name string) bool {
	val, ok := c.values[name]
	return ok && val != Unset
}

// Keys returns every context key in sorted order.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of context slots (always the full schema size).
func (c *Context) Len() int {
	return len(c.values)
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}
