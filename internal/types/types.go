// Package types defines the domain value objects the render core consumes:
// research topics, run specifications, content standards and SEO guidelines.
// All types are plain immutable values; they are constructed once (usually by
// internal/loader) and never mutated afterwards.
package types

import "time"

// ClaimDirection is the direction a topic's claim argues.
type ClaimDirection string

const (
	DirectionHelps ClaimDirection = "helps"
	DirectionHarms ClaimDirection = "harms"
)

// ClaimDirections lists every legal claim direction.
func ClaimDirections() []string {
	return []string{string(DirectionHelps), string(DirectionHarms)}
}

// Opposite returns the inverse direction. Unknown input returns itself.
func (d ClaimDirection) Opposite() ClaimDirection {
	switch d {
	case DirectionHelps:
		return DirectionHarms
	case DirectionHarms:
		return DirectionHelps
	}
	return d
}

// ClaimConfidence is the evidence confidence grade attached to a claim.
type ClaimConfidence string

const (
	ConfidenceEstablished ClaimConfidence = "established"
	ConfidenceProbable    ClaimConfidence = "probable"
	ConfidencePreliminary ClaimConfidence = "preliminary"
	ConfidenceEmerging    ClaimConfidence = "emerging"
)

// ClaimConfidences lists every legal confidence grade.
func ClaimConfidences() []string {
	return []string{
		string(ConfidenceEstablished),
		string(ConfidenceProbable),
		string(ConfidencePreliminary),
		string(ConfidenceEmerging),
	}
}

// TopicCategory classifies the entity a topic researches.
type TopicCategory string

const (
	CategoryAnimalDerived TopicCategory = "animal_derived_ingredient"
	CategoryRegulated     TopicCategory = "regulated_chemical"
	CategoryModifiable    TopicCategory = "modifiable_habit"
	CategoryBotanical     TopicCategory = "botanical_extract"
	CategorySynthetic     TopicCategory = "synthetic_compound"
	CategoryEnvironmental TopicCategory = "environmental_exposure"
)

// TopicCategories lists every legal topic category.
func TopicCategories() []string {
	return []string{
		string(CategoryAnimalDerived),
		string(CategoryRegulated),
		string(CategoryModifiable),
		string(CategoryBotanical),
		string(CategorySynthetic),
		string(CategoryEnvironmental),
	}
}

// EntityType is the broad kind of thing the topic's entity is.
type EntityType string

const (
	EntityIngredient    EntityType = "ingredient"
	EntityHabit         EntityType = "habit"
	EntityTreatment     EntityType = "treatment"
	EntityEnvironmental EntityType = "environmental_factor"
)

// EntityTypes lists every legal entity type.
func EntityTypes() []string {
	return []string{
		string(EntityIngredient),
		string(EntityHabit),
		string(EntityTreatment),
		string(EntityEnvironmental),
	}
}

// SearchIntent is the assumed search intent for the rendered article.
type SearchIntent string

const (
	IntentInformational SearchIntent = "informational"
	IntentCommercial    SearchIntent = "commercial"
	IntentNavigational  SearchIntent = "navigational"
)

// SearchIntents lists every legal search intent.
func SearchIntents() []string {
	return []string{
		string(IntentInformational),
		string(IntentCommercial),
		string(IntentNavigational),
	}
}

// Claim is the single falsifiable claim a topic researches.
type Claim struct {
	Direction  ClaimDirection  `json:"direction"`
	Mechanism  string          `json:"mechanism"`
	Confidence ClaimConfidence `json:"confidence"`
	Statement  string          `json:"statement"`
}

// Topic is one research topic: an entity, the skin condition it relates to,
// and the claim under investigation. Topic is the only required input to a
// render; everything else is optional.
type Topic struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Entity       string        `json:"entity"`
	EntityType   EntityType    `json:"entity_type"`
	Condition    string        `json:"condition"`
	Category     TopicCategory `json:"category"`
	Audience     string        `json:"audience"`
	SearchIntent SearchIntent  `json:"search_intent"`
	Claim        Claim         `json:"claim"`
}

// QualityRequirements holds the evidence thresholds for a research run.
type QualityRequirements struct {
	MinCitations       int      `json:"min_citations"`
	MinSources         int      `json:"min_sources"`
	MaxSourceAgeYears  int      `json:"max_source_age_years"`
	EvidenceTypes      []string `json:"evidence_types"`
	RequireHighQuality bool     `json:"require_high_quality"`
}

// SourcePolicy holds the source acceptance rules for a research run.
type SourcePolicy struct {
	ExcludePreprints   bool     `json:"exclude_preprints"`
	RequirePeerReview  bool     `json:"require_peer_review"`
	ExcludedPublishers []string `json:"excluded_publishers"`
	ExcludedDomains    []string `json:"excluded_domains"`
}

// ResearchSpec describes one research run: identity, scale and the quality
// bar every topic in the run must meet.
type ResearchSpec struct {
	RunID      string              `json:"run_id"`
	Version    string              `json:"version"`
	Date       string              `json:"date"`
	TopicCount int                 `json:"topic_count"`
	BatchSize  int                 `json:"batch_size"`
	Quality    QualityRequirements `json:"quality"`
	Sources    SourcePolicy        `json:"sources"`
}

// BrandRules holds brand-alignment requirements from the content standards.
type BrandRules struct {
	Name         string   `json:"name"`
	Voice        string   `json:"voice"`
	VeganFraming bool     `json:"vegan_framing"`
	DeEmphasize  []string `json:"de_emphasize"`
}

// ContentStandards captures the editorial rules rendered prompts must obey.
type ContentStandards struct {
	Tone                     string     `json:"tone"`
	ReadingLevel             string     `json:"reading_level"`
	CitationStyle            string     `json:"citation_style"`
	MaxClaimStrength         string     `json:"max_claim_strength"`
	ForbiddenPhrases         []string   `json:"forbidden_phrases"`
	ForbiddenClaimCategories []string   `json:"forbidden_claim_categories"`
	Brand                    BrandRules `json:"brand"`
}

// SEOGuidelines captures length and keyword thresholds for the rendered
// article brief.
type SEOGuidelines struct {
	PrimaryKeyword     string   `json:"primary_keyword"`
	SecondaryKeywords  []string `json:"secondary_keywords"`
	MinWordCount       int      `json:"min_word_count"`
	MaxWordCount       int      `json:"max_word_count"`
	KeywordDensityMax  float64  `json:"keyword_density_max"`
	TitleMaxLength     int      `json:"title_max_length"`
	MetaDescriptionMax int      `json:"meta_description_max"`
	HeadingDepth       int      `json:"heading_depth"`
	FAQCount           int      `json:"faq_count"`
}

// RunStamp identifies when and from what source state a render happened.
// It is metadata only and never participates in content hashing.
type RunStamp struct {
	GitCommit string    `json:"git_commit"`
	GitBranch string    `json:"git_branch"`
	CreatedAt time.Time `json:"created_at"`
}
