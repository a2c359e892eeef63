// Package loader reads domain objects and template sources from disk. It is
// deliberately thin I/O plumbing: JSON decoding plus enum validation, no
// business rules.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"promptforge/internal/types"
)

// LoadTopic reads and validates a topic JSON file.
func LoadTopic(path string) (types.Topic, error) {
	var topic types.Topic
	if err := readJSON(path, &topic); err != nil {
		return types.Topic{}, err
	}
	if err := validateTopic(topic); err != nil {
		return types.Topic{}, fmt.Errorf("%s: %w", path, err)
	}
	return topic, nil
}

// LoadResearchSpec reads a run specification JSON file.
func LoadResearchSpec(path string) (*types.ResearchSpec, error) {
	var spec types.ResearchSpec
	if err := readJSON(path, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// LoadContentStandards reads a content standards JSON file.
func LoadContentStandards(path string) (*types.ContentStandards, error) {
	var standards types.ContentStandards
	if err := readJSON(path, &standards); err != nil {
		return nil, err
	}
	return &standards, nil
}

// LoadSEOGuidelines reads an SEO guidelines JSON file.
func LoadSEOGuidelines(path string) (*types.SEOGuidelines, error) {
	var seo types.SEOGuidelines
	if err := readJSON(path, &seo); err != nil {
		return nil, err
	}
	return &seo, nil
}

// LoadTemplate reads a template source file from templatesDir. The returned
// name is the file's base name, which also keys the snapshot layout.
func LoadTemplate(templatesDir, name string) (string, string, error) {
	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(templatesDir, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read template: %w", err)
	}
	return filepath.Base(path), string(data), nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// validateTopic checks required fields and enum membership, reporting every
// problem in one error.
func validateTopic(topic types.Topic) error {
	var problems []string

	if topic.ID == "" {
		problems = append(problems, "id is required")
	}
	if topic.Entity == "" {
		problems = append(problems, "entity is required")
	}
	if topic.Condition == "" {
		problems = append(problems, "condition is required")
	}

	problems = appendEnumProblem(problems, "claim.direction", string(topic.Claim.Direction), types.ClaimDirections())
	problems = appendEnumProblem(problems, "claim.confidence", string(topic.Claim.Confidence), types.ClaimConfidences())
	problems = appendEnumProblem(problems, "category", string(topic.Category), types.TopicCategories())
	problems = appendEnumProblem(problems, "entity_type", string(topic.EntityType), types.EntityTypes())
	problems = appendEnumProblem(problems, "search_intent", string(topic.SearchIntent), types.SearchIntents())

	if len(problems) > 0 {
		return fmt.Errorf("invalid topic: %s", strings.Join(problems, "; "))
	}
	return nil
}

// appendEnumProblem flags non-empty values outside the allowed set. Empty
// values are legal here; the context builder represents them and strict
// renders catch them where they matter.
func appendEnumProblem(problems []string, field, value string, allowed []string) []string {
	if value == "" {
		return problems
	}
	for _, a := range allowed {
		if a == value {
			return problems
		}
	}
	return append(problems, fmt.Sprintf("%s %q not in [%s]", field, value, strings.Join(allowed, ", ")))
}
