package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptforge/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTopic(t *testing.T) {
	path := writeFile(t, "topic.json", `{
	  "id": "topic-001",
	  "slug": "turmeric-redness",
	  "entity": "turmeric",
	  "entity_type": "ingredient",
	  "condition": "redness_hyperpigmentation",
	  "category": "botanical_extract",
	  "audience": "general",
	  "search_intent": "informational",
	  "claim": {
	    "direction": "helps",
	    "confidence": "probable",
	    "statement": "topical turmeric reduces redness"
	  }
	}`)

	topic, err := LoadTopic(path)
	require.NoError(t, err)

	assert.Equal(t, "topic-001", topic.ID)
	assert.Equal(t, "turmeric", topic.Entity)
	assert.Equal(t, types.DirectionHelps, topic.Claim.Direction)
	assert.Equal(t, types.CategoryBotanical, topic.Category)
}

func TestLoadTopicMissingRequiredFields(t *testing.T) {
	path := writeFile(t, "topic.json", `{"slug": "x"}`)

	_, err := LoadTopic(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id is required")
	assert.Contains(t, err.Error(), "entity is required")
	assert.Contains(t, err.Error(), "condition is required")
}

func TestLoadTopicEnumValidation(t *testing.T) {
	t.Run("bad direction", func(t *testing.T) {
		path := writeFile(t, "topic.json", `{
		  "id": "t", "entity": "e", "condition": "c",
		  "claim": {"direction": "sideways"}
		}`)

		_, err := LoadTopic(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `claim.direction "sideways"`)
		assert.Contains(t, err.Error(), "helps, harms")
	})

	t.Run("bad category", func(t *testing.T) {
		path := writeFile(t, "topic.json", `{
		  "id": "t", "entity": "e", "condition": "c",
		  "category": "mystery_goo"
		}`)

		_, err := LoadTopic(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `category "mystery_goo"`)
	})

	t.Run("all problems reported at once", func(t *testing.T) {
		path := writeFile(t, "topic.json", `{
		  "entity": "e", "condition": "c",
		  "category": "bad",
		  "claim": {"direction": "bad", "confidence": "bad"}
		}`)

		_, err := LoadTopic(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id is required")
		assert.Contains(t, err.Error(), "claim.direction")
		assert.Contains(t, err.Error(), "claim.confidence")
		assert.Contains(t, err.Error(), "category")
	})

	t.Run("empty enums are legal", func(t *testing.T) {
		path := writeFile(t, "topic.json", `{"id": "t", "entity": "e", "condition": "c"}`)

		topic, err := LoadTopic(path)
		require.NoError(t, err)
		assert.Empty(t, topic.Category)
	})
}

func TestLoadTopicMissingFile(t *testing.T) {
	_, err := LoadTopic(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadTopicMalformedJSON(t *testing.T) {
	path := writeFile(t, "topic.json", `{broken`)
	_, err := LoadTopic(path)
	assert.Error(t, err)
}

func TestLoadResearchSpec(t *testing.T) {
	path := writeFile(t, "spec.json", `{
	  "run_id": "20240115-a1b2c3",
	  "quality": {"min_citations": 8, "evidence_types": ["rct"]},
	  "sources": {"exclude_preprints": true}
	}`)

	spec, err := LoadResearchSpec(path)
	require.NoError(t, err)
	assert.Equal(t, "20240115-a1b2c3", spec.RunID)
	assert.Equal(t, 8, spec.Quality.MinCitations)
	assert.True(t, spec.Sources.ExcludePreprints)
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brief.txt"), []byte("hello {{topic.entity}}"), 0644))

	t.Run("relative name", func(t *testing.T) {
		name, source, err := LoadTemplate(dir, "brief.txt")
		require.NoError(t, err)
		assert.Equal(t, "brief.txt", name)
		assert.Equal(t, "hello {{topic.entity}}", source)
	})

	t.Run("absolute path", func(t *testing.T) {
		name, source, err := LoadTemplate("/elsewhere", filepath.Join(dir, "brief.txt"))
		require.NoError(t, err)
		assert.Equal(t, "brief.txt", name)
		assert.NotEmpty(t, source)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := LoadTemplate(dir, "absent.txt")
		assert.Error(t, err)
	})
}
