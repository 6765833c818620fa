package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"trendforge/internal/models"
)

// MetadataAgent writes platform-ready titles, descriptions and hashtags
// for a generated video. Like the other agents it fails closed, deriving
// metadata from the script itself when the model is unavailable.
type MetadataAgent struct {
	llm *LLM
}

func NewMetadataAgent(llm *LLM) *MetadataAgent {
	return &MetadataAgent{llm: llm}
}

// Generate returns publishing metadata for the script. Platforms come from
// the caller; the agent only fills in the creative fields.
func (m *MetadataAgent) Generate(ctx context.Context, script models.Script, category models.TrendCategory, platforms []string) models.PublishingMetadata {
	if m.llm == nil {
		return m.fallbackMetadata(script, category, platforms)
	}

	prompt := fmt.Sprintf(`Write publishing metadata for this short-form video.

Title: %s
Script: %s
Trend category: %s

Respond ONLY with JSON:
{
  "title": "platform-optimized title, under 100 characters",
  "description": "engaging description, under 500 characters",
  "hashtags": ["#tag1", "#tag2"]
}`, script.Title, truncateString(script.ScriptText, 1000), category)

	jsonStr, err := m.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("Metadata generation failed, deriving from script: %v", err)
		return m.fallbackMetadata(script, category, platforms)
	}

	var resp struct {
		Title       json.RawMessage `json:"title"`
		Description json.RawMessage `json:"description"`
		Hashtags    json.RawMessage `json:"hashtags"`
	}
	if err := unmarshalLenient(jsonStr, &resp); err != nil {
		log.Printf("Metadata parsing failed, deriving from script: %v", err)
		return m.fallbackMetadata(script, category, platforms)
	}

	meta := models.PublishingMetadata{
		Title:       normalizeString(resp.Title),
		Description: normalizeString(resp.Description),
		Hashtags:    normalizeHashtags(normalizeStringList(resp.Hashtags)),
		Platforms:   platforms,
	}
	if meta.Title == "" {
		meta.Title = script.Title
	}
	if meta.Description == "" {
		meta.Description = truncateString(script.ScriptText, 200)
	}
	if len(meta.Hashtags) == 0 {
		meta.Hashtags = defaultHashtags(category)
	}
	return meta
}

// fallbackMetadata derives everything from the script and category alone.
func (m *MetadataAgent) fallbackMetadata(script models.Script, category models.TrendCategory, platforms []string) models.PublishingMetadata {
	return models.PublishingMetadata{
		Title:       script.Title,
		Description: truncateString(script.ScriptText, 200),
		Hashtags:    defaultHashtags(category),
		Platforms:   platforms,
	}
}

func defaultHashtags(category models.TrendCategory) []string {
	return []string{"#" + string(category), "#shorts", "#viral"}
}

// normalizeHashtags lowercases, prefixes with # and drops duplicates.
func normalizeHashtags(tags []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		tag = strings.TrimPrefix(tag, "#")
		tag = strings.ReplaceAll(tag, " ", "")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, "#"+tag)
	}
	return out
}
