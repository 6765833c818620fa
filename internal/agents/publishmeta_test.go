package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"trendforge/internal/models"
)

func TestMetadataAgentFallback(t *testing.T) {
	agent := NewMetadataAgent(nil)

	script := models.Script{
		Title:      "Epic Comeback",
		ScriptText: strings.Repeat("long script text ", 30),
	}

	meta := agent.Generate(context.Background(), script, models.CategoryGaming, []string{"youtube", "tiktok"})

	assert.Equal(t, "Epic Comeback", meta.Title)
	assert.LessOrEqual(t, len(meta.Description), 203, "description is truncated around 200 chars")
	assert.Equal(t, []string{"#gaming", "#shorts", "#viral"}, meta.Hashtags)
	assert.Equal(t, []string{"youtube", "tiktok"}, meta.Platforms)
}

func TestNormalizeHashtags(t *testing.T) {
	got := normalizeHashtags([]string{"Gaming", "#gaming", " #Shorts ", "two words", ""})
	assert.Equal(t, []string{"#gaming", "#shorts", "#twowords"}, got)
}

func TestParseHookType(t *testing.T) {
	tests := []struct {
		input    string
		expected models.HookType
	}{
		{"shock", models.HookShock},
		{" Relatable_Moment ", models.HookRelatable},
		{"question", models.HookQuestion},
		{"something the model made up", models.HookOther},
		{"", models.HookOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseHookType(tt.input))
		})
	}
}

func TestParseTrendCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected models.TrendCategory
	}{
		{"gaming", models.CategoryGaming},
		{"SIGMA_EDITS", models.CategorySigmaEdits},
		{"vlog", models.CategoryOther},
		{"", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseTrendCategory(tt.input))
		})
	}
}
