package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"trendforge/internal/models"
)

// minSamplesPerBlueprint is how many analyses a category needs before its
// patterns are considered real rather than coincidence.
const minSamplesPerBlueprint = 3

// PatternAgent mines blueprints out of groups of analyses sharing a trend
// category. The aggregation is pure; the model is only consulted for
// editing-timing and CTA descriptions, and both fail closed to fixed
// defaults.
type PatternAgent struct {
	llm *LLM
}

func NewPatternAgent(llm *LLM) *PatternAgent {
	return &PatternAgent{llm: llm}
}

// Mine groups the analyses by category and builds one blueprint per group
// with at least minSamplesPerBlueprint members. Zero blueprints is a valid
// outcome.
func (p *PatternAgent) Mine(ctx context.Context, analyses []models.Analysis) ([]models.Blueprint, error) {
	log.Printf("Identifying patterns from %d analyses", len(analyses))

	byCategory := make(map[models.TrendCategory][]models.Analysis)
	for _, a := range analyses {
		byCategory[a.TrendCategory] = append(byCategory[a.TrendCategory], a)
	}

	// Deterministic category order.
	categories := make([]models.TrendCategory, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	var blueprints []models.Blueprint
	for _, category := range categories {
		group := byCategory[category]
		if len(group) < minSamplesPerBlueprint {
			continue
		}
		blueprints = append(blueprints, p.buildBlueprint(ctx, category, group))
	}

	log.Printf("Identified %d trend blueprints", len(blueprints))
	return blueprints, nil
}

// Confidence maps sample count to a confidence score: min(n/10, 1.0).
// Monotonically non-decreasing in n, capped at 1.0 from ten samples up.
func Confidence(sampleCount int) float64 {
	confidence := float64(sampleCount) / 10.0
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

func (p *PatternAgent) buildBlueprint(ctx context.Context, category models.TrendCategory, group []models.Analysis) models.Blueprint {
	var hookDurations []float64
	var hookTexts []string
	var arcs []string
	var styles []string
	var framings []string
	var cameras []string
	var characters []string
	var colors []string
	for _, a := range group {
		if a.HookSeconds > 0 {
			hookDurations = append(hookDurations, a.HookSeconds)
		}
		if a.HookText != "" {
			hookTexts = append(hookTexts, a.HookText)
		}
		if a.StoryArc != "" {
			arcs = append(arcs, a.StoryArc)
		}
		if a.VisualStyle != "" {
			styles = append(styles, a.VisualStyle)
		}
		if a.FramingStyle != "" {
			framings = append(framings, a.FramingStyle)
		}
		if a.CameraMotion != "" {
			cameras = append(cameras, a.CameraMotion)
		}
		characters = append(characters, a.CharacterRoles...)
		colors = append(colors, a.ColorPalette...)
	}

	avgHook := 2.5
	if len(hookDurations) > 0 {
		sum := 0.0
		for _, d := range hookDurations {
			sum += d
		}
		avgHook = sum / float64(len(hookDurations))
	}

	editing := p.analyzeEditing(ctx, group)
	cta, archetype := p.analyzeCTA(ctx, group)

	exampleIDs := make([]string, 0, 5)
	for _, a := range group {
		exampleIDs = append(exampleIDs, a.CandidateID)
		if len(exampleIDs) == 5 {
			break
		}
	}

	return models.Blueprint{
		TrendName:     string(category) + "_trend",
		TrendCategory: category,
		// Typical shorts length; per-video durations live on the candidates.
		AverageLength:  15.0,
		HookSeconds:    avgHook,
		HookWords:      commonWords(hookTexts, 10),
		CommonPlotArcs: mostCommon(arcs, 3),
		Editing:        editing,
		CTA:            cta,
		MemeArchetype:  archetype,
		Visual: models.VisualProfile{
			Style:   firstOr(mostCommon(styles, 1), "unknown"),
			Colors:  mostCommon(colors, 5),
			Framing: firstOr(mostCommon(framings, 1), "unknown"),
			Camera:  firstOr(mostCommon(cameras, 1), "static"),
		},
		CharacterTypes:  mostCommon(characters, 5),
		ExampleIDs:      exampleIDs,
		SampleCount:     len(group),
		ConfidenceScore: Confidence(len(group)),
	}
}

var defaultEditing = models.EditingPatterns{
	CutFrequency:  "unknown",
	SceneDuration: "unknown",
	Transitions:   "unknown",
	Pacing:        "medium",
}

func (p *PatternAgent) analyzeEditing(ctx context.Context, group []models.Analysis) models.EditingPatterns {
	if p.llm == nil {
		return defaultEditing
	}

	prompt := fmt.Sprintf(`Based on these video analyses, identify common editing timing patterns:

%s

Respond ONLY with JSON:
{
  "cut_frequency": "description",
  "scene_duration": "average seconds",
  "transitions": "transition style",
  "pacing": "fast/slow/medium"
}`, summarizeGroup(group))

	jsonStr, err := p.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("Editing pattern analysis failed, using defaults: %v", err)
		return defaultEditing
	}

	var resp struct {
		CutFrequency  json.RawMessage `json:"cut_frequency"`
		SceneDuration json.RawMessage `json:"scene_duration"`
		Transitions   json.RawMessage `json:"transitions"`
		Pacing        json.RawMessage `json:"pacing"`
	}
	if err := unmarshalLenient(jsonStr, &resp); err != nil {
		log.Printf("Editing pattern parsing failed, using defaults: %v", err)
		return defaultEditing
	}

	patterns := models.EditingPatterns{
		CutFrequency:  normalizeString(resp.CutFrequency),
		SceneDuration: normalizeString(resp.SceneDuration),
		Transitions:   normalizeString(resp.Transitions),
		Pacing:        normalizeString(resp.Pacing),
	}
	if patterns.Pacing == "" {
		patterns.Pacing = "medium"
	}
	return patterns
}

func (p *PatternAgent) analyzeCTA(ctx context.Context, group []models.Analysis) (cta, archetype string) {
	if p.llm == nil {
		return "", ""
	}

	prompt := fmt.Sprintf(`Based on these video analyses, identify:

1. Common call-to-action (CTA) patterns
2. Meme archetype if applicable

%s

Both fields must be STRING values, not arrays or objects.

Respond ONLY with JSON:
{
  "cta": "text description of the call to action pattern",
  "archetype": "text description of the meme archetype, or empty string"
}`, summarizeGroup(group))

	jsonStr, err := p.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("CTA analysis failed, using defaults: %v", err)
		return "", ""
	}

	var resp struct {
		CTA       json.RawMessage `json:"cta"`
		Archetype json.RawMessage `json:"archetype"`
	}
	if err := unmarshalLenient(jsonStr, &resp); err != nil {
		log.Printf("CTA parsing failed, using defaults: %v", err)
		return "", ""
	}

	return normalizeString(resp.CTA), normalizeString(resp.Archetype)
}

// summarizeGroup renders the first few analyses as prompt context; five is
// enough signal without burning tokens.
func summarizeGroup(group []models.Analysis) string {
	var b strings.Builder
	for i, a := range group {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "Video %d:\n- Hook: %s - %q\n- Plot: %s\n- Style: %s\n- Category: %s\n\n",
			i+1, a.HookType, a.HookText, a.PlotStructure, a.VisualStyle, a.TrendCategory)
	}
	return b.String()
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "may": true, "might": true, "must": true,
	"can": true, "this": true, "that": true, "these": true, "those": true,
	"i": true, "you": true, "he": true, "she": true, "it": true, "we": true,
	"they": true, "what": true, "which": true, "who": true, "when": true,
	"where": true, "why": true, "how": true,
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// commonWords returns the topN most frequent non-stop-words across the
// texts, ties broken alphabetically for determinism.
func commonWords(texts []string, topN int) []string {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
			if len(word) > 2 && !stopWords[word] {
				counts[word]++
			}
		}
	}
	return topByCount(counts, topN)
}

// mostCommon returns the topN most frequent values, ties broken
// alphabetically.
func mostCommon(values []string, topN int) []string {
	counts := make(map[string]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	return topByCount(counts, topN)
}

func topByCount(counts map[string]int, topN int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > topN {
		keys = keys[:topN]
	}
	return keys
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
