package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"trendforge/internal/models"
)

// AnalysisAgent classifies one candidate's narrative and visual patterns.
// It fails closed: any model or parsing failure yields a default analysis
// (unknown category, empty lists) instead of an error, so a flaky model
// never aborts the per-item loop.
type AnalysisAgent struct {
	llm *LLM
}

func NewAnalysisAgent(llm *LLM) *AnalysisAgent {
	return &AnalysisAgent{llm: llm}
}

// analysisResponse mirrors the JSON the model is asked for. Free-text
// fields are raw so they can pass through normalizeString.
type analysisResponse struct {
	HookType      string          `json:"hook_type"`
	HookText      json.RawMessage `json:"hook_text"`
	HookSeconds   float64         `json:"hook_seconds"`
	PlotStructure json.RawMessage `json:"plot_structure"`
	StoryArc      json.RawMessage `json:"story_arc"`
	Tone          json.RawMessage `json:"tone"`
	Emotion       json.RawMessage `json:"emotion"`
	VisualStyle   json.RawMessage `json:"visual_style"`
	ColorPalette  json.RawMessage `json:"color_palette"`
	FramingStyle  json.RawMessage `json:"framing_style"`
	CameraMotion  json.RawMessage `json:"camera_motion"`
	Aesthetics    json.RawMessage `json:"character_aesthetics"`
	Roles         json.RawMessage `json:"character_roles"`
	TrendCategory string          `json:"trend_category"`
	AudioStyle    json.RawMessage `json:"audio_style"`
}

// Analyze returns a fully-populated analysis for the candidate. The
// returned analysis is always usable; failures degrade to defaults.
func (a *AnalysisAgent) Analyze(ctx context.Context, candidate models.Candidate, transcript []models.TranscriptSegment, frames []models.ReferenceFrame) (models.Analysis, error) {
	if a.llm == nil {
		return a.defaultAnalysis(candidate, transcript), nil
	}

	prompt := a.buildPrompt(candidate, transcript, frames)

	jsonStr, err := a.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("Analysis generation failed for %s, using defaults: %v", candidate.ID, err)
		return a.defaultAnalysis(candidate, transcript), nil
	}

	var resp analysisResponse
	if err := unmarshalLenient(jsonStr, &resp); err != nil {
		log.Printf("Analysis parsing failed for %s, using defaults: %v", candidate.ID, err)
		return a.defaultAnalysis(candidate, transcript), nil
	}

	analysis := models.Analysis{
		CandidateID:         candidate.ID,
		HookType:            parseHookType(resp.HookType),
		HookText:            normalizeString(resp.HookText),
		HookSeconds:         resp.HookSeconds,
		PlotStructure:       normalizeString(resp.PlotStructure),
		StoryArc:            normalizeString(resp.StoryArc),
		Tone:                normalizeString(resp.Tone),
		Emotion:             normalizeString(resp.Emotion),
		VisualStyle:         normalizeString(resp.VisualStyle),
		ColorPalette:        normalizeStringList(resp.ColorPalette),
		FramingStyle:        normalizeString(resp.FramingStyle),
		CameraMotion:        normalizeString(resp.CameraMotion),
		CharacterAesthetics: normalizeStringList(resp.Aesthetics),
		CharacterRoles:      normalizeStringList(resp.Roles),
		TrendCategory:       parseTrendCategory(resp.TrendCategory),
		AudioStyle:          normalizeString(resp.AudioStyle),
		Transcript:          transcript,
	}
	return analysis, nil
}

func (a *AnalysisAgent) buildPrompt(candidate models.Candidate, transcript []models.TranscriptSegment, frames []models.ReferenceFrame) string {
	var transcriptText strings.Builder
	var hookText strings.Builder
	for _, seg := range transcript {
		transcriptText.WriteString(seg.Text)
		transcriptText.WriteString(" ")
		if seg.StartTime < 3.0 {
			hookText.WriteString(seg.Text)
			hookText.WriteString(" ")
		}
	}

	frameNote := ""
	if len(frames) > 0 {
		frameNote = fmt.Sprintf("\n%d reference frames were extracted at evenly spaced moments.", len(frames))
	}

	return fmt.Sprintf(`You are an expert at analyzing viral short-form videos. Analyze this video's narrative and visual patterns.

VIDEO METADATA:
Title: %s
Channel: %s
Description: %s
Hashtags: %s
Duration: %.0f seconds

FIRST 3 SECONDS OF TRANSCRIPT: %q

FULL TRANSCRIPT: %q%s

Respond ONLY with JSON in this exact format:
{
  "hook_type": "one of: shock, relatable_moment, motivational, funny_pov, question, visual_shock, other",
  "hook_text": "the hook line as a string",
  "hook_seconds": 2.5,
  "plot_structure": "description of the plot structure as a single string",
  "story_arc": "short story arc label",
  "tone": "tone as a string",
  "emotion": "dominant emotion",
  "visual_style": "visual style description",
  "color_palette": ["color1", "color2"],
  "framing_style": "framing description",
  "camera_motion": "camera motion description",
  "character_aesthetics": ["aesthetic1"],
  "character_roles": ["role1"],
  "trend_category": "one of: motivational, gaming, animated_skits, sigma_edits, funny_pov, relationship, meme, other",
  "audio_style": "audio style description"
}

All free-text fields must be plain strings, not objects or arrays.`,
		candidate.Title,
		candidate.ChannelName,
		truncateString(candidate.Description, 500),
		strings.Join(candidate.Hashtags, " "),
		candidate.DurationSeconds,
		strings.TrimSpace(hookText.String()),
		truncateString(strings.TrimSpace(transcriptText.String()), 2000),
		frameNote,
	)
}

// defaultAnalysis is the fail-closed value: category and hook unknown,
// everything else empty, transcript carried through.
func (a *AnalysisAgent) defaultAnalysis(candidate models.Candidate, transcript []models.TranscriptSegment) models.Analysis {
	return models.Analysis{
		CandidateID:   candidate.ID,
		HookType:      models.HookOther,
		TrendCategory: models.CategoryOther,
		Transcript:    transcript,
	}
}

func parseHookType(s string) models.HookType {
	switch models.HookType(strings.ToLower(strings.TrimSpace(s))) {
	case models.HookShock, models.HookRelatable, models.HookMotivational,
		models.HookFunnyPOV, models.HookQuestion, models.HookVisualShock:
		return models.HookType(strings.ToLower(strings.TrimSpace(s)))
	default:
		return models.HookOther
	}
}

func parseTrendCategory(s string) models.TrendCategory {
	switch models.TrendCategory(strings.ToLower(strings.TrimSpace(s))) {
	case models.CategoryMotivational, models.CategoryGaming, models.CategoryAnimatedSkits,
		models.CategorySigmaEdits, models.CategoryFunnyPOV, models.CategoryRelationship,
		models.CategoryMeme:
		return models.TrendCategory(strings.ToLower(strings.TrimSpace(s)))
	default:
		return models.CategoryOther
	}
}
