package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"trendforge/internal/models"
)

// ScriptAgent turns the highest-confidence blueprint into an original
// script. Model failures degrade to a deterministic script assembled from
// the blueprint's own fields.
type ScriptAgent struct {
	llm *LLM
}

func NewScriptAgent(llm *LLM) *ScriptAgent {
	return &ScriptAgent{llm: llm}
}

type scriptResponse struct {
	Title        string             `json:"title"`
	ScriptText   json.RawMessage    `json:"script_text"`
	ShotList     []shotResponse     `json:"shot_list"`
	VisualStyle  json.RawMessage    `json:"visual_style_instructions"`
	CameraMotion json.RawMessage    `json:"camera_motion"`
	Dialogue     []dialogueResponse `json:"dialogue"`
	Captions     json.RawMessage    `json:"caption_text"`
	Duration     float64            `json:"estimated_duration"`
}

type shotResponse struct {
	ShotNumber     int             `json:"shot_number"`
	Description    json.RawMessage `json:"description"`
	Duration       float64         `json:"duration"`
	VisualElements json.RawMessage `json:"visual_elements"`
	CameraAction   json.RawMessage `json:"camera_action"`
}

type dialogueResponse struct {
	Speaker   json.RawMessage `json:"speaker"`
	Text      json.RawMessage `json:"text"`
	Timestamp float64         `json:"timestamp"`
}

// Generate produces a script following the blueprint's patterns. The
// returned script is always usable.
func (s *ScriptAgent) Generate(ctx context.Context, blueprint models.Blueprint) (*models.Script, error) {
	log.Printf("Generating script for trend %s (confidence %.2f)", blueprint.TrendName, blueprint.ConfidenceScore)

	if s.llm == nil {
		return s.fallbackScript(blueprint), nil
	}

	jsonStr, err := s.llm.GenerateJSON(ctx, s.buildPrompt(blueprint))
	if err != nil {
		log.Printf("Script generation failed, using blueprint-derived fallback: %v", err)
		return s.fallbackScript(blueprint), nil
	}

	var resp scriptResponse
	if err := unmarshalLenient(jsonStr, &resp); err != nil {
		log.Printf("Script parsing failed, using blueprint-derived fallback: %v", err)
		return s.fallbackScript(blueprint), nil
	}

	script := &models.Script{
		Title:             resp.Title,
		ScriptText:        normalizeString(resp.ScriptText),
		VisualStyle:       normalizeString(resp.VisualStyle),
		CameraMotion:      normalizeStringList(resp.CameraMotion),
		Captions:          normalizeStringList(resp.Captions),
		EstimatedDuration: resp.Duration,
		BlueprintName:     blueprint.TrendName,
	}
	for _, shot := range resp.ShotList {
		script.ShotList = append(script.ShotList, models.Shot{
			ShotNumber:     shot.ShotNumber,
			Description:    normalizeString(shot.Description),
			Duration:       shot.Duration,
			VisualElements: normalizeStringList(shot.VisualElements),
			CameraAction:   normalizeString(shot.CameraAction),
		})
	}
	for _, line := range resp.Dialogue {
		script.Dialogue = append(script.Dialogue, models.DialogueLine{
			Speaker:   normalizeString(line.Speaker),
			Text:      normalizeString(line.Text),
			Timestamp: line.Timestamp,
		})
	}

	if script.Title == "" {
		script.Title = fallbackTitle(blueprint)
	}
	if script.ScriptText == "" {
		return s.fallbackScript(blueprint), nil
	}
	if script.EstimatedDuration <= 0 {
		script.EstimatedDuration = blueprint.AverageLength
	}

	return script, nil
}

func (s *ScriptAgent) buildPrompt(blueprint models.Blueprint) string {
	return fmt.Sprintf(`You are a viral short-form video scriptwriter. Write an ORIGINAL script that follows this trend's proven patterns without copying any specific video.

TREND BLUEPRINT:
Category: %s
Target length: %.0f seconds
Hook must land within: %.1f seconds
Hook words that perform well: %s
Common plot arcs: %s
Editing pacing: %s
Visual style: %s (framing: %s, camera: %s)
Character types: %s
Call to action pattern: %s

Respond ONLY with JSON:
{
  "title": "catchy title",
  "script_text": "the full script as one string",
  "shot_list": [
    {"shot_number": 1, "description": "what the shot shows", "duration": 3.0, "visual_elements": ["element"], "camera_action": "static/pan/zoom"}
  ],
  "visual_style_instructions": "style guidance for the video generator",
  "camera_motion": ["motion instruction per shot"],
  "dialogue": [
    {"speaker": "narrator", "text": "line", "timestamp": 0.0}
  ],
  "caption_text": ["on-screen caption"],
  "estimated_duration": %.0f
}

All free-text fields must be plain strings, not objects or arrays.`,
		blueprint.TrendCategory,
		blueprint.AverageLength,
		blueprint.HookSeconds,
		strings.Join(blueprint.HookWords, ", "),
		strings.Join(blueprint.CommonPlotArcs, "; "),
		blueprint.Editing.Pacing,
		blueprint.Visual.Style,
		blueprint.Visual.Framing,
		blueprint.Visual.Camera,
		strings.Join(blueprint.CharacterTypes, ", "),
		blueprint.CTA,
		blueprint.AverageLength,
	)
}

// fallbackScript assembles a minimal but complete script from blueprint
// fields alone: one hook shot, static camera, the blueprint's visual style.
func (s *ScriptAgent) fallbackScript(blueprint models.Blueprint) *models.Script {
	hook := "You won't believe this"
	if len(blueprint.HookWords) > 0 {
		hook = strings.Join(blueprint.HookWords[:min(3, len(blueprint.HookWords))], " ")
	}

	duration := blueprint.AverageLength
	if duration <= 0 {
		duration = 15.0
	}

	return &models.Script{
		Title:      fallbackTitle(blueprint),
		ScriptText: fmt.Sprintf("%s. A short %s video following the trend's common arc.", hook, blueprint.TrendCategory),
		ShotList: []models.Shot{
			{
				ShotNumber:   1,
				Description:  fmt.Sprintf("Opening hook in the trend's %s style", blueprint.Visual.Style),
				Duration:     duration,
				CameraAction: "static",
			},
		},
		VisualStyle:       blueprint.Visual.Style,
		CameraMotion:      []string{"static"},
		EstimatedDuration: duration,
		BlueprintName:     blueprint.TrendName,
	}
}

func fallbackTitle(blueprint models.Blueprint) string {
	name := strings.TrimSuffix(blueprint.TrendName, "_trend")
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ") + " Short"
}
