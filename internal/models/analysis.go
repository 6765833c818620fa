package models

// TrendCategory classifies what kind of trend a candidate belongs to.
type TrendCategory string

const (
	CategoryMotivational  TrendCategory = "motivational"
	CategoryGaming        TrendCategory = "gaming"
	CategoryAnimatedSkits TrendCategory = "animated_skits"
	CategorySigmaEdits    TrendCategory = "sigma_edits"
	CategoryFunnyPOV      TrendCategory = "funny_pov"
	CategoryRelationship  TrendCategory = "relationship"
	CategoryMeme          TrendCategory = "meme"
	CategoryOther         TrendCategory = "other"
)

// HookType classifies the opening device of a video.
type HookType string

const (
	HookShock        HookType = "shock"
	HookRelatable    HookType = "relatable_moment"
	HookMotivational HookType = "motivational"
	HookFunnyPOV     HookType = "funny_pov"
	HookQuestion     HookType = "question"
	HookVisualShock  HookType = "visual_shock"
	HookOther        HookType = "other"
)

// Analysis is the structured result of analyzing one candidate.
// Free-text fields are always plain strings: the analysis collaborator
// normalizes any structured value the model emits before it lands here.
type Analysis struct {
	CandidateID string   `json:"candidate_id"`
	HookType    HookType `json:"hook_type"`
	HookText    string   `json:"hook_text,omitempty"`
	HookSeconds float64  `json:"hook_seconds"`

	PlotStructure string `json:"plot_structure"`
	StoryArc      string `json:"story_arc"`
	Tone          string `json:"tone"`
	Emotion       string `json:"emotion"`

	VisualStyle  string   `json:"visual_style"`
	ColorPalette []string `json:"color_palette,omitempty"`
	FramingStyle string   `json:"framing_style"`
	CameraMotion string   `json:"camera_motion"`

	CharacterAesthetics []string `json:"character_aesthetics,omitempty"`
	CharacterRoles      []string `json:"character_roles,omitempty"`

	TrendCategory TrendCategory `json:"trend_category"`
	AudioStyle    string        `json:"audio_style"`

	Transcript []TranscriptSegment `json:"transcript,omitempty"`
}
