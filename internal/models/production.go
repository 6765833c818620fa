package models

import "time"

// ProductionJob is one request to render a script into media.
type ProductionJob struct {
	Script          Script           `json:"script"`
	ReferenceFrames []ReferenceFrame `json:"reference_frames,omitempty"`
	StylePrompt     string           `json:"style_prompt"`
	CameraMotion    string           `json:"camera_motion_instructions"`
	// Preference, when set, overrides backend selection entirely.
	Preference string `json:"generator_preference,omitempty"`
}

// GeneratedArtifact is the output of one production job. Production always
// yields an artifact; when every backend fails the path points at a local
// placeholder and Placeholder is true.
type GeneratedArtifact struct {
	MediaPath   string        `json:"media_path"`
	ScriptTitle string        `json:"script_title"`
	Backend     string        `json:"generator_used"`
	Elapsed     time.Duration `json:"generation_time"`
	Placeholder bool          `json:"placeholder,omitempty"`
}

// PublishingMetadata is the per-upload metadata produced ahead of publishing.
type PublishingMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags,omitempty"`
	Platforms   []string `json:"platforms"`
}

// PublishResult is the outcome of publishing to a single platform.
type PublishResult struct {
	Status  string `json:"status"` // "success", "error", "skipped"
	VideoID string `json:"video_id,omitempty"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}
