package models

// VisualProfile summarizes the dominant look of a trend.
type VisualProfile struct {
	Style   string   `json:"style"`
	Colors  []string `json:"colors,omitempty"`
	Framing string   `json:"framing"`
	Camera  string   `json:"camera"`
}

// EditingPatterns describes pacing and cut structure mined across a trend.
type EditingPatterns struct {
	CutFrequency  string `json:"cut_frequency"`
	SceneDuration string `json:"scene_duration"`
	Transitions   string `json:"transitions"`
	Pacing        string `json:"pacing"`
}

// Blueprint is the aggregated pattern profile for one trend category,
// built from at least three analyses sharing that category.
// ConfidenceScore is min(samples/10, 1.0).
type Blueprint struct {
	TrendName     string        `json:"trend_name"`
	TrendCategory TrendCategory `json:"trend_category"`

	AverageLength float64  `json:"average_length"`
	HookSeconds   float64  `json:"hook_seconds"`
	HookWords     []string `json:"hook_words,omitempty"`

	CommonPlotArcs []string        `json:"common_plot_arcs,omitempty"`
	Editing        EditingPatterns `json:"editing_timing_patterns"`

	CTA           string `json:"cta,omitempty"`
	MemeArchetype string `json:"meme_archetype,omitempty"`

	Visual         VisualProfile `json:"visual_style"`
	CharacterTypes []string      `json:"character_types,omitempty"`

	ExampleIDs      []string `json:"example_video_ids,omitempty"`
	SampleCount     int      `json:"sample_count"`
	ConfidenceScore float64  `json:"confidence_score"`
}
