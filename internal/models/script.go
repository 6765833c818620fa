package models

// Shot is one entry in a script's shot list.
type Shot struct {
	ShotNumber     int      `json:"shot_number"`
	Description    string   `json:"description"`
	Duration       float64  `json:"duration"`
	VisualElements []string `json:"visual_elements,omitempty"`
	CameraAction   string   `json:"camera_action"`
}

// DialogueLine is one spoken or narrated line with its timestamp.
type DialogueLine struct {
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
}

// Script is a generated video script derived from a blueprint.
type Script struct {
	Title             string         `json:"title"`
	ScriptText        string         `json:"script_text"`
	ShotList          []Shot         `json:"shot_list,omitempty"`
	VisualStyle       string         `json:"visual_style_instructions"`
	CameraMotion      []string       `json:"camera_motion,omitempty"`
	Dialogue          []DialogueLine `json:"dialogue,omitempty"`
	Captions          []string       `json:"caption_text,omitempty"`
	EstimatedDuration float64        `json:"estimated_duration"`
	BlueprintName     string         `json:"trend_blueprint,omitempty"`
}
