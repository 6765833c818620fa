package models

// TranscriptSegment is one timed chunk of speech. Segments are ordered by
// StartTime; overlap is allowed when the producing method does not
// guarantee disjoint timing.
type TranscriptSegment struct {
	Text       string  `json:"text"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Confidence float64 `json:"confidence"`
}

// ReferenceFrame is a still extracted from a candidate's media at a key
// moment, used as visual grounding for analysis and production.
type ReferenceFrame struct {
	FramePath   string   `json:"frame_path"`
	Timestamp   float64  `json:"timestamp"`
	Description string   `json:"description"`
	StyleTags   []string `json:"style_tags,omitempty"`
}

// Extraction bundles everything pulled out of one candidate's media.
// Any field may be empty; downstream stages tolerate partial extractions.
type Extraction struct {
	MediaPath       string              `json:"media_path"`
	Frames          []string            `json:"frames"`
	Transcript      []TranscriptSegment `json:"transcript"`
	ReferenceFrames []ReferenceFrame    `json:"reference_frames"`
}
