package models

import "time"

// ResultEnvelope is the partial-results output of one pipeline run. Each
// field is populated only as far as the run progressed; a smaller envelope
// is valid output, not an error. Error is set only when a failure escapes
// every stage-level isolation boundary.
type ResultEnvelope struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	Discovered []Candidate `json:"discovered_videos"`
	Analyses   []Analysis  `json:"analyses"`
	Blueprints []Blueprint `json:"blueprints"`

	GeneratedScript *Script                  `json:"generated_script,omitempty"`
	GeneratedVideo  *GeneratedArtifact       `json:"generated_video,omitempty"`
	PublishResults  map[string]PublishResult `json:"publishing_results,omitempty"`

	Error string `json:"error,omitempty"`
}
