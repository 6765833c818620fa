package models

import "time"

// Candidate is a discovered short-form video under evaluation.
// Counters are never negative and UploadTime is always a concrete instant;
// the discovery source enforces both when it constructs a Candidate.
type Candidate struct {
	ID                   string    `json:"id"`
	URL                  string    `json:"url"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	ChannelID            string    `json:"channel_id"`
	ChannelName          string    `json:"channel_name"`
	ViewCount            int64     `json:"view_count"`
	LikeCount            int64     `json:"like_count"`
	UploadTime           time.Time `json:"upload_time"`
	Hashtags             []string  `json:"hashtags"`
	DurationSeconds      float64   `json:"duration_seconds"`
	DefaultLanguage      string    `json:"default_language,omitempty"`
	DefaultAudioLanguage string    `json:"default_audio_language,omitempty"`
}

// ChannelStats holds the coarse channel statistics the breakout detector
// scores. CreatedAt may be zero when the API does not report a creation
// date; age is then not a disqualifier.
type ChannelStats struct {
	ChannelID       string    `json:"channel_id"`
	ChannelName     string    `json:"channel_name"`
	SubscriberCount int64     `json:"subscriber_count"`
	VideoCount      int64     `json:"video_count"`
	ViewCount       int64     `json:"view_count"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// SubToVideoRatio returns subscribers per uploaded video with a minimum
// denominator of 1.
func (s ChannelStats) SubToVideoRatio() float64 {
	return float64(s.SubscriberCount) / float64(max64(s.VideoCount, 1))
}

// ViewToSubRatio returns cumulative views per subscriber with a minimum
// denominator of 1.
func (s ChannelStats) ViewToSubRatio() float64 {
	return float64(s.ViewCount) / float64(max64(s.SubscriberCount, 1))
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
