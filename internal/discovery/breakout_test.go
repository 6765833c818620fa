package discovery

import (
	"testing"
	"time"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

func testBreakoutConfig() config.BreakoutConfig {
	return config.BreakoutConfig{
		MinSubscribers: 1000,
		MaxSubscribers: 2000000,
		SweetSpotMin:   10000,
		SweetSpotMax:   500000,
		MaxChannelDays: 730,
		MinScore:       3,
		TopChannels:    10,
	}
}

func TestBreakoutScoreExclusions(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	detector := NewBreakoutDetector(testBreakoutConfig())

	tests := []struct {
		name  string
		stats models.ChannelStats
	}{
		{
			name:  "below subscriber floor",
			stats: models.ChannelStats{SubscriberCount: 999, VideoCount: 5, ViewCount: 1000000},
		},
		{
			name:  "above subscriber ceiling",
			stats: models.ChannelStats{SubscriberCount: 2000001, VideoCount: 5, ViewCount: 1000000},
		},
		{
			name:  "zero uploads",
			stats: models.ChannelStats{SubscriberCount: 50000, VideoCount: 0, ViewCount: 1000000},
		},
		{
			name: "too old",
			stats: models.ChannelStats{
				SubscriberCount: 50000, VideoCount: 5, ViewCount: 1000000,
				CreatedAt: now.AddDate(-3, 0, 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, score := detector.Score(tt.stats, now)
			if ok || score != 0 {
				t.Errorf("Score() = (%v, %d), expected excluded with zero score", ok, score)
			}
		})
	}
}

func TestBreakoutScoreUnknownAgeNotExcluded(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	detector := NewBreakoutDetector(testBreakoutConfig())

	// Strong signals, no creation date reported.
	stats := models.ChannelStats{
		SubscriberCount: 50000,
		VideoCount:      100,
		ViewCount:       10000000,
	}

	ok, score := detector.Score(stats, now)
	if !ok {
		t.Errorf("channel with unknown age should not be excluded, got score %d", score)
	}
}

func TestBreakoutScoreTiers(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	detector := NewBreakoutDetector(testBreakoutConfig())
	created := now.AddDate(0, -6, 0)

	tests := []struct {
		name      string
		stats     models.ChannelStats
		wantOK    bool
		wantScore int
	}{
		{
			name: "all signals maxed",
			// ratio 1010/video, 200 views/sub, mid band: 3+2+2
			stats: models.ChannelStats{
				SubscriberCount: 101000, VideoCount: 100, ViewCount: 20200000, CreatedAt: created,
			},
			wantOK:    true,
			wantScore: 7,
		},
		{
			name: "ratio boundary at exactly 100 takes the middle tier",
			// 100 subs/video is not >100, so +2 not +3; views/sub 10 adds nothing;
			// 10000 subs lands in the 10K-500K band for +2
			stats: models.ChannelStats{
				SubscriberCount: 10000, VideoCount: 100, ViewCount: 100000, CreatedAt: created,
			},
			wantOK:    true,
			wantScore: 4,
		},
		{
			name: "ratio just above 100 takes the top tier",
			stats: models.ChannelStats{
				SubscriberCount: 10100, VideoCount: 100, ViewCount: 100000, CreatedAt: created,
			},
			wantOK:    true,
			wantScore: 5,
		},
		{
			name: "weak signals below the candidate threshold",
			// 10 subs/video, 1 view/sub, small band +1 only
			stats: models.ChannelStats{
				SubscriberCount: 5000, VideoCount: 500, ViewCount: 5000, CreatedAt: created,
			},
			wantOK:    false,
			wantScore: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, score := detector.Score(tt.stats, now)
			if ok != tt.wantOK || score != tt.wantScore {
				t.Errorf("Score() = (%v, %d), expected (%v, %d)", ok, score, tt.wantOK, tt.wantScore)
			}
		})
	}
}

func TestBreakoutScoreSweetSpotFollowsConfig(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	cfg := testBreakoutConfig()
	cfg.SweetSpotMin = 50000
	cfg.SweetSpotMax = 100000
	detector := NewBreakoutDetector(cfg)
	created := now.AddDate(0, -6, 0)

	// 10000 subs sits below the shifted sweet spot: ratio +2, band +1.
	ok, score := detector.Score(models.ChannelStats{
		SubscriberCount: 10000, VideoCount: 100, ViewCount: 100000, CreatedAt: created,
	}, now)
	if !ok || score != 3 {
		t.Errorf("Score() below shifted sweet spot = (%v, %d), expected (true, 3)", ok, score)
	}

	// 75000 subs lands inside it: ratio +3, band +2.
	ok, score = detector.Score(models.ChannelStats{
		SubscriberCount: 75000, VideoCount: 100, ViewCount: 100000, CreatedAt: created,
	}, now)
	if !ok || score != 5 {
		t.Errorf("Score() inside shifted sweet spot = (%v, %d), expected (true, 5)", ok, score)
	}
}

func TestTopCandidates(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	cfg := testBreakoutConfig()
	cfg.TopChannels = 2
	detector := NewBreakoutDetector(cfg)
	created := now.AddDate(0, -6, 0)

	channels := []models.ChannelStats{
		{ChannelID: "weak", SubscriberCount: 5000, VideoCount: 500, ViewCount: 5000, CreatedAt: created},
		{ChannelID: "strong", SubscriberCount: 101000, VideoCount: 100, ViewCount: 20200000, CreatedAt: created},
		{ChannelID: "mid", SubscriberCount: 10000, VideoCount: 100, ViewCount: 100000, CreatedAt: created},
		{ChannelID: "decent", SubscriberCount: 10100, VideoCount: 100, ViewCount: 100000, CreatedAt: created},
	}

	top := detector.TopCandidates(channels, now)

	if len(top) != 2 {
		t.Fatalf("expected cap at 2 channels, got %d", len(top))
	}
	if top[0].Stats.ChannelID != "strong" || top[1].Stats.ChannelID != "decent" {
		t.Errorf("unexpected top channels: %s, %s", top[0].Stats.ChannelID, top[1].Stats.ChannelID)
	}
}
