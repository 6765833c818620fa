package discovery

import (
	"sort"
	"time"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

// BreakoutDetector flags channels whose coarse statistics look like recent
// explosive growth. All thresholds come from configuration; the shipped
// defaults are the calibration the detector was tuned with.
type BreakoutDetector struct {
	cfg config.BreakoutConfig
}

func NewBreakoutDetector(cfg config.BreakoutConfig) *BreakoutDetector {
	return &BreakoutDetector{cfg: cfg}
}

// Score evaluates one channel. Channels outside the subscriber band, with
// zero uploads, or older than the age cutoff are excluded outright with a
// zero score. A channel whose creation date is unknown is never excluded
// on age.
//
// The score accumulates three independent tiered signals:
//
//	sub-to-video ratio:  >100 → +3, >50 → +2, >20 → +1
//	view-to-sub ratio:   >100 → +2, >50 → +1
//	subscriber band:     sweet spot → +2, floor up to sweet spot → +1
//
// A channel is a breakout candidate iff the total reaches MinScore.
func (d *BreakoutDetector) Score(stats models.ChannelStats, now time.Time) (bool, int) {
	if stats.SubscriberCount < d.cfg.MinSubscribers || stats.SubscriberCount > d.cfg.MaxSubscribers {
		return false, 0
	}
	if stats.VideoCount == 0 {
		return false, 0
	}
	if !stats.CreatedAt.IsZero() {
		age := now.UTC().Sub(stats.CreatedAt.UTC())
		if age > time.Duration(d.cfg.MaxChannelDays)*24*time.Hour {
			return false, 0
		}
	}

	score := 0

	// Each upload bringing many subscribers is the strongest growth signal.
	switch ratio := stats.SubToVideoRatio(); {
	case ratio > 100:
		score += 3
	case ratio > 50:
		score += 2
	case ratio > 20:
		score += 1
	}

	switch ratio := stats.ViewToSubRatio(); {
	case ratio > 100:
		score += 2
	case ratio > 50:
		score += 1
	}

	switch subs := stats.SubscriberCount; {
	case subs >= d.cfg.SweetSpotMin && subs <= d.cfg.SweetSpotMax:
		score += 2
	case subs >= d.cfg.MinSubscribers && subs < d.cfg.SweetSpotMin:
		score += 1
	}

	return score >= d.cfg.MinScore, score
}

// RankedChannel pairs a channel with its breakout score.
type RankedChannel struct {
	Stats models.ChannelStats
	Score int
}

// TopCandidates scores every channel and returns the breakout candidates
// ordered by score descending, capped at the configured top-N. The cap
// bounds the per-channel item expansion that follows, which is the most
// expensive part of discovery.
func (d *BreakoutDetector) TopCandidates(channels []models.ChannelStats, now time.Time) []RankedChannel {
	var ranked []RankedChannel
	for _, stats := range channels {
		if ok, score := d.Score(stats, now); ok {
			ranked = append(ranked, RankedChannel{Stats: stats, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > d.cfg.TopChannels {
		ranked = ranked[:d.cfg.TopChannels]
	}
	return ranked
}
