package discovery

import (
	"context"
	"log"
	"time"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

// Source is the external candidate source behind the discovery agent.
// *YouTubeSource is the production implementation; tests supply stubs.
type Source interface {
	SearchChannelIDs(ctx context.Context, maxResults int64) ([]string, error)
	ChannelStats(ctx context.Context, channelIDs []string) ([]models.ChannelStats, error)
	ChannelShorts(ctx context.Context, channelID string, maxResults int64) ([]models.Candidate, error)
	SearchShorts(ctx context.Context, maxResults int64) ([]models.Candidate, error)
}

// Agent runs the discovery stage: breakout channel detection, per-channel
// expansion, supplemental search, quality filtering and virality ranking.
type Agent struct {
	source   Source
	detector *BreakoutDetector
	cfg      config.DiscoveryConfig
	now      func() time.Time
}

func NewAgent(source Source, cfg config.DiscoveryConfig) *Agent {
	return &Agent{
		source:   source,
		detector: NewBreakoutDetector(cfg.Breakout),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Discover returns up to maxCandidates ranked candidates. Partial source
// failures are logged and absorbed; a smaller (or empty) result is valid.
func (a *Agent) Discover(ctx context.Context, maxCandidates int) ([]models.Candidate, error) {
	if maxCandidates <= 0 {
		maxCandidates = a.cfg.MaxCandidates
	}

	log.Printf("Discovering trending shorts via breakout channel analysis (max: %d)", maxCandidates)

	candidates := a.breakoutShorts(ctx, maxCandidates)
	log.Printf("Found %d videos from breakout channels", len(candidates))

	// Supplement with a plain search when breakout yield is thin.
	if len(candidates) < maxCandidates/2 {
		supplemental, err := a.source.SearchShorts(ctx, int64(maxCandidates/2))
		if err != nil {
			log.Printf("Supplemental search failed: %v", err)
		} else {
			log.Printf("Found %d videos via supplemental search", len(supplemental))
			candidates = append(candidates, supplemental...)
		}
	}

	candidates = dedupeByID(candidates)

	var filtered []models.Candidate
	for _, c := range candidates {
		if c.ViewCount > a.cfg.MinViewCount {
			filtered = append(filtered, c)
		}
	}
	log.Printf("After view floor (> %d): %d videos remain", a.cfg.MinViewCount, len(filtered))

	ranked := RankByVirality(filtered, a.now(), a.cfg.Virality)
	if len(ranked) > maxCandidates {
		ranked = ranked[:maxCandidates]
	}
	log.Printf("Returning %d ranked candidates", len(ranked))
	return ranked, nil
}

func (a *Agent) breakoutShorts(ctx context.Context, maxCandidates int) []models.Candidate {
	channelIDs, err := a.source.SearchChannelIDs(ctx, 50)
	if err != nil {
		log.Printf("Channel search failed, skipping breakout discovery: %v", err)
		return nil
	}
	log.Printf("Found %d unique channels from recent shorts", len(channelIDs))

	stats, err := a.source.ChannelStats(ctx, channelIDs)
	if err != nil {
		log.Printf("Channel stats lookup failed, skipping breakout discovery: %v", err)
		return nil
	}

	top := a.detector.TopCandidates(stats, a.now())
	for _, rc := range top {
		log.Printf("Breakout channel: %s (subs: %d, videos: %d, score: %d)",
			rc.Stats.ChannelName, rc.Stats.SubscriberCount, rc.Stats.VideoCount, rc.Score)
	}

	var candidates []models.Candidate
	for _, rc := range top {
		shorts, err := a.source.ChannelShorts(ctx, rc.Stats.ChannelID, 10)
		if err != nil {
			log.Printf("Error getting videos from channel %s: %v", rc.Stats.ChannelID, err)
			continue
		}
		candidates = append(candidates, shorts...)
		if len(candidates) >= maxCandidates {
			candidates = candidates[:maxCandidates]
			break
		}
	}
	return candidates
}

func dedupeByID(candidates []models.Candidate) []models.Candidate {
	seen := make(map[string]bool, len(candidates))
	var out []models.Candidate
	for _, c := range candidates {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}
