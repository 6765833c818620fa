package discovery

import (
	"sort"
	"time"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

// ViralityScore computes the weighted virality heuristic for one candidate:
//
//	hours_old       = max(hours since upload, 1)
//	view_velocity   = views / hours_old
//	engagement_rate = likes / max(views, 1)
//	score           = w.Velocity*view_velocity + w.Engagement*(engagement_rate*10000) +
//	                  w.Views*(views*0.0001) + w.Recency*(100/hours_old)
//
// Both instants are normalized to UTC before subtracting, so candidates
// sourced with mixed zone information compare cleanly. Future or
// exactly-now upload times clamp hours_old to 1, keeping the score finite.
func ViralityScore(c models.Candidate, now time.Time, w config.ViralityWeights) float64 {
	hoursOld := now.UTC().Sub(c.UploadTime.UTC()).Hours()
	if hoursOld < 1 {
		hoursOld = 1
	}

	views := float64(c.ViewCount)
	viewVelocity := views / hoursOld
	engagementRate := float64(c.LikeCount) / maxf(views, 1)

	return w.Velocity*viewVelocity +
		w.Engagement*(engagementRate*10000) +
		w.Views*(views*0.0001) +
		w.Recency*(100/hoursOld)
}

// RankByVirality returns the candidates ordered by descending virality
// score. The sort is stable, so equal scores keep their input order, and
// the result is always a permutation of the input.
func RankByVirality(candidates []models.Candidate, now time.Time, w config.ViralityWeights) []models.Candidate {
	type scored struct {
		candidate models.Candidate
		score     float64
	}

	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{candidate: c, score: ViralityScore(c, now, w)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]models.Candidate, len(ranked))
	for i, s := range ranked {
		out[i] = s.candidate
	}
	return out
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
