package discovery

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"trendforge/internal/models"
	"trendforge/shared/config"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// englishTags are the explicit language codes accepted by the discovery
// filter. Any other declared language excludes the video outright.
var englishTags = map[string]bool{"en": true, "en-us": true, "en-gb": true}

// YouTubeSource discovers shorts through the YouTube Data API using a
// developer key (no OAuth; discovery is read-only public data).
type YouTubeSource struct {
	service *youtube.Service
	cfg     config.DiscoveryConfig
}

func NewYouTubeSource(ctx context.Context, cfg config.DiscoveryConfig) (*YouTubeSource, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key not configured")
	}
	service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &YouTubeSource{service: service, cfg: cfg}, nil
}

// SearchChannelIDs finds the unique channels behind recent popular shorts.
// These are the raw input to breakout detection.
func (s *YouTubeSource) SearchChannelIDs(ctx context.Context, maxResults int64) ([]string, error) {
	publishedAfter := time.Now().UTC().AddDate(0, 0, -s.cfg.LookbackDays).Format(time.RFC3339)

	call := s.service.Search.List([]string{"snippet"}).
		Context(ctx).
		Q("#shorts").
		Type("video").
		MaxResults(maxResults).
		Order("viewCount").
		VideoDuration("short").
		RelevanceLanguage("en").
		PublishedAfter(publishedAfter)

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("shorts search failed: %w", err)
	}

	seen := make(map[string]bool)
	var channelIDs []string
	for _, item := range response.Items {
		id := item.Snippet.ChannelId
		if id != "" && !seen[id] {
			seen[id] = true
			channelIDs = append(channelIDs, id)
		}
	}
	sort.Strings(channelIDs)
	return channelIDs, nil
}

// ChannelStats fetches statistics for the given channels in batches of 50
// (the API limit per request). Batches that fail are logged and skipped.
func (s *YouTubeSource) ChannelStats(ctx context.Context, channelIDs []string) ([]models.ChannelStats, error) {
	const batchSize = 50

	var stats []models.ChannelStats
	for i := 0; i < len(channelIDs); i += batchSize {
		end := i + batchSize
		if end > len(channelIDs) {
			end = len(channelIDs)
		}

		call := s.service.Channels.List([]string{"snippet", "statistics"}).
			Context(ctx).
			Id(strings.Join(channelIDs[i:end], ","))

		response, err := call.Do()
		if err != nil {
			log.Printf("Failed to get channel stats for batch: %v", err)
			continue
		}

		for _, channel := range response.Items {
			if channel.Statistics == nil {
				continue
			}
			cs := models.ChannelStats{
				ChannelID:       channel.Id,
				SubscriberCount: int64(channel.Statistics.SubscriberCount),
				VideoCount:      int64(channel.Statistics.VideoCount),
				ViewCount:       int64(channel.Statistics.ViewCount),
			}
			if channel.Snippet != nil {
				cs.ChannelName = channel.Snippet.Title
				if createdAt, err := time.Parse(time.RFC3339, channel.Snippet.PublishedAt); err == nil {
					cs.CreatedAt = createdAt
				}
			}
			stats = append(stats, cs)
		}
	}
	return stats, nil
}

// ChannelShorts lists a channel's recent uploads and keeps the ones that
// look like shorts (duration at most 60s or a shorts tag in the title) and
// pass the explicit-language filter.
func (s *YouTubeSource) ChannelShorts(ctx context.Context, channelID string, maxResults int64) ([]models.Candidate, error) {
	channelsCall := s.service.Channels.List([]string{"contentDetails"}).
		Context(ctx).
		Id(channelID)
	channelsResponse, err := channelsCall.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel %s: %w", channelID, err)
	}
	if len(channelsResponse.Items) == 0 ||
		channelsResponse.Items[0].ContentDetails == nil ||
		channelsResponse.Items[0].ContentDetails.RelatedPlaylists == nil {
		return nil, fmt.Errorf("channel %s has no uploads playlist", channelID)
	}
	uploadsPlaylist := channelsResponse.Items[0].ContentDetails.RelatedPlaylists.Uploads

	playlistCall := s.service.PlaylistItems.List([]string{"contentDetails"}).
		Context(ctx).
		PlaylistId(uploadsPlaylist).
		MaxResults(maxResults)
	playlistResponse, err := playlistCall.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads for channel %s: %w", channelID, err)
	}

	var videoIDs []string
	for _, item := range playlistResponse.Items {
		if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
			videoIDs = append(videoIDs, item.ContentDetails.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return nil, nil
	}

	return s.videoDetails(ctx, videoIDs, true)
}

// SearchShorts is the supplemental plain search used when breakout
// discovery does not yield enough candidates.
func (s *YouTubeSource) SearchShorts(ctx context.Context, maxResults int64) ([]models.Candidate, error) {
	publishedAfter := time.Now().UTC().AddDate(0, 0, -7).Format(time.RFC3339)

	call := s.service.Search.List([]string{"snippet"}).
		Context(ctx).
		Q("#shorts").
		Type("video").
		MaxResults(min64(maxResults, 50)).
		Order("viewCount").
		VideoDuration("short").
		RelevanceLanguage("en").
		PublishedAfter(publishedAfter)

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("supplemental shorts search failed: %w", err)
	}

	var videoIDs []string
	for _, item := range response.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return nil, nil
	}

	return s.videoDetails(ctx, videoIDs, false)
}

// videoDetails fetches full statistics for the given video IDs in batches
// and converts them to candidates. With shortsOnly set, videos that are
// neither under 60s nor shorts-tagged are dropped.
func (s *YouTubeSource) videoDetails(ctx context.Context, videoIDs []string, shortsOnly bool) ([]models.Candidate, error) {
	const batchSize = 50

	var candidates []models.Candidate
	for i := 0; i < len(videoIDs); i += batchSize {
		end := i + batchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		call := s.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Context(ctx).
			Id(strings.Join(videoIDs[i:end], ","))

		response, err := call.Do()
		if err != nil {
			log.Printf("Failed to get video details for batch: %v", err)
			continue
		}

		for _, item := range response.Items {
			if item.Snippet == nil {
				continue
			}

			duration := 0.0
			if item.ContentDetails != nil {
				duration = parseDurationSeconds(item.ContentDetails.Duration)
			}
			if shortsOnly {
				titleLower := strings.ToLower(item.Snippet.Title)
				isShort := duration > 0 && duration <= 60
				hasTag := strings.Contains(titleLower, "#shorts") || strings.Contains(titleLower, "short")
				if !isShort && !hasTag {
					continue
				}
			}

			defaultLanguage := strings.ToLower(item.Snippet.DefaultLanguage)
			defaultAudioLanguage := strings.ToLower(item.Snippet.DefaultAudioLanguage)
			if defaultLanguage != "" && !englishTags[defaultLanguage] {
				continue
			}
			if defaultAudioLanguage != "" && !englishTags[defaultAudioLanguage] {
				continue
			}

			candidate := models.Candidate{
				ID:                   item.Id,
				URL:                  fmt.Sprintf("https://www.youtube.com/shorts/%s", item.Id),
				Title:                item.Snippet.Title,
				Description:          item.Snippet.Description,
				ChannelID:            item.Snippet.ChannelId,
				ChannelName:          item.Snippet.ChannelTitle,
				Hashtags:             ExtractHashtags(item.Snippet.Description),
				DurationSeconds:      duration,
				DefaultLanguage:      defaultLanguage,
				DefaultAudioLanguage: defaultAudioLanguage,
			}
			if uploadTime, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				candidate.UploadTime = uploadTime
			} else {
				// A candidate must carry a concrete instant; fall back to now
				// rather than a zero time that would distort velocity.
				candidate.UploadTime = time.Now().UTC()
			}
			if item.Statistics != nil {
				candidate.ViewCount = int64(item.Statistics.ViewCount)
				candidate.LikeCount = int64(item.Statistics.LikeCount)
			}

			candidates = append(candidates, candidate)
		}
	}
	return candidates, nil
}

var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractHashtags pulls unique hashtags out of free text, preserving first
// occurrence order.
func ExtractHashtags(text string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, tag := range hashtagPattern.FindAllString(text, -1) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// parseDurationSeconds parses an ISO 8601 duration (e.g. "PT1M30S") into
// seconds. Malformed input yields 0.
func parseDurationSeconds(duration string) float64 {
	if duration == "" {
		return 0
	}

	re := regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)
	matches := re.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds float64
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += float64(hours) * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += float64(minutes) * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += float64(seconds)
		}
	}
	return totalSeconds
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
