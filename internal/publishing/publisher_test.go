package publishing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

type stubUploader struct {
	videoID string
	err     error
}

func (u *stubUploader) Upload(ctx context.Context, artifact models.GeneratedArtifact, meta models.PublishingMetadata) (string, error) {
	return u.videoID, u.err
}

func writeArtifact(t *testing.T) models.GeneratedArtifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, []byte("video bytes"), 0644); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}
	return models.GeneratedArtifact{MediaPath: path, ScriptTitle: "Test"}
}

func testMeta() models.PublishingMetadata {
	return models.PublishingMetadata{
		Title:       "Test Upload",
		Description: "description",
		Hashtags:    []string{"#shorts"},
		Platforms:   []string{"youtube"},
	}
}

func TestPublishTestModeSavesLocally(t *testing.T) {
	cfg := config.PublishingConfig{
		Platforms: []string{"youtube", "tiktok"},
		TestMode:  true,
		TestDir:   t.TempDir(),
	}
	publisher := NewPublisher(cfg)

	results := publisher.Publish(context.Background(), writeArtifact(t), testMeta())

	if len(results) != 2 {
		t.Fatalf("expected one result per platform, got %d", len(results))
	}
	for platform, result := range results {
		if result.Status != "success" {
			t.Errorf("%s: expected success in test mode, got %s (%s)", platform, result.Status, result.Error)
		}
		if _, err := os.Stat(result.URL); err != nil {
			t.Errorf("%s: saved artifact missing at %s", platform, result.URL)
		}
		metaPath := result.URL[:len(result.URL)-len(filepath.Ext(result.URL))] + ".json"
		if _, err := os.Stat(metaPath); err != nil {
			t.Errorf("%s: metadata description missing at %s", platform, metaPath)
		}
	}
}

func TestPublishIsolatesPlatformFailures(t *testing.T) {
	cfg := config.PublishingConfig{Platforms: []string{"youtube", "tiktok", "instagram"}}
	publisher := NewPublisherWithUploaders(cfg, map[string]Uploader{
		"youtube": &stubUploader{videoID: "abc123"},
		"tiktok":  &stubUploader{err: fmt.Errorf("rate limited")},
	})

	results := publisher.Publish(context.Background(), writeArtifact(t), testMeta())

	if results["youtube"].Status != "success" || results["youtube"].VideoID != "abc123" {
		t.Errorf("unexpected youtube result: %+v", results["youtube"])
	}
	if results["youtube"].URL != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("unexpected youtube URL: %s", results["youtube"].URL)
	}
	if results["tiktok"].Status != "error" {
		t.Errorf("failed upload should report error, got %+v", results["tiktok"])
	}
	if results["instagram"].Status != "skipped" {
		t.Errorf("unconfigured platform should be skipped, got %+v", results["instagram"])
	}
}
