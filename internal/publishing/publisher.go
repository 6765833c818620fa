package publishing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

// Uploader publishes one artifact to one platform and returns its remote ID.
type Uploader interface {
	Upload(ctx context.Context, artifact models.GeneratedArtifact, meta models.PublishingMetadata) (string, error)
}

// Publisher fans an artifact out to the configured platforms. Each
// platform succeeds or fails independently; one failed upload never blocks
// the others.
type Publisher struct {
	cfg       config.PublishingConfig
	uploaders map[string]Uploader
}

func NewPublisher(cfg config.PublishingConfig) *Publisher {
	p := &Publisher{
		cfg:       cfg,
		uploaders: make(map[string]Uploader),
	}

	if cfg.TestMode {
		log.Println("Publishing in test mode, uploads stay local")
		return p
	}

	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		yt, err := NewYouTubeUploader(cfg)
		if err != nil {
			log.Printf("YouTube uploader unavailable: %v", err)
		} else {
			p.uploaders["youtube"] = yt
		}
	}

	return p
}

// NewPublisherWithUploaders is for tests that substitute uploaders.
func NewPublisherWithUploaders(cfg config.PublishingConfig, uploaders map[string]Uploader) *Publisher {
	return &Publisher{cfg: cfg, uploaders: uploaders}
}

// Publish uploads the artifact to every configured platform and returns a
// per-platform result map. The map always has one entry per platform.
func (p *Publisher) Publish(ctx context.Context, artifact models.GeneratedArtifact, meta models.PublishingMetadata) map[string]models.PublishResult {
	results := make(map[string]models.PublishResult, len(p.cfg.Platforms))

	for _, platform := range p.cfg.Platforms {
		results[platform] = p.publishOne(ctx, platform, artifact, meta)
	}

	return results
}

func (p *Publisher) publishOne(ctx context.Context, platform string, artifact models.GeneratedArtifact, meta models.PublishingMetadata) models.PublishResult {
	if p.cfg.TestMode {
		return p.publishLocal(platform, artifact, meta)
	}

	uploader, ok := p.uploaders[platform]
	if !ok {
		return models.PublishResult{
			Status: "skipped",
			Error:  fmt.Sprintf("platform %s not configured", platform),
		}
	}

	videoID, err := uploader.Upload(ctx, artifact, meta)
	if err != nil {
		log.Printf("Publishing to %s failed: %v", platform, err)
		return models.PublishResult{Status: "error", Error: err.Error()}
	}

	result := models.PublishResult{Status: "success", VideoID: videoID}
	if platform == "youtube" {
		result.URL = "https://www.youtube.com/watch?v=" + videoID
	}
	return result
}

// publishLocal copies the artifact into the test directory next to a JSON
// description of what would have been uploaded.
func (p *Publisher) publishLocal(platform string, artifact models.GeneratedArtifact, meta models.PublishingMetadata) models.PublishResult {
	destDir := filepath.Join(p.cfg.TestDir, platform)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return models.PublishResult{Status: "error", Error: err.Error()}
	}

	destPath := filepath.Join(destDir, filepath.Base(artifact.MediaPath))
	if err := copyFile(artifact.MediaPath, destPath); err != nil {
		return models.PublishResult{Status: "error", Error: err.Error()}
	}

	metaPath := strings.TrimSuffix(destPath, filepath.Ext(destPath)) + ".json"
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err == nil {
		err = os.WriteFile(metaPath, metaJSON, 0644)
	}
	if err != nil {
		return models.PublishResult{Status: "error", Error: err.Error()}
	}

	log.Printf("Test-mode publish for %s saved to %s", platform, destPath)
	return models.PublishResult{Status: "success", VideoID: "test-" + platform, URL: destPath}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
