package production

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

// Producer turns production jobs into media artifacts. It never returns
// without an artifact: when the selected backend fails (or none is
// configured) the job degrades to a local placeholder.
type Producer struct {
	cfg      config.ProductionConfig
	backends map[string]Backend
}

func NewProducer(cfg config.ProductionConfig) *Producer {
	backends := make(map[string]Backend)
	register := func(name, submitURL, statusURL, apiKey string) {
		if apiKey == "" {
			return
		}
		backends[name] = newRESTBackend(name, submitURL, statusURL, apiKey,
			cfg.PollMaxAttempts, cfg.PollIntervalSec)
	}
	register("runway", "https://api.dev.runwayml.com/v1/image_to_video",
		"https://api.dev.runwayml.com/v1/tasks/%s", cfg.RunwayAPIKey)
	register("pika", "https://api.pika.art/v1/generate",
		"https://api.pika.art/v1/jobs/%s", cfg.PikaAPIKey)
	register("kling", "https://api.klingai.com/v1/videos/text2video",
		"https://api.klingai.com/v1/videos/text2video/%s", cfg.KlingAPIKey)
	register("luma", "https://api.lumalabs.ai/dream-machine/v1/generations",
		"https://api.lumalabs.ai/dream-machine/v1/generations/%s", cfg.LumaAPIKey)

	return &Producer{cfg: cfg, backends: backends}
}

// NewProducerWithBackends is for tests that substitute backends.
func NewProducerWithBackends(cfg config.ProductionConfig, backends map[string]Backend) *Producer {
	return &Producer{cfg: cfg, backends: backends}
}

// Configured reports which backends have credentials.
func (p *Producer) Configured() map[string]bool {
	configured := make(map[string]bool, len(p.backends))
	for name := range p.backends {
		configured[name] = true
	}
	return configured
}

// Produce generates media for the job. The returned artifact is always
// non-nil; Placeholder marks a degraded result.
func (p *Producer) Produce(ctx context.Context, job models.ProductionJob) (*models.GeneratedArtifact, error) {
	start := time.Now()

	if err := os.MkdirAll(p.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	outputPath := filepath.Join(p.cfg.OutputDir, artifactName(job.Script.Title))

	name := SelectGenerator(job.StylePrompt, job.Preference, p.cfg.DefaultBackend, p.Configured())
	log.Printf("Selected generator %s for %q", name, job.Script.Title)

	if backend, ok := p.backends[name]; ok {
		if err := backend.Generate(ctx, job, outputPath); err == nil {
			return &models.GeneratedArtifact{
				MediaPath:   outputPath,
				ScriptTitle: job.Script.Title,
				Backend:     name,
				Elapsed:     time.Since(start),
			}, nil
		} else {
			log.Printf("Backend %s failed, falling back to placeholder: %v", name, err)
		}
	} else {
		log.Printf("Backend %s not configured, producing placeholder", name)
	}

	placeholderPath, err := writePlaceholder(ctx, job.Script.Title, job.Script.ScriptText, outputPath)
	if err != nil {
		return nil, fmt.Errorf("placeholder fallback failed: %w", err)
	}
	return &models.GeneratedArtifact{
		MediaPath:   placeholderPath,
		ScriptTitle: job.Script.Title,
		Backend:     "placeholder",
		Elapsed:     time.Since(start),
		Placeholder: true,
	}, nil
}

// artifactName makes a filesystem-safe file name from a script title.
func artifactName(title string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		default:
			return -1
		}
	}, title)
	if safe == "" {
		safe = "generated"
	}
	if len(safe) > 60 {
		safe = safe[:60]
	}
	return safe + ".mp4"
}
