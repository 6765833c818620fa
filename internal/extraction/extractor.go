package extraction

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

// Extractor pulls media, frames and transcripts out of one candidate.
// Every sub-step is optional: a candidate whose download fails can still
// get a caption-based transcript, and a failed transcript still yields a
// usable (empty-transcript) extraction.
type Extractor struct {
	cfg   config.ExtractionConfig
	chain *FallbackChain
}

func NewExtractor(cfg config.ExtractionConfig) *Extractor {
	return &Extractor{
		cfg:   cfg,
		chain: DefaultChain(cfg),
	}
}

// NewExtractorWithChain is for tests that substitute the transcript chain.
func NewExtractorWithChain(cfg config.ExtractionConfig, chain *FallbackChain) *Extractor {
	return &Extractor{cfg: cfg, chain: chain}
}

// Extract returns everything that could be pulled from the candidate.
// It never fails outright; individual sub-steps log and degrade.
func (e *Extractor) Extract(ctx context.Context, candidate models.Candidate) (*models.Extraction, error) {
	log.Printf("Extracting data from candidate %s", candidate.ID)

	result := &models.Extraction{}

	mediaPath, err := e.download(ctx, candidate)
	if err != nil {
		log.Printf("Media download failed for %s: %v", candidate.ID, err)
	} else {
		result.MediaPath = mediaPath
	}

	if e.cfg.ExtractFrames && result.MediaPath != "" {
		frames, refs, err := e.extractFrames(ctx, result.MediaPath, candidate)
		if err != nil {
			log.Printf("Frame extraction failed for %s: %v", candidate.ID, err)
		} else {
			result.Frames = frames
			result.ReferenceFrames = refs
		}
	}

	result.Transcript = e.chain.Extract(ctx, MediaSource{
		URL:       candidate.URL,
		MediaPath: result.MediaPath,
	})

	return result, nil
}

// download fetches the candidate's media with yt-dlp, capped at 720p.
// Already-downloaded media is reused.
func (e *Extractor) download(ctx context.Context, candidate models.Candidate) (string, error) {
	if _, err := exec.LookPath("yt-dlp"); err != nil {
		return "", fmt.Errorf("yt-dlp not installed: %w", err)
	}

	if err := os.MkdirAll(e.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	outputPath := filepath.Join(e.cfg.OutputDir, candidate.ID+".mp4")
	if _, err := os.Stat(outputPath); err == nil {
		log.Printf("Media already downloaded: %s", outputPath)
		return outputPath, nil
	}

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"-f", "best[height<=720]",
		"-o", outputPath,
		candidate.URL,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("yt-dlp download failed: %w (%s)", err, truncate(string(output), 200))
	}

	return outputPath, nil
}

// extractFrames grabs reference stills at evenly spaced key moments
// (start, quarter points, end) with ffmpeg.
func (e *Extractor) extractFrames(ctx context.Context, mediaPath string, candidate models.Candidate) ([]string, []models.ReferenceFrame, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, nil, fmt.Errorf("ffmpeg not installed: %w", err)
	}

	frameDir := filepath.Join(e.cfg.OutputDir, candidate.ID, "frames")
	if err := os.MkdirAll(frameDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create frame dir: %w", err)
	}

	duration := candidate.DurationSeconds
	if duration <= 0 {
		duration = 60
	}

	count := e.cfg.ReferenceFrames
	if count < 2 {
		count = 2
	}

	var frames []string
	var refs []models.ReferenceFrame
	for i := 0; i < count; i++ {
		moment := duration * float64(i) / float64(count-1)
		framePath := filepath.Join(frameDir, fmt.Sprintf("ref_%04.1fs.jpg", moment))

		cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
			"-ss", fmt.Sprintf("%.2f", moment),
			"-i", mediaPath,
			"-frames:v", "1",
			"-q:v", "2",
			framePath,
		)
		if err := cmd.Run(); err != nil {
			log.Printf("Frame at %.1fs failed for %s: %v", moment, candidate.ID, err)
			continue
		}

		frames = append(frames, framePath)
		refs = append(refs, models.ReferenceFrame{
			FramePath:   framePath,
			Timestamp:   moment,
			Description: fmt.Sprintf("Frame at %.1fs", moment),
		})
	}

	log.Printf("Extracted %d reference frames from %s", len(refs), candidate.ID)
	return frames, refs, nil
}
