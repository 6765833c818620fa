package extraction

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

// TranscriptMethod is one way of getting a transcript for a media source.
// Methods that depend on runtime tooling report availability up front so
// the chain can skip them without an attempt.
type TranscriptMethod interface {
	Name() string
	Available() bool
	Extract(ctx context.Context, source MediaSource) ([]models.TranscriptSegment, error)
}

// MediaSource identifies what a transcript method can work from: a remote
// locator (for caption downloads) and/or a local media file (for local
// transcription). Either may be empty.
type MediaSource struct {
	URL       string
	MediaPath string
}

// FallbackChain tries an ordered list of transcript methods until one
// produces segments. It never fails: exhausting every method yields an
// empty transcript, which downstream stages must tolerate.
type FallbackChain struct {
	methods []TranscriptMethod
}

func NewFallbackChain(methods ...TranscriptMethod) *FallbackChain {
	return &FallbackChain{methods: methods}
}

// DefaultChain is the production ordering: platform captions first (fastest
// and most accurate when present), then local whisper with the configured
// model, then the tiny model as a last resort.
func DefaultChain(cfg config.ExtractionConfig) *FallbackChain {
	return NewFallbackChain(
		&CaptionMethod{Timeout: time.Duration(cfg.CaptionTimeout) * time.Second},
		&WhisperMethod{Model: cfg.WhisperModel, OutputDir: cfg.OutputDir},
		&WhisperMethod{Model: "tiny", OutputDir: cfg.OutputDir},
	)
}

// Extract runs the chain. Any method failure, timeout, or unavailability
// advances to the next method.
func (c *FallbackChain) Extract(ctx context.Context, source MediaSource) []models.TranscriptSegment {
	for _, method := range c.methods {
		if !method.Available() {
			log.Printf("Transcript method %s unavailable, skipping", method.Name())
			continue
		}

		segments, err := c.tryMethod(ctx, method, source)
		if err != nil {
			log.Printf("Transcript method %s failed: %v", method.Name(), err)
			continue
		}
		if len(segments) == 0 {
			log.Printf("Transcript method %s produced no segments", method.Name())
			continue
		}

		log.Printf("Extracted %d transcript segments using %s", len(segments), method.Name())
		return segments
	}

	log.Println("All transcript methods failed or unavailable, returning empty transcript")
	return nil
}

// tryMethod isolates one attempt so a panicking method degrades to a
// failed attempt instead of killing the chain.
func (c *FallbackChain) tryMethod(ctx context.Context, method TranscriptMethod, source MediaSource) (segments []models.TranscriptSegment, err error) {
	defer func() {
		if r := recover(); r != nil {
			segments = nil
			err = fmt.Errorf("method panicked: %v", r)
		}
	}()
	return method.Extract(ctx, source)
}

// CaptionMethod downloads platform captions with yt-dlp and parses the
// resulting SRT. It requires a URL and a bounded timeout; caption probing
// against a slow host must never stall the pipeline.
type CaptionMethod struct {
	Timeout time.Duration
}

func (m *CaptionMethod) Name() string { return "platform-captions" }

func (m *CaptionMethod) Available() bool {
	_, err := exec.LookPath("yt-dlp")
	return err == nil
}

func (m *CaptionMethod) Extract(ctx context.Context, source MediaSource) ([]models.TranscriptSegment, error) {
	if source.URL == "" {
		return nil, fmt.Errorf("no URL for caption download")
	}

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tempDir, err := os.MkdirTemp("", "captions-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	outputPattern := filepath.Join(tempDir, "subtitle.%(ext)s")
	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--write-auto-subs",
		"--write-subs",
		"--sub-lang", "en,en-US,en-GB,en.*",
		"--skip-download",
		"--sub-format", "srt",
		"--convert-subs", "srt",
		"-o", outputPattern,
		source.URL,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("yt-dlp caption download failed: %w (%s)", err, truncate(string(output), 200))
	}

	srtFiles, err := filepath.Glob(filepath.Join(tempDir, "*.srt"))
	if err != nil || len(srtFiles) == 0 {
		return nil, fmt.Errorf("no subtitle files produced")
	}

	content, err := os.ReadFile(srtFiles[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	return ParseSRT(string(content)), nil
}

// WhisperMethod transcribes local media with the whisper CLI. Larger
// models are higher fidelity and slower; the chain runs the configured
// model first and "tiny" as the basic fallback.
type WhisperMethod struct {
	Model     string
	OutputDir string
}

func (m *WhisperMethod) Name() string { return "whisper-" + m.Model }

func (m *WhisperMethod) Available() bool {
	_, err := exec.LookPath("whisper")
	return err == nil
}

func (m *WhisperMethod) Extract(ctx context.Context, source MediaSource) ([]models.TranscriptSegment, error) {
	if source.MediaPath == "" {
		return nil, fmt.Errorf("no local media for whisper transcription")
	}
	if _, err := os.Stat(source.MediaPath); err != nil {
		return nil, fmt.Errorf("media file missing: %w", err)
	}

	outputDir, err := os.MkdirTemp("", "whisper-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	cmd := exec.CommandContext(ctx, "whisper",
		source.MediaPath,
		"--model", m.Model,
		"--output_format", "srt",
		"--output_dir", outputDir,
		"--language", "en",
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper failed: %w (%s)", err, truncate(string(output), 200))
	}

	// Whisper writes <mediaBasename>.srt into the output dir.
	base := strings.TrimSuffix(filepath.Base(source.MediaPath), filepath.Ext(source.MediaPath))
	srtPath := filepath.Join(outputDir, base+".srt")
	content, err := os.ReadFile(srtPath)
	if err != nil {
		return nil, fmt.Errorf("whisper output missing: %w", err)
	}

	segments := ParseSRT(string(content))
	// Whisper output carries no per-segment confidence; mark it below
	// platform captions so consumers can prefer the latter.
	for i := range segments {
		segments[i].Confidence = 0.8
	}
	return segments, nil
}

func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
