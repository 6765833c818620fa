package config

import (
	"os"
	"path/filepath"
	"testing"
)

func loadWithFile(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	return Load()
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TRENDFORGE_ENV", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("missing config file should not be fatal: %v", err)
	}

	if cfg.Discovery.MaxCandidates != 50 {
		t.Errorf("expected default max_candidates 50, got %d", cfg.Discovery.MaxCandidates)
	}
	if cfg.Discovery.Virality.Velocity != 0.4 || cfg.Discovery.Virality.Recency != 0.1 {
		t.Errorf("unexpected default virality weights: %+v", cfg.Discovery.Virality)
	}
	if cfg.Discovery.Breakout.MinScore != 3 {
		t.Errorf("expected default breakout min_score 3, got %d", cfg.Discovery.Breakout.MinScore)
	}
	if cfg.Discovery.Breakout.SweetSpotMin != 10000 || cfg.Discovery.Breakout.SweetSpotMax != 500000 {
		t.Errorf("unexpected default sweet spot band: %d-%d",
			cfg.Discovery.Breakout.SweetSpotMin, cfg.Discovery.Breakout.SweetSpotMax)
	}
	if cfg.Extraction.WhisperModel != "base" {
		t.Errorf("expected default whisper model base, got %s", cfg.Extraction.WhisperModel)
	}
	if cfg.Extraction.CaptionTimeout != 45 {
		t.Errorf("expected default caption timeout 45, got %d", cfg.Extraction.CaptionTimeout)
	}
	if cfg.AI.Model != "gemini-2.5-flash" {
		t.Errorf("unexpected default model %s", cfg.AI.Model)
	}
	if cfg.Production.DefaultBackend != "pika" {
		t.Errorf("unexpected default backend %s", cfg.Production.DefaultBackend)
	}
	if cfg.Pipeline.MaxItems != 10 {
		t.Errorf("expected default max_items 10, got %d", cfg.Pipeline.MaxItems)
	}
	if cfg.Schedule != "0 9 * * *" {
		t.Errorf("unexpected default schedule %s", cfg.Schedule)
	}
}

func TestLoadFromYAML(t *testing.T) {
	cfg, err := loadWithFile(t, `
discovery:
  max_candidates: 25
  min_view_count: 5000
extraction:
  whisper_model: small
pipeline:
  max_items: 5
schedule: "30 6 * * *"
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Discovery.MaxCandidates != 25 {
		t.Errorf("expected max_candidates 25, got %d", cfg.Discovery.MaxCandidates)
	}
	if cfg.Discovery.MinViewCount != 5000 {
		t.Errorf("expected min_view_count 5000, got %d", cfg.Discovery.MinViewCount)
	}
	if cfg.Extraction.WhisperModel != "small" {
		t.Errorf("expected whisper model small, got %s", cfg.Extraction.WhisperModel)
	}
	if cfg.Pipeline.MaxItems != 5 {
		t.Errorf("expected max_items 5, got %d", cfg.Pipeline.MaxItems)
	}
	if cfg.Schedule != "30 6 * * *" {
		t.Errorf("unexpected schedule %s", cfg.Schedule)
	}

	// Unset fields still get defaults.
	if cfg.Discovery.Breakout.MaxSubscribers != 2000000 {
		t.Errorf("expected default max_subscribers, got %d", cfg.Discovery.Breakout.MaxSubscribers)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("YOUTUBE_API_KEY", "yt-key-from-env")
	t.Setenv("GEMINI_API_KEY", "gemini-key-from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Discovery.APIKey != "yt-key-from-env" {
		t.Errorf("expected env API key, got %q", cfg.Discovery.APIKey)
	}
	if cfg.AI.GeminiAPIKey != "gemini-key-from-env" {
		t.Errorf("expected env Gemini key, got %q", cfg.AI.GeminiAPIKey)
	}
}

func TestNonProdEnvironmentForcesTestMode(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TRENDFORGE_ENV", "dev")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Publishing.TestMode {
		t.Error("non-prod environment must force publishing test mode")
	}
}

func TestValidateRejectsEmptySubscriberBand(t *testing.T) {
	_, err := loadWithFile(t, `
discovery:
  breakout:
    min_subscribers: 500000
    max_subscribers: 1000
`)
	if err == nil {
		t.Fatal("expected validation error for inverted subscriber band")
	}
}
