package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	Extraction ExtractionConfig `yaml:"extraction"`
	AI         AIConfig         `yaml:"ai"`
	Production ProductionConfig `yaml:"production"`
	Publishing PublishingConfig `yaml:"publishing"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
}

type DiscoveryConfig struct {
	APIKey        string          `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	MaxCandidates int             `yaml:"max_candidates"`
	MinViewCount  int64           `yaml:"min_view_count"`
	LookbackDays  int             `yaml:"lookback_days"`
	Virality      ViralityWeights `yaml:"virality"`
	Breakout      BreakoutConfig  `yaml:"breakout"`
}

// ViralityWeights are the hand-tuned ranking weights. They ship with the
// calibration the scoring was tuned against; treat them as configuration,
// not ground truth.
type ViralityWeights struct {
	Velocity   float64 `yaml:"velocity"`
	Engagement float64 `yaml:"engagement"`
	Views      float64 `yaml:"views"`
	Recency    float64 `yaml:"recency"`
}

type BreakoutConfig struct {
	MinSubscribers int64 `yaml:"min_subscribers"`
	MaxSubscribers int64 `yaml:"max_subscribers"`
	SweetSpotMin   int64 `yaml:"sweet_spot_min"`
	SweetSpotMax   int64 `yaml:"sweet_spot_max"`
	MaxChannelDays int   `yaml:"max_channel_days"`
	MinScore       int   `yaml:"min_score"`
	TopChannels    int   `yaml:"top_channels"`
}

type ExtractionConfig struct {
	OutputDir       string `yaml:"output_dir"`
	WhisperModel    string `yaml:"whisper_model"`
	CaptionTimeout  int    `yaml:"caption_timeout_seconds"`
	ExtractFrames   bool   `yaml:"extract_frames"`
	ReferenceFrames int    `yaml:"reference_frames"`
}

type AIConfig struct {
	GeminiAPIKey string  `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
}

type ProductionConfig struct {
	OutputDir       string `yaml:"output_dir"`
	DefaultBackend  string `yaml:"default_backend"`
	RunwayAPIKey    string `yaml:"runway_api_key" env:"RUNWAY_API_KEY"`
	PikaAPIKey      string `yaml:"pika_api_key" env:"PIKA_API_KEY"`
	KlingAPIKey     string `yaml:"kling_api_key" env:"KLING_API_KEY"`
	LumaAPIKey      string `yaml:"luma_api_key" env:"LUMA_API_KEY"`
	PollMaxAttempts int    `yaml:"poll_max_attempts"`
	PollIntervalSec int    `yaml:"poll_interval_seconds"`
}

type PublishingConfig struct {
	ClientID     string   `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string   `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string   `yaml:"token_file"`
	Platforms    []string `yaml:"platforms"`
	TestMode     bool     `yaml:"test_mode"`
	TestDir      string   `yaml:"test_dir"`
}

type PipelineConfig struct {
	MaxItems      int    `yaml:"max_items"`
	GenerateVideo bool   `yaml:"generate_video"`
	Publish       bool   `yaml:"publish"`
	StyleHint     string `yaml:"style_hint"`
	DataDir       string `yaml:"data_dir"`
	TrackerDays   int    `yaml:"tracker_days"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		// No config file is fine; env vars and defaults cover everything.
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	setIfEmpty(&c.Discovery.APIKey, "YOUTUBE_API_KEY")
	setIfEmpty(&c.AI.GeminiAPIKey, "GEMINI_API_KEY")
	setIfEmpty(&c.Production.RunwayAPIKey, "RUNWAY_API_KEY")
	setIfEmpty(&c.Production.PikaAPIKey, "PIKA_API_KEY")
	setIfEmpty(&c.Production.KlingAPIKey, "KLING_API_KEY")
	setIfEmpty(&c.Production.LumaAPIKey, "LUMA_API_KEY")
	setIfEmpty(&c.Publishing.ClientID, "GOOGLE_CLIENT_ID")
	setIfEmpty(&c.Publishing.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setIfEmpty(&c.Email.Username, "EMAIL_USERNAME")
	setIfEmpty(&c.Email.Password, "EMAIL_PASSWORD")

	// Anything other than "prod" keeps uploads local.
	if env := os.Getenv("TRENDFORGE_ENV"); env != "" && env != "prod" {
		c.Publishing.TestMode = true
	}
}

func (c *Config) applyDefaults() {
	if c.Discovery.MaxCandidates == 0 {
		c.Discovery.MaxCandidates = 50
	}
	if c.Discovery.MinViewCount == 0 {
		c.Discovery.MinViewCount = 1000
	}
	if c.Discovery.LookbackDays == 0 {
		c.Discovery.LookbackDays = 14
	}
	if c.Discovery.Virality == (ViralityWeights{}) {
		c.Discovery.Virality = ViralityWeights{Velocity: 0.4, Engagement: 0.3, Views: 0.2, Recency: 0.1}
	}
	if c.Discovery.Breakout.MinSubscribers == 0 {
		c.Discovery.Breakout.MinSubscribers = 1000
	}
	if c.Discovery.Breakout.MaxSubscribers == 0 {
		c.Discovery.Breakout.MaxSubscribers = 2000000
	}
	if c.Discovery.Breakout.SweetSpotMin == 0 {
		c.Discovery.Breakout.SweetSpotMin = 10000
	}
	if c.Discovery.Breakout.SweetSpotMax == 0 {
		c.Discovery.Breakout.SweetSpotMax = 500000
	}
	if c.Discovery.Breakout.MaxChannelDays == 0 {
		c.Discovery.Breakout.MaxChannelDays = 730
	}
	if c.Discovery.Breakout.MinScore == 0 {
		c.Discovery.Breakout.MinScore = 3
	}
	if c.Discovery.Breakout.TopChannels == 0 {
		c.Discovery.Breakout.TopChannels = 10
	}

	if c.Extraction.OutputDir == "" {
		c.Extraction.OutputDir = "data/extracted"
	}
	if c.Extraction.WhisperModel == "" {
		c.Extraction.WhisperModel = "base"
	}
	if c.Extraction.CaptionTimeout == 0 {
		c.Extraction.CaptionTimeout = 45
	}
	if c.Extraction.ReferenceFrames == 0 {
		c.Extraction.ReferenceFrames = 5
	}

	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = 0.3
	}

	if c.Production.OutputDir == "" {
		c.Production.OutputDir = "data/generated"
	}
	if c.Production.DefaultBackend == "" {
		c.Production.DefaultBackend = "pika"
	}
	if c.Production.PollMaxAttempts == 0 {
		c.Production.PollMaxAttempts = 60
	}
	if c.Production.PollIntervalSec == 0 {
		c.Production.PollIntervalSec = 5
	}

	if c.Publishing.TokenFile == "" {
		c.Publishing.TokenFile = "youtube_token.json"
	}
	if len(c.Publishing.Platforms) == 0 {
		c.Publishing.Platforms = []string{"youtube"}
	}
	if c.Publishing.TestDir == "" {
		c.Publishing.TestDir = "data/published"
	}

	if c.Pipeline.MaxItems == 0 {
		c.Pipeline.MaxItems = 10
	}
	if c.Pipeline.DataDir == "" {
		c.Pipeline.DataDir = "data"
	}
	if c.Pipeline.TrackerDays == 0 {
		c.Pipeline.TrackerDays = 7
	}

	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 9 * * *" // Daily at 9 AM
	}
}

// validate only rejects structurally broken values. Missing credentials are
// not fatal: every stage degrades to defaults or placeholders without them.
func (c *Config) validate() error {
	if c.Pipeline.MaxItems < 1 {
		return fmt.Errorf("pipeline.max_items must be at least 1, got %d", c.Pipeline.MaxItems)
	}
	if c.Discovery.MaxCandidates < 1 {
		return fmt.Errorf("discovery.max_candidates must be at least 1, got %d", c.Discovery.MaxCandidates)
	}
	if c.Discovery.Breakout.MinSubscribers >= c.Discovery.Breakout.MaxSubscribers {
		return fmt.Errorf("breakout subscriber band is empty: min %d >= max %d",
			c.Discovery.Breakout.MinSubscribers, c.Discovery.Breakout.MaxSubscribers)
	}
	if c.Discovery.Breakout.SweetSpotMin >= c.Discovery.Breakout.SweetSpotMax {
		return fmt.Errorf("breakout sweet spot band is empty: min %d >= max %d",
			c.Discovery.Breakout.SweetSpotMin, c.Discovery.Breakout.SweetSpotMax)
	}
	if c.Production.PollMaxAttempts < 1 || c.Production.PollIntervalSec < 1 {
		return fmt.Errorf("production polling bounds must be positive")
	}
	return nil
}

func setIfEmpty(dst *string, envKey string) {
	if *dst == "" {
		*dst = os.Getenv(envKey)
	}
}
