package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"trendforge/internal/agents"
	"trendforge/internal/discovery"
	"trendforge/internal/extraction"
	"trendforge/internal/models"
	"trendforge/internal/production"
	"trendforge/internal/publishing"
	"trendforge/shared/config"
	"trendforge/shared/email"
	"trendforge/shared/scheduler"
	"trendforge/shared/storage"
)

// Service implements the scheduler.Agent interface and owns the wiring of
// every pipeline stage. Initialize builds what the configured credentials
// allow; missing credentials degrade stages rather than block startup.
type Service struct {
	config       *config.Config
	orchestrator *Orchestrator
	emailSender  *email.Sender
}

func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

func (s *Service) Name() string {
	return "Trend Pipeline"
}

func (s *Service) Initialize() error {
	log.Printf("Initializing %s...", s.Name())
	ctx := context.Background()

	if s.orchestrator != nil {
		return nil
	}

	if s.config.Discovery.APIKey == "" {
		return fmt.Errorf("YouTube API key is required for discovery")
	}
	source, err := discovery.NewYouTubeSource(ctx, s.config.Discovery)
	if err != nil {
		return fmt.Errorf("failed to create YouTube source: %w", err)
	}
	discoverer := discovery.NewAgent(source, s.config.Discovery)
	log.Println("Discovery agent initialized")

	extractor := extraction.NewExtractor(s.config.Extraction)
	log.Println("Extractor initialized")

	// The analysis stack runs without a model too, on fail-closed defaults.
	var llm *agents.LLM
	if s.config.AI.GeminiAPIKey != "" {
		llm, err = agents.NewLLM(ctx, s.config.AI)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		log.Println("LLM client initialized")
	} else {
		log.Println("No Gemini API key, agents will use deterministic defaults")
	}

	producer := production.NewProducer(s.config.Production)
	publisher := publishing.NewPublisher(s.config.Publishing)

	tracker, err := storage.NewCandidateTracker(s.config.Pipeline.DataDir,
		time.Duration(s.config.Pipeline.TrackerDays)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to create candidate tracker: %w", err)
	}
	log.Printf("Candidate tracker initialized (%d candidates tracked)", tracker.Count())

	s.orchestrator = NewOrchestrator(s.config,
		discoverer,
		extractor,
		agents.NewAnalysisAgent(llm),
		agents.NewPatternAgent(llm),
		agents.NewScriptAgent(llm),
		producer,
		agents.NewMetadataAgent(llm),
		publisher,
		tracker,
	)

	s.emailSender = email.NewSender(&s.config.Email)

	return nil
}

// runMetrics summarizes one run for the monitor.
type runMetrics struct {
	envelope *models.ResultEnvelope
}

func (m runMetrics) GetSummary() string {
	e := m.envelope
	summary := fmt.Sprintf("%d discovered, %d analyzed, %d blueprints", len(e.Discovered), len(e.Analyses), len(e.Blueprints))
	if e.GeneratedVideo != nil {
		summary += fmt.Sprintf(", video via %s", e.GeneratedVideo.Backend)
	}
	return summary
}

func (s *Service) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()

	envelope, err := s.orchestrator.Run(ctx)
	duration := time.Since(startTime)

	if err != nil {
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(err, duration)
		}
		return err
	}

	// Fewer analyses than candidates means some items failed in isolation.
	if failed := len(envelope.Discovered) - len(envelope.Analyses); failed > 0 && events != nil && events.OnPartialFailure != nil {
		events.OnPartialFailure(fmt.Errorf("%d of %d candidates failed analysis", failed, len(envelope.Discovered)), duration)
	}

	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(runMetrics{envelope: envelope}, duration)
	}

	if s.emailSender != nil && s.emailSender.Configured() {
		if err := s.emailSender.SendRunReport(envelope); err != nil {
			log.Printf("Failed to send run report email: %v", err)
		}
	}

	return nil
}
