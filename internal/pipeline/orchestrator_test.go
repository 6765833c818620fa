package pipeline

import (
	"context"
	"fmt"
	"testing"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

type stubDiscoverer struct {
	candidates []models.Candidate
	err        error
}

func (s *stubDiscoverer) Discover(ctx context.Context, max int) ([]models.Candidate, error) {
	return s.candidates, s.err
}

type stubExtractor struct {
	failIDs  map[string]bool
	panicIDs map[string]bool
}

func (s *stubExtractor) Extract(ctx context.Context, c models.Candidate) (*models.Extraction, error) {
	if s.panicIDs[c.ID] {
		panic("extractor blew up on " + c.ID)
	}
	if s.failIDs[c.ID] {
		return nil, fmt.Errorf("extraction failed for %s", c.ID)
	}
	return &models.Extraction{
		Transcript: []models.TranscriptSegment{{Text: "hello", StartTime: 0, EndTime: 1}},
	}, nil
}

type stubAnalyzer struct {
	category models.TrendCategory
}

func (s *stubAnalyzer) Analyze(ctx context.Context, c models.Candidate, transcript []models.TranscriptSegment, frames []models.ReferenceFrame) (models.Analysis, error) {
	return models.Analysis{CandidateID: c.ID, TrendCategory: s.category, Transcript: transcript}, nil
}

type stubMiner struct {
	blueprints []models.Blueprint
	gotCount   int
}

func (s *stubMiner) Mine(ctx context.Context, analyses []models.Analysis) ([]models.Blueprint, error) {
	s.gotCount = len(analyses)
	return s.blueprints, nil
}

type stubScripter struct{ called bool }

func (s *stubScripter) Generate(ctx context.Context, bp models.Blueprint) (*models.Script, error) {
	s.called = true
	return &models.Script{Title: "Test Script", ScriptText: "hello world", BlueprintName: bp.TrendName}, nil
}

type stubProducer struct{ produced bool }

func (s *stubProducer) Produce(ctx context.Context, job models.ProductionJob) (*models.GeneratedArtifact, error) {
	s.produced = true
	return &models.GeneratedArtifact{MediaPath: "out.mp4", ScriptTitle: job.Script.Title, Backend: "stub"}, nil
}

type stubMetadata struct{}

func (s *stubMetadata) Generate(ctx context.Context, script models.Script, category models.TrendCategory, platforms []string) models.PublishingMetadata {
	return models.PublishingMetadata{Title: script.Title, Platforms: platforms}
}

type stubPublisher struct{}

func (s *stubPublisher) Publish(ctx context.Context, artifact models.GeneratedArtifact, meta models.PublishingMetadata) map[string]models.PublishResult {
	return map[string]models.PublishResult{"youtube": {Status: "success", VideoID: "vid123"}}
}

type memTracker struct{ seen map[string]bool }

func newMemTracker() *memTracker { return &memTracker{seen: make(map[string]bool)} }

func (t *memTracker) Seen(id string) bool  { return t.seen[id] }
func (t *memTracker) Mark(id string) error { t.seen[id] = true; return nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Discovery: config.DiscoveryConfig{MaxCandidates: 50},
		Pipeline: config.PipelineConfig{
			MaxItems:      10,
			GenerateVideo: true,
			Publish:       true,
			DataDir:       t.TempDir(),
		},
		Publishing: config.PublishingConfig{Platforms: []string{"youtube"}},
	}
}

func makeCandidates(n int) []models.Candidate {
	var out []models.Candidate
	for i := 0; i < n; i++ {
		out = append(out, models.Candidate{
			ID:    fmt.Sprintf("vid%d", i),
			Title: fmt.Sprintf("English title %d", i),
		})
	}
	return out
}

func newTestOrchestrator(cfg *config.Config, d Discoverer, e Extractor, m PatternMiner, tracker Tracker) (*Orchestrator, *stubProducer) {
	producer := &stubProducer{}
	return NewOrchestrator(cfg, d, e,
		&stubAnalyzer{category: models.CategoryMeme},
		m,
		&stubScripter{},
		producer,
		&stubMetadata{},
		&stubPublisher{},
		tracker,
	), producer
}

func TestRunIsolatesPerItemFailures(t *testing.T) {
	cfg := testConfig(t)
	extractor := &stubExtractor{
		failIDs:  map[string]bool{"vid1": true, "vid4": true},
		panicIDs: map[string]bool{"vid7": true},
	}
	miner := &stubMiner{blueprints: []models.Blueprint{{TrendName: "meme_trend", TrendCategory: models.CategoryMeme, ConfidenceScore: 0.7}}}
	tracker := newMemTracker()

	o, _ := newTestOrchestrator(cfg, &stubDiscoverer{candidates: makeCandidates(10)}, extractor, miner, tracker)

	envelope, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("per-item failures must not fail the run: %v", err)
	}

	if len(envelope.Analyses) != 7 {
		t.Errorf("expected 7 analyses (3 candidates failed), got %d", len(envelope.Analyses))
	}
	if miner.gotCount != 7 {
		t.Errorf("miner should receive the 7 successful analyses, got %d", miner.gotCount)
	}
	if envelope.Error != "" {
		t.Errorf("unexpected envelope error: %s", envelope.Error)
	}

	// Failed candidates stay untracked so the next run retries them.
	if tracker.Seen("vid1") || tracker.Seen("vid7") {
		t.Error("failed candidates must not be marked processed")
	}
	if !tracker.Seen("vid0") {
		t.Error("successful candidates must be marked processed")
	}
}

func TestRunZeroBlueprintsEndsEarly(t *testing.T) {
	cfg := testConfig(t)
	miner := &stubMiner{} // no blueprints
	o, producer := newTestOrchestrator(cfg, &stubDiscoverer{candidates: makeCandidates(4)}, &stubExtractor{}, miner, newMemTracker())

	envelope, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("zero blueprints is a valid outcome, got error: %v", err)
	}

	if len(envelope.Analyses) != 4 {
		t.Errorf("expected 4 analyses, got %d", len(envelope.Analyses))
	}
	if envelope.GeneratedScript != nil || envelope.GeneratedVideo != nil {
		t.Error("no script or video should be generated without blueprints")
	}
	if producer.produced {
		t.Error("producer must not run without a blueprint")
	}
	if envelope.Error != "" {
		t.Errorf("unexpected envelope error: %s", envelope.Error)
	}
}

func TestRunGenerateVideoOffStopsAtBlueprints(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.GenerateVideo = false

	miner := &stubMiner{blueprints: []models.Blueprint{{TrendName: "meme_trend", TrendCategory: models.CategoryMeme, ConfidenceScore: 0.7}}}
	scripter := &stubScripter{}
	producer := &stubProducer{}
	o := NewOrchestrator(cfg, &stubDiscoverer{candidates: makeCandidates(3)}, &stubExtractor{},
		&stubAnalyzer{category: models.CategoryMeme},
		miner,
		scripter,
		producer,
		&stubMetadata{},
		&stubPublisher{},
		newMemTracker(),
	)

	envelope, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(envelope.Blueprints) != 1 {
		t.Fatalf("blueprints should still be mined, got %d", len(envelope.Blueprints))
	}
	if scripter.called {
		t.Error("script generation must not run when video generation is off")
	}
	if envelope.GeneratedScript != nil {
		t.Errorf("expected no generated script, got %q", envelope.GeneratedScript.Title)
	}
	if producer.produced || envelope.GeneratedVideo != nil {
		t.Error("producer must not run when video generation is off")
	}
}

func TestRunFullPath(t *testing.T) {
	cfg := testConfig(t)
	miner := &stubMiner{blueprints: []models.Blueprint{
		{TrendName: "weak_trend", ConfidenceScore: 0.3},
		{TrendName: "strong_trend", ConfidenceScore: 0.9},
	}}
	o, _ := newTestOrchestrator(cfg, &stubDiscoverer{candidates: makeCandidates(3)}, &stubExtractor{}, miner, newMemTracker())

	envelope, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if envelope.GeneratedScript == nil {
		t.Fatal("expected a generated script")
	}
	if envelope.GeneratedScript.BlueprintName != "strong_trend" {
		t.Errorf("script should follow the highest-confidence blueprint, got %s", envelope.GeneratedScript.BlueprintName)
	}
	if envelope.GeneratedVideo == nil || envelope.GeneratedVideo.Backend != "stub" {
		t.Error("expected a generated video from the stub producer")
	}
	if result, ok := envelope.PublishResults["youtube"]; !ok || result.Status != "success" {
		t.Errorf("expected a successful youtube publish result, got %+v", envelope.PublishResults)
	}
	if envelope.RunID == "" {
		t.Error("run ID must be set")
	}
}

func TestRunFiltersTrackedAndNonEnglish(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.MaxItems = 3

	candidates := makeCandidates(6)
	candidates[1].DefaultAudioLanguage = "ko"
	tracker := newMemTracker()
	tracker.seen["vid0"] = true

	miner := &stubMiner{}
	o, _ := newTestOrchestrator(cfg, &stubDiscoverer{candidates: candidates}, &stubExtractor{}, miner, tracker)

	envelope, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// vid0 tracked, vid1 non-English, then vid2..vid4 fill the cap of 3.
	if len(envelope.Discovered) != 3 {
		t.Fatalf("expected 3 candidates after filtering, got %d", len(envelope.Discovered))
	}
	for _, c := range envelope.Discovered {
		if c.ID == "vid0" || c.ID == "vid1" {
			t.Errorf("candidate %s should have been filtered out", c.ID)
		}
	}
}

func TestRunDiscoveryFailureIsFatal(t *testing.T) {
	cfg := testConfig(t)
	o, _ := newTestOrchestrator(cfg, &stubDiscoverer{err: fmt.Errorf("quota exceeded")}, &stubExtractor{}, &stubMiner{}, newMemTracker())

	envelope, err := o.Run(context.Background())
	if err == nil {
		t.Fatal("discovery failure should fail the run")
	}
	if envelope == nil || envelope.Error == "" {
		t.Error("envelope should carry the failure")
	}
}
