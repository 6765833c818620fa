package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trendforge/internal/models"
	"trendforge/shared/config"

	"github.com/google/uuid"
)

// Collaborator interfaces. The orchestrator depends on behavior, not on
// the concrete stage types, so tests can substitute any stage.

type Discoverer interface {
	Discover(ctx context.Context, maxCandidates int) ([]models.Candidate, error)
}

type Extractor interface {
	Extract(ctx context.Context, candidate models.Candidate) (*models.Extraction, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, candidate models.Candidate, transcript []models.TranscriptSegment, frames []models.ReferenceFrame) (models.Analysis, error)
}

type PatternMiner interface {
	Mine(ctx context.Context, analyses []models.Analysis) ([]models.Blueprint, error)
}

type ScriptWriter interface {
	Generate(ctx context.Context, blueprint models.Blueprint) (*models.Script, error)
}

type Producer interface {
	Produce(ctx context.Context, job models.ProductionJob) (*models.GeneratedArtifact, error)
}

type MetadataWriter interface {
	Generate(ctx context.Context, script models.Script, category models.TrendCategory, platforms []string) models.PublishingMetadata
}

type Publisher interface {
	Publish(ctx context.Context, artifact models.GeneratedArtifact, meta models.PublishingMetadata) map[string]models.PublishResult
}

// Tracker remembers which candidates earlier runs already processed.
type Tracker interface {
	Seen(id string) bool
	Mark(id string) error
}

// Orchestrator runs the staged pipeline: discover, extract and analyze
// per item, mine blueprints, write a script, produce media, publish.
// Per-item failures are isolated; a failed candidate costs one analysis,
// not the run.
type Orchestrator struct {
	cfg        *config.Config
	discoverer Discoverer
	extractor  Extractor
	analyzer   Analyzer
	miner      PatternMiner
	scripter   ScriptWriter
	producer   Producer
	metadata   MetadataWriter
	publisher  Publisher
	tracker    Tracker
	now        func() time.Time
}

func NewOrchestrator(cfg *config.Config, discoverer Discoverer, extractor Extractor, analyzer Analyzer,
	miner PatternMiner, scripter ScriptWriter, producer Producer, metadata MetadataWriter,
	publisher Publisher, tracker Tracker) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		discoverer: discoverer,
		extractor:  extractor,
		analyzer:   analyzer,
		miner:      miner,
		scripter:   scripter,
		producer:   producer,
		metadata:   metadata,
		publisher:  publisher,
		tracker:    tracker,
		now:        time.Now,
	}
}

// Run executes one full pipeline pass. The returned envelope always holds
// whatever the run produced before stopping; zero blueprints ends the run
// early without an error, as does a disabled generation flag.
func (o *Orchestrator) Run(ctx context.Context) (*models.ResultEnvelope, error) {
	envelope := &models.ResultEnvelope{
		RunID:     uuid.NewString()[:8],
		StartedAt: o.now(),
	}
	log.Printf("Pipeline run %s started", envelope.RunID)

	candidates, err := o.discoverer.Discover(ctx, o.cfg.Discovery.MaxCandidates)
	if err != nil {
		envelope.Error = fmt.Sprintf("discovery failed: %v", err)
		envelope.CompletedAt = o.now()
		o.saveEnvelope(envelope)
		return envelope, fmt.Errorf("discovery failed: %w", err)
	}

	candidates = o.filterCandidates(candidates)
	envelope.Discovered = candidates
	log.Printf("Run %s processing %d candidates", envelope.RunID, len(candidates))

	// Reference frames per candidate, kept for the production job.
	frames := make(map[string][]models.ReferenceFrame)

	for _, candidate := range candidates {
		analysis, refs, err := o.processCandidate(ctx, candidate)
		if err != nil {
			log.Printf("Candidate %s failed, continuing: %v", candidate.ID, err)
			continue
		}
		envelope.Analyses = append(envelope.Analyses, analysis)
		if len(refs) > 0 {
			frames[candidate.ID] = refs
		}

		if o.tracker != nil {
			if err := o.tracker.Mark(candidate.ID); err != nil {
				log.Printf("Failed to mark candidate %s processed: %v", candidate.ID, err)
			}
		}
	}
	log.Printf("Run %s produced %d analyses from %d candidates", envelope.RunID, len(envelope.Analyses), len(candidates))

	blueprints, err := o.miner.Mine(ctx, envelope.Analyses)
	if err != nil {
		envelope.Error = fmt.Sprintf("pattern mining failed: %v", err)
		envelope.CompletedAt = o.now()
		o.saveEnvelope(envelope)
		return envelope, fmt.Errorf("pattern mining failed: %w", err)
	}
	envelope.Blueprints = blueprints

	if len(blueprints) == 0 {
		log.Printf("Run %s found no blueprints, stopping early", envelope.RunID)
		envelope.CompletedAt = o.now()
		o.saveEnvelope(envelope)
		return envelope, nil
	}

	// Scripts exist only to feed production, so a run without video
	// generation stops at blueprints.
	if !o.cfg.Pipeline.GenerateVideo {
		log.Printf("Run %s video generation disabled, stopping after blueprints", envelope.RunID)
		envelope.CompletedAt = o.now()
		o.saveEnvelope(envelope)
		return envelope, nil
	}

	best := bestBlueprint(blueprints)
	log.Printf("Run %s selected blueprint %s (confidence %.2f)", envelope.RunID, best.TrendName, best.ConfidenceScore)

	script, err := o.scripter.Generate(ctx, best)
	if err != nil {
		envelope.Error = fmt.Sprintf("script generation failed: %v", err)
		envelope.CompletedAt = o.now()
		o.saveEnvelope(envelope)
		return envelope, fmt.Errorf("script generation failed: %w", err)
	}
	envelope.GeneratedScript = script

	if o.producer != nil {
		artifact, err := o.producer.Produce(ctx, o.buildJob(*script, best, frames))
		if err != nil {
			log.Printf("Run %s production failed, skipping publishing: %v", envelope.RunID, err)
		} else {
			envelope.GeneratedVideo = artifact
		}
	}

	if o.cfg.Pipeline.Publish && envelope.GeneratedVideo != nil && o.publisher != nil {
		meta := o.metadata.Generate(ctx, *script, best.TrendCategory, o.cfg.Publishing.Platforms)
		envelope.PublishResults = o.publisher.Publish(ctx, *envelope.GeneratedVideo, meta)
	}

	envelope.CompletedAt = o.now()
	o.saveEnvelope(envelope)
	log.Printf("Pipeline run %s completed in %s", envelope.RunID, envelope.CompletedAt.Sub(envelope.StartedAt).Round(time.Second))
	return envelope, nil
}

// processCandidate runs extraction and analysis for one candidate. A panic
// anywhere inside degrades to an error on this item only.
func (o *Orchestrator) processCandidate(ctx context.Context, candidate models.Candidate) (analysis models.Analysis, refs []models.ReferenceFrame, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("candidate processing panicked: %v", r)
		}
	}()

	extraction, err := o.extractor.Extract(ctx, candidate)
	if err != nil {
		return models.Analysis{}, nil, fmt.Errorf("extraction failed: %w", err)
	}

	analysis, err = o.analyzer.Analyze(ctx, candidate, extraction.Transcript, extraction.ReferenceFrames)
	return analysis, extraction.ReferenceFrames, err
}

// filterCandidates drops already-processed and non-English candidates,
// then caps the batch at the per-run item budget.
func (o *Orchestrator) filterCandidates(candidates []models.Candidate) []models.Candidate {
	var kept []models.Candidate
	for _, c := range candidates {
		if o.tracker != nil && o.tracker.Seen(c.ID) {
			continue
		}
		if !IsEnglish(c) {
			log.Printf("Skipping non-English candidate %s (%q)", c.ID, c.Title)
			continue
		}
		kept = append(kept, c)
		if len(kept) == o.cfg.Pipeline.MaxItems {
			break
		}
	}
	return kept
}

func (o *Orchestrator) buildJob(script models.Script, blueprint models.Blueprint, frames map[string][]models.ReferenceFrame) models.ProductionJob {
	style := script.VisualStyle
	if o.cfg.Pipeline.StyleHint != "" {
		style = strings.TrimSpace(style + " " + o.cfg.Pipeline.StyleHint)
	}

	// Frames from the blueprint's own examples guide the generator's look.
	var refs []models.ReferenceFrame
	for _, id := range blueprint.ExampleIDs {
		if f, ok := frames[id]; ok {
			refs = f
			break
		}
	}

	return models.ProductionJob{
		Script:          script,
		ReferenceFrames: refs,
		StylePrompt:     style,
		CameraMotion:    strings.Join(script.CameraMotion, "; "),
	}
}

// bestBlueprint picks the highest-confidence blueprint; the miner's
// deterministic ordering breaks ties.
func bestBlueprint(blueprints []models.Blueprint) models.Blueprint {
	best := blueprints[0]
	for _, b := range blueprints[1:] {
		if b.ConfidenceScore > best.ConfidenceScore {
			best = b
		}
	}
	return best
}

// saveEnvelope writes the run results under the data directory. Failures
// are logged; a run that cannot persist its envelope still returns it.
func (o *Orchestrator) saveEnvelope(envelope *models.ResultEnvelope) {
	runDir := filepath.Join(o.cfg.Pipeline.DataDir, "runs", envelope.RunID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		log.Printf("Failed to create run dir: %v", err)
		return
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		log.Printf("Failed to marshal run envelope: %v", err)
		return
	}

	path := filepath.Join(runDir, "results.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Failed to write run envelope: %v", err)
		return
	}
	log.Printf("Run results saved to %s", path)
}
