package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CandidateTracker is a persistent store of processed candidate IDs so
// repeated runs skip videos they already analyzed. Entries expire after
// maxAge; an expired candidate may be picked up again.
type CandidateTracker struct {
	filePath  string
	processed map[string]time.Time
	mu        sync.RWMutex
	maxAge    time.Duration
}

// TrackedCandidate is one persisted tracker entry.
type TrackedCandidate struct {
	CandidateID string    `json:"candidate_id"`
	ProcessedAt time.Time `json:"processed_at"`
}

func NewCandidateTracker(dataDir string, maxAge time.Duration) (*CandidateTracker, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	tracker := &CandidateTracker{
		filePath:  filepath.Join(dataDir, "processed_candidates.json"),
		processed: make(map[string]time.Time),
		maxAge:    maxAge,
	}

	if err := tracker.load(); err != nil {
		return nil, fmt.Errorf("failed to load candidate tracker data: %w", err)
	}
	tracker.cleanup()

	return tracker, nil
}

// Seen reports whether the candidate was processed within the retention
// window.
func (t *CandidateTracker) Seen(candidateID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	processedAt, exists := t.processed[candidateID]
	if !exists {
		return false
	}
	return time.Since(processedAt) < t.maxAge
}

// Mark records the candidate as processed and persists the store.
func (t *CandidateTracker) Mark(candidateID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processed[candidateID] = time.Now()
	return t.save()
}

// Count returns the number of tracked candidates.
func (t *CandidateTracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.processed)
}

func (t *CandidateTracker) cleanup() {
	cutoff := time.Now().Add(-t.maxAge)
	for id, processedAt := range t.processed {
		if processedAt.Before(cutoff) {
			delete(t.processed, id)
		}
	}
}

func (t *CandidateTracker) load() error {
	file, err := os.Open(t.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open tracker file: %w", err)
	}
	defer file.Close()

	var entries []TrackedCandidate
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode tracker data: %w", err)
	}

	for _, entry := range entries {
		t.processed[entry.CandidateID] = entry.ProcessedAt
	}
	return nil
}

func (t *CandidateTracker) save() error {
	entries := make([]TrackedCandidate, 0, len(t.processed))
	for id, processedAt := range t.processed {
		entries = append(entries, TrackedCandidate{
			CandidateID: id,
			ProcessedAt: processedAt,
		})
	}

	file, err := os.Create(t.filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}
