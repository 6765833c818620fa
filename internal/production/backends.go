package production

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"trendforge/internal/models"
)

// Backend generates a video for a production job and returns the local
// path of the downloaded media.
type Backend interface {
	Name() string
	Generate(ctx context.Context, job models.ProductionJob, outputPath string) error
}

// restBackend drives the submit-then-poll API shape every hosted video
// generator exposes: POST a job, poll its status, download the result.
type restBackend struct {
	name         string
	submitURL    string
	statusURL    string // format string taking the job ID
	apiKey       string
	pollAttempts int
	pollInterval time.Duration
	client       *http.Client
}

func newRESTBackend(name, submitURL, statusURL, apiKey string, pollAttempts, pollIntervalSec int) *restBackend {
	return &restBackend{
		name:         name,
		submitURL:    submitURL,
		statusURL:    statusURL,
		apiKey:       apiKey,
		pollAttempts: pollAttempts,
		pollInterval: time.Duration(pollIntervalSec) * time.Second,
		client:       &http.Client{Timeout: 60 * time.Second},
	}
}

func (b *restBackend) Name() string { return b.name }

func (b *restBackend) Generate(ctx context.Context, job models.ProductionJob, outputPath string) error {
	jobID, err := b.submit(ctx, job)
	if err != nil {
		return fmt.Errorf("%s submit failed: %w", b.name, err)
	}
	log.Printf("Submitted job %s to %s", jobID, b.name)

	videoURL, err := b.poll(ctx, jobID)
	if err != nil {
		return fmt.Errorf("%s job %s: %w", b.name, jobID, err)
	}

	if err := b.download(ctx, videoURL, outputPath); err != nil {
		return fmt.Errorf("%s download failed: %w", b.name, err)
	}
	return nil
}

type submitResponse struct {
	ID    string `json:"id"`
	JobID string `json:"job_id"`
}

func (b *restBackend) submit(ctx context.Context, job models.ProductionJob) (string, error) {
	payload := map[string]any{
		"prompt":           buildPrompt(job),
		"duration_seconds": job.Script.EstimatedDuration,
		"aspect_ratio":     "9:16",
	}
	if job.CameraMotion != "" {
		payload["camera_motion"] = job.CameraMotion
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.submitURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return "", fmt.Errorf("submit returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if parsed.ID != "" {
		return parsed.ID, nil
	}
	if parsed.JobID != "" {
		return parsed.JobID, nil
	}
	return "", fmt.Errorf("submit response carried no job ID")
}

type statusResponse struct {
	Status   string `json:"status"`
	VideoURL string `json:"video_url"`
	Output   string `json:"output"`
	Error    string `json:"error"`
}

// poll checks job status until completion, a terminal failure, or the
// attempt budget runs out. FAILED, CANCELLED and THROTTLED are terminal;
// everything else counts as still processing.
func (b *restBackend) poll(ctx context.Context, jobID string) (string, error) {
	for attempt := 0; attempt < b.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(b.pollInterval):
		}

		status, err := b.checkStatus(ctx, jobID)
		if err != nil {
			log.Printf("Status check %d/%d for %s failed: %v", attempt+1, b.pollAttempts, jobID, err)
			continue
		}

		switch strings.ToUpper(status.Status) {
		case "COMPLETED", "SUCCEEDED", "SUCCESS":
			if status.VideoURL != "" {
				return status.VideoURL, nil
			}
			if status.Output != "" {
				return status.Output, nil
			}
			return "", fmt.Errorf("completed without a video URL")
		case "FAILED", "CANCELLED", "THROTTLED":
			return "", fmt.Errorf("terminal status %s: %s", status.Status, status.Error)
		}
	}
	return "", fmt.Errorf("still processing after %d attempts", b.pollAttempts)
}

func (b *restBackend) checkStatus(ctx context.Context, jobID string) (*statusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(b.statusURL, jobID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status returned %d", resp.StatusCode)
	}

	var parsed statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &parsed, nil
}

func (b *restBackend) download(ctx context.Context, videoURL, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned %d", resp.StatusCode)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write media: %w", err)
	}
	return nil
}

// buildPrompt flattens a production job into one generation prompt.
func buildPrompt(job models.ProductionJob) string {
	var b strings.Builder
	b.WriteString(job.Script.ScriptText)
	if job.StylePrompt != "" {
		b.WriteString("\n\nVisual style: ")
		b.WriteString(job.StylePrompt)
	}
	for _, shot := range job.Script.ShotList {
		fmt.Fprintf(&b, "\nShot %d (%.1fs): %s", shot.ShotNumber, shot.Duration, shot.Description)
	}
	return b.String()
}
