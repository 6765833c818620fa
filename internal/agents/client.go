package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"trendforge/shared/config"

	"google.golang.org/genai"
)

// LLM wraps the Gemini client for the collaborator agents. Every
// collaborator shares one client and the same response-parsing rules.
type LLM struct {
	client      *genai.Client
	model       string
	temperature float64
}

func NewLLM(ctx context.Context, cfg config.AIConfig) (*LLM, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &LLM{client: client, model: cfg.Model, temperature: cfg.Temperature}, nil
}

// GenerateJSON sends a prompt expected to produce a JSON object and
// returns the extracted JSON text.
func (l *LLM) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	var genConfig *genai.GenerateContentConfig
	if l.temperature > 0 {
		genConfig = &genai.GenerateContentConfig{Temperature: genai.Ptr(float32(l.temperature))}
	}

	result, err := l.client.Models.GenerateContent(ctx, l.model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	responseText := result.Text()
	if responseText == "" {
		return "", fmt.Errorf("empty response from model")
	}

	jsonStr, err := extractJSON(responseText)
	if err != nil {
		return "", err
	}
	return jsonStr, nil
}

// extractJSON pulls the first top-level JSON object out of a model
// response, which is frequently wrapped in prose or code fences.
func extractJSON(response string) (string, error) {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return "", fmt.Errorf("no JSON found in response: %s", truncateString(response, 200))
	}
	return response[startIdx : endIdx+1], nil
}

// unmarshalLenient tries a straight unmarshal and falls back to a
// sanitized pass that escapes stray quotes inside string values, a common
// defect in model output.
func unmarshalLenient(jsonStr string, v any) error {
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		sanitized := sanitizeJSON(jsonStr)
		if sanitizedErr := json.Unmarshal([]byte(sanitized), v); sanitizedErr != nil {
			return fmt.Errorf("failed to unmarshal JSON %q: %w (sanitized version also failed: %v)",
				truncateString(jsonStr, 200), err, sanitizedErr)
		}
	}
	return nil
}

// sanitizeJSON repairs unescaped quotes within string values, line by line.
func sanitizeJSON(jsonStr string) string {
	lines := strings.Split(jsonStr, "\n")
	var sanitized []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.Contains(line, ":") && strings.Contains(line, "\"") {
			colonIdx := strings.Index(line, ":")
			beforeColon := line[:colonIdx+1]
			afterColon := strings.TrimSpace(line[colonIdx+1:])

			if strings.HasPrefix(afterColon, "\"") {
				lastQuoteIdx := strings.LastIndex(afterColon, "\"")
				if lastQuoteIdx > 0 {
					stringContent := afterColon[1:lastQuoteIdx]
					stringContent = strings.ReplaceAll(stringContent, "\\\"", "\"")
					stringContent = strings.ReplaceAll(stringContent, "\"", "\\\"")
					remainder := afterColon[lastQuoteIdx+1:]
					line = beforeColon + " \"" + stringContent + "\"" + remainder
				}
			}
		}

		sanitized = append(sanitized, line)
	}

	return strings.Join(sanitized, "\n")
}

// normalizeString coerces an arbitrary JSON value into a plain string.
// Models occasionally emit lists or objects where a string was asked for;
// every free-text field crosses this one boundary so the coercion rule
// lives in exactly one place. Lists join with ", "; objects serialize to
// indented JSON; null becomes empty.
func normalizeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, normalizeString(item))
		}
		return strings.Join(parts, ", ")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		pretty, err := json.MarshalIndent(json.RawMessage(raw), "", "  ")
		if err == nil {
			return string(pretty)
		}
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return ""
	}
	return trimmed
}

// normalizeStringList coerces a JSON value into a list of plain strings.
func normalizeStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s := normalizeString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	if s := normalizeString(raw); s != "" {
		return []string{s}
	}
	return nil
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
