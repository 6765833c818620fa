package agents

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare object",
			response: `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "code fenced",
			response: "Here you go:\n```json\n{\"a\": 1}\n```\nHope that helps!",
			expected: `{"a": 1}`,
		},
		{
			name:     "prose wrapped",
			response: `Sure! The analysis is {"hook": "wait for it"} as requested.`,
			expected: `{"hook": "wait for it"}`,
		},
		{
			name:     "no json at all",
			response: "I cannot help with that.",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeString(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain string", `"hello"`, "hello"},
		{"list joins with comma", `["fast cuts", "jump scares"]`, "fast cuts, jump scares"},
		{"nested list flattens", `[["a", "b"], "c"]`, "a, b, c"},
		{"null becomes empty", `null`, ""},
		{"number passes through as text", `42`, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeString(json.RawMessage(tt.raw))
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("empty raw message", func(t *testing.T) {
		assert.Equal(t, "", normalizeString(nil))
	})

	t.Run("object serializes to indented JSON", func(t *testing.T) {
		got := normalizeString(json.RawMessage(`{"pace": "fast"}`))
		assert.Contains(t, got, `"pace"`)
		assert.Contains(t, got, "fast")
		// Must be valid JSON so the value stays machine-readable.
		var check map[string]any
		assert.NoError(t, json.Unmarshal([]byte(got), &check))
	})
}

func TestNormalizeStringList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, normalizeStringList(json.RawMessage(`["a", "b"]`)))
	assert.Equal(t, []string{"solo"}, normalizeStringList(json.RawMessage(`"solo"`)))
	assert.Nil(t, normalizeStringList(json.RawMessage(`null`)))
	assert.Nil(t, normalizeStringList(nil))
	assert.Equal(t, []string{"kept"}, normalizeStringList(json.RawMessage(`["kept", ""]`)))
}

func TestUnmarshalLenientRepairsQuotes(t *testing.T) {
	// Unescaped interior quotes, the most common model output defect.
	broken := `{
"hook_text": "he said "wait for it" and left",
"tone": "dramatic"
}`

	var resp struct {
		HookText string `json:"hook_text"`
		Tone     string `json:"tone"`
	}
	require.NoError(t, unmarshalLenient(broken, &resp))
	assert.Equal(t, `he said "wait for it" and left`, resp.HookText)
	assert.Equal(t, "dramatic", resp.Tone)
}

func TestUnmarshalLenientStillFailsOnGarbage(t *testing.T) {
	var resp map[string]any
	assert.Error(t, unmarshalLenient("{{{not json", &resp))
}
