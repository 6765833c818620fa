package production

import "testing"

func TestSelectGenerator(t *testing.T) {
	tests := []struct {
		name       string
		style      string
		preference string
		configured map[string]bool
		expected   string
	}{
		{
			name:       "preference overrides everything",
			style:      "animated meme",
			preference: "luma",
			configured: map[string]bool{"pika": true},
			expected:   "luma",
		},
		{
			name:       "preference wins even when unconfigured",
			style:      "",
			preference: "kling",
			configured: map[string]bool{},
			expected:   "kling",
		},
		{
			name:       "no credentials selects the default",
			style:      "cinematic drama",
			configured: map[string]bool{},
			expected:   "pika",
		},
		{
			name:       "cinematic realistic style prefers runway",
			style:      "cinematic realistic drama",
			configured: map[string]bool{"runway": true, "pika": true},
			expected:   "runway",
		},
		{
			name:       "animated meme edit style prefers pika",
			style:      "animated meme edit",
			configured: map[string]bool{"pika": true},
			expected:   "pika",
		},
		{
			name:       "action style prefers kling",
			style:      "dynamic action sequence",
			configured: map[string]bool{"kling": true, "luma": true},
			expected:   "kling",
		},
		{
			name:       "style match requires the backend to be configured",
			style:      "cinematic realistic drama",
			configured: map[string]bool{"kling": true},
			expected:   "kling",
		},
		{
			name:       "no style signal takes first configured in fixed order",
			style:      "plain vlog",
			configured: map[string]bool{"luma": true, "kling": true},
			expected:   "kling",
		},
		{
			name:       "case insensitive style matching",
			style:      "CINEMATIC Masterpiece",
			configured: map[string]bool{"runway": true},
			expected:   "runway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectGenerator(tt.style, tt.preference, "pika", tt.configured)
			if got != tt.expected {
				t.Errorf("SelectGenerator() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
