package discovery

import (
	"math"
	"testing"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "hashtags in description",
			text:     "Insane clutch #gaming #shorts check it out #gaming",
			expected: []string{"#gaming", "#shorts"},
		},
		{
			name:     "no hashtags",
			text:     "just a plain description",
			expected: nil,
		},
		{
			name:     "empty text",
			text:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHashtags(tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("ExtractHashtags() = %v, expected %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("tag %d = %q, expected %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"PT45S", 45},
		{"PT1M30S", 90},
		{"PT2H15M30S", 8130},
		{"PT1M", 60},
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseDurationSeconds(tt.input)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("parseDurationSeconds(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}
