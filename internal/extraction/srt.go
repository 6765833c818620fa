package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"trendforge/internal/models"
)

var srtTimingPattern = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}[,.]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[,.]\d{3})`)

// ParseSRT converts SRT subtitle text into transcript segments. Malformed
// blocks are skipped rather than failing the whole file; subtitle dumps
// from automatic captioning are frequently partially broken.
func ParseSRT(content string) []models.TranscriptSegment {
	var segments []models.TranscriptSegment

	blocks := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		timingLine := -1
		var timing []string
		for i, line := range lines {
			if m := srtTimingPattern.FindStringSubmatch(line); m != nil {
				timingLine = i
				timing = m
				break
			}
		}
		if timingLine == -1 || timingLine == len(lines)-1 {
			continue
		}

		start, err := srtTimeToSeconds(timing[1])
		if err != nil {
			continue
		}
		end, err := srtTimeToSeconds(timing[2])
		if err != nil {
			continue
		}

		text := strings.TrimSpace(strings.Join(lines[timingLine+1:], " "))
		if text == "" {
			continue
		}

		segments = append(segments, models.TranscriptSegment{
			Text:      text,
			StartTime: start,
			EndTime:   end,
			// Platform subtitles are treated as ground truth.
			Confidence: 1.0,
		})
	}
	return segments
}

// srtTimeToSeconds converts "HH:MM:SS,mmm" (or with a dot separator) to
// seconds as a float.
func srtTimeToSeconds(timestamp string) (float64, error) {
	timestamp = strings.ReplaceAll(timestamp, ",", ".")
	parts := strings.Split(timestamp, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid SRT timestamp %q", timestamp)
	}

	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", timestamp, err)
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", timestamp, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", timestamp, err)
	}

	return hours*3600 + minutes*60 + seconds, nil
}
