package pipeline

import (
	"strings"
	"unicode"

	"trendforge/internal/models"
)

// IsEnglish decides whether a candidate is English-language content.
// Explicit platform metadata takes precedence; only when both language
// fields are absent does the Unicode-script heuristic over the title and
// description apply.
func IsEnglish(c models.Candidate) bool {
	if lang := firstNonEmpty(c.DefaultAudioLanguage, c.DefaultLanguage); lang != "" {
		return strings.HasPrefix(strings.ToLower(lang), "en")
	}
	return looksEnglish(c.Title + " " + c.Description)
}

// nonLatinScripts are scripts whose presence marks text as non-English.
var nonLatinScripts = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Cyrillic,
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Thai,
	unicode.Hangul,
}

// looksEnglish is the script heuristic: text is treated as English unless
// more than a quarter of its letters come from a non-Latin script. Short
// or empty text passes; the analysis stage can still discard it later.
func looksEnglish(text string) bool {
	letters := 0
	nonLatin := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		for _, script := range nonLatinScripts {
			if unicode.Is(script, r) {
				nonLatin++
				break
			}
		}
	}
	if letters == 0 {
		return true
	}
	return float64(nonLatin)/float64(letters) <= 0.25
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
