package production

import "strings"

// backendOrder is the fixed preference order when style gives no signal.
var backendOrder = []string{"runway", "pika", "kling", "luma"}

// SelectGenerator picks a video generation backend from the style prompt
// and the set of backends with credentials. Selection rules, in priority
// order:
//
//  1. An explicit preference wins unconditionally, configured or not.
//  2. No configured backends at all selects the default backend.
//  3. Realistic or cinematic styles prefer runway; animated, meme or
//     edit styles prefer pika; action or dynamic styles prefer kling.
//     A style match only applies when that backend is configured.
//  4. Otherwise the first configured backend in fixed order wins.
func SelectGenerator(stylePrompt, preference, defaultBackend string, configured map[string]bool) string {
	if preference != "" {
		return preference
	}
	if len(configured) == 0 {
		return defaultBackend
	}

	style := strings.ToLower(stylePrompt)
	styleHas := func(keywords ...string) bool {
		for _, kw := range keywords {
			if strings.Contains(style, kw) {
				return true
			}
		}
		return false
	}

	switch {
	case styleHas("realistic", "cinematic") && configured["runway"]:
		return "runway"
	case styleHas("animated", "meme", "edit") && configured["pika"]:
		return "pika"
	case styleHas("action", "dynamic") && configured["kling"]:
		return "kling"
	}

	for _, backend := range backendOrder {
		if configured[backend] {
			return backend
		}
	}
	return defaultBackend
}
