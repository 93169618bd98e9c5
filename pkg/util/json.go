package util

import (
	"regexp"
	"strings"
)

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// ExtractJSON tries to find the largest JSON object/array in LLM output.
// Models often wrap JSON in markdown code fences or surround it with prose.
func ExtractJSON(text string) string {
	if matches := codeFenceRe.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := firstIndexAny(text, "{", "[")
	if start == -1 {
		return text
	}
	end := lastIndexAny(text, "}", "]")
	if end > start {
		return text[start : end+1]
	}
	return text
}

func firstIndexAny(text string, tokens ...string) int {
	best := -1
	for _, tok := range tokens {
		if i := strings.Index(text, tok); i != -1 && (best == -1 || i < best) {
			best = i
		}
	}
	return best
}

func lastIndexAny(text string, tokens ...string) int {
	best := -1
	for _, tok := range tokens {
		if i := strings.LastIndex(text, tok); i > best {
			best = i
		}
	}
	return best
}
