package analyzer

import (
	"sort"
	"strings"

	"chaptermark/internal/types"
)

const (
	pauseBreakSeconds    = 3.0
	sentencePauseSeconds = 1.5

	pauseScore    = 0.4
	topicScore    = 0.3
	sentenceScore = 0.2

	// minBreakConfidence is the retention floor for candidates.
	minBreakConfidence = 0.3
)

// topicCues are lexical markers that often open a new topic. Matching is a
// plain lower-cased substring check; this is deliberately approximate.
var topicCues = []string{
	"now", "next", "so", "okay", "alright", "moving on", "let's",
	"another", "different", "change", "switch", "turn to", "look at",
}

// DetectBreakPoints scans adjacent entry pairs for natural segmentation
// cues. Signals accumulate additively (capped at 1.0):
//
//	pause >= 3s            +0.4  long_pause
//	topic cue in next text +0.3  topic_change (overrides long_pause)
//	pause >= 1.5s and the current text ends a sentence
//	                       +0.2  section_break (does not override topic_change)
//
// Positions scoring below 0.3 are dropped. The result is sorted by
// confidence descending so the segmenter can greedily pick the best
// candidate inside a search window.
func DetectBreakPoints(entries []types.SubtitleEntry) []types.BreakPoint {
	var points []types.BreakPoint
	for i := 0; i < len(entries)-1; i++ {
		pause := entries[i+1].StartSeconds - entries[i].EndSeconds

		var score float64
		var reason types.BreakReason

		if pause >= pauseBreakSeconds {
			score += pauseScore
			reason = types.BreakReasonLongPause
		}
		if containsTopicCue(entries[i+1].Text) {
			score += topicScore
			reason = types.BreakReasonTopicChange
		}
		if pause >= sentencePauseSeconds && endsSentence(entries[i].Text) {
			score += sentenceScore
			if reason != types.BreakReasonTopicChange {
				reason = types.BreakReasonSectionBreak
			}
		}

		if score < minBreakConfidence {
			continue
		}
		if score > 1.0 {
			score = 1.0
		}
		points = append(points, types.BreakPoint{
			AfterEntryIndex:  i,
			TimestampSeconds: entries[i].EndSeconds,
			Confidence:       score,
			Reason:           reason,
		})
	}

	sort.SliceStable(points, func(a, b int) bool {
		return points[a].Confidence > points[b].Confidence
	})
	return points
}

func containsTopicCue(text string) bool {
	lowered := strings.ToLower(text)
	for _, cue := range topicCues {
		if strings.HasPrefix(lowered, cue) || strings.Contains(lowered, cue) {
			return true
		}
	}
	return false
}

func endsSentence(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '?', '!':
		return true
	}
	return false
}
