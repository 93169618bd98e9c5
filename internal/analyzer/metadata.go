// Package analyzer derives per-run statistics from parsed subtitle entries:
// duration and density metadata, natural break points, and the moment/chunk
// budget for the proposer.
package analyzer

import (
	"math"

	"chaptermark/internal/types"
)

const (
	// longPauseSeconds is the gap length treated as a long pause.
	longPauseSeconds = 3.0
	// longPauseRatio is the fraction of gaps that must be long pauses
	// before the whole video is flagged.
	longPauseRatio = 0.10

	lowDensityWPM  = 120
	highDensityWPM = 180
)

// Analyze computes video metadata from the entry list. Pure function;
// empty input yields zeroed, lowest-tier metadata instead of an error.
func Analyze(entries []types.SubtitleEntry) types.VideoMetadata {
	if len(entries) == 0 {
		return types.VideoMetadata{
			ContentDensity: types.ContentDensityLow,
			LengthCategory: types.LengthCategoryShort,
		}
	}

	var duration, entryDurations float64
	var totalWords int
	for _, e := range entries {
		// Duration is the max end time, not the sum: entries may have
		// gaps or, rarely, overlaps.
		if e.EndSeconds > duration {
			duration = e.EndSeconds
		}
		entryDurations += e.Duration()
		totalWords += e.WordCount()
	}

	minutes := duration / 60
	wpm := 0
	if minutes > 0 {
		wpm = int(math.Round(float64(totalWords) / minutes))
	}

	return types.VideoMetadata{
		DurationSeconds:         duration,
		DurationMinutes:         minutes,
		TotalEntries:            len(entries),
		AverageEntryDuration:    entryDurations / float64(len(entries)),
		EstimatedWordsPerMinute: wpm,
		ContentDensity:          densityFor(wpm),
		HasLongPauses:           hasLongPauses(entries),
		LengthCategory:          lengthCategoryFor(minutes),
	}
}

func densityFor(wpm int) types.ContentDensity {
	switch {
	case wpm < lowDensityWPM:
		return types.ContentDensityLow
	case wpm > highDensityWPM:
		return types.ContentDensityHigh
	default:
		return types.ContentDensityMedium
	}
}

func hasLongPauses(entries []types.SubtitleEntry) bool {
	if len(entries) < 2 {
		return false
	}
	long := 0
	for i := 0; i < len(entries)-1; i++ {
		if entries[i+1].StartSeconds-entries[i].EndSeconds > longPauseSeconds {
			long++
		}
	}
	return float64(long)/float64(len(entries)-1) > longPauseRatio
}

func lengthCategoryFor(minutes float64) types.LengthCategory {
	switch {
	case minutes <= 30:
		return types.LengthCategoryShort
	case minutes <= 90:
		return types.LengthCategoryMedium
	case minutes <= 180:
		return types.LengthCategoryLong
	default:
		return types.LengthCategoryVeryLong
	}
}
