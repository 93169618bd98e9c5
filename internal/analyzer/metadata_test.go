package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"chaptermark/internal/types"
)

func entry(id int, start, end float64, text string) types.SubtitleEntry {
	return types.SubtitleEntry{Id: id, StartSeconds: start, EndSeconds: end, Text: text}
}

func TestAnalyze_Empty(t *testing.T) {
	meta := Analyze(nil)

	assert.Zero(t, meta.DurationSeconds)
	assert.Zero(t, meta.TotalEntries)
	assert.Zero(t, meta.EstimatedWordsPerMinute)
	assert.Equal(t, types.ContentDensityLow, meta.ContentDensity)
	assert.Equal(t, types.LengthCategoryShort, meta.LengthCategory)
	assert.False(t, meta.HasLongPauses)
}

func TestAnalyze_DurationIsMaxEndTime(t *testing.T) {
	entries := []types.SubtitleEntry{
		entry(1, 0, 10, "one two three"),
		entry(2, 12, 20, "four five"),
		// Overlapping cue that ends earlier than the previous one.
		entry(3, 15, 18, "six"),
	}
	meta := Analyze(entries)
	assert.InDelta(t, 20, meta.DurationSeconds, 1e-9)
	assert.Equal(t, 3, meta.TotalEntries)
}

func TestAnalyze_WordsPerMinuteAndDensity(t *testing.T) {
	// 60 seconds of content, 100 words -> 100 wpm -> low.
	low := []types.SubtitleEntry{entry(1, 0, 60, strings.Repeat("word ", 100))}
	assert.Equal(t, types.ContentDensityLow, Analyze(low).ContentDensity)
	assert.Equal(t, 100, Analyze(low).EstimatedWordsPerMinute)

	med := []types.SubtitleEntry{entry(1, 0, 60, strings.Repeat("word ", 150))}
	assert.Equal(t, types.ContentDensityMedium, Analyze(med).ContentDensity)

	high := []types.SubtitleEntry{entry(1, 0, 60, strings.Repeat("word ", 200))}
	assert.Equal(t, types.ContentDensityHigh, Analyze(high).ContentDensity)
}

func TestAnalyze_LongPauses(t *testing.T) {
	// 1 of 2 gaps exceeds 3s: 50% > 10% threshold.
	withPauses := []types.SubtitleEntry{
		entry(1, 0, 5, "a"),
		entry(2, 10, 15, "b"),
		entry(3, 15.5, 20, "c"),
	}
	assert.True(t, Analyze(withPauses).HasLongPauses)

	dense := []types.SubtitleEntry{
		entry(1, 0, 5, "a"),
		entry(2, 5.5, 10, "b"),
		entry(3, 10.2, 15, "c"),
	}
	assert.False(t, Analyze(dense).HasLongPauses)
}

func TestAnalyze_LengthCategories(t *testing.T) {
	cases := []struct {
		minutes float64
		want    types.LengthCategory
	}{
		{10, types.LengthCategoryShort},
		{30, types.LengthCategoryShort},
		{31, types.LengthCategoryMedium},
		{90, types.LengthCategoryMedium},
		{91, types.LengthCategoryLong},
		{180, types.LengthCategoryLong},
		{181, types.LengthCategoryVeryLong},
	}
	for _, tc := range cases {
		entries := []types.SubtitleEntry{entry(1, 0, tc.minutes*60, "text")}
		assert.Equal(t, tc.want, Analyze(entries).LengthCategory, "minutes=%v", tc.minutes)
	}
}
