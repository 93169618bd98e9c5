package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaptermark/internal/types"
)

func TestDetectBreakPoints_LongPauseWithTopicCue(t *testing.T) {
	entries := []types.SubtitleEntry{
		entry(1, 0, 10, "That wraps up the basics."),
		entry(2, 15, 20, "Now let's move on to deployment"),
	}

	points := DetectBreakPoints(entries)
	require.Len(t, points, 1)

	bp := points[0]
	assert.Equal(t, 0, bp.AfterEntryIndex)
	assert.InDelta(t, 10, bp.TimestampSeconds, 1e-9)
	// pause 0.4 + topic cue 0.3 + sentence-final 0.2
	assert.InDelta(t, 0.9, bp.Confidence, 1e-9)
	assert.Equal(t, types.BreakReasonTopicChange, bp.Reason)
}

func TestDetectBreakPoints_PauseOnly(t *testing.T) {
	entries := []types.SubtitleEntry{
		entry(1, 0, 10, "trailing words without punctuation"),
		entry(2, 14, 20, "continuing the same thread here"),
	}

	points := DetectBreakPoints(entries)
	require.Len(t, points, 1)
	assert.InDelta(t, 0.4, points[0].Confidence, 1e-9)
	assert.Equal(t, types.BreakReasonLongPause, points[0].Reason)
}

func TestDetectBreakPoints_SectionBreakNeedsPause(t *testing.T) {
	// Sentence-final punctuation alone (0.2) stays below the retention floor.
	noPause := []types.SubtitleEntry{
		entry(1, 0, 10, "This is a full sentence."),
		entry(2, 10.2, 15, "continuing immediately here"),
	}
	assert.Empty(t, DetectBreakPoints(noPause))

	// With a 2s gap the pause is too short for long_pause but the
	// sentence boundary still fires; 0.2 alone is dropped as well.
	shortPause := []types.SubtitleEntry{
		entry(1, 0, 10, "This is a full sentence."),
		entry(2, 12, 15, "continuing the same idea here"),
	}
	assert.Empty(t, DetectBreakPoints(shortPause))
}

func TestDetectBreakPoints_SectionBreakOverridesLongPause(t *testing.T) {
	entries := []types.SubtitleEntry{
		entry(1, 0, 10, "And that completes the install."),
		entry(2, 14, 20, "continuing without any cue words"),
	}

	points := DetectBreakPoints(entries)
	require.Len(t, points, 1)
	assert.InDelta(t, 0.6, points[0].Confidence, 1e-9)
	assert.Equal(t, types.BreakReasonSectionBreak, points[0].Reason)
}

func TestDetectBreakPoints_ScoreCap(t *testing.T) {
	entries := []types.SubtitleEntry{
		entry(1, 0, 10, "Done with this part!"),
		entry(2, 20, 30, "Okay, now let's switch to a different topic"),
	}
	points := DetectBreakPoints(entries)
	require.Len(t, points, 1)
	assert.LessOrEqual(t, points[0].Confidence, 1.0)
}

func TestDetectBreakPoints_SortedByConfidence(t *testing.T) {
	entries := []types.SubtitleEntry{
		entry(1, 0, 10, "no punctuation here"),
		entry(2, 14, 20, "plain continuation text"), // pause only: 0.4
		entry(3, 26, 30, "Now for something else."),  // pause + topic: 0.7
		entry(4, 31, 35, "wrap up words"),
	}

	points := DetectBreakPoints(entries)
	require.Len(t, points, 2)
	assert.GreaterOrEqual(t, points[0].Confidence, points[1].Confidence)
	assert.Equal(t, 1, points[0].AfterEntryIndex)
}

func TestDetectBreakPoints_DegenerateInputs(t *testing.T) {
	assert.Empty(t, DetectBreakPoints(nil))
	assert.Empty(t, DetectBreakPoints([]types.SubtitleEntry{entry(1, 0, 5, "only one")}))
}
