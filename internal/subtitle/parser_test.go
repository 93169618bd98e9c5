package subtitle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaptermark/internal/types"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:04,500
Welcome to the course.

2
00:00:05,000 --> 00:00:09,250
Today we cover caching
and cache invalidation.

3
00:00:10,000 --> 00:00:12,000
Let's get started.
`

func TestParse_WellFormed(t *testing.T) {
	entries := Parse(sampleSRT)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Id)
	assert.InDelta(t, 1.0, entries[0].StartSeconds, 1e-9)
	assert.InDelta(t, 4.5, entries[0].EndSeconds, 1e-9)
	assert.Equal(t, "Welcome to the course.", entries[0].Text)

	// Multi-line cue text is joined with spaces.
	assert.Equal(t, "Today we cover caching and cache invalidation.", entries[1].Text)
}

func TestParse_CRLF(t *testing.T) {
	crlf := strings.ReplaceAll(sampleSRT, "\n", "\r\n")
	entries := Parse(crlf)
	require.Len(t, entries, 3)
	assert.Equal(t, "Let's get started.", entries[2].Text)
}

func TestParse_MalformedBlocksSkipped(t *testing.T) {
	raw := `1
00:00:01,000 --> 00:00:02,000
Good cue.

not-a-number
00:00:03,000 --> 00:00:04,000
Bad id.

2
three minutes in
Bad timing line.

3
00:00:05,000 --> 00:00:06,000
`
	entries := Parse(raw)
	// Only the first block survives: bad id, bad timing and the two-line
	// block are all dropped.
	require.Len(t, entries, 1)
	assert.Equal(t, "Good cue.", entries[0].Text)
}

func TestParse_EmptyAndGarbage(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n\n  \n"))
	assert.Empty(t, Parse("complete nonsense\nwithout any structure"))
	assert.NotNil(t, Parse(""))
}

func TestParse_IdsNeedNotBeContiguous(t *testing.T) {
	raw := `10
00:00:01,000 --> 00:00:02,000
First in file.

3
00:00:03,000 --> 00:00:04,000
Second in file.
`
	entries := Parse(raw)
	require.Len(t, entries, 2)
	// File order wins over numeric id order.
	assert.Equal(t, 10, entries[0].Id)
	assert.Equal(t, 3, entries[1].Id)
}

func TestParse_ResultBoundedByBlockCount(t *testing.T) {
	raw := "a\n\nb\n\nc\n\nd"
	blocks := len(strings.Split(raw, "\n\n"))
	assert.LessOrEqual(t, len(Parse(raw)), blocks)
}

func TestFormat_RoundTrip(t *testing.T) {
	entries := []types.SubtitleEntry{
		{Id: 1, StartSeconds: 0, EndSeconds: 2.5, Text: "Opening line."},
		{Id: 2, StartSeconds: 3, EndSeconds: 7.125, Text: "Second line with more words."},
		{Id: 7, StartSeconds: 3601, EndSeconds: 3605, Text: "Past the hour mark."},
	}

	parsed := Parse(Format(entries))
	require.Len(t, parsed, len(entries))
	for i := range entries {
		assert.Equal(t, entries[i].Id, parsed[i].Id)
		assert.InDelta(t, entries[i].StartSeconds, parsed[i].StartSeconds, 1e-3)
		assert.InDelta(t, entries[i].EndSeconds, parsed[i].EndSeconds, 1e-3)
		assert.Equal(t, entries[i].Text, parsed[i].Text)
	}
}
