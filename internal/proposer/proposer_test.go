package proposer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaptermark/internal/types"
	"chaptermark/pkg/errors"
)

type fakeCompleter struct {
	reply     string
	err       error
	gotSystem string
	gotUser   string
}

func (f *fakeCompleter) ChatCompletion(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.gotSystem = systemPrompt
	f.gotUser = userPrompt
	return f.reply, f.err
}

func chunkRequest() ChunkRequest {
	return ChunkRequest{
		ChunkId:         1,
		Entries:         []types.SubtitleEntry{{Id: 1, StartSeconds: 0, EndSeconds: 10, Text: "welcome to the series"}},
		StartSeconds:    0,
		EndSeconds:      360,
		DurationMinutes: 6,
		TargetCount:     3,
		StrategyTier:    types.StrategyTierStandard,
	}
}

func TestExcerpt_TimecodedLines(t *testing.T) {
	req := chunkRequest()
	assert.Equal(t, "[00:00] welcome to the series\n", Excerpt(req))

	req.LongContent = true
	assert.Equal(t, "[00:00:00] welcome to the series\n", Excerpt(req))
}

func TestLLMProposer_ParsesFencedReply(t *testing.T) {
	completer := &fakeCompleter{reply: "Here you go:\n```json\n[\n  {\"timestamp\": \"02:05\", \"description\": \"Explains caching strategy\", \"category\": \"complex_concept\", \"confidence\": 0.8, \"importance\": 0.7}\n]\n```"}
	p := NewLLMProposer(completer)

	got, err := p.Propose(context.Background(), chunkRequest())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 125, got[0].Seconds, 1e-9)
	assert.Equal(t, 1, got[0].ChunkId)
	assert.Equal(t, types.CategoryComplexConcept, got[0].Category)
	assert.NotEmpty(t, completer.gotSystem)
	assert.Contains(t, completer.gotUser, "welcome to the series")
}

func TestLLMProposer_CompleterFailure(t *testing.T) {
	completer := &fakeCompleter{err: assert.AnError}
	p := NewLLMProposer(completer)

	_, err := p.Propose(context.Background(), chunkRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeProposerFailed))
}

func TestLLMProposer_MalformedReply(t *testing.T) {
	completer := &fakeCompleter{reply: "sorry, I cannot help with that"}
	p := NewLLMProposer(completer)

	_, err := p.Propose(context.Background(), chunkRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeProposerBadOutput))
}

func TestSanitize_ShapeContract(t *testing.T) {
	req := chunkRequest()
	in := []types.MomentCandidate{
		{Timestamp: "not a time", Description: "Explains the setup", Confidence: 0.5},
		{Timestamp: "20:00", Description: "Way outside chunk range", Confidence: 0.5},
		{Timestamp: "01:00", Description: "Intro", Confidence: 0.5},
		{Timestamp: "01:30", Description: "far too many words in this one here", Confidence: 0.5},
		{Timestamp: "02:00", Description: "Builds example app", Category: "banana", Confidence: 1.5, Importance: -0.2},
	}

	got := sanitize(in, req)
	require.Len(t, got, 1)
	c := got[0]
	assert.InDelta(t, 120, c.Seconds, 1e-9)
	assert.Equal(t, types.CategoryGeneralContent, c.Category)
	assert.InDelta(t, 1.0, c.Confidence, 1e-9)
	assert.InDelta(t, 0.0, c.Importance, 1e-9)
}

func TestSanitize_AllowsSlack(t *testing.T) {
	req := chunkRequest()
	req.StartSeconds = 60
	in := []types.MomentCandidate{
		{Timestamp: "00:56", Description: "Opens the session", Confidence: 0.5},
	}
	assert.Len(t, sanitize(in, req), 1)
}

func TestHeuristicProposer_PromotesBreakAdjacentEntries(t *testing.T) {
	req := ChunkRequest{
		ChunkId: 2,
		Entries: []types.SubtitleEntry{
			{Id: 1, StartSeconds: 0, EndSeconds: 10, Text: "That finishes the setup."},
			{Id: 2, StartSeconds: 15, EndSeconds: 20, Text: "Now let's talk about deployment"},
			{Id: 3, StartSeconds: 21, EndSeconds: 30, Text: "push the build somewhere"},
		},
		StartSeconds: 0,
		EndSeconds:   30,
		TargetCount:  2,
	}

	got, err := HeuristicProposer{}.Propose(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.InDelta(t, 15, got[0].Seconds, 1e-9)
	assert.Equal(t, types.CategoryTopicShift, got[0].Category)
	assert.Equal(t, "Now let's talk about", got[0].Description)
	assert.Equal(t, 2, got[0].ChunkId)

	// Padding fills the remaining slots deterministically.
	again, err := HeuristicProposer{}.Propose(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestHeuristicProposer_EmptyChunk(t *testing.T) {
	got, err := HeuristicProposer{}.Propose(context.Background(), ChunkRequest{TargetCount: 3})
	require.NoError(t, err)
	assert.Empty(t, got)
}
