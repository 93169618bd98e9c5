// Package proposer defines the moment-proposal boundary: one call per
// chunk, returning candidate moments that are validated before pooling.
package proposer

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"chaptermark/internal/subtitle"
	"chaptermark/internal/types"
)

// Timestamps this far outside the chunk range are still accepted; the
// model occasionally rounds to a neighboring cue.
const timestampSlack = 5.0

// ChunkRequest carries everything a proposer needs for one chunk.
type ChunkRequest struct {
	ChunkId         int
	Entries         []types.SubtitleEntry
	StartSeconds    float64
	EndSeconds      float64
	DurationMinutes float64
	TargetCount     int
	StrategyTier    types.StrategyTier
	LongContent     bool
}

// Proposer produces moment candidates for a single chunk. Implementations
// may fail per call; the pipeline isolates those failures.
type Proposer interface {
	Propose(ctx context.Context, req ChunkRequest) ([]types.MomentCandidate, error)
}

// NewRequest builds a ChunkRequest from a segmented chunk.
func NewRequest(chunk types.Chunk, targetCount int, tier types.StrategyTier, longContent bool) ChunkRequest {
	return ChunkRequest{
		ChunkId:         chunk.Id,
		Entries:         chunk.Entries,
		StartSeconds:    chunk.StartSeconds,
		EndSeconds:      chunk.EndSeconds,
		DurationMinutes: chunk.DurationMinutes,
		TargetCount:     targetCount,
		StrategyTier:    tier,
		LongContent:     longContent,
	}
}

// Excerpt renders the chunk entries as a time-coded transcript excerpt.
func Excerpt(req ChunkRequest) string {
	var b strings.Builder
	for _, e := range req.Entries {
		b.WriteString("[")
		b.WriteString(subtitle.FormatTimestamp(e.StartSeconds, req.LongContent))
		b.WriteString("] ")
		b.WriteString(e.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// sanitize enforces the candidate shape contract: parseable timestamp
// inside the chunk range, 2-5 word description, scores clamped to [0,1],
// unknown categories downgraded. Invalid candidates are dropped, not
// fatal.
func sanitize(candidates []types.MomentCandidate, req ChunkRequest) []types.MomentCandidate {
	out := make([]types.MomentCandidate, 0, len(candidates))
	for _, c := range candidates {
		seconds, err := subtitle.ParseTimestamp(c.Timestamp)
		if err != nil {
			continue
		}
		if seconds < req.StartSeconds-timestampSlack || seconds > req.EndSeconds+timestampSlack {
			continue
		}
		words := len(strings.Fields(c.Description))
		if words < 2 || words > 5 {
			continue
		}
		c.Confidence = clamp01(c.Confidence)
		c.Importance = clamp01(c.Importance)
		if !lo.Contains(types.KnownCategories, c.Category) {
			c.Category = types.CategoryGeneralContent
		}
		c.Seconds = seconds
		c.ChunkId = req.ChunkId
		out = append(out, c)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
