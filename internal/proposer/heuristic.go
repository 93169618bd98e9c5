package proposer

import (
	"context"
	"sort"
	"strings"

	"chaptermark/internal/analyzer"
	"chaptermark/internal/subtitle"
	"chaptermark/internal/types"
)

// HeuristicProposer is a deterministic, model-free proposer: it promotes
// the strongest break-point-adjacent entries of the chunk and pads with
// evenly spaced entries when the chunk has too few natural breaks. Used
// for dry runs and tests.
type HeuristicProposer struct{}

func (HeuristicProposer) Propose(_ context.Context, req ChunkRequest) ([]types.MomentCandidate, error) {
	if len(req.Entries) == 0 || req.TargetCount <= 0 {
		return nil, nil
	}

	seen := make(map[int]bool)
	var out []types.MomentCandidate

	for _, bp := range analyzer.DetectBreakPoints(req.Entries) {
		if len(out) >= req.TargetCount {
			break
		}
		idx := bp.AfterEntryIndex + 1
		if idx >= len(req.Entries) || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, candidateAt(req, idx, bp.Confidence, categoryFor(bp.Reason)))
	}

	if len(out) < req.TargetCount {
		step := float64(len(req.Entries)) / float64(req.TargetCount+1)
		for k := 1; len(out) < req.TargetCount && k <= req.TargetCount; k++ {
			idx := int(float64(k) * step)
			if idx >= len(req.Entries) {
				idx = len(req.Entries) - 1
			}
			if seen[idx] {
				continue
			}
			seen[idx] = true
			out = append(out, candidateAt(req, idx, 0.4, types.CategoryGeneralContent))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Seconds < out[j].Seconds })
	return out, nil
}

func candidateAt(req ChunkRequest, idx int, confidence float64, category types.MomentCategory) types.MomentCandidate {
	entry := req.Entries[idx]
	return types.MomentCandidate{
		Timestamp:   subtitle.FormatTimestamp(entry.StartSeconds, req.LongContent),
		Seconds:     entry.StartSeconds,
		Description: describe(entry.Text),
		Category:    category,
		Confidence:  confidence,
		Importance:  0.5,
		ChunkId:     req.ChunkId,
	}
}

func describe(text string) string {
	words := strings.Fields(text)
	if len(words) < 2 {
		return "notable moment"
	}
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}

func categoryFor(reason types.BreakReason) types.MomentCategory {
	switch reason {
	case types.BreakReasonTopicChange:
		return types.CategoryTopicShift
	case types.BreakReasonSectionBreak:
		return types.CategoryTransition
	default:
		return types.CategoryGeneralContent
	}
}
