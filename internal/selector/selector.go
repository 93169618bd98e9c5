// Package selector reduces the pooled moment candidates to the final
// chapter list: tolerance deduplication, distribution-aware ranking and
// chronological output.
package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"chaptermark/internal/types"
)

const (
	// Candidates within this window count as the same moment.
	timestampTolerance = 5.0
	// Near-identical descriptions inside this window collapse too.
	descriptionWindow     = 30.0
	descriptionSimilarity = 0.8

	// Fraction of the video considered "the front" for the clustering check.
	frontFraction = 0.2

	weightConfidence = 0.4
	weightTemporal   = 0.3
	weightDiversity  = 0.2
	weightKeyword    = 0.1
)

var relevanceKeywords = []string{
	"introduc", "overview", "setup", "install", "demo", "build", "test",
	"deploy", "review", "compar", "explain", "conclu", "summar", "result", "recap",
}

// Result is the selector outcome. FrontClustered marks a selection where
// nearly all moments landed in the opening stretch of the video.
type Result struct {
	Moments        []types.MomentCandidate
	TargetMet      bool
	FrontClustered bool
	Warnings       []string
}

// Select picks up to targetCount moments from the candidate pool. Fewer
// candidates than the target is not an error: all survivors are returned
// and the shortfall is annotated. An empty pool yields an empty result.
func Select(candidates []types.MomentCandidate, targetCount int, videoDurationSeconds float64) Result {
	if targetCount <= 0 || len(candidates) == 0 {
		return Result{Moments: []types.MomentCandidate{}, TargetMet: targetCount <= 0}
	}

	pool := dedup(candidates)

	if len(pool) <= targetCount {
		res := Result{Moments: pool, TargetMet: len(pool) == targetCount}
		if len(pool) < targetCount {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("only %d unique moments available for a target of %d", len(pool), targetCount))
		}
		if frontClustered(pool, targetCount, videoDurationSeconds) {
			res.FrontClustered = true
			res.Warnings = append(res.Warnings, clusterWarning)
		}
		return res
	}

	picked, clustered := pickByScore(pool, targetCount, videoDurationSeconds)
	res := Result{Moments: picked, TargetMet: len(picked) == targetCount, FrontClustered: clustered}
	if clustered {
		res.Warnings = append(res.Warnings, clusterWarning)
	}
	return res
}

const clusterWarning = "selected moments cluster in the first 20% of the video"

// dedup collapses timestamp near-duplicates (keeping the higher
// confidence) and then near-identical descriptions close in time.
func dedup(candidates []types.MomentCandidate) []types.MomentCandidate {
	sorted := make([]types.MomentCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Seconds < sorted[j].Seconds })

	var out []types.MomentCandidate
	for _, c := range sorted {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if c.Seconds-last.Seconds <= timestampTolerance {
				if c.Confidence > last.Confidence {
					*last = c
				}
				continue
			}
		}
		out = append(out, c)
	}
	return collapseSimilar(out)
}

func collapseSimilar(moments []types.MomentCandidate) []types.MomentCandidate {
	var out []types.MomentCandidate
	for _, c := range moments {
		dup := false
		for i := range out {
			if c.Seconds-out[i].Seconds > descriptionWindow {
				continue
			}
			ratio := levenshtein.RatioForStrings(
				[]rune(strings.ToLower(out[i].Description)),
				[]rune(strings.ToLower(c.Description)),
				levenshtein.DefaultOptions)
			if ratio >= descriptionSimilarity {
				if c.Confidence > out[i].Confidence {
					out[i] = c
				}
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seconds < out[j].Seconds })
	return out
}

// pickByScore fills the selection greedily by weighted score, holding the
// opening/closing bookends when the pool spans close to the full duration
// and capping how many picks may land in the front stretch while later
// candidates remain available.
func pickByScore(pool []types.MomentCandidate, targetCount int, duration float64) ([]types.MomentCandidate, bool) {
	selected := make([]types.MomentCandidate, 0, targetCount)
	used := make([]bool, len(pool))
	frontLimit := duration * frontFraction
	frontCap := targetCount - 1

	take := func(i int) {
		used[i] = true
		selected = append(selected, pool[i])
	}

	if targetCount >= 2 && duration > 0 {
		first, last := pool[0], pool[len(pool)-1]
		if first.Seconds <= duration*0.1 && last.Seconds >= duration*0.9 {
			take(0)
			take(len(pool) - 1)
		}
	}

	for len(selected) < targetCount {
		frontCount := countFront(selected, frontLimit)
		best := -1
		bestScore := -1.0
		for i, c := range pool {
			if used[i] {
				continue
			}
			if duration > 0 && c.Seconds <= frontLimit && frontCount >= frontCap &&
				anyOutsideFront(pool, used, frontLimit) {
				continue
			}
			if s := score(c, selected, targetCount, duration); s > bestScore {
				best, bestScore = i, s
			}
		}
		if best < 0 {
			break
		}
		take(best)
	}

	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Seconds < selected[j].Seconds })
	clustered := duration > 0 && countFront(selected, frontLimit) > frontCap
	return selected, clustered
}

func score(c types.MomentCandidate, selected []types.MomentCandidate, targetCount int, duration float64) float64 {
	s := weightConfidence * c.Confidence
	s += weightTemporal * bucketFit(c, selected, targetCount, duration)
	if !lo.ContainsBy(selected, func(m types.MomentCandidate) bool { return m.Category == c.Category }) {
		s += weightDiversity
	}
	s += weightKeyword * keywordScore(c.Description)
	return s
}

// bucketFit rewards candidates landing in time buckets the running
// selection has not covered yet.
func bucketFit(c types.MomentCandidate, selected []types.MomentCandidate, targetCount int, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	b := bucketOf(c.Seconds, duration, targetCount)
	occupied := lo.CountBy(selected, func(m types.MomentCandidate) bool {
		return bucketOf(m.Seconds, duration, targetCount) == b
	})
	return 1 / float64(1+occupied)
}

func bucketOf(seconds, duration float64, buckets int) int {
	idx := int(seconds / duration * float64(buckets))
	if idx >= buckets {
		idx = buckets - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func keywordScore(description string) float64 {
	desc := strings.ToLower(description)
	for _, kw := range relevanceKeywords {
		if strings.Contains(desc, kw) {
			return 1
		}
	}
	return 0
}

func countFront(moments []types.MomentCandidate, frontLimit float64) int {
	return lo.CountBy(moments, func(m types.MomentCandidate) bool { return m.Seconds <= frontLimit })
}

func anyOutsideFront(pool []types.MomentCandidate, used []bool, frontLimit float64) bool {
	for i, c := range pool {
		if !used[i] && c.Seconds > frontLimit {
			return true
		}
	}
	return false
}

func frontClustered(moments []types.MomentCandidate, targetCount int, duration float64) bool {
	if duration <= 0 {
		return false
	}
	return countFront(moments, duration*frontFraction) > targetCount-1
}
