// Package segmenter partitions a subtitle entry sequence into
// duration-bounded, overlap-aware chunks, snapping boundaries to detected
// break points where possible.
package segmenter

import (
	"fmt"
	"math"

	"chaptermark/internal/types"
)

// Options bound chunk durations and the boundary overlap window.
type Options struct {
	TargetMinutes  float64
	MaxMinutes     float64
	MinMinutes     float64
	OverlapSeconds float64
}

// DefaultOptions returns the standard 6/8/4-minute bounds with a 30s
// overlap.
func DefaultOptions() Options {
	return Options{
		TargetMinutes:  6,
		MaxMinutes:     8,
		MinMinutes:     4,
		OverlapSeconds: 30,
	}
}

// Chunk confidence factors; base 0.5 plus each satisfied factor.
const (
	baseConfidence        = 0.5
	durationFactor        = 0.15
	naturalBreakFactor    = 0.15
	wordDensityFactor     = 0.1
	entryDensityFactor    = 0.1
	durationTolerance     = 0.2 // fraction of target duration
	minWordsPerSecond     = 2.0
	maxWordsPerSecond     = 4.0
	minEntriesPerMinute   = 10.0
	maxEntriesPerMinute   = 30.0
	lowChunkConfidence    = 0.4
)

// Segment greedily partitions entries into chunks in one left-to-right
// pass. Break points must come from the same entry slice (indices align).
// The function never fails: degenerate input yields a single chunk, empty
// input yields none. Quality problems surface via Validate, not errors.
func Segment(entries []types.SubtitleEntry, breakPoints []types.BreakPoint, opts Options) []types.Chunk {
	if len(entries) == 0 {
		return nil
	}

	target := opts.TargetMinutes * 60
	maxDur := opts.MaxMinutes * 60
	minDur := opts.MinMinutes * 60

	var chunks []types.Chunk
	startIdx := 0
	for startIdx < len(entries) {
		chunkStart := entries[startIdx].StartSeconds

		// Advance until the accumulated duration reaches the target.
		i := startIdx
		for i < len(entries)-1 && entries[i].EndSeconds-chunkStart < target {
			i++
		}

		boundaryIdx := i
		var snapped *types.BreakPoint
		if entries[i].EndSeconds-chunkStart >= target && i < len(entries)-1 {
			// Look for the best break point inside a window centered on
			// the target duration position.
			snapped = bestBreakPoint(breakPoints, startIdx, i, chunkStart, target, maxDur, entries)
			if snapped != nil {
				boundaryIdx = snapped.AfterEntryIndex
			} else if entries[i].EndSeconds-chunkStart > maxDur && i > startIdx {
				// Never exceed the max bound; back off one entry.
				boundaryIdx = i - 1
			}
		}

		// Extend an undersized chunk forward while more entries remain,
		// as long as it stays within the max bound.
		for boundaryIdx < len(entries)-1 &&
			entries[boundaryIdx].EndSeconds-chunkStart < minDur &&
			entries[boundaryIdx+1].EndSeconds-chunkStart <= maxDur {
			boundaryIdx++
			snapped = nil
		}

		chunk := buildChunk(entries, startIdx, boundaryIdx, snapped)
		chunks = append(chunks, chunk)

		if boundaryIdx >= len(entries)-1 {
			break
		}

		startIdx = nextStartIndex(entries, startIdx, boundaryIdx, opts.OverlapSeconds)
	}

	finalizeChunks(chunks, opts)
	return chunks
}

// bestBreakPoint picks the highest-confidence break point whose timestamp
// falls inside the search window; ties go to the point closest to the
// target duration position. Points that would produce an over-long or
// trivially small chunk are ignored. Break points arrive sorted by
// confidence descending.
func bestBreakPoint(points []types.BreakPoint, startIdx, currentIdx int, chunkStart, target, maxDur float64, entries []types.SubtitleEntry) *types.BreakPoint {
	windowHalf := (maxDur - target) / 2
	center := chunkStart + target

	var best *types.BreakPoint
	bestDist := math.MaxFloat64
	for idx := range points {
		bp := points[idx]
		if bp.AfterEntryIndex < startIdx || bp.AfterEntryIndex >= len(entries) {
			continue
		}
		if math.Abs(bp.TimestampSeconds-center) > windowHalf {
			continue
		}
		dur := entries[bp.AfterEntryIndex].EndSeconds - chunkStart
		if dur <= 0 || dur > maxDur {
			continue
		}
		if best != nil && bp.Confidence < best.Confidence {
			break // sorted descending: no better candidate follows
		}
		dist := math.Abs(bp.TimestampSeconds - center)
		if best == nil || dist < bestDist {
			best = &points[idx]
			bestDist = dist
		}
	}
	return best
}

func buildChunk(entries []types.SubtitleEntry, startIdx, boundaryIdx int, snapped *types.BreakPoint) types.Chunk {
	span := make([]types.SubtitleEntry, boundaryIdx-startIdx+1)
	copy(span, entries[startIdx:boundaryIdx+1])

	words := 0
	for _, e := range span {
		words += e.WordCount()
	}

	chunk := types.Chunk{
		StartSeconds:    entries[startIdx].StartSeconds,
		EndSeconds:      entries[boundaryIdx].EndSeconds,
		Entries:         span,
		WordCount:       words,
	}
	chunk.DurationMinutes = chunk.DurationSeconds() / 60
	if snapped != nil {
		chunk.HasNaturalBreak = true
		chunk.BreakReason = snapped.Reason
	}
	return chunk
}

// nextStartIndex walks backward from the boundary until the cumulative
// overlap reaches the configured window, so moments near a boundary are
// seen by both neighboring chunks. Guaranteed to advance past startIdx.
func nextStartIndex(entries []types.SubtitleEntry, startIdx, boundaryIdx int, overlapSeconds float64) int {
	boundaryEnd := entries[boundaryIdx].EndSeconds
	next := startIdx
	for j := boundaryIdx; j > startIdx; j-- {
		if boundaryEnd-entries[j].StartSeconds >= overlapSeconds {
			next = j
			break
		}
	}
	if next <= startIdx {
		// Chunk shorter than the overlap window: force advance by one
		// entry so the pass always terminates.
		next = startIdx + 1
	}
	return next
}

// finalizeChunks assigns ids, intro/outro flags and the per-chunk quality
// confidence.
func finalizeChunks(chunks []types.Chunk, opts Options) {
	for i := range chunks {
		chunks[i].Id = i + 1
		chunks[i].IsIntro = i == 0
		chunks[i].IsOutro = i == len(chunks)-1
		chunks[i].Confidence = chunkConfidence(chunks[i], opts)
	}
}

func chunkConfidence(c types.Chunk, opts Options) float64 {
	confidence := baseConfidence

	target := opts.TargetMinutes * 60
	dur := c.DurationSeconds()
	if dur > 0 && math.Abs(dur-target) <= target*durationTolerance {
		confidence += durationFactor
	}
	if c.HasNaturalBreak {
		confidence += naturalBreakFactor
	}
	if dur > 0 {
		wps := float64(c.WordCount) / dur
		if wps >= minWordsPerSecond && wps <= maxWordsPerSecond {
			confidence += wordDensityFactor
		}
		epm := float64(len(c.Entries)) / (dur / 60)
		if epm >= minEntriesPerMinute && epm <= maxEntriesPerMinute {
			confidence += entryDensityFactor
		}
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// Validate reports heuristic-quality problems as warnings. Violations are
// diagnostics for the caller, never hard failures.
func Validate(chunks []types.Chunk, opts Options) []string {
	var warnings []string
	minDur := opts.MinMinutes * 60
	maxDur := opts.MaxMinutes * 60

	for i, c := range chunks {
		dur := c.DurationSeconds()
		if dur > maxDur {
			warnings = append(warnings, fmt.Sprintf("chunk %d duration %.1fs exceeds the %.0fs max bound", c.Id, dur, maxDur))
		}
		if dur < minDur && i != len(chunks)-1 {
			warnings = append(warnings, fmt.Sprintf("chunk %d duration %.1fs is below the %.0fs min bound", c.Id, dur, minDur))
		}
		if c.Confidence < lowChunkConfidence {
			warnings = append(warnings, fmt.Sprintf("chunk %d has low confidence %.2f", c.Id, c.Confidence))
		}
		if i > 0 && c.StartSeconds <= chunks[i-1].StartSeconds {
			warnings = append(warnings, fmt.Sprintf("chunk %d start %.1fs does not advance past chunk %d", c.Id, c.StartSeconds, chunks[i-1].Id))
		}
	}
	return warnings
}
