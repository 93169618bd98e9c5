// Package pipeline runs the full SRT-to-chapters flow: parse, analyze,
// plan, segment, fan out to the moment proposer and select the final
// chapter list.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"chaptermark/config"
	"chaptermark/internal/analyzer"
	"chaptermark/internal/proposer"
	"chaptermark/internal/segmenter"
	"chaptermark/internal/selector"
	"chaptermark/internal/subtitle"
	"chaptermark/internal/types"
	"chaptermark/pkg/errors"
)

// Proposers return at most this many candidates per chunk.
const maxMomentsPerChunk = 5

// Options bound the run. Zero MaxInputBytes disables the size check.
type Options struct {
	MaxInputBytes int64
	Concurrency   int
	Segmenter     segmenter.Options
}

// OptionsFromConfig derives run options from the loaded configuration.
func OptionsFromConfig() Options {
	c := config.Conf
	return Options{
		MaxInputBytes: c.App.MaxUploadBytes,
		Concurrency:   c.Pipeline.Concurrency,
		Segmenter: segmenter.Options{
			TargetMinutes:  c.Pipeline.TargetChunkMinutes,
			MaxMinutes:     c.Pipeline.MaxChunkMinutes,
			MinMinutes:     c.Pipeline.MinChunkMinutes,
			OverlapSeconds: c.Pipeline.OverlapSeconds,
		},
	}
}

// ChunkFailure records one isolated proposer failure.
type ChunkFailure struct {
	ChunkId int    `json:"chunk_id"`
	Error   string `json:"error"`
}

// Result is the outcome of one run.
type Result struct {
	Chapters     []types.Chapter         `json:"chapters"`
	Moments      []types.MomentCandidate `json:"moments"`
	Metadata     types.VideoMetadata     `json:"metadata"`
	Plan         types.Plan              `json:"plan"`
	ChunkCount   int                     `json:"chunk_count"`
	FailedChunks []ChunkFailure          `json:"failed_chunks,omitempty"`
	Warnings     []string                `json:"warnings,omitempty"`
	TargetMet    bool                    `json:"target_met"`
}

// Pipeline is safe for concurrent use; Run keeps no state between calls,
// so a failed run can simply be retried.
type Pipeline struct {
	proposer proposer.Proposer
	opts     Options
}

func New(p proposer.Proposer, opts Options) *Pipeline {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Segmenter.TargetMinutes <= 0 {
		opts.Segmenter = segmenter.DefaultOptions()
	}
	return &Pipeline{proposer: p, opts: opts}
}

// Run executes the pipeline over raw SRT content.
func (p *Pipeline) Run(ctx context.Context, raw string) (*Result, error) {
	if p.opts.MaxInputBytes > 0 && int64(len(raw)) > p.opts.MaxInputBytes {
		return nil, errors.WrapWithDetail(errors.CodeFileTooLarge, "Subtitle file exceeds the size limit",
			fmt.Sprintf("%d bytes, limit %d", len(raw), p.opts.MaxInputBytes), nil)
	}

	entries := subtitle.Parse(raw)
	if len(entries) == 0 {
		return nil, errors.ErrNoValidEntries
	}

	meta := analyzer.Analyze(entries)
	plan := analyzer.BuildPlan(meta)
	points := analyzer.DetectBreakPoints(entries)
	chunks := segmenter.Segment(entries, points, p.opts.Segmenter)

	warnings := segmenter.Validate(chunks, p.opts.Segmenter)
	if len(chunks)*2 < plan.TargetChunkCount {
		warnings = append(warnings,
			fmt.Sprintf("segmenter produced %d chunks for a planned %d", len(chunks), plan.TargetChunkCount))
	}

	longContent := meta.DurationSeconds >= 3600
	perChunk := perChunkTarget(plan.TargetMomentCount, len(chunks))

	pool, failures, err := p.proposeAll(ctx, chunks, perChunk, plan.StrategyTier, longContent)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 && len(chunks) > 0 {
		return nil, errors.ErrGenerationFailed
	}

	sel := selector.Select(pool, plan.TargetMomentCount, meta.DurationSeconds)
	warnings = append(warnings, sel.Warnings...)

	chapters := lo.Map(sel.Moments, func(m types.MomentCandidate, _ int) types.Chapter {
		return types.Chapter{
			Time:        subtitle.FormatTimestamp(m.Seconds, longContent),
			Description: m.Description,
		}
	})

	return &Result{
		Chapters:     chapters,
		Moments:      sel.Moments,
		Metadata:     meta,
		Plan:         plan,
		ChunkCount:   len(chunks),
		FailedChunks: failures,
		Warnings:     warnings,
		TargetMet:    sel.TargetMet,
	}, nil
}

// proposeAll fans the chunks out to the proposer with bounded
// concurrency. A failing chunk is recorded and skipped; only context
// cancellation aborts the whole fan-out.
func (p *Pipeline) proposeAll(ctx context.Context, chunks []types.Chunk, perChunk int, tier types.StrategyTier, longContent bool) ([]types.MomentCandidate, []ChunkFailure, error) {
	var (
		mu       sync.Mutex
		pool     []types.MomentCandidate
		failures []ChunkFailure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			candidates, err := p.proposer.Propose(gctx, proposer.NewRequest(chunk, perChunk, tier, longContent))
			if gctx.Err() != nil {
				return gctx.Err()
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, ChunkFailure{ChunkId: chunk.Id, Error: err.Error()})
				return nil
			}
			if len(candidates) > maxMomentsPerChunk {
				candidates = candidates[:maxMomentsPerChunk]
			}
			pool = append(pool, candidates...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sort.SliceStable(failures, func(i, j int) bool { return failures[i].ChunkId < failures[j].ChunkId })
	return pool, failures, nil
}

// perChunkTarget spreads the plan's moment target across chunks, with one
// extra slot so the selector has surplus to rank.
func perChunkTarget(targetMoments, chunkCount int) int {
	if chunkCount == 0 {
		return 0
	}
	per := int(math.Ceil(float64(targetMoments)/float64(chunkCount))) + 1
	if per < 1 {
		per = 1
	}
	if per > maxMomentsPerChunk {
		per = maxMomentsPerChunk
	}
	return per
}
