package analyzer

import (
	"math"

	"chaptermark/internal/types"
)

const (
	// enterpriseMinutes is the duration past which a run is always planned
	// at the enterprise tier.
	enterpriseMinutes = 240

	complexityWeightWPM    = 0.4
	complexityWeightPauses = 0.3
	complexityWeightTopics = 0.3
)

// BuildPlan maps video metadata to the advisory moment/chunk budget. The
// moment count is a monotonic step function of duration with diminishing
// moments-per-minute for long content.
func BuildPlan(meta types.VideoMetadata) types.Plan {
	minutes := meta.DurationMinutes
	complexity := complexityScore(meta)

	return types.Plan{
		TargetMomentCount: targetMomentCount(minutes),
		TargetChunkCount:  targetChunkCount(minutes),
		StrategyTier:      strategyTier(meta, complexity),
		ComplexityScore:   complexity,
	}
}

func targetMomentCount(minutes float64) int {
	switch {
	case minutes <= 30:
		return 5
	case minutes <= 60:
		return 7
	case minutes <= 90:
		return 9
	case minutes <= 120:
		return 10
	default:
		return min(12, int(minutes/12))
	}
}

func targetChunkCount(minutes float64) int {
	count := int(math.Ceil(minutes / 6))
	if count < 2 {
		return 2
	}
	if count > 20 {
		return 20
	}
	return count
}

// complexityScore blends words-per-minute, pause frequency and the
// density-implied topic-shift frequency, each normalized to [0,1].
func complexityScore(meta types.VideoMetadata) float64 {
	wpmNorm := math.Min(float64(meta.EstimatedWordsPerMinute)/240, 1)

	pauseNorm := 0.2
	if meta.HasLongPauses {
		pauseNorm = 0.8
	}

	var topicNorm float64
	switch meta.ContentDensity {
	case types.ContentDensityHigh:
		topicNorm = 0.8
	case types.ContentDensityMedium:
		topicNorm = 0.5
	default:
		topicNorm = 0.3
	}

	return complexityWeightWPM*wpmNorm +
		complexityWeightPauses*pauseNorm +
		complexityWeightTopics*topicNorm
}

func strategyTier(meta types.VideoMetadata, complexity float64) types.StrategyTier {
	switch {
	case meta.DurationMinutes > enterpriseMinutes:
		return types.StrategyTierEnterprise
	case meta.LengthCategory == types.LengthCategoryVeryLong || complexity > 0.8:
		return types.StrategyTierComplex
	case meta.LengthCategory == types.LengthCategoryShort && complexity < 0.4:
		return types.StrategyTierSimple
	default:
		return types.StrategyTierStandard
	}
}
