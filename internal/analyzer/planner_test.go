package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chaptermark/internal/types"
)

func metaFor(minutes float64) types.VideoMetadata {
	return types.VideoMetadata{
		DurationSeconds:         minutes * 60,
		DurationMinutes:         minutes,
		EstimatedWordsPerMinute: 150,
		ContentDensity:          types.ContentDensityMedium,
		LengthCategory:          lengthCategoryFor(minutes),
	}
}

func TestBuildPlan_TargetMomentCount(t *testing.T) {
	cases := []struct {
		minutes float64
		want    int
	}{
		{10, 5},
		{30, 5},
		{45, 7},
		{65, 9},
		{90, 9},
		{120, 10},
		{130, 10},
		{150, 12},
		{600, 12},
	}
	for _, tc := range cases {
		plan := BuildPlan(metaFor(tc.minutes))
		assert.Equal(t, tc.want, plan.TargetMomentCount, "minutes=%v", tc.minutes)
	}
}

func TestBuildPlan_TargetChunkCount(t *testing.T) {
	cases := []struct {
		minutes float64
		want    int
	}{
		{1, 2},   // clamped low
		{12, 2},
		{36, 6},
		{65, 11},
		{300, 20}, // clamped high
	}
	for _, tc := range cases {
		plan := BuildPlan(metaFor(tc.minutes))
		assert.Equal(t, tc.want, plan.TargetChunkCount, "minutes=%v", tc.minutes)
	}
}

func TestBuildPlan_StrategyTiers(t *testing.T) {
	// Enterprise past 240 minutes regardless of anything else.
	assert.Equal(t, types.StrategyTierEnterprise, BuildPlan(metaFor(300)).StrategyTier)

	// Very long category maps to complex.
	assert.Equal(t, types.StrategyTierComplex, BuildPlan(metaFor(200)).StrategyTier)

	// Short and low complexity maps to simple.
	quiet := metaFor(15)
	quiet.EstimatedWordsPerMinute = 80
	quiet.ContentDensity = types.ContentDensityLow
	assert.Equal(t, types.StrategyTierSimple, BuildPlan(quiet).StrategyTier)

	// Everything else is standard.
	assert.Equal(t, types.StrategyTierStandard, BuildPlan(metaFor(60)).StrategyTier)
}

func TestBuildPlan_ComplexityBounds(t *testing.T) {
	busy := metaFor(100)
	busy.EstimatedWordsPerMinute = 400
	busy.ContentDensity = types.ContentDensityHigh
	busy.HasLongPauses = true

	plan := BuildPlan(busy)
	assert.GreaterOrEqual(t, plan.ComplexityScore, 0.0)
	assert.LessOrEqual(t, plan.ComplexityScore, 1.0)
	assert.Equal(t, types.StrategyTierComplex, BuildPlan(busy).StrategyTier)
}
