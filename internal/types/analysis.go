package types

// ContentDensity buckets words-per-minute into coarse tiers.
type ContentDensity string

const (
	ContentDensityLow    ContentDensity = "low"
	ContentDensityMedium ContentDensity = "medium"
	ContentDensityHigh   ContentDensity = "high"
)

// LengthCategory buckets total duration in minutes.
type LengthCategory string

const (
	LengthCategoryShort    LengthCategory = "short"     // <= 30 min
	LengthCategoryMedium   LengthCategory = "medium"    // <= 90 min
	LengthCategoryLong     LengthCategory = "long"      // <= 180 min
	LengthCategoryVeryLong LengthCategory = "very_long" // > 180 min
)

// VideoMetadata is derived once per run from the parsed entries.
type VideoMetadata struct {
	DurationSeconds         float64        `json:"duration_seconds"`
	DurationMinutes         float64        `json:"duration_minutes"`
	TotalEntries            int            `json:"total_entries"`
	AverageEntryDuration    float64        `json:"average_entry_duration"`
	EstimatedWordsPerMinute int            `json:"estimated_words_per_minute"`
	ContentDensity          ContentDensity `json:"content_density"`
	HasLongPauses           bool           `json:"has_long_pauses"`
	LengthCategory          LengthCategory `json:"length_category"`
}

// BreakReason names the strongest cue behind a detected break point.
type BreakReason string

const (
	BreakReasonLongPause    BreakReason = "long_pause"
	BreakReasonTopicChange  BreakReason = "topic_change"
	BreakReasonSectionBreak BreakReason = "section_break"
)

// BreakPoint is a candidate natural boundary between two adjacent entries.
// The boundary sits after entry AfterEntryIndex.
type BreakPoint struct {
	AfterEntryIndex  int         `json:"after_entry_index"`
	TimestampSeconds float64     `json:"timestamp_seconds"`
	Confidence       float64     `json:"confidence"`
	Reason           BreakReason `json:"reason"`
}

// StrategyTier sizes the proposer effort for a run.
type StrategyTier string

const (
	StrategyTierSimple     StrategyTier = "simple"
	StrategyTierStandard   StrategyTier = "standard"
	StrategyTierComplex    StrategyTier = "complex"
	StrategyTierEnterprise StrategyTier = "enterprise"
)

// Plan is the advisory moment/chunk budget for one run.
type Plan struct {
	TargetMomentCount int          `json:"target_moment_count"`
	TargetChunkCount  int          `json:"target_chunk_count"`
	StrategyTier      StrategyTier `json:"strategy_tier"`
	ComplexityScore   float64      `json:"complexity_score"`
}
