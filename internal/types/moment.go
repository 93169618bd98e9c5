package types

// MomentCategory classifies a proposed moment.
type MomentCategory string

const (
	CategoryIntroductionOverview    MomentCategory = "introduction_overview"
	CategoryFunctionalDemonstration MomentCategory = "functional_demonstration"
	CategoryTopicShift              MomentCategory = "topic_shift"
	CategoryComplexConcept          MomentCategory = "complex_concept"
	CategoryExampleBuild            MomentCategory = "example_build"
	CategoryConclusion              MomentCategory = "conclusion"
	CategoryTransition              MomentCategory = "transition"
	CategoryGeneralContent          MomentCategory = "general_content"
)

// KnownCategories lists every valid moment category.
var KnownCategories = []MomentCategory{
	CategoryIntroductionOverview,
	CategoryFunctionalDemonstration,
	CategoryTopicShift,
	CategoryComplexConcept,
	CategoryExampleBuild,
	CategoryConclusion,
	CategoryTransition,
	CategoryGeneralContent,
}

// MomentCandidate is a navigable moment proposed for one chunk.
// Seconds is derived from Timestamp at validation time so the selector can
// work in numeric space.
type MomentCandidate struct {
	Timestamp   string         `json:"timestamp"`
	Seconds     float64        `json:"-"`
	Description string         `json:"description"`
	Category    MomentCategory `json:"category"`
	Confidence  float64        `json:"confidence"`
	Importance  float64        `json:"importance"`
	ChunkId     int            `json:"chunk_id"`
}

// Chapter is one final output row delivered to the caller.
type Chapter struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}
