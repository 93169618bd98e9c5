package types

// Chunk is one contiguous slice of the entry sequence, dispatched
// independently to the moment proposer. Neighboring chunks may share
// entries inside the configured overlap window.
type Chunk struct {
	Id              int             `json:"id"`
	StartSeconds    float64         `json:"start_seconds"`
	EndSeconds      float64         `json:"end_seconds"`
	DurationMinutes float64         `json:"duration_minutes"`
	Entries         []SubtitleEntry `json:"entries"`
	WordCount       int             `json:"word_count"`
	IsIntro         bool            `json:"is_intro"`
	IsOutro         bool            `json:"is_outro"`
	HasNaturalBreak bool            `json:"has_natural_break"`
	BreakReason     BreakReason     `json:"break_reason,omitempty"`
	Confidence      float64         `json:"confidence"`
}

// DurationSeconds returns the chunk span in seconds.
func (c Chunk) DurationSeconds() float64 {
	return c.EndSeconds - c.StartSeconds
}
