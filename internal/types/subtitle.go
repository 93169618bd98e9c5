package types

import "strings"

// SubtitleEntry is one cue parsed from an SRT file. Entries keep file order
// and are never mutated after parsing.
type SubtitleEntry struct {
	Id           int     `json:"id"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Text         string  `json:"text"`
}

// Duration returns the cue display time in seconds.
func (e SubtitleEntry) Duration() float64 {
	return e.EndSeconds - e.StartSeconds
}

// WordCount counts whitespace-separated words in the cue text.
func (e SubtitleEntry) WordCount() int {
	return len(strings.Fields(e.Text))
}
