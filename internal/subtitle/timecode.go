package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTimestamp converts a clock string into seconds. It accepts the SRT
// form "HH:MM:SS,mmm" as well as the shorter "MM:SS" / "HH:MM:SS" forms that
// the moment proposer emits. The millisecond separator may be ',' or '.'.
func ParseTimestamp(ts string) (float64, error) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	main := ts
	var frac string
	if i := strings.IndexAny(ts, ",."); i != -1 {
		main, frac = ts[:i], ts[i+1:]
	}

	parts := strings.Split(main, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	var fields [3]int
	offset := 3 - len(parts) // missing leading field means no hours
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", ts)
		}
		fields[offset+i] = v
	}

	seconds := float64(fields[0]*3600 + fields[1]*60 + fields[2])
	if frac != "" {
		ms, err := parseMilliseconds(frac)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", ts)
		}
		seconds += float64(ms) / 1000
	}
	return seconds, nil
}

// parseMilliseconds normalizes a fractional-second suffix of 1-3+ digits
// to milliseconds.
func parseMilliseconds(frac string) (int, error) {
	v, err := strconv.Atoi(frac)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid fraction %q", frac)
	}
	switch n := len(frac); {
	case n == 1:
		return v * 100, nil
	case n == 2:
		return v * 10, nil
	case n == 3:
		return v, nil
	default:
		for i := n; i > 3; i-- {
			v /= 10
		}
		return v, nil
	}
}

// FormatTimestamp renders seconds as a zero-padded clock string. The format
// is a property of the whole video: pass longContent=true when the total
// duration reaches one hour so every emitted timestamp in a response shares
// one format.
func FormatTimestamp(seconds float64, longContent bool) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	if longContent || total >= 3600 {
		return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// NormalizeTimestamp re-formats any parseable clock string into the canonical
// form for the given content length. Idempotent.
func NormalizeTimestamp(ts string, longContent bool) (string, error) {
	seconds, err := ParseTimestamp(ts)
	if err != nil {
		return "", err
	}
	return FormatTimestamp(seconds, longContent), nil
}

// formatSRTTime renders seconds in the SRT cue form "HH:MM:SS,mmm".
func formatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	ms := int(math.Round((seconds - float64(total)) * 1000))
	if ms >= 1000 {
		total++
		ms -= 1000
	}
	return fmt.Sprintf("%02d:%02d:%02d,%03d", total/3600, (total%3600)/60, total%60, ms)
}
