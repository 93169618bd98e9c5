// Package subtitle parses SRT subtitle text and converts between clock
// strings and seconds.
package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"chaptermark/internal/types"
)

// SRT cue timing line: "00:02:16,612 --> 00:02:19,376".
var cueTimingRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}[,.]\d{1,3})\s*-->\s*(\d{2}:\d{2}:\d{2}[,.]\d{1,3})`)

var blockSplitRe = regexp.MustCompile(`\n\s*\n`)

// Parse converts raw SRT text into ordered subtitle entries. Malformed
// blocks are skipped rather than failing the whole file; fully malformed or
// empty input yields an empty slice. Entries keep the block order of the
// file, not numeric id order.
func Parse(raw string) []types.SubtitleEntry {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.TrimPrefix(raw, "\ufeff")

	entries := []types.SubtitleEntry{}
	for _, block := range blockSplitRe.Split(raw, -1) {
		entry, ok := parseBlock(block)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseBlock handles one blank-line-delimited cue: an integer id line, a
// timing line, and at least one text line. Multi-line cue text is joined
// with spaces.
func parseBlock(block string) (types.SubtitleEntry, bool) {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 3 {
		return types.SubtitleEntry{}, false
	}

	id, err := strconv.Atoi(lines[0])
	if err != nil {
		return types.SubtitleEntry{}, false
	}

	matches := cueTimingRe.FindStringSubmatch(lines[1])
	if matches == nil {
		return types.SubtitleEntry{}, false
	}
	start, err := ParseTimestamp(matches[1])
	if err != nil {
		return types.SubtitleEntry{}, false
	}
	end, err := ParseTimestamp(matches[2])
	if err != nil {
		return types.SubtitleEntry{}, false
	}

	return types.SubtitleEntry{
		Id:           id,
		StartSeconds: start,
		EndSeconds:   end,
		Text:         strings.Join(lines[2:], " "),
	}, true
}

// Format serializes entries back to SRT text. Round-trips with Parse for
// well-formed entries.
func Format(entries []types.SubtitleEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			e.Id, formatSRTTime(e.StartSeconds), formatSRTTime(e.EndSeconds), e.Text)
	}
	return sb.String()
}
