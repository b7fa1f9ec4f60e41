// Package suggest extracts embedded video recommendations from completion
// text and validates them against the hosting platform.
package suggest

import (
	"regexp"
	"strings"

	"github.com/tutorchat/tutorchat/types"
)

// Block delimiters for the embedded recommendation micro-format. The model
// is prompted to frame each recommendation between these markers.
const (
	StartMarker = "VIDEO_START"
	EndMarker   = "VIDEO_END"
)

// Placeholder values for fields missing from a block. A missing URL stays
// empty so the validator always rejects it.
const (
	DefaultTitle  = "Recommended video"
	DefaultReason = "Suggested for this topic"
)

// Per-field patterns applied inside a delimited block. Field extraction is
// tolerant: label case and surrounding whitespace do not matter, and fields
// may appear in any order.
var (
	titlePattern  = regexp.MustCompile(`(?i)title\s*:\s*"([^"]*)"`)
	urlPattern    = regexp.MustCompile(`(?i)url\s*:\s*(https?://\S+)`)
	reasonPattern = regexp.MustCompile(`(?i)reason\s*:\s*"([^"]*)"`)
)

// Extraction separates a completion into narrative text and the ordered
// suggestions parsed out of it.
type Extraction struct {
	Narrative   string
	Suggestions []*types.VideoSuggestion
}

// Extract scans completion text for delimiter-bounded recommendation blocks,
// in document order. Matched blocks are removed from the narrative; text
// outside the blocks is untouched apart from a final trim. A start marker
// with no matching end marker is ignored entirely, not partially parsed.
// Duplicate URLs across blocks are preserved as separate suggestions.
func Extract(completion string) Extraction {
	var (
		narrative   strings.Builder
		suggestions []*types.VideoSuggestion
		rest        = completion
	)

	for {
		start := strings.Index(rest, StartMarker)
		if start < 0 {
			narrative.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+len(StartMarker):], EndMarker)
		if end < 0 {
			// Unterminated block: leave the remainder in the narrative.
			narrative.WriteString(rest)
			break
		}
		end += start + len(StartMarker)

		narrative.WriteString(rest[:start])
		suggestions = append(suggestions, parseBlock(rest[start+len(StartMarker):end]))
		rest = rest[end+len(EndMarker):]
	}

	return Extraction{
		Narrative:   strings.TrimSpace(narrative.String()),
		Suggestions: suggestions,
	}
}

// parseBlock extracts the labeled fields from one block body.
func parseBlock(body string) *types.VideoSuggestion {
	title := DefaultTitle
	if m := titlePattern.FindStringSubmatch(body); m != nil && strings.TrimSpace(m[1]) != "" {
		title = strings.TrimSpace(m[1])
	}

	rawURL := ""
	if m := urlPattern.FindStringSubmatch(body); m != nil {
		rawURL = strings.Trim(m[1], `"',.;)`)
	}

	reason := DefaultReason
	if m := reasonPattern.FindStringSubmatch(body); m != nil && strings.TrimSpace(m[1]) != "" {
		reason = strings.TrimSpace(m[1])
	}

	return types.NewVideoSuggestion(title, rawURL, reason)
}
