// Package render converts narrative text, suggestions, and tag links into a
// display-safe transcript document.
//
// Learner input is sanitized before any markup substitution so the
// transcript never renders learner-supplied markup as structure. Assistant
// narrative is rendered as trusted; this is a single-user local tool and
// the relaxation is an accepted, documented risk.
package render

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tutorchat/tutorchat/suggest"
	"github.com/tutorchat/tutorchat/types"
)

// Formatter renders turns into display-safe HTML fragments.
type Formatter interface {
	// UserTurn neutralizes learner input and renders it for the transcript.
	UserTurn(raw string) string

	// Narrative renders assistant narrative text alone, without the
	// resources section (used for the seeded welcome turn).
	Narrative(text string) string

	// AssistantTurn renders a full assistant turn: narrative, the
	// recommended-resources section reflecting current validation states,
	// and optional tag links.
	AssistantTurn(narrative string, suggestions []*types.VideoSuggestion, tags []string) string
}

// Transform rules, applied in order. Each rule operates on the output of
// the previous one.
var (
	codeBlockPattern = regexp.MustCompile("(?s)```([a-zA-Z]*)\\n(.*?)\\n```")
	bulletPattern    = regexp.MustCompile(`(?m)^[ \t]*[-*•][ \t]+(.*)$`)
	numberedPattern  = regexp.MustCompile(`(?m)^[ \t]*(\d+)\.[ \t]+(.*)$`)
	headingPattern   = regexp.MustCompile(`(?m)^#+[ \t]+(.*)$`)
	boldPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// Renderer is the rule-pipeline Formatter matching the transcript's fixed
// markup vocabulary (code-block, bullet-point, numbered-item,
// response-heading, strong, line breaks).
type Renderer struct {
	userPolicy *bluemonday.Policy
}

// New creates the rule-pipeline renderer.
func New() *Renderer {
	return &Renderer{userPolicy: bluemonday.StrictPolicy()}
}

// UserTurn strips and escapes any markup in learner input, then renders
// line breaks.
func (r *Renderer) UserTurn(raw string) string {
	safe := r.userPolicy.Sanitize(raw)
	return strings.ReplaceAll(safe, "\n", "<br />")
}

// Narrative applies the transform rules to assistant narrative text.
func (r *Renderer) Narrative(text string) string {
	if text == "" {
		return ""
	}

	out := codeBlockPattern.ReplaceAllString(text,
		`<div class="code-block"><div class="code-header">$1</div><pre><code>$2</code></pre></div>`)
	out = bulletPattern.ReplaceAllString(out, `<div class="bullet-point">• $1</div>`)
	out = numberedPattern.ReplaceAllString(out, `<div class="numbered-item"><span class="number">$1.</span> $2</div>`)
	out = headingPattern.ReplaceAllString(out, `<div class="response-heading">$1</div>`)
	out = boldPattern.ReplaceAllString(out, `<strong>$1</strong>`)
	return strings.ReplaceAll(out, "\n", "<br />")
}

// AssistantTurn renders narrative plus the resources and tag sections.
func (r *Renderer) AssistantTurn(narrative string, suggestions []*types.VideoSuggestion, tags []string) string {
	var b strings.Builder
	b.WriteString(r.Narrative(narrative))
	b.WriteString(SuggestionSection(suggestions))
	b.WriteString(TagSection(tags))
	return b.String()
}

// Fixed section strings.
const (
	resourcesHeading = "Recommended resources"

	// PendingNotice is shown while a turn's suggestions are still being
	// validated in the background.
	PendingNotice = "Checking video recommendations…"

	// NoResultsNotice replaces an otherwise-empty resources section.
	NoResultsNotice = "No video recommendations found for this topic."
)

// SuggestionSection renders the recommended-resources section for the given
// validation states. While any suggestion is still unresolved the section
// shows a pending notice; once settled it lists confirmed suggestions only,
// or the explicit no-results notice when none survived, never an empty
// section.
func SuggestionSection(suggestions []*types.VideoSuggestion) string {
	for _, s := range suggestions {
		if !s.Validation.Settled() {
			return `<div class="video-suggestions pending"><div class="response-heading">` +
				resourcesHeading + `</div><div class="pending-notice">` + PendingNotice + `</div></div>`
		}
	}

	var items strings.Builder
	for _, s := range suggestions {
		if s.Validation != types.ValidationConfirmed {
			continue
		}
		items.WriteString(`<div class="video-suggestion">`)
		items.WriteString(`<a href="` + html.EscapeString(s.URL) + `" target="_blank" rel="noopener">`)
		if id, ok := suggest.VideoID(s.URL); ok {
			items.WriteString(`<img class="video-thumbnail" src="` + html.EscapeString(suggest.ThumbnailURL(id)) + `" alt="" />`)
		}
		items.WriteString(`<span class="video-title">` + html.EscapeString(s.Title) + `</span></a>`)
		items.WriteString(`<div class="video-reason">` + html.EscapeString(s.Reason) + `</div>`)
		items.WriteString(`</div>`)
	}

	if items.Len() == 0 {
		return `<div class="video-suggestions"><div class="response-heading">` +
			resourcesHeading + `</div><div class="no-results">` + NoResultsNotice + `</div></div>`
	}
	return `<div class="video-suggestions"><div class="response-heading">` +
		resourcesHeading + `</div>` + items.String() + `</div>`
}

// TagSection renders search links for looked-up tags; an empty tag list
// renders nothing.
func TagSection(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="tag-links">`)
	for _, tag := range tags {
		href := "https://www.youtube.com/results?search_query=" + url.QueryEscape(tag)
		b.WriteString(`<a class="tag-link" href="` + html.EscapeString(href) + `" target="_blank" rel="noopener">#` +
			html.EscapeString(tag) + `</a>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
