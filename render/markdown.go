package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tutorchat/tutorchat/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// MarkdownRenderer is an alternate Formatter that renders assistant
// narrative as full markdown instead of the fixed rule vocabulary. Output
// is sanitized with a UGC policy, so it trades the rule pipeline's exact
// markup shape for fidelity on constructs the rules don't cover (links,
// tables, nested lists).
type MarkdownRenderer struct {
	md         goldmark.Markdown
	narrative  *bluemonday.Policy
	userPolicy *bluemonday.Policy
}

// NewMarkdown creates the markdown-backed renderer.
func NewMarkdown() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
		),
		narrative:  bluemonday.UGCPolicy(),
		userPolicy: bluemonday.StrictPolicy(),
	}
}

// UserTurn strips and escapes any markup in learner input, then renders
// line breaks.
func (r *MarkdownRenderer) UserTurn(raw string) string {
	safe := r.userPolicy.Sanitize(raw)
	return strings.ReplaceAll(safe, "\n", "<br />")
}

// Narrative converts assistant narrative markdown to sanitized HTML. If
// conversion fails the text is escaped and rendered flat rather than lost.
func (r *MarkdownRenderer) Narrative(text string) string {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return strings.ReplaceAll(html.EscapeString(text), "\n", "<br />")
	}
	return r.narrative.Sanitize(buf.String())
}

// AssistantTurn renders narrative plus the resources and tag sections.
func (r *MarkdownRenderer) AssistantTurn(narrative string, suggestions []*types.VideoSuggestion, tags []string) string {
	var b strings.Builder
	b.WriteString(r.Narrative(narrative))
	b.WriteString(SuggestionSection(suggestions))
	b.WriteString(TagSection(tags))
	return b.String()
}
