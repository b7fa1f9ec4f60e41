// Package prompt assembles provider-ready requests from learner context,
// rolling conversation history, and the newest input.
//
// Building is deterministic and performs no I/O: the same profile, history,
// and input always produce the same request, and history is never mutated.
package prompt

import (
	"errors"
	"strings"

	"github.com/tutorchat/tutorchat/types"
)

// ErrEmptyInput is returned when the new user input is empty after trimming.
var ErrEmptyInput = errors.New("prompt: empty input")

// SegmentRole is the provider-side role of a request segment. The upstream
// protocol has no system role, so system framing is sent as a user segment.
type SegmentRole string

const (
	// SegmentRoleUser maps user turns (and system framing) to the provider
	SegmentRoleUser SegmentRole = "user"

	// SegmentRoleModel maps assistant turns to the provider
	SegmentRoleModel SegmentRole = "model"
)

// Part is one text fragment of a segment.
type Part struct {
	Text string `json:"text"`
}

// Segment is one role-tagged entry in the ordered request context.
type Segment struct {
	Role  SegmentRole `json:"role"`
	Parts []Part      `json:"parts"`
}

// GenerationConfig carries the provider generation parameters.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Default generation parameters.
const (
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 800
)

// Request is the full ordered context sent on one provider call. A fresh
// Request is built per call; there is no shared mutable request object.
type Request struct {
	Contents         []Segment        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// HistoryTurn is one prior exchange unit, reduced to role plus plain text
// (rendered markup stripped before it reaches the builder).
type HistoryTurn struct {
	Role types.Role
	Text string
}

// Build assembles a provider request: a leading framing segment embedding
// the learner's name and subject, each prior turn mapped to a role-tagged
// segment, and a final segment that restates the name/subject context ahead
// of the new input. The restatement on the final turn is intentional: the
// provider weights the most recent segment most heavily, and the framing
// segment alone is not enough to keep answers on subject.
func Build(profile types.UserProfile, history []HistoryTurn, input string) (*Request, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	req := &Request{
		Contents: make([]Segment, 0, len(history)+2),
		GenerationConfig: GenerationConfig{
			Temperature:     DefaultTemperature,
			MaxOutputTokens: DefaultMaxOutputTokens,
		},
	}

	req.Contents = append(req.Contents, Segment{
		Role:  SegmentRoleUser,
		Parts: []Part{{Text: framingText(profile)}},
	})

	for _, turn := range history {
		role := SegmentRoleUser
		switch turn.Role {
		case types.RoleUser:
			role = SegmentRoleUser
		case types.RoleAssistant:
			role = SegmentRoleModel
		default:
			continue
		}
		req.Contents = append(req.Contents, Segment{
			Role:  role,
			Parts: []Part{{Text: turn.Text}},
		})
	}

	req.Contents = append(req.Contents, Segment{
		Role:  SegmentRoleUser,
		Parts: []Part{{Text: contextPrefix(profile) + input}},
	})

	return req, nil
}

// framingText builds the tutor framing sent as the leading user segment.
func framingText(profile types.UserProfile) string {
	var b strings.Builder
	b.WriteString("You are a helpful and knowledgeable tutor.")
	if profile.DisplayName != "" {
		b.WriteString(" The user's name is ")
		b.WriteString(profile.DisplayName)
		b.WriteString(".")
	}
	if profile.Subject != "" {
		b.WriteString(" They are interested in learning about ")
		b.WriteString(profile.Subject)
		b.WriteString(".")
	}
	b.WriteString(" Provide detailed, educational responses that are helpful for learning.")
	b.WriteString(" When a high-quality educational video would help, recommend it using this exact format:")
	b.WriteString(` VIDEO_START Title: "the video title" URL: the full YouTube link Reason: "one sentence on why it helps" VIDEO_END.`)
	return b.String()
}

// contextPrefix restates the learner context immediately ahead of the
// newest input.
func contextPrefix(profile types.UserProfile) string {
	var b strings.Builder
	if profile.DisplayName != "" {
		b.WriteString("My name is ")
		b.WriteString(profile.DisplayName)
		b.WriteString(". ")
	}
	if profile.Subject != "" {
		b.WriteString("I'm studying ")
		b.WriteString(profile.Subject)
		b.WriteString(". ")
	}
	return b.String()
}
