package types

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the author of a transcript turn
type Role string

const (
	// RoleUser represents a learner-authored turn
	RoleUser Role = "user"

	// RoleAssistant represents a tutor-authored turn
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Turn is one message unit in the transcript.
//
// Turns are append-only and ordered by insertion; the only mutation a Turn
// undergoes after creation is an in-place replacement of RenderedContent
// (plus clearing PendingValidation) once background suggestion validation
// for that Turn has settled. Revisions are keyed by Turn identity (ID /
// pointer), never by transcript position.
type Turn struct {
	ID                string             `json:"id"`
	Role              Role               `json:"role"`
	RawText           string             `json:"raw_text"`
	RenderedContent   string             `json:"rendered_content"`
	Suggestions       []*VideoSuggestion `json:"suggestions,omitempty"`
	PendingValidation bool               `json:"pending_validation"`
	CreatedAt         time.Time          `json:"created_at"`
}

// NewTurn creates a new turn with a fresh identity.
func NewTurn(role Role, rawText string) *Turn {
	return &Turn{
		ID:        uuid.New().String(),
		Role:      role,
		RawText:   rawText,
		CreatedAt: time.Now(),
	}
}
