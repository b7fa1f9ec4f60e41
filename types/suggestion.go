package types

// Validation is the tri-state outcome of checking a video suggestion.
type Validation string

const (
	// ValidationUnknown means the suggestion has not been checked yet
	ValidationUnknown Validation = "unknown"

	// ValidationConfirmed means the video is plausibly real and reachable
	ValidationConfirmed Validation = "confirmed"

	// ValidationRejected means the video failed the structural check or
	// the existence probe
	ValidationRejected Validation = "rejected"
)

// String returns the string representation of the validation state.
func (v Validation) String() string {
	return string(v)
}

// Settled returns true once the state is confirmed or rejected.
func (v Validation) Settled() bool {
	return v == ValidationConfirmed || v == ValidationRejected
}

// VideoSuggestion is a candidate video recommendation extracted from a
// completion. It is created with Validation == ValidationUnknown and settles
// exactly once via Resolve; a settled state is never rewritten.
type VideoSuggestion struct {
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Reason     string     `json:"reason"`
	Validation Validation `json:"validation"`
}

// NewVideoSuggestion creates an unvalidated suggestion.
func NewVideoSuggestion(title, url, reason string) *VideoSuggestion {
	return &VideoSuggestion{
		Title:      title,
		URL:        url,
		Reason:     reason,
		Validation: ValidationUnknown,
	}
}

// Resolve settles the suggestion to the given state. It reports whether the
// transition was applied; an already-settled suggestion is left untouched,
// and resolving to ValidationUnknown is not a transition.
func (s *VideoSuggestion) Resolve(state Validation) bool {
	if s.Validation.Settled() || !state.Settled() {
		return false
	}
	s.Validation = state
	return true
}
