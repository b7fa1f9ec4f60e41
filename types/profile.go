package types

// UserProfile carries the learner context supplied at session creation.
// All fields are optional (empty string means absent) and the profile is
// never mutated by the conversation pipeline; a changed profile means a
// new session.
type UserProfile struct {
	DisplayName string `json:"username"`
	Subject     string `json:"subject"`

	// Credential is the provider API key. It is threaded explicitly into
	// session creation rather than held in process-wide state, and must
	// never appear in logs or rendered output.
	Credential string `json:"apiKey,omitempty"`
}
