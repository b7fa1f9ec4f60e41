package tutorchat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tutorchat/tutorchat/hooks"
	"github.com/tutorchat/tutorchat/prompt"
	"github.com/tutorchat/tutorchat/render"
	"github.com/tutorchat/tutorchat/suggest"
	"github.com/tutorchat/tutorchat/types"
)

// Generator issues exactly one provider call per invocation.
type Generator interface {
	Generate(ctx context.Context, req *prompt.Request, credential string) (string, error)
}

// SuggestionValidator resolves one extracted suggestion.
type SuggestionValidator interface {
	Validate(ctx context.Context, s *types.VideoSuggestion) types.Validation
}

// TagLookup fetches search keywords for a learner query.
type TagLookup interface {
	Lookup(ctx context.Context, query string) ([]string, error)
}

// SessionConfig holds configuration for a Session.
type SessionConfig struct {
	// Profile is the learner context for this session. A changed profile
	// means a Reset or a new session; the pipeline never mutates it.
	Profile types.UserProfile

	// Gateway relays prompts to the provider (required).
	Gateway Generator

	// Validator resolves extracted suggestions (optional).
	// Default: suggest.NewValidator(nil).
	Validator SuggestionValidator

	// Tags looks up keyword links for each query (optional). Lookup
	// failures degrade silently to no tag links.
	Tags TagLookup

	// Formatter renders turns (optional). Default: render.New().
	Formatter render.Formatter

	// Hooks receives pipeline observation callbacks (optional).
	Hooks *hooks.Registry

	// ValidationTimeout bounds one turn's background validation (optional).
	// Default: DefaultValidationTimeout.
	ValidationTimeout time.Duration

	// OnRevision is called after a turn's rendered content has been
	// revised in place (optional). The callback runs outside the session
	// lock, on the validation goroutine.
	OnRevision func(turn *types.Turn)
}

// Session owns one active transcript and its turn-taking state machine.
//
// The transcript is append-only; the single exception is the in-place
// revision of an assistant turn's rendered content once its suggestions
// have settled. At most one provider call is outstanding at a time; the
// awaiting flag is the session's only admission gate. The listening flag is
// orthogonal and never blocks text submission.
type Session struct {
	gateway   Generator
	validator SuggestionValidator
	tags      TagLookup
	formatter render.Formatter
	hooks     *hooks.Registry

	validationTimeout time.Duration
	onRevision        func(turn *types.Turn)

	mu        sync.Mutex
	profile   types.UserProfile
	turns     []*types.Turn
	input     string
	awaiting  bool
	listening bool
}

// NewSession creates a session for the given profile and seeds the
// transcript with a welcome turn embedding the learner's name, subject,
// and starter questions.
func NewSession(cfg *SessionConfig) (*Session, error) {
	if cfg == nil || cfg.Gateway == nil {
		return nil, ErrInvalidConfig
	}

	s := &Session{
		gateway:           cfg.Gateway,
		validator:         cfg.Validator,
		tags:              cfg.Tags,
		formatter:         cfg.Formatter,
		hooks:             cfg.Hooks,
		validationTimeout: cfg.ValidationTimeout,
		onRevision:        cfg.OnRevision,
		profile:           cfg.Profile,
	}
	if s.validator == nil {
		s.validator = suggest.NewValidator(nil)
	}
	if s.formatter == nil {
		s.formatter = render.New()
	}
	if s.hooks == nil {
		s.hooks = hooks.NewRegistry()
	}
	if s.validationTimeout == 0 {
		s.validationTimeout = DefaultValidationTimeout
	}

	s.turns = []*types.Turn{s.welcomeTurn(cfg.Profile)}
	return s, nil
}

// welcomeTurn builds the seeded greeting turn.
func (s *Session) welcomeTurn(profile types.UserProfile) *types.Turn {
	narrative := welcomeNarrative(profile)
	turn := types.NewTurn(types.RoleAssistant, narrative)
	turn.RenderedContent = s.formatter.Narrative(narrative)
	return turn
}

// Send submits one learner input and appends the resulting pair of turns.
//
// Empty input and a submission while a response is outstanding are rejected
// with ErrEmptyInput / ErrAwaitingResponse and leave the transcript
// untouched. Gateway failures do not surface as errors: they are recovered
// here as an assistant turn carrying the fixed message for the failure
// kind. The returned turn is the appended assistant turn; when it carries
// suggestions, validation continues in the background and the turn is
// revised in place once every suggestion has settled.
func (s *Session) Send(ctx context.Context, input string) (*types.Turn, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return nil, ErrAwaitingResponse
	}
	s.awaiting = true
	s.input = ""
	profile := s.profile
	history := s.historyLocked()

	userTurn := types.NewTurn(types.RoleUser, trimmed)
	userTurn.RenderedContent = s.formatter.UserTurn(trimmed)
	s.turns = append(s.turns, userTurn)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.awaiting = false
		s.mu.Unlock()
	}()

	_ = s.hooks.RunBeforeSend(ctx, profile, trimmed)

	req, err := prompt.Build(profile, history, trimmed)
	if err != nil {
		// Emptiness is checked above; a builder failure here still must not
		// leave a partial exchange behind.
		return s.appendFailureTurn(ctx, err), nil
	}

	completion, err := s.gateway.Generate(ctx, req, profile.Credential)
	if err != nil {
		return s.appendFailureTurn(ctx, err), nil
	}

	extraction := suggest.Extract(completion)

	var tagLinks []string
	if s.tags != nil {
		// A tag-lookup failure degrades to an empty list; it never blocks
		// the narrative response.
		tagLinks, _ = s.tags.Lookup(ctx, trimmed)
	}

	turn := s.appendAssistantTurn(ctx, extraction.Narrative, extraction.Suggestions, tagLinks)
	if len(turn.Suggestions) > 0 {
		go s.validateAndRevise(turn, tagLinks)
	}
	return turn, nil
}

// appendFailureTurn recovers a gateway failure as an ordinary assistant
// turn carrying the fixed message for the failure kind. No partial
// assistant turn is ever left behind.
func (s *Session) appendFailureTurn(ctx context.Context, cause error) *types.Turn {
	message := UserFacingMessage(cause)
	turn := types.NewTurn(types.RoleAssistant, message)
	turn.RenderedContent = s.formatter.Narrative(message)

	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()

	_ = s.hooks.RunAfterReply(ctx, turn)
	return turn
}

// appendAssistantTurn renders and appends one assistant turn.
func (s *Session) appendAssistantTurn(ctx context.Context, narrative string, suggestions []*types.VideoSuggestion, tagLinks []string) *types.Turn {
	turn := types.NewTurn(types.RoleAssistant, narrative)
	turn.Suggestions = suggestions
	turn.PendingValidation = len(suggestions) > 0
	turn.RenderedContent = s.formatter.AssistantTurn(narrative, suggestions, tagLinks)

	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()

	_ = s.hooks.RunAfterReply(ctx, turn)
	return turn
}

// validateAndRevise resolves all of a turn's suggestions concurrently, then
// applies exactly one in-place revision of the turn's rendered content. The
// revision is keyed by turn identity, so it stays correct even when the
// learner has appended further turns in the meantime.
func (s *Session) validateAndRevise(turn *types.Turn, tagLinks []string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.validationTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, sg := range turn.Suggestions {
		wg.Add(1)
		go func(sg *types.VideoSuggestion) {
			defer wg.Done()
			sg.Resolve(s.validator.Validate(ctx, sg))
		}(sg)
	}
	wg.Wait()

	s.mu.Lock()
	turn.RenderedContent = s.formatter.AssistantTurn(turn.RawText, turn.Suggestions, tagLinks)
	turn.PendingValidation = false
	s.mu.Unlock()

	_ = s.hooks.RunAfterValidation(ctx, turn)
	if s.onRevision != nil {
		s.onRevision(turn)
	}
}

// historyLocked snapshots the transcript as plain role/text pairs for the
// prompt builder. Callers must hold s.mu.
func (s *Session) historyLocked() []prompt.HistoryTurn {
	history := make([]prompt.HistoryTurn, 0, len(s.turns))
	for _, turn := range s.turns {
		history = append(history, prompt.HistoryTurn{Role: turn.Role, Text: turn.RawText})
	}
	return history
}

// Turns returns a snapshot of the transcript in insertion order.
func (s *Session) Turns() []*types.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Profile returns the learner profile this session was created with.
func (s *Session) Profile() types.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Awaiting reports whether a provider call is outstanding.
func (s *Session) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// Listening reports whether voice input is active.
func (s *Session) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// SetListening toggles the voice-input flag. Listening is orthogonal to the
// submission gate and never blocks text submission.
func (s *Session) SetListening(listening bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listening = listening
}

// Input returns the current input buffer.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SetInput replaces the input buffer (e.g. with a voice transcription).
func (s *Session) SetInput(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = input
}

// Reset discards the transcript and re-seeds it for a new profile. It is
// the session-lifecycle operation behind a name/subject change.
func (s *Session) Reset(profile types.UserProfile) {
	welcome := s.welcomeTurn(profile)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	s.turns = []*types.Turn{welcome}
	s.input = ""
	s.awaiting = false
}
