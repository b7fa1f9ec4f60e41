package tutorchat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tutorchat/tutorchat/prompt"
	"github.com/tutorchat/tutorchat/provider"
	"github.com/tutorchat/tutorchat/render"
	"github.com/tutorchat/tutorchat/types"
)

// fakeGateway returns a canned completion or error. When release is set, a
// call signals entered and blocks until release closes, which lets tests hold
// the session in its awaiting state.
type fakeGateway struct {
	completion string
	err        error

	entered chan struct{}
	release chan struct{}
}

func (g *fakeGateway) Generate(ctx context.Context, req *prompt.Request, credential string) (string, error) {
	if g.release != nil {
		g.entered <- struct{}{}
		<-g.release
	}
	if g.err != nil {
		return "", g.err
	}
	return g.completion, nil
}

// stubValidator confirms URLs containing "GOOD" and rejects everything else.
type stubValidator struct{}

func (stubValidator) Validate(ctx context.Context, s *types.VideoSuggestion) types.Validation {
	if strings.Contains(s.URL, "GOOD") {
		return types.ValidationConfirmed
	}
	return types.ValidationRejected
}

func testProfile() types.UserProfile {
	return types.UserProfile{DisplayName: "Sam", Subject: "Mathematics", Credential: "key-123"}
}

func TestNewSessionSeedsWelcomeTurn(t *testing.T) {
	s := newTestSession(t, &fakeGateway{completion: "unused"})

	turns := s.Turns()
	if len(turns) != 1 {
		t.Fatalf("len(Turns) = %d, want 1", len(turns))
	}
	welcome := turns[0]
	if welcome.Role != types.RoleAssistant {
		t.Errorf("welcome role = %q, want assistant", welcome.Role)
	}
	for _, fragment := range []string{"Sam", "Mathematics"} {
		if !strings.Contains(welcome.RawText, fragment) {
			t.Errorf("welcome turn missing %q: %q", fragment, welcome.RawText)
		}
	}
}

func TestSendRejectsEmptyInput(t *testing.T) {
	s := newTestSession(t, &fakeGateway{completion: "unused"})

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := s.Send(context.Background(), input); err != ErrEmptyInput {
			t.Errorf("Send(%q) err = %v, want ErrEmptyInput", input, err)
		}
	}
	if got := len(s.Turns()); got != 1 {
		t.Errorf("transcript grew on rejected input: %d turns", got)
	}
}

func TestSendAppendsUserThenAssistant(t *testing.T) {
	s := newTestSession(t, &fakeGateway{completion: "The answer is 4."})

	turn, err := s.Send(context.Background(), "What is 2+2?")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if turn.Role != types.RoleAssistant {
		t.Errorf("returned turn role = %q, want assistant", turn.Role)
	}

	turns := s.Turns()
	if len(turns) != 3 {
		t.Fatalf("len(Turns) = %d, want 3 (welcome, user, assistant)", len(turns))
	}
	if turns[1].Role != types.RoleUser || turns[1].RawText != "What is 2+2?" {
		t.Errorf("user turn = %+v", turns[1])
	}
	if turns[2] != turn {
		t.Error("returned turn is not the appended assistant turn")
	}
	if !strings.Contains(turns[2].RenderedContent, "The answer is 4.") {
		t.Errorf("assistant render = %q", turns[2].RenderedContent)
	}
}

func TestSendWhileAwaitingIsRejected(t *testing.T) {
	gw := &fakeGateway{
		completion: "slow answer",
		entered:    make(chan struct{}, 1),
		release:    make(chan struct{}),
	}
	s := newTestSession(t, gw)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.Send(context.Background(), "first"); err != nil {
			t.Errorf("first Send failed: %v", err)
		}
	}()

	<-gw.entered
	before := len(s.Turns())
	if _, err := s.Send(context.Background(), "second"); err != ErrAwaitingResponse {
		t.Errorf("concurrent Send err = %v, want ErrAwaitingResponse", err)
	}
	if got := len(s.Turns()); got != before {
		t.Errorf("rejected submission changed the transcript: %d -> %d turns", before, got)
	}

	close(gw.release)
	<-done

	if s.Awaiting() {
		t.Error("awaiting flag still set after response arrived")
	}
	if _, err := s.Send(context.Background(), "third"); err != nil {
		t.Errorf("Send after settle failed: %v", err)
	}
}

func TestSendRecoversGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: &provider.Error{
		Kind:       provider.ErrRateLimited,
		StatusCode: 429,
		Message:    "raw provider text",
	}}
	s := newTestSession(t, gw)

	turn, err := s.Send(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Send surfaced a gateway failure: %v", err)
	}
	if turn.RawText != MsgRateLimited {
		t.Errorf("failure turn text = %q, want fixed message %q", turn.RawText, MsgRateLimited)
	}
	if strings.Contains(turn.RenderedContent, "raw provider text") {
		t.Errorf("raw provider text leaked into the transcript: %q", turn.RenderedContent)
	}
	if strings.Contains(turn.RenderedContent, render.NoResultsNotice) {
		t.Errorf("failure turn carries a resources section: %q", turn.RenderedContent)
	}
	if s.Awaiting() {
		t.Error("awaiting flag stuck after failure")
	}

	// The session stays usable for the next submission.
	gw.err = nil
	gw.completion = "recovered"
	if _, err := s.Send(context.Background(), "again"); err != nil {
		t.Errorf("Send after failure: %v", err)
	}
}

func TestSendValidatesAndRevisesInPlace(t *testing.T) {
	completion := "Watch these.\n" +
		`VIDEO_START Title: "Keep" URL: https://www.youtube.com/watch?v=GOODvideo01 Reason: "solid" VIDEO_END` + "\n" +
		`VIDEO_START Title: "Drop" URL: https://youtu.be/BADvideo012 Reason: "broken" VIDEO_END`

	gw := &fakeGateway{completion: completion}
	revised := make(chan *types.Turn, 1)
	s, err := NewSession(&SessionConfig{
		Profile:    testProfile(),
		Gateway:    gw,
		Validator:  stubValidator{},
		OnRevision: func(turn *types.Turn) { revised <- turn },
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	turn, err := s.Send(context.Background(), "any videos?")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(turn.Suggestions) != 2 {
		t.Fatalf("len(Suggestions) = %d, want 2", len(turn.Suggestions))
	}
	if !turn.PendingValidation {
		t.Error("turn not marked pending while suggestions are unresolved")
	}
	if !strings.Contains(turn.RenderedContent, render.PendingNotice) {
		t.Errorf("initial render missing pending notice: %q", turn.RenderedContent)
	}

	select {
	case got := <-revised:
		if got != turn {
			t.Fatal("revision applied to a different turn")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the in-place revision")
	}

	if turn.PendingValidation {
		t.Error("turn still pending after revision")
	}
	content := s.Turns()[2].RenderedContent
	if !strings.Contains(content, "Keep") {
		t.Errorf("revised render missing confirmed suggestion: %q", content)
	}
	if strings.Contains(content, "Drop") {
		t.Errorf("revised render lists rejected suggestion: %q", content)
	}
	if strings.Count(content, "Keep") != 1 {
		t.Errorf("revision is not idempotent: %q", content)
	}
	if turn.Suggestions[0].Validation != types.ValidationConfirmed {
		t.Errorf("first suggestion = %q, want confirmed", turn.Suggestions[0].Validation)
	}
	if turn.Suggestions[1].Validation != types.ValidationRejected {
		t.Errorf("second suggestion = %q, want rejected", turn.Suggestions[1].Validation)
	}
}

func TestSendWithoutSuggestionsSkipsValidation(t *testing.T) {
	gw := &fakeGateway{completion: "Plain prose answer."}
	s, err := NewSession(&SessionConfig{
		Profile:   testProfile(),
		Gateway:   gw,
		Validator: stubValidator{},
		OnRevision: func(*types.Turn) {
			t.Error("revision ran for a turn with no suggestions")
		},
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	turn, err := s.Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if turn.PendingValidation {
		t.Error("suggestion-free turn marked pending")
	}
	if !strings.Contains(turn.RenderedContent, render.NoResultsNotice) {
		t.Errorf("render missing no-results notice: %q", turn.RenderedContent)
	}
}

func TestListeningIsOrthogonalToSubmission(t *testing.T) {
	s := newTestSession(t, &fakeGateway{completion: "answer"})

	s.SetListening(true)
	if !s.Listening() {
		t.Fatal("SetListening(true) did not stick")
	}
	if _, err := s.Send(context.Background(), "typed while listening"); err != nil {
		t.Errorf("Send while listening failed: %v", err)
	}

	s.SetInput("voice transcription")
	if got := s.Input(); got != "voice transcription" {
		t.Errorf("Input = %q", got)
	}
}

func TestReset(t *testing.T) {
	s := newTestSession(t, &fakeGateway{completion: "answer"})
	if _, err := s.Send(context.Background(), "grow the transcript"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	next := types.UserProfile{DisplayName: "Alex", Subject: "Physics"}
	s.Reset(next)

	turns := s.Turns()
	if len(turns) != 1 {
		t.Fatalf("len(Turns) after Reset = %d, want 1", len(turns))
	}
	if !strings.Contains(turns[0].RawText, "Alex") || !strings.Contains(turns[0].RawText, "Physics") {
		t.Errorf("new welcome turn = %q", turns[0].RawText)
	}
	if got := s.Profile(); got != next {
		t.Errorf("Profile after Reset = %+v", got)
	}
}

func TestNewSessionRequiresGateway(t *testing.T) {
	if _, err := NewSession(nil); err != ErrInvalidConfig {
		t.Errorf("NewSession(nil) err = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewSession(&SessionConfig{}); err != ErrInvalidConfig {
		t.Errorf("NewSession without gateway err = %v, want ErrInvalidConfig", err)
	}
}

func TestUserFacingMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "missing credential", err: &provider.Error{Kind: provider.ErrMissingCredential}, want: MsgMissingCredential},
		{name: "credential rejected", err: &provider.Error{Kind: provider.ErrCredentialRejected, StatusCode: 400}, want: MsgCredentialRejected},
		{name: "rate limited", err: &provider.Error{Kind: provider.ErrRateLimited, StatusCode: 429}, want: MsgRateLimited},
		{name: "network failure", err: &provider.Error{Kind: provider.ErrNetworkFailure}, want: MsgNetworkFailure},
		{name: "provider error", err: &provider.Error{Kind: provider.ErrProvider, StatusCode: 500}, want: MsgProviderError},
		{name: "malformed response", err: &provider.Error{Kind: provider.ErrMalformedResponse}, want: MsgProviderError},
		{name: "unknown error", err: context.DeadlineExceeded, want: MsgProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserFacingMessage(tt.err); got != tt.want {
				t.Errorf("UserFacingMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func newTestSession(t *testing.T, gw *fakeGateway) *Session {
	t.Helper()
	s, err := NewSession(&SessionConfig{
		Profile:   testProfile(),
		Gateway:   gw,
		Validator: stubValidator{},
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}
