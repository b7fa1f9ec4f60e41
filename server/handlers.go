package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tutorchat/tutorchat"
	"github.com/tutorchat/tutorchat/prompt"
	"github.com/tutorchat/tutorchat/provider"
	"github.com/tutorchat/tutorchat/store"
	"github.com/tutorchat/tutorchat/suggest"
	"github.com/tutorchat/tutorchat/types"
)

// chatRequest is the (profile, history, input) triple relayed by the proxy.
// Field names mirror the browser client's payload.
type chatRequest struct {
	APIKey   string `json:"apiKey"`
	UserData struct {
		Username string `json:"username"`
		Subject  string `json:"subject"`
	} `json:"userData"`
	Messages  []chatMessage `json:"messages"`
	UserInput string        `json:"userInput"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse carries the narrative, the rendered response document, and an
// opaque conversation identifier.
type chatResponse struct {
	Response       string                   `json:"response"`
	Rendered       string                   `json:"rendered"`
	Suggestions    []*types.VideoSuggestion `json:"suggestions,omitempty"`
	Tags           []string                 `json:"tags,omitempty"`
	ConversationID string                   `json:"conversationId"`
	Timestamp      string                   `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserInput == "" {
		writeError(w, http.StatusBadRequest, "User input is required")
		return
	}

	key := req.APIKey
	if key == "" {
		key = s.config.DefaultAPIKey
	}

	profile := types.UserProfile{
		DisplayName: req.UserData.Username,
		Subject:     req.UserData.Subject,
	}

	history := make([]prompt.HistoryTurn, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case types.RoleUser.String():
			history = append(history, prompt.HistoryTurn{Role: types.RoleUser, Text: msg.Content})
		case types.RoleAssistant.String():
			history = append(history, prompt.HistoryTurn{Role: types.RoleAssistant, Text: msg.Content})
		}
	}

	promptReq, err := prompt.Build(profile, history, req.UserInput)
	if err != nil {
		writeError(w, http.StatusBadRequest, "User input is required")
		return
	}

	completion, err := s.gateway.Generate(r.Context(), promptReq, key)
	if err != nil {
		s.writeGatewayError(w, err)
		return
	}

	extraction := suggest.Extract(completion)

	var tagLinks []string
	if s.tags != nil {
		// A tag-lookup failure degrades to an empty list; it never blocks
		// the response.
		tagLinks, _ = s.tags.Lookup(r.Context(), req.UserInput)
	}

	// The proxy is stateless, so suggestions are resolved before the
	// response document is rendered rather than revised in place later.
	s.resolveSuggestions(r.Context(), extraction.Suggestions)

	writeJSON(w, http.StatusOK, chatResponse{
		Response:       extraction.Narrative,
		Rendered:       s.formatter.AssistantTurn(extraction.Narrative, extraction.Suggestions, tagLinks),
		Suggestions:    extraction.Suggestions,
		Tags:           tagLinks,
		ConversationID: uuid.New().String(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
}

// resolveSuggestions settles all extracted suggestions concurrently.
func (s *Server) resolveSuggestions(ctx context.Context, suggestions []*types.VideoSuggestion) {
	var wg sync.WaitGroup
	for _, sg := range suggestions {
		wg.Add(1)
		go func(sg *types.VideoSuggestion) {
			defer wg.Done()
			sg.Resolve(s.validator.Validate(ctx, sg))
		}(sg)
	}
	wg.Wait()
}

// writeGatewayError maps the gateway taxonomy onto the proxy's status codes
// and fixed messages. The raw provider string stays server-side; only the
// failure kind reaches the browser.
func (s *Server) writeGatewayError(w http.ResponseWriter, err error) {
	var provErr *provider.Error

	switch {
	case errors.Is(err, provider.ErrMissingCredential):
		writeError(w, http.StatusBadRequest, "API key is required")
	case errors.Is(err, provider.ErrCredentialRejected):
		writeError(w, http.StatusBadRequest, "API key validation failed: Invalid API key format or revoked key")
	case errors.Is(err, provider.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded: Too many requests or exceeded quota")
	case errors.Is(err, provider.ErrNetworkFailure):
		writeError(w, http.StatusServiceUnavailable, "No response from provider service")
	case errors.Is(err, provider.ErrMalformedResponse):
		writeError(w, http.StatusInternalServerError, "No response content received from provider")
	default:
		status := http.StatusBadGateway
		if errors.As(err, &provErr) && provErr.StatusCode >= 400 {
			status = provErr.StatusCode
		}
		s.logger.Error("provider request failed", "error", err)
		writeError(w, status, "Error from provider service")
	}
}

// subjectsResponse mirrors the subjects endpoint's historical shape.
type subjectsResponse struct {
	Subjects        []string            `json:"subjects"`
	SubjectStarters map[string][]string `json:"subjectStarters"`
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, subjectsResponse{
		Subjects:        tutorchat.Subjects,
		SubjectStarters: tutorchat.SubjectStarters,
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.repo.Profile(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No profile saved")
		return
	}
	if err != nil {
		s.logger.Error("load profile failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile types.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.repo.CompleteOnboarding(r.Context(), profile); err != nil {
		s.logger.Error("save profile failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"version": tutorchat.Version,
	})
}
