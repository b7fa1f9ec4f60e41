// Package provider issues generation calls to the upstream text-generation
// endpoint and normalizes every failure into a closed taxonomy.
//
// The Gateway performs exactly one HTTP call per invocation; retry policy
// belongs to the caller. The credential is passed per call, never stored in
// process-wide state, and never allowed to leak into errors or logs.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tutorchat/tutorchat/prompt"
)

// Defaults for the upstream generation endpoint.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"

	// completionPath is the field path of the generated text in a success
	// payload. The path is part of the provider contract and must not change.
	completionPath = "candidates.0.content.parts.0.text"

	// errorMessagePath is the field path of the human-readable message in an
	// error payload.
	errorMessagePath = "error.message"

	// maxResponseBytes bounds how much of a provider payload is read.
	maxResponseBytes = 1 << 20
)

// Config holds Gateway configuration.
type Config struct {
	// BaseURL overrides the provider endpoint (useful for tests).
	// Default: DefaultBaseURL.
	BaseURL string

	// Model is the generation model name. Default: DefaultModel.
	Model string

	// HTTPClient overrides the HTTP client. Default: 30s timeout client.
	HTTPClient *http.Client
}

// Gateway relays prompt requests to the provider.
type Gateway struct {
	baseURL string
	model   string
	client  *http.Client
}

// New creates a Gateway, applying defaults for zero-valued config fields.
func New(cfg *Config) *Gateway {
	if cfg == nil {
		cfg = &Config{}
	}
	g := &Gateway{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  cfg.HTTPClient,
	}
	if g.baseURL == "" {
		g.baseURL = DefaultBaseURL
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.client == nil {
		g.client = &http.Client{Timeout: 30 * time.Second}
	}
	return g
}

// Generate sends one request to the provider and returns the completion
// text. Failures are always of type *Error and unwrap to one of the package
// sentinels.
func (g *Gateway) Generate(ctx context.Context, req *prompt.Request, credential string) (string, error) {
	if credential == "" {
		return "", newError(ErrMissingCredential, 0, "no API key configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", newError(ErrProvider, 0, fmt.Sprintf("encode request: %v", err))
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, g.model, url.QueryEscape(credential))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", newError(ErrProvider, 0, scrub(err.Error(), credential))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		// The transport error text embeds the request URL, credential
		// included; scrub before surfacing.
		return "", newError(ErrNetworkFailure, 0, scrub(err.Error(), credential))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", newError(ErrNetworkFailure, resp.StatusCode, scrub(err.Error(), credential))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classifyFailure(resp.StatusCode, payload, credential)
	}

	completion := gjson.GetBytes(payload, completionPath)
	if !completion.Exists() || completion.String() == "" {
		return "", newError(ErrMalformedResponse, resp.StatusCode, "no completion text in provider payload")
	}
	return completion.String(), nil
}

// classifyFailure maps a non-success provider response onto the taxonomy,
// keeping the provider's own message as the distinguishing signal.
func classifyFailure(status int, payload []byte, credential string) *Error {
	message := gjson.GetBytes(payload, errorMessagePath).String()
	message = scrub(message, credential)

	switch {
	case status == http.StatusTooManyRequests:
		if message == "" {
			message = "too many requests or exceeded quota"
		}
		return newError(ErrRateLimited, status, message)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newError(ErrCredentialRejected, status, message)
	case status == http.StatusBadRequest && strings.Contains(message, "API key"):
		// The provider reports malformed or revoked keys as a 400 with an
		// "API key" mention rather than a 401.
		return newError(ErrCredentialRejected, status, message)
	default:
		if message == "" {
			message = http.StatusText(status)
		}
		return newError(ErrProvider, status, message)
	}
}

// scrub removes the credential from text destined for errors or logs.
func scrub(text, credential string) string {
	if credential == "" {
		return text
	}
	text = strings.ReplaceAll(text, url.QueryEscape(credential), "REDACTED")
	return strings.ReplaceAll(text, credential, "REDACTED")
}
