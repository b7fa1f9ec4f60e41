// Package server exposes the conversation relay as an HTTP proxy so the
// browser never has to hold the provider credential directly. The proxy
// performs prompt assembly and the gateway call server-side and returns the
// narrative text with an opaque conversation identifier.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/tutorchat/tutorchat"
	"github.com/tutorchat/tutorchat/render"
	"github.com/tutorchat/tutorchat/store"
	"github.com/tutorchat/tutorchat/suggest"
)

// Config holds proxy server configuration.
type Config struct {
	// DefaultAPIKey is used when a chat request carries no key of its own.
	DefaultAPIKey string

	// AllowedOrigins for CORS. Default: allow all.
	AllowedOrigins []string

	// Formatter renders the chat response document. Default: render.New().
	Formatter render.Formatter

	// Tags looks up keyword links for each chat query (optional). Lookup
	// failures degrade to no tag links.
	Tags tutorchat.TagLookup

	// Validator resolves extracted suggestions before the response document
	// is rendered. Default: suggest.NewValidator(nil).
	Validator tutorchat.SuggestionValidator

	// Logger for request-level events. Default: slog.Default().
	Logger *slog.Logger
}

// Server wires the relay pipeline behind HTTP handlers.
type Server struct {
	gateway   tutorchat.Generator
	repo      store.Repository
	formatter render.Formatter
	tags      tutorchat.TagLookup
	validator tutorchat.SuggestionValidator
	config    *Config
	logger    *slog.Logger
}

// New creates the proxy HTTP handler.
func New(gateway tutorchat.Generator, repo store.Repository, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	formatter := cfg.Formatter
	if formatter == nil {
		formatter = render.New()
	}
	validator := cfg.Validator
	if validator == nil {
		validator = suggest.NewValidator(nil)
	}

	s := &Server{
		gateway:   gateway,
		repo:      repo,
		formatter: formatter,
		tags:      cfg.Tags,
		validator: validator,
		config:    cfg,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Post("/tutor/chat", s.handleChat)
		r.Get("/tutor/subjects", s.handleSubjects)
		r.Get("/tutor/profile", s.handleGetProfile)
		r.Put("/tutor/profile", s.handlePutProfile)
		r.Get("/health", s.handleHealth)
	})

	return r
}
