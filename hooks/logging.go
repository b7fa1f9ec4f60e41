package hooks

import (
	"context"
	"log"

	"github.com/tutorchat/tutorchat/types"
)

// LoggingHooks provides built-in logging hooks for observability.
// It never logs raw learner input or the credential, only shapes and counts.
type LoggingHooks struct {
	logger *log.Logger
}

// NewLoggingHooks creates logging hooks with the provided logger
func NewLoggingHooks(logger *log.Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// DefaultLoggingHooks creates logging hooks with default logger
func DefaultLoggingHooks() *LoggingHooks {
	return &LoggingHooks{logger: log.Default()}
}

// Register attaches all logging hooks to a registry.
func (h *LoggingHooks) Register(r *Registry) {
	r.OnBeforeSend(h.BeforeSend)
	r.OnAfterReply(h.AfterReply)
	r.OnAfterValidation(h.AfterValidation)
}

// BeforeSend logs before relaying a submission to the provider
func (h *LoggingHooks) BeforeSend(ctx context.Context, profile types.UserProfile, input string) error {
	h.logger.Printf("[TutorChat] Relaying submission (%d chars, subject=%q)", len(input), profile.Subject)
	return nil
}

// AfterReply logs after an assistant turn is appended
func (h *LoggingHooks) AfterReply(ctx context.Context, turn *types.Turn) error {
	h.logger.Printf("[TutorChat] Assistant turn %s appended: %d suggestions, pending_validation=%t",
		turn.ID, len(turn.Suggestions), turn.PendingValidation)
	return nil
}

// AfterValidation logs after a turn's suggestions have settled
func (h *LoggingHooks) AfterValidation(ctx context.Context, turn *types.Turn) error {
	confirmed := 0
	for _, s := range turn.Suggestions {
		if s.Validation == types.ValidationConfirmed {
			confirmed++
		}
	}
	h.logger.Printf("[TutorChat] Turn %s validation settled: %d/%d suggestions confirmed",
		turn.ID, confirmed, len(turn.Suggestions))
	return nil
}
