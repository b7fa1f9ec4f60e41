// Package hooks provides observation points around the conversation
// pipeline: before a submission is relayed, after a reply lands in the
// transcript, and after a turn's background validation settles.
package hooks

import (
	"context"
	"sync"

	"github.com/tutorchat/tutorchat/types"
)

// BeforeSendHook is called before a submission is relayed to the provider.
type BeforeSendHook func(ctx context.Context, profile types.UserProfile, input string) error

// AfterReplyHook is called after an assistant turn is appended to the
// transcript (success or recovered failure).
type AfterReplyHook func(ctx context.Context, turn *types.Turn) error

// AfterValidationHook is called after all of a turn's suggestions have
// settled and the turn's rendering has been revised in place.
type AfterValidationHook func(ctx context.Context, turn *types.Turn) error

// Registry holds all registered hooks
type Registry struct {
	mu              sync.RWMutex
	beforeSend      []BeforeSendHook
	afterReply      []AfterReplyHook
	afterValidation []AfterValidationHook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{}
}

// OnBeforeSend registers a hook to be called before relaying a submission
func (r *Registry) OnBeforeSend(hook BeforeSendHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeSend = append(r.beforeSend, hook)
}

// OnAfterReply registers a hook to be called after a reply is appended
func (r *Registry) OnAfterReply(hook AfterReplyHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterReply = append(r.afterReply, hook)
}

// OnAfterValidation registers a hook to be called after validation settles
func (r *Registry) OnAfterValidation(hook AfterValidationHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterValidation = append(r.afterValidation, hook)
}

// RunBeforeSend executes all before-send hooks in registration order.
// The first hook error aborts the chain and is returned.
func (r *Registry) RunBeforeSend(ctx context.Context, profile types.UserProfile, input string) error {
	r.mu.RLock()
	hooks := r.beforeSend
	r.mu.RUnlock()
	for _, hook := range hooks {
		if err := hook(ctx, profile, input); err != nil {
			return err
		}
	}
	return nil
}

// RunAfterReply executes all after-reply hooks in registration order.
func (r *Registry) RunAfterReply(ctx context.Context, turn *types.Turn) error {
	r.mu.RLock()
	hooks := r.afterReply
	r.mu.RUnlock()
	for _, hook := range hooks {
		if err := hook(ctx, turn); err != nil {
			return err
		}
	}
	return nil
}

// RunAfterValidation executes all after-validation hooks in registration order.
func (r *Registry) RunAfterValidation(ctx context.Context, turn *types.Turn) error {
	r.mu.RLock()
	hooks := r.afterValidation
	r.mu.RUnlock()
	for _, hook := range hooks {
		if err := hook(ctx, turn); err != nil {
			return err
		}
	}
	return nil
}
