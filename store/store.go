// Package store persists the single local learner profile: an onboarding
// flag plus a serialized profile blob. It is deliberately a key-value pair
// store; there is no transcript persistence and no multi-user concern.
package store

import (
	"context"
	"errors"

	"github.com/tutorchat/tutorchat/types"
)

// ErrNotFound indicates no profile has been saved yet.
var ErrNotFound = errors.New("store: not found")

// Repository is the profile store interface.
type Repository interface {
	// HasOnboarded reports whether onboarding has been completed.
	HasOnboarded(ctx context.Context) (bool, error)

	// CompleteOnboarding marks onboarding done and saves the profile.
	CompleteOnboarding(ctx context.Context, profile types.UserProfile) error

	// Profile returns the saved profile, or ErrNotFound.
	Profile(ctx context.Context) (*types.UserProfile, error)

	// SaveProfile replaces the saved profile.
	SaveProfile(ctx context.Context, profile types.UserProfile) error

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error

	// Close releases store resources.
	Close() error
}
