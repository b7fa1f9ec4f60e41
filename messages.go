package tutorchat

import (
	"errors"

	"github.com/tutorchat/tutorchat/provider"
)

// Fixed user-facing messages, one per failure kind. The transcript never
// shows raw provider text to the learner.
const (
	MsgMissingCredential  = "No API key is configured. Add one in settings to start chatting."
	MsgCredentialRejected = "The API key was rejected. Double-check it in settings and try again."
	MsgRateLimited        = "The tutor service is handling too many requests. Please try again in a little while."
	MsgProviderError      = "The tutor service had trouble answering. Please try again later."
	MsgNetworkFailure     = "Connection failed. Check your network and try again."
)

// UserFacingMessage maps a gateway failure onto its fixed message. The
// selection is by failure kind, never by the raw provider string.
func UserFacingMessage(err error) string {
	switch {
	case errors.Is(err, provider.ErrMissingCredential):
		return MsgMissingCredential
	case errors.Is(err, provider.ErrCredentialRejected):
		return MsgCredentialRejected
	case errors.Is(err, provider.ErrRateLimited):
		return MsgRateLimited
	case errors.Is(err, provider.ErrNetworkFailure):
		return MsgNetworkFailure
	default:
		return MsgProviderError
	}
}
