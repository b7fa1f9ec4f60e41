package tutorchat

import "time"

// Version is the current TutorChat version
const Version = "1.5.0"

// DefaultValidationTimeout bounds the background existence probes for one
// turn's suggestions. A probe that runs past it resolves as rejected
// (fail-closed), never as a retry.
const DefaultValidationTimeout = 15 * time.Second
