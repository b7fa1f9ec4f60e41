package tutorchat

import "errors"

// Common errors
var (
	// ErrInvalidConfig is returned when the session configuration is invalid
	ErrInvalidConfig = errors.New("tutorchat: invalid configuration")

	// ErrEmptyInput is returned when a submission is empty after trimming;
	// the transcript is left untouched
	ErrEmptyInput = errors.New("tutorchat: empty input")

	// ErrAwaitingResponse is returned when a submission arrives while a
	// provider call is already outstanding; the transcript is left untouched
	ErrAwaitingResponse = errors.New("tutorchat: response already in flight")
)
