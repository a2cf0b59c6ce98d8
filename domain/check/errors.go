package check

import "errors"

// Domain errors for checks.
var (
	// ErrEmptyID indicates a check id was required but empty.
	ErrEmptyID = errors.New("check id cannot be empty")

	// ErrInvalidFrequency indicates a frequency outside AllowedFrequencies.
	ErrInvalidFrequency = errors.New("frequency must be one of 1, 2, 5, 10, 15, 30, 60, 120, 180, 360, 720, 1440")
)
