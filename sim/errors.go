package sim

import "errors"

// Error types for the sim package.
var (
	// ErrPrecondition is returned for invalid driver or pyramid parameters.
	ErrPrecondition = errors.New("precondition violation")

	// ErrGridMismatch is returned when a realization and training image
	// disagree on dimensionality.
	ErrGridMismatch = errors.New("grid dimensionality mismatch")
)
