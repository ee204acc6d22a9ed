package grid

import "errors"

// Error types for the grid package.
var (
	// ErrDimensionMismatch is returned when 2D and 3D operands are combined.
	ErrDimensionMismatch = errors.New("grid dimension mismatch")

	// ErrOutOfRange is returned when an index lies outside the declared extents.
	ErrOutOfRange = errors.New("index out of range")

	// ErrPrecondition is returned when a constructor argument violates its contract.
	ErrPrecondition = errors.New("precondition violation")
)
