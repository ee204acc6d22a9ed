package stats

import "errors"

// Error types for the stats package.
var (
	// ErrEmptyDistribution is returned when sampling from no classes.
	ErrEmptyDistribution = errors.New("empty distribution")

	// ErrZeroWeight is returned when the total weight is not positive.
	ErrZeroWeight = errors.New("total weight must be positive")

	// ErrNegativeWeight is returned when any class weight is negative.
	ErrNegativeWeight = errors.New("negative class weight")
)
