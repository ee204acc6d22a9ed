package stree

import "errors"

// Error types for the stree package.
var (
	// ErrTooManyCategories is returned when the training image has more
	// than MaxCategories distinct non-missing values.
	ErrTooManyCategories = errors.New("too many categories in training image")

	// ErrNotCategorical is returned when the training image holds
	// non-integral values.
	ErrNotCategorical = errors.New("training image is not categorical")

	// ErrPrecondition is returned for invalid construction parameters.
	ErrPrecondition = errors.New("precondition violation")
)
