package stats

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// SampleCDF samples a value from a discrete (value, weight) sequence using
// a uniform draw p in [0, 1). The value returned is the one whose
// normalized cumulative interval contains p; numerical drift past the last
// interval resolves to the last value. Weights must be non-negative with a
// positive total.
func SampleCDF[T any](values []T, weights []float64, p float64) (T, error) {
	var zero T
	if len(values) == 0 || len(values) != len(weights) {
		return zero, fmt.Errorf("%w: %d values, %d weights", ErrEmptyDistribution, len(values), len(weights))
	}
	for i, w := range weights {
		if w < 0 {
			return zero, fmt.Errorf("%w: weight %g at index %d", ErrNegativeWeight, w, i)
		}
	}
	cum := make([]float64, len(weights))
	floats.CumSum(cum, weights)
	total := cum[len(cum)-1]
	if total <= 0 {
		return zero, ErrZeroWeight
	}
	target := p * total
	for i, c := range cum {
		if target < c {
			return values[i], nil
		}
	}
	// p fell beyond the last interval (p ~ 1.0 with rounding): last value.
	return values[len(values)-1], nil
}
