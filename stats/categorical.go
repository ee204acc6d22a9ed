// Package stats provides categorical frequency statistics and discrete
// inverse-CDF sampling for the simulation: global category distributions
// derived from a training image, block modes for pyramid reduction, and the
// sampler that turns a conditional distribution plus a uniform draw into a
// category.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/mpslab/go-snesim/grid"
)

// CategoryWeight pairs a category with a non-negative weight.
type CategoryWeight struct {
	Category int
	Weight   float64
}

// PDF is an ordered discrete distribution over categories. The ordering is
// part of the value: sampling walks the classes in sequence, so a stable
// order keeps draws deterministic.
type PDF []CategoryWeight

// Frequencies counts the occurrences of each integral category in a
// property, ignoring missing cells. Non-integral values are counted under
// their truncation; callers that require integral categories validate
// separately (see IsCategorical).
func Frequencies(p *grid.Property) map[int]int {
	freq := make(map[int]int)
	for i := 0; i < p.Len(); i++ {
		v, ok, _ := p.GetAt(i)
		if !ok {
			continue
		}
		freq[int(v)]++
	}
	return freq
}

// IsCategorical reports whether every informed cell holds an integral value.
func IsCategorical(p *grid.Property) bool {
	for i := 0; i < p.Len(); i++ {
		v, ok, _ := p.GetAt(i)
		if !ok {
			continue
		}
		if float64(v) != math.Trunc(float64(v)) {
			return false
		}
	}
	return true
}

// Categories returns the sorted distinct categories of a frequency table.
func Categories(freq map[int]int) []int {
	cats := make([]int, 0, len(freq))
	for k := range freq {
		cats = append(cats, k)
	}
	sort.Ints(cats)
	return cats
}

// Mode returns the most frequent category of a frequency table. Ties break
// toward the smallest category so reductions stay deterministic. The second
// return is false for an empty table.
func Mode(freq map[int]int) (int, bool) {
	best := 0
	bestCount := -1
	for _, k := range Categories(freq) {
		if freq[k] > bestCount {
			best = k
			bestCount = freq[k]
		}
	}
	return best, bestCount >= 0
}

// GlobalPDF derives the normalized category distribution of a property,
// ordered by ascending category. Returns an error when the property has no
// informed cells.
func GlobalPDF(p *grid.Property) (PDF, error) {
	freq := Frequencies(p)
	if len(freq) == 0 {
		return nil, fmt.Errorf("%w: property has no informed cells", ErrEmptyDistribution)
	}
	pdf := make(PDF, 0, len(freq))
	for _, k := range Categories(freq) {
		pdf = append(pdf, CategoryWeight{Category: k, Weight: float64(freq[k])})
	}
	return pdf.Normalized()
}

// FromAggregate converts a category->count aggregate into a normalized PDF
// ordered by the supplied category list. Categories absent from the
// aggregate contribute zero weight.
func FromAggregate(agg map[int]int, categories []int) (PDF, error) {
	pdf := make(PDF, 0, len(categories))
	for _, k := range categories {
		pdf = append(pdf, CategoryWeight{Category: k, Weight: float64(agg[k])})
	}
	return pdf.Normalized()
}

// Normalized returns a copy of the PDF scaled to unit total weight.
func (pdf PDF) Normalized() (PDF, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyDistribution
	}
	weights := make([]float64, len(pdf))
	for i, cw := range pdf {
		if cw.Weight < 0 {
			return nil, fmt.Errorf("%w: category %d weight %g", ErrNegativeWeight, cw.Category, cw.Weight)
		}
		weights[i] = cw.Weight
	}
	total := floats.Sum(weights)
	if total <= 0 {
		return nil, ErrZeroWeight
	}
	floats.Scale(1/total, weights)
	out := make(PDF, len(pdf))
	for i, cw := range pdf {
		out[i] = CategoryWeight{Category: cw.Category, Weight: weights[i]}
	}
	return out, nil
}

// Sample draws a category from the PDF given a uniform p in [0, 1).
func (pdf PDF) Sample(p float64) (int, error) {
	values := make([]int, len(pdf))
	weights := make([]float64, len(pdf))
	for i, cw := range pdf {
		values[i] = cw.Category
		weights[i] = cw.Weight
	}
	return SampleCDF(values, weights, p)
}
