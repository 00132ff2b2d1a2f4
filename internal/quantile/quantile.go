// Package quantile provides percentile helpers over unsorted samples.
package quantile

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile (0..100) of x, with linear
// interpolation between the two closest ranks. x is left untouched.
// Panics on an empty slice.
func Percentile(x []float64, p float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	n := len(sorted)
	h := float64(n-1) * p / 100

	if h <= 0 {
		return sorted[0]
	}
	if h >= float64(n-1) {
		return sorted[n-1]
	}

	lower := int(math.Floor(h))
	fraction := h - math.Floor(h)

	return sorted[lower] + fraction*(sorted[lower+1]-sorted[lower])
}

// Median returns the 50th percentile of x.
func Median(x []float64) float64 {
	return Percentile(x, 50)
}
