package repository

import (
	"math"
	"slices"

	"github.com/okian/creditscore/internal/domain/model"
)

// ComputeStats summarizes scores. It returns false for an empty input.
// Percentiles use linear interpolation at rank p/100*(n-1); every value is
// rounded half up.
func ComputeStats(scores []float64) (model.Stats, bool) {
	n := len(scores)
	if n == 0 {
		return model.Stats{}, false
	}
	sorted := slices.Clone(scores)
	slices.Sort(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}
	return model.Stats{
		AverageScore: roundHalfUp(sum / float64(n)),
		MedianScore:  roundHalfUp(Percentile(sorted, 50)),
		P10:          roundHalfUp(Percentile(sorted, 10)),
		P90:          roundHalfUp(Percentile(sorted, 90)),
		SampleSize:   n,
	}, true
}

// Percentile returns the p-th percentile of an ascending slice, interpolating
// linearly between the two bracketing samples. An empty slice yields 0.
func Percentile(sortedAsc []float64, p float64) float64 {
	if len(sortedAsc) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sortedAsc)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sortedAsc[lo]
	}
	w := rank - float64(lo)
	return sortedAsc[lo]*(1-w) + sortedAsc[hi]*w
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
