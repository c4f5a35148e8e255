// Package stats implements outlier rejection and aggregation over raw price
// observations.
package stats

import (
	"errors"
	"math"
)

// ErrNoObservations is returned by Average for an empty input. Callers must
// treat it as "no representative price available", never as a price of zero.
var ErrNoObservations = errors.New("stats: no observations")

const (
	// DefaultThreshold is the outlier rejection distance in standard deviations.
	DefaultThreshold = 2.0

	// DefaultMinSamples is the smallest sample eligible for outlier rejection.
	// Below it the dispersion estimate is too noisy to reject anything, so the
	// input passes through unchanged. Policy constant, not a statistical law.
	DefaultMinSamples = 4
)

// RemoveOutliers returns the observations lying strictly within threshold
// standard deviations of the sample mean, preserving input order. Inputs
// shorter than minSamples are returned unchanged. When every observation is
// identical (zero deviation) nothing is rejected.
func RemoveOutliers(observations []float64, threshold float64, minSamples int) []float64 {
	if len(observations) < minSamples {
		return observations
	}

	mu := mean(observations)
	sigma := stdDev(observations, mu)
	if sigma == 0 {
		return observations
	}

	kept := make([]float64, 0, len(observations))
	for _, x := range observations {
		if math.Abs(x-mu) < threshold*sigma {
			kept = append(kept, x)
		}
	}
	return kept
}

// Average returns the arithmetic mean of the observations. No rounding is
// applied; rounding to currency precision is an output concern.
func Average(observations []float64) (float64, error) {
	if len(observations) == 0 {
		return 0, ErrNoObservations
	}
	return mean(observations), nil
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the population standard deviation around mu.
func stdDev(xs []float64, mu float64) float64 {
	var m2 float64
	for _, x := range xs {
		d := x - mu
		m2 += d * d
	}
	return math.Sqrt(m2 / float64(len(xs)))
}
