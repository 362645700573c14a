// Package algo has the numeric building blocks of the indicator pipeline.
package algo

import "math"

// WindowMean is the trailing mean at one position of a series.
type WindowMean struct {
	Value    float64
	Complete bool // the full window was available
}

// TrailingMeans returns, for each index i, the arithmetic mean of
// values[max(0, i-window+1) .. i]. Positions before window-1 average the
// partial prefix and are marked incomplete. window must be at least 1.
func TrailingMeans(values []float64, window int) []WindowMean {
	if window < 1 {
		window = 1
	}
	out := make([]WindowMean, len(values))
	for i := range values {
		start := max(0, i-window+1)
		out[i] = WindowMean{
			Value:    Mean(values[start : i+1]),
			Complete: i >= window-1,
		}
	}
	return out
}

// Mean returns the arithmetic mean of values, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SafeRatio divides num by den. A zero or NaN denominator has no ratio.
func SafeRatio(num, den float64) *float64 {
	if den == 0 || math.IsNaN(den) {
		return nil
	}
	r := num / den
	return &r
}

// OptionalRatio is SafeRatio over optional operands.
func OptionalRatio(num, den *float64) *float64 {
	if num == nil || den == nil {
		return nil
	}
	return SafeRatio(*num, *den)
}

// Stats summarizes a sample.
type Stats struct {
	Min   float64
	Max   float64
	Mean  float64
	Count int
}

// Summarize returns min, max and mean of values, skipping NaN entries.
func Summarize(values []float64) Stats {
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		s.Count++
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	if s.Count == 0 {
		return Stats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN()}
	}
	s.Mean = sum / float64(s.Count)
	return s
}
