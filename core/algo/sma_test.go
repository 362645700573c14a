package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTrailingMeans tests partial and complete window averaging.
func TestTrailingMeans(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		window   int
		expected []WindowMean
	}{
		{
			name:     "empty series",
			values:   []float64{},
			window:   3,
			expected: []WindowMean{},
		},
		{
			name:   "window of three",
			values: []float64{1, 2, 3, 4, 5},
			window: 3,
			expected: []WindowMean{
				{Value: 1, Complete: false},
				{Value: 1.5, Complete: false},
				{Value: 2, Complete: true},
				{Value: 3, Complete: true},
				{Value: 4, Complete: true},
			},
		},
		{
			name:   "window of one is always complete",
			values: []float64{10, 20},
			window: 1,
			expected: []WindowMean{
				{Value: 10, Complete: true},
				{Value: 20, Complete: true},
			},
		},
		{
			name:   "window longer than series",
			values: []float64{2, 4},
			window: 200,
			expected: []WindowMean{
				{Value: 2, Complete: false},
				{Value: 3, Complete: false},
			},
		},
		{
			name:   "non-positive window behaves as one",
			values: []float64{7},
			window: 0,
			expected: []WindowMean{
				{Value: 7, Complete: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrailingMeans(tt.values, tt.window)
			require.Len(t, got, len(tt.expected))
			for i := range got {
				assert.InDelta(t, tt.expected[i].Value, got[i].Value, 1e-12, "index %d", i)
				assert.Equal(t, tt.expected[i].Complete, got[i].Complete, "index %d", i)
			}
		})
	}
}

// TestTrailingMeansMatchesDirectMean checks every complete position against a direct mean.
func TestTrailingMeansMatchesDirectMean(t *testing.T) {
	values := make([]float64, 450)
	for i := range values {
		values[i] = 100 + float64(i%37)*1.5
	}
	got := TrailingMeans(values, 200)
	for i := 199; i < len(values); i++ {
		assert.InDelta(t, Mean(values[i-199:i+1]), got[i].Value, 1e-9)
		assert.True(t, got[i].Complete)
	}
	assert.False(t, got[198].Complete)
}

func TestMean(t *testing.T) {
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.Equal(t, 2.5, Mean([]float64{1, 2, 3, 4}))
	assert.True(t, math.IsNaN(Mean([]float64{1, math.NaN()})))
}

func TestSafeRatio(t *testing.T) {
	r := SafeRatio(10, 4)
	require.NotNil(t, r)
	assert.Equal(t, 2.5, *r)

	assert.Nil(t, SafeRatio(10, 0))
	assert.Nil(t, SafeRatio(10, math.NaN()))

	// Negative and tiny denominators are not guarded.
	assert.NotNil(t, SafeRatio(1, -2))
	assert.NotNil(t, SafeRatio(1, 1e-300))
}

func TestOptionalRatio(t *testing.T) {
	a, b, zero := 3.0, 1.5, 0.0
	r := OptionalRatio(&a, &b)
	require.NotNil(t, r)
	assert.Equal(t, 2.0, *r)
	assert.Nil(t, OptionalRatio(nil, &b))
	assert.Nil(t, OptionalRatio(&a, nil))
	assert.Nil(t, OptionalRatio(&a, &zero))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{3, math.NaN(), -1, 4})
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, -1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
}
