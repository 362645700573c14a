package core

import (
	"testing"

	"github.com/onchainlab/gauge/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(prices ...float64) []schema.Observation {
	out := make([]schema.Observation, len(prices))
	for i, p := range prices {
		out[i] = schema.Observation{Timestamp: int64(i+1) * 86_400, Price: p}
	}
	return out
}

func TestBuildMayerMultipleShortSeries(t *testing.T) {
	in := []schema.Observation{
		{Timestamp: 1, Price: 10},
		{Timestamp: 2, Price: 20},
		{Timestamp: 3, Price: 30},
	}
	result := BuildMayerMultiple(in, 200, 5)

	require.Len(t, result.Full, 3)
	wantSMA := []float64{10, 15, 20}
	wantMultiple := []float64{1.0, 20.0 / 15.0, 1.5}
	for i, a := range result.Full {
		assert.False(t, a.IsSMAComplete, "point %d", i)
		assert.InDelta(t, wantSMA[i], a.SMA, 1e-9)
		require.NotNil(t, a.MayerMultiple)
		assert.InDelta(t, wantMultiple[i], *a.MayerMultiple, 1e-9)
		assert.Equal(t, "1970-01-01", a.Date)
	}
	assert.Empty(t, result.Simplified)
	assert.Empty(t, result.Samples)
}

func TestBuildMayerMultipleFlatSeries(t *testing.T) {
	prices := make([]float64, 200)
	for i := range prices {
		prices[i] = 100
	}
	result := BuildMayerMultiple(series(prices...), 200, 5)

	last := result.Full[len(result.Full)-1]
	assert.True(t, last.IsSMAComplete)
	assert.InDelta(t, 100.0, last.SMA, 1e-9)
	require.NotNil(t, last.MayerMultiple)
	assert.InDelta(t, 1.0, *last.MayerMultiple, 1e-9)
	assert.Len(t, result.Simplified, 1)
}

func TestBuildMayerMultipleZeroPriceInsideWindow(t *testing.T) {
	result := BuildMayerMultiple(series(10, 0, 20), 3, 1)

	zero := result.Full[1]
	require.NotNil(t, zero.MayerMultiple)
	assert.InDelta(t, 0.0, *zero.MayerMultiple, 1e-9)

	last := result.Full[2]
	assert.True(t, last.IsSMAComplete)
	require.NotNil(t, last.MayerMultiple)
	assert.InDelta(t, 2.0, *last.MayerMultiple, 1e-9)
}

func TestBuildMayerMultipleZeroMean(t *testing.T) {
	result := BuildMayerMultiple(series(0, 0, 5), 2, 5)

	assert.Nil(t, result.Full[0].MayerMultiple)
	assert.Nil(t, result.Full[1].MayerMultiple)
	require.NotNil(t, result.Full[2].MayerMultiple)
	assert.InDelta(t, 2.0, *result.Full[2].MayerMultiple, 1e-9)
}

func TestBuildMayerMultipleCompleteness(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		window int
		want   int
	}{
		{"empty", 0, 200, 0},
		{"shorter than window", 5, 10, 0},
		{"exactly one window", 10, 10, 1},
		{"longer than window", 25, 10, 16},
		{"window of one", 4, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := make([]float64, tt.n)
			for i := range prices {
				prices[i] = float64(i + 1)
			}
			result := BuildMayerMultiple(series(prices...), tt.window, 3)

			assert.Len(t, result.Full, tt.n)
			assert.Len(t, result.Simplified, tt.want)
			for i, a := range result.Full {
				assert.Equal(t, i >= tt.window-1, a.IsSMAComplete, "point %d", i)
			}
		})
	}
}

func TestBuildMayerMultipleSortsStable(t *testing.T) {
	in := []schema.Observation{
		{Timestamp: 3, Price: 30},
		{Timestamp: 1, Price: 10},
		{Timestamp: 2, Price: 20, Index: schema.Float(1)},
		{Timestamp: 2, Price: 25, Index: schema.Float(2)},
	}
	result := BuildMayerMultiple(in, 2, 0)

	prices := make([]float64, len(result.Full))
	for i, a := range result.Full {
		prices[i] = a.Price
	}
	assert.Equal(t, []float64{10, 20, 25, 30}, prices)
	assert.Equal(t, 30.0, in[0].Price, "input must not be reordered")
}

func TestBuildMayerMultipleIdempotent(t *testing.T) {
	in := series(5, 7, 9, 4, 3, 8)
	first := BuildMayerMultiple(in, 3, 2)
	second := BuildMayerMultiple(in, 3, 2)
	assert.Equal(t, first, second)
}

func TestBuildMayerMultipleSamples(t *testing.T) {
	in := series(10, 20, 30, 40)
	in[3].Index = schema.Float(1.2)
	in[3].FourYearPrice = schema.Float(15)
	result := BuildMayerMultiple(in, 2, 2)

	require.Len(t, result.Samples, 2)
	assert.Equal(t, result.Full[2].Date, result.Samples[0].Date, "samples read oldest first")
	assert.Nil(t, result.Samples[0].Ratio)

	last := result.Samples[1]
	require.NotNil(t, last.MayerMultiple)
	assert.InDelta(t, 40.0/35.0, *last.MayerMultiple, 1e-9)
	require.NotNil(t, last.Ratio)
	assert.InDelta(t, 1.2/(40.0/35.0), *last.Ratio, 1e-9)
	assert.Equal(t, 15.0, *last.FourYearPrice)
}

func TestBuildMayerMultipleCarriesVendorFields(t *testing.T) {
	in := series(1, 2)
	in[0].Index = schema.Float(0.5)
	in[1].FourYearPrice = schema.Float(3)
	result := BuildMayerMultiple(in, 1, 0)

	assert.Equal(t, 0.5, *result.Full[0].OriginalIndex)
	assert.Nil(t, result.Full[0].OriginalReferencePrice)
	assert.Nil(t, result.Full[1].OriginalIndex)
	assert.Equal(t, 3.0, *result.Full[1].OriginalReferencePrice)
}

func TestMayerTable(t *testing.T) {
	result := BuildMayerMultiple(series(10, 20, 30), 2, 0)
	table := MayerTable(result)

	assert.Equal(t, schema.MayerMetric, table.Metric)
	assert.Equal(t, []string{"Date", "BTC Price", "SMA200D", "Mayer Multiple"}, table.Columns)
	assert.Equal(t, 1, table.Skipped)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1970-01-03", "20.00", "15.00", "1.3333"}, table.Records()[0])
	assert.Equal(t, "1970-01-04", table.LastDate())
	assert.Contains(t, table.Notes, "1 warm-up points before the 2-point window filled")
}
