package contract

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    *float64
		expected string
	}{
		{"nil ratio", nil, MissingValue},
		{"nan ratio", ptr(math.NaN()), MissingValue},
		{"exact match", ptr(1.0), AlignedValue},
		{"just inside aligned", ptr(1.0099), AlignedValue},
		{"small drift above", ptr(1.03), DriftValue},
		{"small drift below", ptr(0.96), DriftValue},
		{"diverged above", ptr(1.2), DivergedValue},
		{"diverged below", ptr(0.5), DivergedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		ratio *float64
		label string
	}{
		{"aligned", ptr(1.0), AlignedValue},
		{"drift", ptr(1.04), DriftValue},
		{"diverged", ptr(2.0), DivergedValue},
		{"missing", nil, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, GetColorLabel(tt.ratio), tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path selects stdout", func(t *testing.T) {
		f, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, f)
	})

	t.Run("path creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		f, err := SelectOutputFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		_, err := SelectOutputFile(filepath.Join(t.TempDir(), "missing", "out.csv"))
		assert.Error(t, err)
	})
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "YES", "true", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestGetHistoryDBFilePath(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetHistoryDBFilePath(), ".gauge_history.db"))
}

func TestEpochToTime(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected time.Time
	}{
		{"seconds", 1_704_067_200, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"milliseconds", 1_704_067_200_000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"threshold is seconds", EpochMillisThreshold, time.Unix(EpochMillisThreshold, 0).UTC()},
		{"just above threshold is millis", EpochMillisThreshold + 1, time.UnixMilli(EpochMillisThreshold + 1).UTC()},
		{"zero", 0, time.Unix(0, 0).UTC()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(EpochToTime(tt.input)))
		})
	}
}

func TestEpochDate(t *testing.T) {
	assert.Equal(t, "2024-01-01", EpochDate(1_704_067_200_000))
	assert.Equal(t, "2024-01-01", EpochDate(1_704_067_200))
	// 23:59:59 UTC stays on the same calendar day regardless of local zone
	assert.Equal(t, "2023-12-31", EpochDate(1_704_067_199_000))
}

func TestFloatToEpoch(t *testing.T) {
	assert.Equal(t, int64(1_704_067_200_000), FloatToEpoch(1.7040672e12))
	assert.Equal(t, int64(0), FloatToEpoch(math.NaN()))
	assert.Equal(t, int64(0), FloatToEpoch(math.Inf(-1)))
}

func TestScaleSupply(t *testing.T) {
	assert.InDelta(t, 14.2, ScaleSupply(14_200_000), 1e-9)
}

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		places   int32
		expected string
	}{
		{"price", 42000.456, PricePlaces, "42000.46"},
		{"price padded", 100, PricePlaces, "100.00"},
		{"ratio", 1.23456, RatioPlaces, "1.2346"},
		{"ratio padded", 2, RatioPlaces, "2.0000"},
		{"reserve", 0.0012345678, ReservePlaces, "0.00123457"},
		{"negative", -3.14159, PricePlaces, "-3.14"},
		{"nan", math.NaN(), PricePlaces, "NaN"},
		{"inf", math.Inf(1), RatioPlaces, "Infinity"},
		{"neg inf", math.Inf(-1), RatioPlaces, "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFixed(tt.v, tt.places))
		})
	}
}

func TestFormatOptional(t *testing.T) {
	assert.Equal(t, "", FormatOptional(nil, RatioPlaces))
	assert.Equal(t, "0.9500", FormatOptional(ptr(0.95), RatioPlaces))
}

func TestFormatPlain(t *testing.T) {
	assert.Equal(t, "0.1", FormatPlain(0.1))
	assert.Equal(t, "42000", FormatPlain(42000))
	assert.Equal(t, "NaN", FormatPlain(math.NaN()))
}

func TestRoundFixed(t *testing.T) {
	assert.Equal(t, 1.23, RoundFixed(1.2345, 2))
	assert.True(t, math.IsInf(RoundFixed(math.Inf(1), 2), 1))
}

func ptr(v float64) *float64 {
	return &v
}
