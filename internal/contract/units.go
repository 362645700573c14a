package contract

import (
	"math"
	"time"
)

// EpochMillisThreshold separates epoch units. Values above it are
// milliseconds, values at or below it are seconds. 1e10 seconds is in the
// year 2286, while 1e10 milliseconds is in April 1970.
const EpochMillisThreshold int64 = 10_000_000_000

// LTHSupplyScale converts the vendor's long-term-holder supply into millions of coins.
const LTHSupplyScale = 1_000_000.0

// EpochToTime converts an epoch value in either unit to a UTC time.
func EpochToTime(v int64) time.Time {
	if v > EpochMillisThreshold {
		return time.UnixMilli(v).UTC()
	}
	return time.Unix(v, 0).UTC()
}

// FormatDate renders the calendar day of t in UTC as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// EpochDate renders an epoch value as YYYY-MM-DD.
func EpochDate(v int64) string {
	return FormatDate(EpochToTime(v))
}

// FloatToEpoch truncates a JSON number to an epoch integer.
// Non-finite values map to 0.
func FloatToEpoch(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

// ScaleSupply converts a raw supply figure with LTHSupplyScale.
func ScaleSupply(raw float64) float64 {
	return raw / LTHSupplyScale
}
