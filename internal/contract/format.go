package contract

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Decimal places used for rendered values.
const (
	PricePlaces   int32 = 2 // price, moving average, reference price
	RatioPlaces   int32 = 4 // Mayer Multiple, vendor index, comparison ratio
	ReservePlaces int32 = 8 // reserve risk components
)

// FormatFixed renders v with exactly places decimals.
// NaN and infinities render as "NaN", "Infinity" and "-Infinity".
func FormatFixed(v float64, places int32) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// FormatOptional renders an optional value, returning "" for nil.
func FormatOptional(v *float64, places int32) string {
	if v == nil {
		return ""
	}
	return FormatFixed(*v, places)
}

// FormatPlain renders v in its shortest round-tripping form.
func FormatPlain(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RoundFixed rounds v to places decimals, leaving non-finite values untouched.
func RoundFixed(v float64, places int32) float64 {
	if _, ok := nonFinite(v); ok {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "NaN", true
	case math.IsInf(v, 1):
		return "Infinity", true
	case math.IsInf(v, -1):
		return "-Infinity", true
	}
	return "", false
}
