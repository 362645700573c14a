// Package schema has configs, models and global variables for all parts of gauge.
package schema

// Observation is one priced point of a Mayer Multiple snapshot.
// Timestamp is an epoch value in milliseconds or seconds; Index and
// FourYearPrice are optional vendor-supplied comparison fields.
type Observation struct {
	Timestamp     int64
	Price         float64
	Index         *float64
	FourYearPrice *float64
}

// AnnotatedObservation is an Observation enriched with its moving average and ratio.
type AnnotatedObservation struct {
	Date                   string   // YYYY-MM-DD in UTC
	Timestamp              int64    // Original epoch value, verbatim
	Price                  float64  // Close price
	SMA                    float64  // Trailing window mean (partial while warming up)
	IsSMAComplete          bool     // True once the full window is available
	MayerMultiple          *float64 // Price / SMA, nil when SMA is zero or NaN
	OriginalIndex          *float64 // Vendor-reported Mayer Multiple, if any
	OriginalReferencePrice *float64 // Vendor-reported four-year reference price, if any
}

// SimplifiedObservation is the compact projection of a complete-window point.
type SimplifiedObservation struct {
	Date          string   `json:"date"`
	Price         float64  `json:"price"`
	SMA           float64  `json:"sma200d"`
	MayerMultiple *float64 `json:"mayerMultiple"`
}

// ComparisonSample pairs the computed multiple with the vendor index for a recent point.
type ComparisonSample struct {
	Date          string   `json:"date"`
	Price         float64  `json:"price"`
	SMA           float64  `json:"sma200d"`
	FourYearPrice *float64 `json:"fourYearPrice"`
	OriginalIndex *float64 `json:"originalIndex"`
	MayerMultiple *float64 `json:"mayerMultiple"`
	Ratio         *float64 `json:"ratio"` // OriginalIndex / MayerMultiple
}

// MayerResult bundles everything produced by one Mayer Multiple run.
type MayerResult struct {
	Window     int
	Full       []AnnotatedObservation
	Simplified []SimplifiedObservation
	Samples    []ComparisonSample
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
