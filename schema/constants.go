package schema

// Custom string types for type safety.
type (
	// OutputFormat represents a file format written by a conversion.
	OutputFormat string

	// MetricKind names a supported indicator family.
	MetricKind string

	// DatabaseBackend represents the database backend for history tracking.
	DatabaseBackend string
)

// All output formats supported.
const (
	CSVFormat     OutputFormat = "csv" // default
	JSONFormat    OutputFormat = "json"
	ParquetFormat OutputFormat = "parquet"
)

// All indicator families supported.
const (
	MayerMetric       MetricKind = "mayer"
	RainbowMetric     MetricKind = "rainbow"
	S2FMetric         MetricKind = "s2f"
	AHR999Metric      MetricKind = "ahr999"
	MVRVMetric        MetricKind = "mvrv"
	MVRVZMetric       MetricKind = "mvrv-z"
	NUPLMetric        MetricKind = "nupl"
	PuellMetric       MetricKind = "puell"
	ReserveRiskMetric MetricKind = "reserve-risk"
	VolatilityMetric  MetricKind = "volatility"
	FNGMetric         MetricKind = "fng"
	AltSeasonMetric   MetricKind = "altszn"
	BubbleMetric      MetricKind = "bubble"
	LTHMetric         MetricKind = "lth"
	PiTopMetric       MetricKind = "pi-top"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// DefaultFormats are written when nothing else is configured.
var DefaultFormats = []OutputFormat{CSVFormat, JSONFormat}

// ValidOutputFormats lists all valid output formats.
var ValidOutputFormats = map[OutputFormat]struct{}{
	CSVFormat:     {},
	JSONFormat:    {},
	ParquetFormat: {},
}

// AllMetricKinds lists every indicator family in display order.
var AllMetricKinds = []MetricKind{
	MayerMetric,
	RainbowMetric,
	S2FMetric,
	AHR999Metric,
	MVRVMetric,
	MVRVZMetric,
	NUPLMetric,
	PuellMetric,
	ReserveRiskMetric,
	VolatilityMetric,
	FNGMetric,
	AltSeasonMetric,
	BubbleMetric,
	LTHMetric,
	PiTopMetric,
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// IsValidMetric reports whether kind names a supported indicator family.
func IsValidMetric(kind MetricKind) bool {
	for _, k := range AllMetricKinds {
		if k == kind {
			return true
		}
	}
	return false
}
