package schema

// MetricInfo describes a supported indicator family for display purposes.
type MetricInfo struct {
	Kind    MetricKind `json:"kind"`
	Purpose string     `json:"purpose"`
	Columns []string   `json:"columns"`
	Output  string     `json:"output"` // Base file name written by the converter
}
