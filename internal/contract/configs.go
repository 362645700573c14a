package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/onchainlab/gauge/schema"
)

// Default values for configuration.
const (
	DefaultWindow    = 200
	DefaultSamples   = 5
	DefaultOutputDir = "."
	MaxWindow        = 10_000
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Job is one scheduled conversion.
type Job struct {
	Name      string
	Metric    schema.MetricKind
	InputPath string
	OutputDir string
	Spec      string // Cron expression
}

// Config holds the runtime configuration for a conversion.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath string
	Metric    schema.MetricKind
	OutputDir string
	Formats   []schema.OutputFormat

	Window  int // Moving average window length
	Samples int // Number of comparison samples to report

	Quiet     bool // Suppress progress lines and summaries
	UseColors bool // Enable colored labels in table output

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Jobs []Job
}

// JobRawInput holds one scheduled job as written in the config file.
type JobRawInput struct {
	Name      string `mapstructure:"name"`
	Metric    string `mapstructure:"metric"`
	Input     string `mapstructure:"input"`
	OutputDir string `mapstructure:"output_dir"`
	Cron      string `mapstructure:"cron"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	InputPathStr string
	MetricStr    string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputDir        string `mapstructure:"output-dir"`
	Formats          string `mapstructure:"formats"`
	Window           int    `mapstructure:"window"`
	Samples          int    `mapstructure:"samples"`
	Quiet            bool   `mapstructure:"quiet"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Scheduled jobs from config file ---
	Jobs []JobRawInput `mapstructure:"jobs"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Formats = slices.Clone(c.Formats)
	clone.Jobs = slices.Clone(c.Jobs)
	return &clone
}

// ForJob returns a copy of the Config that targets a scheduled job.
func (c *Config) ForJob(job Job) *Config {
	clone := c.Clone()
	clone.Metric = job.Metric
	clone.InputPath = job.InputPath
	if job.OutputDir != "" {
		clone.OutputDir = job.OutputDir
	}
	return clone
}

// HasFormat reports whether the given format should be written.
func (c *Config) HasFormat(format schema.OutputFormat) bool {
	return slices.Contains(c.Formats, format)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFormats(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processInputPath(cfg, input); err != nil {
		return err
	}
	if err := processJobs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Quiet = input.Quiet

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Window < 1 || input.Window > MaxWindow {
		return fmt.Errorf("window must be between 1 and %d (received %d)", MaxWindow, input.Window)
	}
	cfg.Window = input.Window

	if input.Samples < 0 {
		return fmt.Errorf("samples cannot be negative (received %d)", input.Samples)
	}
	cfg.Samples = input.Samples

	cfg.OutputDir = strings.TrimSpace(input.OutputDir)
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	cfg.Metric = ""
	if input.MetricStr != "" {
		cfg.Metric = schema.MetricKind(strings.ToLower(input.MetricStr))
		if !schema.IsValidMetric(cfg.Metric) {
			return fmt.Errorf("unknown metric '%s'. run 'gauge metrics' for the supported list", input.MetricStr)
		}
	}
	return nil
}

// processFormats parses the comma-separated format list.
func processFormats(cfg *Config, input *ConfigRawInput) error {
	cfg.Formats = nil
	if strings.TrimSpace(input.Formats) == "" {
		cfg.Formats = slices.Clone(schema.DefaultFormats)
		return nil
	}
	for p := range strings.SplitSeq(input.Formats, ",") {
		format := schema.OutputFormat(strings.ToLower(strings.TrimSpace(p)))
		if format == "" {
			continue
		}
		if _, ok := schema.ValidOutputFormats[format]; !ok {
			return fmt.Errorf("invalid output format '%s'. must be csv, json, parquet", p)
		}
		if !slices.Contains(cfg.Formats, format) {
			cfg.Formats = append(cfg.Formats, format)
		}
	}
	if len(cfg.Formats) == 0 {
		return fmt.Errorf("at least one output format is required")
	}
	return nil
}

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.HistoryBackend))
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.HistoryBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// processInputPath checks that the snapshot file exists and is a regular file.
func processInputPath(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = ""
	if input.InputPathStr == "" {
		return nil
	}
	abs, err := filepath.Abs(input.InputPathStr)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path %s is a directory", input.InputPathStr)
	}
	cfg.InputPath = abs
	return nil
}

// processJobs validates scheduled jobs. Cron expressions are parsed by the scheduler.
func processJobs(cfg *Config, input *ConfigRawInput) error {
	cfg.Jobs = nil
	seen := make(map[string]struct{}, len(input.Jobs))
	for i, raw := range input.Jobs {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			name = fmt.Sprintf("job-%d", i+1)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate job name %q", name)
		}
		seen[name] = struct{}{}

		metric := schema.MetricKind(strings.ToLower(raw.Metric))
		if !schema.IsValidMetric(metric) {
			return fmt.Errorf("job %q: unknown metric '%s'", name, raw.Metric)
		}
		if raw.Input == "" {
			return fmt.Errorf("job %q: input is required", name)
		}
		if strings.TrimSpace(raw.Cron) == "" {
			return fmt.Errorf("job %q: cron is required", name)
		}
		cfg.Jobs = append(cfg.Jobs, Job{
			Name:      name,
			Metric:    metric,
			InputPath: raw.Input,
			OutputDir: raw.OutputDir,
			Spec:      strings.TrimSpace(raw.Cron),
		})
	}
	return nil
}
