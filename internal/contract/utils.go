package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Deviation label constants.
const (
	AlignedValue  = "Aligned"  // Computed multiple matches the vendor index
	DriftValue    = "Drift"    // Small disagreement
	DivergedValue = "Diverged" // Large disagreement
	MissingValue  = "-"        // Nothing to compare
)

// Tolerances applied to |ratio - 1| when labeling comparison samples.
const (
	AlignedTolerance = 0.01
	DriftTolerance   = 0.05
)

// Color variables for console output.
var (
	AlignedColor  = color.New(color.FgGreen)
	DriftColor    = color.New(color.FgYellow)
	DivergedColor = color.New(color.FgRed, color.Bold)
	FatalColor    = color.New(color.FgRed, color.Bold)
	WarnColor     = color.New(color.FgYellow)
)

// GetPlainLabel returns a plain label describing how far a comparison ratio
// sits from 1. A nil ratio has nothing to compare.
func GetPlainLabel(ratio *float64) string {
	if ratio == nil || math.IsNaN(*ratio) {
		return MissingValue
	}
	d := math.Abs(*ratio - 1)
	switch {
	case d <= AlignedTolerance:
		return AlignedValue
	case d <= DriftTolerance:
		return DriftValue
	default:
		return DivergedValue
	}
}

// GetColorLabel returns a colored label for console output (table).
func GetColorLabel(ratio *float64) string {
	text := GetPlainLabel(ratio)

	switch text {
	case AlignedValue:
		return AlignedColor.Sprint(text)
	case DriftValue:
		return DriftColor.Sprint(text)
	case DivergedValue:
		return DivergedColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", FatalColor.Sprint("Fatal"), msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", WarnColor.Sprint("Warn"), msg, err)
}

// LogInfo logs a progress line to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gauge_history.db"
	}
	return filepath.Join(homeDir, ".gauge_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
