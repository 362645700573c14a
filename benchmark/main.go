// Package main provides a performance benchmarking tool for the Gauge CLI.
// It generates synthetic snapshots of increasing size, runs each command
// several times with and without history tracking, treats the first
// successful tracked run as cold and averages the rest as warm, and
// writes CSV output for performance analysis and documentation.
//
// Prerequisites:
// - gauge binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated snapshots and outputs
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-history average, cold run and average of warm runs).
type BenchmarkResult struct {
	Snapshot      string
	Command       string
	NoHistoryTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir       string
	Timeout       time.Duration
	NoHistoryRuns int
	HistoryRuns   int
	Sizes         []int
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:       os.Args[1],
		Timeout:       2 * time.Minute,
		NoHistoryRuns: 3,
		HistoryRuns:   4,
		Sizes:         []int{1_000, 10_000, 100_000},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the gauge binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("gauge"); err != nil {
		return fmt.Errorf("gauge binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// writeSnapshots generates a Mayer price snapshot and a NUPL snapshot with n daily points
func writeSnapshots(dir string, n int) (pricePath, nuplPath string, err error) {
	var prices, nupl strings.Builder
	prices.WriteString("[")
	nupl.WriteString("[")
	start := int64(1262304000000) // 2010-01-01
	for i := range n {
		if i > 0 {
			prices.WriteString(",")
			nupl.WriteString(",")
		}
		ts := start + int64(i)*86_400_000
		price := 1000 + 900*math.Sin(float64(i)/60) + float64(i)
		_, _ = fmt.Fprintf(&prices, `{"timestamp":%d,"price":%.2f,"index":%.4f}`, ts, price, 1+0.3*math.Cos(float64(i)/60))
		_, _ = fmt.Fprintf(&nupl, `{"timestamp":%d,"index":%.4f}`, ts, 0.5*math.Sin(float64(i)/90))
	}
	prices.WriteString("]")
	nupl.WriteString("]")

	pricePath = filepath.Join(dir, fmt.Sprintf("btc-%d.json", n))
	nuplPath = filepath.Join(dir, fmt.Sprintf("nupl-%d.json", n))
	if err = os.WriteFile(pricePath, []byte(prices.String()), 0o644); err != nil {
		return "", "", err
	}
	if err = os.WriteFile(nuplPath, []byte(nupl.String()), 0o644); err != nil {
		return "", "", err
	}
	return pricePath, nuplPath, nil
}

// runBenchmarks executes all benchmark tests across configured snapshot sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, no-history: %d runs, history: %d runs\n",
		len(config.Sizes), config.Timeout, config.NoHistoryRuns, config.HistoryRuns)

	for _, size := range config.Sizes {
		pricePath, nuplPath, err := writeSnapshots(config.WorkDir, size)
		if err != nil {
			fmt.Printf("Skipping %d points: %v\n", size, err)
			continue
		}
		name := fmt.Sprintf("%d points", size)
		fmt.Printf("Benchmarking %s\n", name)

		results = append(results,
			runBenchmarkSuite(config, name, "mayer", []string{"mayer", pricePath}),
			runBenchmarkSuite(config, name, "convert", []string{"convert", "nupl", nuplPath}),
		)
	}

	return results
}

// runBenchmarkSuite runs both no-history and history benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, snapshot, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, snapshot)
	dbPath := filepath.Join(config.WorkDir, "bench-history.db")
	_ = os.Remove(dbPath)

	// Helper to run a benchmark phase
	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		phaseArgs := append([]string{}, args...)
		phaseArgs = append(phaseArgs, "--history-backend", backend)
		if backend == "sqlite" {
			phaseArgs = append(phaseArgs, "--history-db-connect", dbPath)
		}
		cold, times := runBenchmark(config, phaseArgs, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No history tracking
	_, noHistoryAvg := runPhase("none", config.NoHistoryRuns, "No-history")

	// Phase 2: SQLite history, the first run stores every row
	coldTime, warmAvg := runPhase("sqlite", config.HistoryRuns, "History")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-history average: %s, Cold time: %s, Warm average: %s\n", noHistoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Snapshot:      snapshot,
		Command:       command,
		NoHistoryTime: noHistoryAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a gauge command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	args = append(args, "--quiet", "--output-dir", filepath.Join(config.WorkDir, "out"))

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("gauge", args...)
		cmd.Dir = config.WorkDir

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/gauge_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"snapshot", "cmd", "no_history_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Snapshot, result.Command, result.NoHistoryTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "mayer", "Mayer Multiple:")
	printCommandSummary(results, "convert", "NUPL Conversion:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-14s: No-history: %s, Cold: %s, Warm: %s\n", result.Snapshot, result.NoHistoryTime, result.ColdTime, result.WarmTime)
		}
	}
}
