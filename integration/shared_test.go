//go:build basic || database

// Package integration contains end-to-end tests for the gauge binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedGaugePath holds the path to a shared gauge binary built once for all tests.
	sharedGaugePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getGaugeBinary returns the path to the gauge binary, building it once if needed.
func getGaugeBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "gauge-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		gaugePath := filepath.Join(tempDir, "gauge")
		buildCmd := exec.Command("go", "build", "-o", gaugePath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build gauge: %v\n%s", err, out))
		}

		sharedGaugePath = gaugePath
	})

	return sharedGaugePath
}

// runGauge runs the gauge binary inside dir with extra environment entries
// and returns its combined output.
func runGauge(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getGaugeBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// writeFile writes content to name inside dir and returns the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// priceSnapshot returns n daily price points starting 2024-01-01 with rising prices.
func priceSnapshot(n int) string {
	out := "["
	for i := range n {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"timestamp":%d,"price":%d,"index":1}`, int64(1704067200000)+int64(i)*86400000, 100+i)
	}
	return out + "]"
}

// nuplSnapshot returns a NUPL snapshot with up to nine days.
func nuplSnapshot(days int) string {
	out := "["
	for i := range days {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"timestamp":%d,"index":0.%d}`, int64(1704067200000)+int64(i)*86400000, i+1)
	}
	return out + "]"
}
