//go:build basic

package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolatedEnv keeps the user's config and history out of the test.
func isolatedEnv(t *testing.T) []string {
	return []string{"HOME=" + t.TempDir(), "GAUGE_COLOR=no"}
}

func TestGaugeMayer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "btc.json", priceSnapshot(5))

	out, err := runGauge(t, dir, isolatedEnv(t), "mayer", "btc.json", "--window", "3", "--formats", "csv,json,parquet")
	require.NoError(t, err, out)

	for _, name := range []string{
		"corrected-mayer-multiple.csv", "corrected-mayer-multiple.json", "corrected-mayer-multiple.parquet",
		"simplified-mayer-multiple.csv", "simplified-mayer-multiple.json", "simplified-mayer-multiple.parquet",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "simplified-mayer-multiple.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, "date,price,sma200d,mayerMultiple", lines[0])
	assert.Len(t, lines, 4, "five points with a window of three leave three complete rows")
	assert.Equal(t, "2024-01-03,102.00,101.00,1.0099", lines[1])
}

func TestGaugeMayerMissingPrice(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "btc.json", `[{"timestamp":1704067200000}]`)

	out, err := runGauge(t, dir, isolatedEnv(t), "mayer", "btc.json")
	require.Error(t, err)
	assert.Contains(t, out, "price")
	assert.NoFileExists(t, filepath.Join(dir, "corrected-mayer-multiple.csv"))
}

func TestGaugeConvert(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nupl.json", nuplSnapshot(3))

	out, err := runGauge(t, dir, isolatedEnv(t), "convert", "nupl", "nupl.json", "--output-dir", "out", "--formats", "csv")
	require.NoError(t, err, out)

	raw, err := os.ReadFile(filepath.Join(dir, "out", "nupl-data-readable.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Date,nupl Index\n2024-01-01,0.1\n2024-01-02,0.2\n2024-01-03,0.3\n", string(raw))
}

func TestGaugeConvertUnknownMetric(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.json", `[]`)

	out, err := runGauge(t, dir, isolatedEnv(t), "convert", "tarot", "x.json")
	require.Error(t, err)
	assert.Contains(t, out, "unknown metric 'tarot'")
}

func TestGaugeMetrics(t *testing.T) {
	out, err := runGauge(t, t.TempDir(), isolatedEnv(t), "metrics", "--output", "csv")
	require.NoError(t, err, out)
	assert.Contains(t, out, "mayer,")
	assert.Contains(t, out, "nupl-data-readable")
}

func TestGaugeSQLiteHistory(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")
	env := append(isolatedEnv(t), "GAUGE_HISTORY_BACKEND=sqlite", "GAUGE_HISTORY_DB_CONNECT="+db)

	writeFile(t, dir, "nupl.json", nuplSnapshot(2))
	out, err := runGauge(t, dir, env, "convert", "nupl", "nupl.json", "-q")
	require.NoError(t, err, out)

	// A longer snapshot only adds the new day
	writeFile(t, dir, "nupl.json", nuplSnapshot(3))
	out, err = runGauge(t, dir, env, "convert", "nupl", "nupl.json", "-q")
	require.NoError(t, err, out)

	out, err = runGauge(t, dir, env, "history", "status")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Total Runs: 2")
	assert.Contains(t, out, "Total Rows: 3")
	assert.Contains(t, out, "nupl: 2024-01-03")

	out, err = runGauge(t, dir, env, "history", "export", "--output-file", "export")
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(dir, "export.runs.parquet"))
	assert.FileExists(t, filepath.Join(dir, "export.rows.parquet"))

	out, err = runGauge(t, dir, env, "history", "clear")
	require.NoError(t, err, out)
	assert.NoFileExists(t, db)

	out, err = runGauge(t, dir, env, "history", "migrate")
	require.NoError(t, err, out)
	assert.FileExists(t, db)
}

func TestGaugeScheduleOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nupl.json", nuplSnapshot(2))
	writeFile(t, dir, ".gauge.yaml", `jobs:
  - name: nupl-daily
    metric: nupl
    input: nupl.json
    output_dir: jobs
    cron: "@daily"
`)

	out, err := runGauge(t, dir, isolatedEnv(t), "schedule", "--once", "-q")
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(dir, "jobs", "nupl-data-readable.csv"))
}

func TestGaugeScheduleInvalidCron(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".gauge.yaml", `jobs:
  - name: broken
    metric: fng
    input: fng.json
    cron: "every day"
`)

	out, err := runGauge(t, dir, isolatedEnv(t), "schedule", "--once")
	require.Error(t, err)
	assert.Contains(t, out, "register job broken")
}
