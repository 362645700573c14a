package history

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for history tracking.
const (
	runsTable = "gauge_runs"
	rowsTable = "gauge_rows"
)

// rowDateLayout is the date prefix a row needs to be stored.
const rowDateLayout = "2006-01-02"

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createHistoryTables creates the history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{rowsTable, getCreateRowsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for gauge_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				metric VARCHAR(32) NOT NULL,
				source_path VARCHAR(1024) NOT NULL,
				started_at DATETIME(6) NOT NULL,
				ended_at DATETIME(6),
				rows_total INT,
				rows_skipped INT,
				rows_appended INT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				metric TEXT NOT NULL,
				source_path TEXT NOT NULL,
				started_at TIMESTAMPTZ NOT NULL,
				ended_at TIMESTAMPTZ,
				rows_total INT,
				rows_skipped INT,
				rows_appended INT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				metric TEXT NOT NULL,
				source_path TEXT NOT NULL,
				started_at TEXT NOT NULL,
				ended_at TEXT,
				rows_total INTEGER,
				rows_skipped INTEGER,
				rows_appended INTEGER
			);
		`, quotedTableName)
	}
}

// getCreateRowsQuery returns the CREATE TABLE query for gauge_rows.
func getCreateRowsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(rowsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				metric VARCHAR(32) NOT NULL,
				row_date VARCHAR(32) NOT NULL,
				column_name VARCHAR(128) NOT NULL,
				value_text TEXT NOT NULL,
				value_num DOUBLE,
				PRIMARY KEY (metric, row_date, column_name)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				metric TEXT NOT NULL,
				row_date TEXT NOT NULL,
				column_name TEXT NOT NULL,
				value_text TEXT NOT NULL,
				value_num DOUBLE PRECISION,
				PRIMARY KEY (metric, row_date, column_name)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				metric TEXT NOT NULL,
				row_date TEXT NOT NULL,
				column_name TEXT NOT NULL,
				value_text TEXT NOT NULL,
				value_num REAL,
				PRIMARY KEY (metric, row_date, column_name)
			);
		`, quotedTableName)
	}
}

// disabled reports whether the store is a no-op.
func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// BeginRun creates a new conversion run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(metric schema.MetricKind, sourcePath string, startTime time.Time) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var runID int64
	var err error
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (metric, source_path, started_at) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, string(metric), sourcePath, startTime).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (metric, source_path, started_at) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, string(metric), sourcePath, formatTime(startTime, hs.backend))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, total, skipped, appended int) error {
	if hs.disabled() {
		return nil
	}

	query := hs.rebind(fmt.Sprintf(`UPDATE %s SET ended_at = ?, rows_total = ?, rows_skipped = ?, rows_appended = ? WHERE run_id = ?`,
		quoteTableName(runsTable, hs.backend)))
	result, err := hs.db.Exec(query, formatTime(endTime, hs.backend), total, skipped, appended, runID)
	if err != nil {
		return fmt.Errorf("failed to update run %d: %w", runID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}

// LatestDate returns the newest stored row date for a metric, or "" when none is stored.
func (hs *HistoryStoreImpl) LatestDate(metric schema.MetricKind) (string, error) {
	if hs.disabled() {
		return "", nil
	}

	query := hs.rebind(fmt.Sprintf(`SELECT MAX(row_date) FROM %s WHERE metric = ?`, quoteTableName(rowsTable, hs.backend)))
	var latest sql.NullString
	if err := hs.db.QueryRow(query, string(metric)).Scan(&latest); err != nil {
		return "", fmt.Errorf("failed to get latest date for %s: %w", metric, err)
	}
	return latest.String, nil
}

// AppendNewer stores the rows dated strictly after the newest stored date of
// the table's metric and returns how many rows were stored.
// Rows without a calendar date are never stored.
func (hs *HistoryStoreImpl) AppendNewer(table *schema.MetricTable) (int, error) {
	if hs.disabled() || table == nil {
		return 0, nil
	}

	latest, err := hs.LatestDate(table.Metric)
	if err != nil {
		return 0, err
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(hs.upsertRowQuery())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	appended := 0
	for _, row := range table.Rows {
		if !isRowDate(row.Date) || row.Date <= latest {
			continue
		}
		for i, col := range table.Columns {
			var cell schema.Cell
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			var num any
			if cell.Num != nil {
				num = *cell.Num
			}
			if _, err := stmt.Exec(string(table.Metric), row.Date, col, cell.Text, num); err != nil {
				return 0, fmt.Errorf("failed to store %s row %s: %w", table.Metric, row.Date, err)
			}
		}
		appended++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit rows: %w", err)
	}
	return appended, nil
}

// upsertRowQuery returns the insert statement for one cell. Repeated dates
// within a single table overwrite each other instead of failing.
func (hs *HistoryStoreImpl) upsertRowQuery() string {
	quotedTableName := quoteTableName(rowsTable, hs.backend)

	switch hs.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			INSERT INTO %s (metric, row_date, column_name, value_text, value_num)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE value_text = VALUES(value_text), value_num = VALUES(value_num)
		`, quotedTableName)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			INSERT INTO %s (metric, row_date, column_name, value_text, value_num)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (metric, row_date, column_name)
			DO UPDATE SET value_text = EXCLUDED.value_text, value_num = EXCLUDED.value_num
		`, quotedTableName)
	default: // SQLite
		return fmt.Sprintf(`
			INSERT INTO %s (metric, row_date, column_name, value_text, value_num)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (metric, row_date, column_name)
			DO UPDATE SET value_text = excluded.value_text, value_num = excluded.value_num
		`, quotedTableName)
	}
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:     string(hs.backend),
		Connected:   hs.db != nil,
		LatestDates: make(map[string]string),
		TableSizes:  make(map[string]int64),
	}

	if hs.disabled() {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, hs.backend))
	if err := hs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, started_at FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, hs.backend))
		lastRunTime, err := hs.scanTime(hs.db.QueryRow(lastRunQuery), &status.LastRunID)
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunQuery := fmt.Sprintf("SELECT started_at FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(runsTable, hs.backend))
		oldestRunTime, err := hs.scanTime(hs.db.QueryRow(oldestRunQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime
	}

	distinctQuery := fmt.Sprintf("SELECT COUNT(*) FROM (SELECT DISTINCT metric, row_date FROM %s) dated", quoteTableName(rowsTable, hs.backend))
	if err := hs.db.QueryRow(distinctQuery).Scan(&status.TotalRows); err != nil {
		return status, fmt.Errorf("failed to get total rows: %w", err)
	}

	latestQuery := fmt.Sprintf("SELECT metric, MAX(row_date) FROM %s GROUP BY metric", quoteTableName(rowsTable, hs.backend))
	rows, err := hs.db.Query(latestQuery)
	if err != nil {
		return status, fmt.Errorf("failed to get latest dates: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var metric, latest string
		if err := rows.Scan(&metric, &latest); err != nil {
			return status, fmt.Errorf("failed to scan latest date: %w", err)
		}
		status.LatestDates[metric] = latest
	}
	if err := rows.Err(); err != nil {
		return status, fmt.Errorf("error iterating latest dates: %w", err)
	}

	for _, table := range []string{runsTable, rowsTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		var count int64
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves every tracked run, oldest first.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, metric, source_path, started_at, ended_at,
		COALESCE(rows_total, 0), COALESCE(rows_skipped, 0), COALESCE(rows_appended, 0)
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr sql.NullString
			if err := rows.Scan(&record.RunID, &record.Metric, &record.SourcePath, &startStr, &endStr,
				&record.RowsTotal, &record.RowsSkipped, &record.RowsAppended); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse started_at: %w", err)
			}
			record.StartTime = startTime
			if endStr.Valid {
				endTime, err := time.Parse(time.RFC3339Nano, endStr.String)
				if err != nil {
					return nil, fmt.Errorf("failed to parse ended_at: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL store as native datetime
			var endTime sql.NullTime
			if err := rows.Scan(&record.RunID, &record.Metric, &record.SourcePath, &record.StartTime, &endTime,
				&record.RowsTotal, &record.RowsSkipped, &record.RowsAppended); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if endTime.Valid {
				record.EndTime = &endTime.Time
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllRows retrieves every stored cell ordered by metric, date and column.
func (hs *HistoryStoreImpl) GetAllRows() ([]schema.HistoryRowRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT metric, row_date, column_name, value_text, value_num
		FROM %s ORDER BY metric, row_date, column_name`, quoteTableName(rowsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryRowRecord
	for rows.Next() {
		var record schema.HistoryRowRecord
		var num sql.NullFloat64
		if err := rows.Scan(&record.Metric, &record.RowDate, &record.Column, &record.ValueText, &num); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if num.Valid {
			record.ValueNum = schema.Float(num.Float64)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return results, nil
}

// scanTime scans a row whose last column is a run time, after any leading dest values.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row, dest ...any) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(append(dest, &s)...); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	if err := row.Scan(append(dest, &t)...); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// rebind rewrites ? placeholders as $n for PostgreSQL.
func (hs *HistoryStoreImpl) rebind(query string) string {
	if hs.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isRowDate reports whether date starts with a calendar date.
func isRowDate(date string) bool {
	if len(date) < len(rowDateLayout) {
		return false
	}
	_, err := time.Parse(rowDateLayout, date[:len(rowDateLayout)])
	return err == nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}

// quoteTableName quotes a table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}
