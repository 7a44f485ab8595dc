package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/schema"
)

// Table names for import history.
const (
	importRunsTable      = "qapulse_import_runs"
	sprintSnapshotsTable = "qapulse_sprint_snapshots"
)

// historyTables lists the history tables in dependency order.
var historyTables = []string{importRunsTable, sprintSnapshotsTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend and brings its
// schema up to date.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := applyMigrations(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// BeginRun creates a new import run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, sourceFile string) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	quotedTableName := quoteTableName(importRunsTable, hs.backend)
	runUUID := uuid.NewString()

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, source_file) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		if err := hs.db.QueryRow(query, runUUID, startTime, sourceFile).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to insert import run: %w", err)
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, source_file) VALUES (?, ?, ?)`, quotedTableName)
		result, err := hs.db.Exec(query, runUUID, formatTime(startTime, hs.backend), sourceFile)
		if err != nil {
			return 0, fmt.Errorf("failed to insert import run: %w", err)
		}
		if runID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read import run id: %w", err)
		}
	}
	return runID, nil
}

// EndRun updates the import run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, source schema.DataSource, totalBugs, sprintCount int) error {
	if hs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(importRunsTable, hs.backend)

	var rawStart any
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))
	if err := hs.db.QueryRow(query, runID).Scan(&rawStart); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := parseTime(rawStart)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, data_source = %s, total_bugs = %s, sprint_count = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3),
		placeholder(hs.backend, 4), placeholder(hs.backend, 5), placeholder(hs.backend, 6))
	durationMs := endTime.Sub(startTime).Milliseconds()
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, string(source), totalBugs, sprintCount, runID); err != nil {
		return fmt.Errorf("failed to update import run: %w", err)
	}
	return nil
}

// RecordSprintPoint stores one point of the sprint series for a run. Points are kept in
// the order they are recorded.
func (hs *HistoryStoreImpl) RecordSprintPoint(runID int64, point schema.SprintPoint) error {
	if hs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(sprintSnapshotsTable, hs.backend)

	var position int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))
	if err := hs.db.QueryRow(countQuery, runID).Scan(&position); err != nil {
		return fmt.Errorf("failed to count sprint snapshots: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, position, sprint, recorded_at, bugs, bugs_resolved, bugs_pending,
		                test_cases, change_pct, critical_bugs, critical_estimated, avg_resolution_time,
		                test_type, version)
		VALUES (%s)
	`, quotedTableName, placeholders(hs.backend, 14))
	args := []any{
		runID, position, point.Sprint, formatTime(time.Now(), hs.backend),
		point.Bugs, point.BugsResolved, point.BugsPending, point.TestCases, point.Change,
		point.CriticalBugsTotal, point.Estimated.CriticalBugs, point.AvgResolutionTime,
		string(point.TestType), point.Version,
	}
	if _, err := hs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert sprint snapshot %q: %w", point.Sprint, err)
	}
	return nil
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
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(importRunsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var rawLast, rawOldest any
		lastQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &rawLast); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(oldestQuery).Scan(&rawOldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		var err error
		if status.LastRunTime, err = parseTime(rawLast); err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		if status.OldestRunTime, err = parseTime(rawOldest); err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}
	}

	for _, table := range historyTables {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalSprintPoints = int(status.TableSizes[sprintSnapshotsTable])
	return status, nil
}

// GetAllRuns retrieves all import runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ImportRunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, start_time, end_time, run_duration_ms, source_file,
		COALESCE(data_source, ''), COALESCE(total_bugs, 0), COALESCE(sprint_count, 0)
		FROM %s ORDER BY run_id`, quoteTableName(importRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ImportRunRecord
	for rows.Next() {
		var record schema.ImportRunRecord
		var rawStart, rawEnd any
		if err := rows.Scan(&record.RunID, &record.RunUUID, &rawStart, &rawEnd, &record.RunDurationMs,
			&record.SourceFile, &record.DataSource, &record.TotalBugs, &record.SprintCount); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		if record.StartTime, err = parseTime(rawStart); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if rawEnd != nil {
			endTime, err := parseTime(rawEnd)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import runs: %w", err)
	}
	return results, nil
}

// GetAllSprintSnapshots retrieves all recorded sprint points, ordered by run and position.
func (hs *HistoryStoreImpl) GetAllSprintSnapshots() ([]schema.SprintSnapshotRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, position, sprint, recorded_at, bugs, bugs_resolved, bugs_pending,
		test_cases, change_pct, critical_bugs, critical_estimated, avg_resolution_time, test_type,
		COALESCE(version, '')
		FROM %s ORDER BY run_id, position`, quoteTableName(sprintSnapshotsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sprint snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SprintSnapshotRecord
	for rows.Next() {
		var record schema.SprintSnapshotRecord
		var rawRecorded any
		if err := rows.Scan(&record.RunID, &record.Position, &record.Sprint, &rawRecorded, &record.Bugs,
			&record.BugsResolved, &record.BugsPending, &record.TestCases, &record.Change,
			&record.CriticalBugs, &record.CriticalEstimated, &record.AvgResolutionTime,
			&record.TestType, &record.Version); err != nil {
			return nil, fmt.Errorf("failed to scan sprint snapshot: %w", err)
		}
		if record.RecordedAt, err = parseTime(rawRecorded); err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sprint snapshots: %w", err)
	}
	return results, nil
}
