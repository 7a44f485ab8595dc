package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the import history store.
type HistoryStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalRuns         int              `json:"total_runs"`
	LastRunID         int64            `json:"last_run_id"`
	LastRunTime       time.Time        `json:"last_run_time"`
	OldestRunTime     time.Time        `json:"oldest_run_time"`
	TotalSprintPoints int              `json:"total_sprint_points"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// ImportRunRecord represents a row from the qapulse_import_runs table.
type ImportRunRecord struct {
	RunID         int64
	RunUUID       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	SourceFile    string
	DataSource    string
	TotalBugs     int32
	SprintCount   int32
}

// SprintSnapshotRecord represents a row from the qapulse_sprint_snapshots table.
type SprintSnapshotRecord struct {
	RunID             int64
	Position          int32
	Sprint            string
	RecordedAt        time.Time
	Bugs              int32
	BugsResolved      int32
	BugsPending       int32
	TestCases         int32
	Change            int32
	CriticalBugs      int32
	CriticalEstimated bool
	AvgResolutionTime int32
	TestType          string
	Version           string
}
