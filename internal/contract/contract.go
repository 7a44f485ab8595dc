// Package contract provides interfaces and shared utilities for the qapulse internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/qapulse/schema"
)

// CacheManager defines the interface for managing the persistence stores.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetDocumentStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking transform runs and their sprint series.
type HistoryStore interface {
	// BeginRun creates a new import run and returns its unique ID
	BeginRun(startTime time.Time, sourceFile string) (int64, error)

	// EndRun updates the import run with completion data
	EndRun(runID int64, endTime time.Time, source schema.DataSource, totalBugs, sprintCount int) error

	// RecordSprintPoint stores one point of the sprint series for a run
	RecordSprintPoint(runID int64, point schema.SprintPoint) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all import runs
	GetAllRuns() ([]schema.ImportRunRecord, error)

	// GetAllSprintSnapshots retrieves all recorded sprint points
	GetAllSprintSnapshots() ([]schema.SprintSnapshotRecord, error)

	// Close closes the underlying connection
	Close() error
}
