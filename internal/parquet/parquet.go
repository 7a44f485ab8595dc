// Package parquet provides data structures and functions for exporting qapulse
// history and sprint series to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/qapulse/schema"
	"github.com/parquet-go/parquet-go"
)

// ImportRun represents a single transform run with metadata.
// This struct maps to the qapulse_import_runs database table.
type ImportRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier of this run
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the transform began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the transform completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	SourceFile  string `parquet:"source_file,snappy"`
	DataSource  string `parquet:"data_source,snappy"`
	TotalBugs   int32  `parquet:"total_bugs,snappy"`
	SprintCount int32  `parquet:"sprint_count,snappy"`
}

// SprintSnapshot is one recorded sprint point of a run.
// This struct maps to the qapulse_sprint_snapshots database table.
type SprintSnapshot struct {
	RunID             int64     `parquet:"run_id,snappy"`
	Position          int32     `parquet:"position,snappy"`
	Sprint            string    `parquet:"sprint,snappy"`
	RecordedAt        time.Time `parquet:"recorded_at,snappy"`
	Bugs              int32     `parquet:"bugs,snappy"`
	BugsResolved      int32     `parquet:"bugs_resolved,snappy"`
	BugsPending       int32     `parquet:"bugs_pending,snappy"`
	TestCases         int32     `parquet:"test_cases,snappy"`
	Change            int32     `parquet:"change_pct,snappy"`
	CriticalBugs      int32     `parquet:"critical_bugs,snappy"`
	CriticalEstimated bool      `parquet:"critical_estimated,snappy"`
	AvgResolutionTime int32     `parquet:"avg_resolution_time,snappy"`
	TestType          string    `parquet:"test_type,snappy"`
	Version           string    `parquet:"version,snappy"`
}

// SprintRow is one sprint of a document's trend series, as written by the report command.
type SprintRow struct {
	Sprint              string  `parquet:"sprint,snappy"`
	Version             string  `parquet:"version,snappy"`
	TestType            string  `parquet:"test_type,snappy"`
	Bugs                int32   `parquet:"bugs,snappy"`
	BugsResolved        int32   `parquet:"bugs_resolved,snappy"`
	BugsPending         int32   `parquet:"bugs_pending,snappy"`
	TestCases           int32   `parquet:"test_cases,snappy"`
	PercentFailed       float64 `parquet:"percent_failed,snappy"`
	Change              int32   `parquet:"change_pct,snappy"`
	CriticalBugsTotal   int32   `parquet:"critical_bugs_total,snappy"`
	CriticalBugsPending int32   `parquet:"critical_bugs_pending,snappy"`
	AvgResolutionTime   int32   `parquet:"avg_resolution_time,snappy"`
	Estimated           bool    `parquet:"estimated,snappy"`
}

// Write writes rows of any tagged struct type to w.
func Write[T any](w io.Writer, data []T) error {
	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows of any tagged struct type to a new file at outputPath.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ConvertImportRunRecords converts schema.ImportRunRecord to ImportRun for Parquet export.
func ConvertImportRunRecords(records []schema.ImportRunRecord) []ImportRun {
	result := make([]ImportRun, len(records))
	for i, record := range records {
		result[i] = ImportRun{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			SourceFile:    record.SourceFile,
			DataSource:    record.DataSource,
			TotalBugs:     record.TotalBugs,
			SprintCount:   record.SprintCount,
		}
	}
	return result
}

// ConvertSprintSnapshotRecords converts schema.SprintSnapshotRecord to SprintSnapshot for Parquet export.
func ConvertSprintSnapshotRecords(records []schema.SprintSnapshotRecord) []SprintSnapshot {
	result := make([]SprintSnapshot, len(records))
	for i, record := range records {
		result[i] = SprintSnapshot{
			RunID:             record.RunID,
			Position:          record.Position,
			Sprint:            record.Sprint,
			RecordedAt:        record.RecordedAt,
			Bugs:              record.Bugs,
			BugsResolved:      record.BugsResolved,
			BugsPending:       record.BugsPending,
			TestCases:         record.TestCases,
			Change:            record.Change,
			CriticalBugs:      record.CriticalBugs,
			CriticalEstimated: record.CriticalEstimated,
			AvgResolutionTime: record.AvgResolutionTime,
			TestType:          record.TestType,
			Version:           record.Version,
		}
	}
	return result
}

// ConvertSprintPoints converts a document's sprint series to SprintRow for Parquet output.
func ConvertSprintPoints(points []schema.SprintPoint) []SprintRow {
	result := make([]SprintRow, len(points))
	for i, p := range points {
		result[i] = SprintRow{
			Sprint:              p.Sprint,
			Version:             p.Version,
			TestType:            string(p.TestType),
			Bugs:                int32(p.Bugs),
			BugsResolved:        int32(p.BugsResolved),
			BugsPending:         int32(p.BugsPending),
			TestCases:           int32(p.TestCases),
			PercentFailed:       p.PercentFailed,
			Change:              int32(p.Change),
			CriticalBugsTotal:   int32(p.CriticalBugsTotal),
			CriticalBugsPending: int32(p.CriticalBugsPending),
			AvgResolutionTime:   int32(p.AvgResolutionTime),
			Estimated:           p.Estimated.CriticalBugs || p.Estimated.AvgResolutionTime || p.Estimated.Velocity,
		}
	}
	return result
}
