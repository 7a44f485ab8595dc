package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/internal/parquet"
)

// ErrNoHistory is returned when there is nothing to export.
var ErrNoHistory = errors.New("no import history found to export")

// ExecuteHistoryExport exports the import history of the global manager to Parquet files.
func ExecuteHistoryExport(w io.Writer, outputFile string) error {
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history tracking is disabled; set --history-backend to enable it")
	}
	_, _, err := ExportHistory(w, store, outputFile)
	return err
}

// ExportHistory writes every import run and sprint snapshot from store to
// <outputFile>.import_runs.parquet and <outputFile>.sprint_snapshots.parquet.
// It returns the two paths it wrote.
func ExportHistory(w io.Writer, store contract.HistoryStore, outputFile string) (string, string, error) {
	if outputFile == "" {
		return "", "", errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return "", "", fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return "", "", ErrNoHistory
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total import runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total sprint points: %d\n", status.TotalSprintPoints)

	runs, err := store.GetAllRuns()
	if err != nil {
		return "", "", fmt.Errorf("failed to retrieve import runs: %w", err)
	}
	snapshots, err := store.GetAllSprintSnapshots()
	if err != nil {
		return "", "", fmt.Errorf("failed to retrieve sprint snapshots: %w", err)
	}

	runsFile := outputFile + ".import_runs.parquet"
	parquetRuns := parquet.ConvertImportRunRecords(runs)
	if err := parquet.WriteFile(parquetRuns, runsFile); err != nil {
		return "", "", fmt.Errorf("failed to write import runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d import runs to: %s\n", len(parquetRuns), runsFile)

	snapshotsFile := outputFile + ".sprint_snapshots.parquet"
	parquetSnapshots := parquet.ConvertSprintSnapshotRecords(snapshots)
	if err := parquet.WriteFile(parquetSnapshots, snapshotsFile); err != nil {
		return "", "", fmt.Errorf("failed to write sprint snapshots: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d sprint snapshots to: %s\n", len(parquetSnapshots), snapshotsFile)

	return runsFile, snapshotsFile, nil
}
