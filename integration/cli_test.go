//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSampleRoundTrip writes the sample workbook and runs the document commands on it.
func TestSampleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, dir, nil, "sample", "qa-data.xlsx")
	require.NoError(t, err)

	t.Run("generate", func(t *testing.T) {
		_, err := runCommand(t, dir, nil, "generate", "qa-data.xlsx", "--output-file", "qa-data.json")
		require.NoError(t, err)

		raw, err := os.ReadFile(filepath.Join(dir, "qa-data.json"))
		require.NoError(t, err)
		var doc struct {
			IsRealData bool   `json:"_isRealData"`
			DataSource string `json:"_dataSource"`
			SprintData []struct {
				Change int `json:"change"`
			} `json:"sprintData"`
		}
		require.NoError(t, json.Unmarshal(raw, &doc))
		assert.True(t, doc.IsRealData)
		assert.Equal(t, "excel", doc.DataSource)
		require.Len(t, doc.SprintData, 6)
		assert.Equal(t, -59, doc.SprintData[1].Change)
	})

	t.Run("report", func(t *testing.T) {
		out, err := runCommand(t, dir, nil, "report", "qa-data.xlsx", "--color", "no")
		require.NoError(t, err)
		assert.Contains(t, out, "Sprint 21")
		assert.Contains(t, out, "-59%")
	})

	t.Run("recommend", func(t *testing.T) {
		out, err := runCommand(t, dir, nil, "recommend", "qa-data.xlsx", "--output", "json")
		require.NoError(t, err)
		var recs map[string][]map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &recs))
		assert.Len(t, recs, 6)
	})

	t.Run("metrics", func(t *testing.T) {
		out, err := runCommand(t, dir, nil, "metrics", "--output", "csv")
		require.NoError(t, err)
		assert.Contains(t, out, "Developer workload")
	})

	t.Run("cache status", func(t *testing.T) {
		out, err := runCommand(t, dir, nil, "cache", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "sqlite")
	})
}

// TestMissingWorkbookFallsBack checks that a missing workbook still yields a document.
func TestMissingWorkbookFallsBack(t *testing.T) {
	dir := t.TempDir()
	out, err := runCommand(t, dir, nil, "generate", "missing.xlsx", "--cache-backend", "none")
	require.NoError(t, err)

	var doc struct {
		IsRealData bool   `json:"_isRealData"`
		DataSource string `json:"_dataSource"`
		Warning    string `json:"_warning"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.False(t, doc.IsRealData)
	assert.Equal(t, "fallback", doc.DataSource)
	assert.NotEmpty(t, doc.Warning)
}

// TestHistoryWithSQLite records transforms and exports them to Parquet.
func TestHistoryWithSQLite(t *testing.T) {
	dir := t.TempDir()
	env := []string{"QAPULSE_HISTORY_BACKEND=sqlite"}
	_, err := runCommand(t, dir, env, "sample", "qa-data.xlsx")
	require.NoError(t, err)

	_, err = runCommand(t, dir, env, "history", "migrate")
	require.NoError(t, err)
	_, err = runCommand(t, dir, env, "generate", "qa-data.xlsx", "--force-reload", "--output-file", "doc.json")
	require.NoError(t, err)

	out, err := runCommand(t, dir, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	_, err = runCommand(t, dir, env, "history", "export", "--output-file", "qa-history")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "qa-history.import_runs.parquet"))
	assert.FileExists(t, filepath.Join(dir, "qa-history.sprint_snapshots.parquet"))

	_, err = runCommand(t, dir, env, "history", "clear")
	require.NoError(t, err)
}

func TestInvalidFlags(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"bad output", []string{"report", "--output", "xml"}},
		{"bad precision", []string{"report", "--precision", "5"}},
		{"bad ttl", []string{"generate", "--cache-ttl", "soon"}},
		{"bad backend", []string{"generate", "--cache-backend", "redis"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, dir, nil, tt.args...)
			assert.Error(t, err)
		})
	}
}
