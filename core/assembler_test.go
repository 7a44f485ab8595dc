package core

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/qapulse/core/normalize"
	"github.com/huangsam/qapulse/core/rules"
	"github.com/huangsam/qapulse/core/sample"
	"github.com/huangsam/qapulse/core/sheet"
	"github.com/huangsam/qapulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSample saves the sample workbook to a temporary directory and returns its path.
func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qa-data.xlsx")
	require.NoError(t, sample.Write(path))
	return path
}

func sampleDataset(t *testing.T) *schema.Dataset {
	t.Helper()
	path := writeSample(t)
	wb, err := sheet.OpenWorkbook(path)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	ds, err := normalize.ReadDataset(wb, path)
	require.NoError(t, err)
	return ds
}

var fixedNow = time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)

func TestAssembleSample(t *testing.T) {
	ds := sampleDataset(t)
	doc := Assemble(ds, AssembleOptions{AutomationCoverage: -1, SprintDays: 14, GeneratedBy: "qapulse-test", Now: fixedNow})

	t.Run("metadata", func(t *testing.T) {
		assert.True(t, doc.IsRealData)
		assert.Equal(t, schema.ExcelSource, doc.DataSource)
		assert.Empty(t, doc.Warning)
		assert.Equal(t, "2025-03-10T12:30:00Z", doc.Metadata.LastUpdated)
		assert.Equal(t, schema.ExcelSource, doc.Metadata.Source)
		assert.Equal(t, schema.DocumentVersion, doc.Metadata.Version)
		assert.Equal(t, ds.SourceFile, doc.Metadata.ExcelFile)
		assert.Equal(t, "qapulse-test", doc.Metadata.GeneratedBy)
		assert.Len(t, doc.Metadata.SheetsFound, len(sample.SheetOrder))
		assert.Equal(t, []string{"Sprint 16", "Sprint 17", "Sprint 18", "Sprint 19", "Sprint 20", "Sprint 21"}, doc.Metadata.Sprints)
	})

	t.Run("summary from bug list", func(t *testing.T) {
		assert.Equal(t, len(ds.Bugs), doc.Summary.TotalBugs)
		assert.Equal(t, doc.Summary.TotalBugs, doc.Summary.BugsClosed+doc.Summary.BugsPending+doc.Summary.BugsUnclassified)
	})

	t.Run("sprint series", func(t *testing.T) {
		require.Len(t, doc.SprintData, 6)
		changes := make([]int, 0, len(doc.SprintData))
		for _, p := range doc.SprintData {
			changes = append(changes, p.Change)
		}
		assert.Equal(t, []int{0, -59, 47, -25, -10, -74}, changes)
	})

	t.Run("developer workload keeps sheet order", func(t *testing.T) {
		require.Len(t, doc.DeveloperData, 4)
		assert.Equal(t, "Laura Gómez", doc.DeveloperData[0].Name)
		assert.Equal(t, schema.WorkloadHigh, doc.DeveloperData[0].Workload)
		assert.Equal(t, "Diego Torres", doc.DeveloperData[1].Name)
		assert.Equal(t, schema.WorkloadMedium, doc.DeveloperData[1].Workload)
		assert.Equal(t, schema.WorkloadLow, doc.DeveloperData[3].Workload)
	})

	t.Run("modules and risk areas", func(t *testing.T) {
		assert.Len(t, doc.BugsByModule, 4)
		require.NotEmpty(t, doc.RiskAreas)
		assert.Equal(t, "Pagos", doc.RiskAreas[0].Module)
	})

	t.Run("recommendations", func(t *testing.T) {
		for _, metric := range rules.Metrics {
			assert.Contains(t, doc.Recommendations, metric)
		}
		cycle := doc.Recommendations[rules.MetricCycleTime]
		require.NotEmpty(t, cycle)
		assert.Equal(t, "El ciclo de resolución está dentro de lo esperado.", cycle[len(cycle)-1].Text)
		assert.Equal(t, rules.PriorityLow, cycle[len(cycle)-1].Priority)
		assert.NotEmpty(t, doc.Recommendations[rules.MetricTestCases])
	})
}

func TestAssembleIsDeterministic(t *testing.T) {
	ds := sampleDataset(t)
	first := Assemble(ds, AssembleOptions{AutomationCoverage: -1, Now: fixedNow})
	second := Assemble(ds, AssembleOptions{AutomationCoverage: -1, Now: fixedNow.Add(time.Hour)})

	assert.NotEqual(t, first.Metadata.LastUpdated, second.Metadata.LastUpdated)
	second.Metadata.LastUpdated = first.Metadata.LastUpdated

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestAssembleEmptyDataset(t *testing.T) {
	for _, ds := range []*schema.Dataset{nil, {SourceFile: "empty.xlsx"}} {
		doc := Assemble(ds, AssembleOptions{Now: fixedNow})

		assert.False(t, doc.IsRealData)
		assert.NotEmpty(t, doc.Warning)
		assert.Equal(t, 0, doc.Summary.TotalBugs)

		data, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "null")
	}
}

func TestFallback(t *testing.T) {
	doc := Fallback("", fixedNow)

	assert.Equal(t, schema.FallbackSource, doc.DataSource)
	assert.Equal(t, schema.FallbackSource, doc.Metadata.Source)
	assert.Equal(t, FallbackWarning, doc.Warning)
	assert.False(t, doc.IsRealData)
	assert.False(t, doc.Cached)
	assert.Equal(t, 0, doc.Summary.TotalBugs)
	assert.Empty(t, doc.SprintData)
	assert.NotNil(t, doc.SprintData)
	assert.Len(t, doc.Recommendations, len(rules.Metrics))
	for _, metric := range rules.Metrics {
		assert.NotNil(t, doc.Recommendations[metric], metric)
		assert.Empty(t, doc.Recommendations[metric], metric)
	}

	custom := Fallback("Workbook could not be read: boom", time.Time{})
	assert.Equal(t, "Workbook could not be read: boom", custom.Warning)
	assert.NotEmpty(t, custom.Metadata.LastUpdated)
}
