package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/qapulse/core/normalize"
	"github.com/huangsam/qapulse/core/rules"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMetricsRenderModel(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		model := BuildMetricsRenderModel(&contract.Config{AutomationCoverage: -1})
		require.Len(t, model.KPIs, 9)
		assert.Equal(t, "Resolution efficiency", model.KPIs[0].Name)

		cycle := model.KPIs[2]
		assert.True(t, cycle.Estimated)
		assert.Contains(t, cycle.Formula, "bugsSolved / 14")

		automation := model.KPIs[4]
		assert.True(t, automation.Estimated)
		assert.Contains(t, automation.Formula, "45")
	})

	t.Run("workflow states and rule sets", func(t *testing.T) {
		model := BuildMetricsRenderModel(&contract.Config{AutomationCoverage: -1})
		assert.Equal(t, normalize.WorkflowStates, model.WorkflowStates)
		require.Len(t, model.RuleSets, len(rules.Metrics))
		for _, rs := range model.RuleSets {
			assert.Positive(t, rs.Rules, rs.Metric)
			assert.Equal(t, rules.SheetName(rs.Metric), rs.Sheet)
		}
		assert.Equal(t, rules.MetricTestCases, model.RuleSets[0].Metric)
		assert.Equal(t, "mediaCasosEjecutados", model.RuleSets[0].Sheet)
	})

	t.Run("configured", func(t *testing.T) {
		model := BuildMetricsRenderModel(&contract.Config{AutomationCoverage: 70, SprintDays: 10})
		assert.Contains(t, model.KPIs[2].Formula, "bugsSolved / 10")
		assert.False(t, model.KPIs[4].Estimated)
	})
}

func TestWriteTextMetrics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTextMetrics(&buf, BuildMetricsRenderModel(&contract.Config{AutomationCoverage: -1})))

	out := buf.String()
	assert.Contains(t, out, "📐 QA Dashboard KPIs")
	assert.Contains(t, out, "Cycle time (estimated):")
	assert.Contains(t, out, "   Thresholds: > 15 Alto; > 8 Medio; otherwise Bajo\n")
	assert.Contains(t, out, "Workflow states: Cancelado, Tareas por hacer, Code Review,")
	assert.Contains(t, out, "   testCases (sheet mediaCasosEjecutados): ")
}

func TestWriteCSVMetrics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVMetrics(&buf, BuildMetricsRenderModel(&contract.Config{AutomationCoverage: -1})))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 10)
	assert.Equal(t, []string{"KPI", "Purpose", "Formula", "Thresholds", "Estimated"}, records[0])
	assert.Equal(t, "Module risk", records[7][0])
	assert.Equal(t, ">= 60 Alto|>= 40 Medio|otherwise Bajo", records[7][3])
	assert.Equal(t, "false", records[7][4])
}

func TestPrintMetricsDefinitionsJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "kpis.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: out, AutomationCoverage: -1}
	require.NoError(t, PrintMetricsDefinitions(cfg))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var model schema.MetricsRenderModel
	require.NoError(t, json.Unmarshal(data, &model))
	assert.Equal(t, "QA Dashboard KPIs", model.Title)
	assert.Len(t, model.KPIs, 9)
	assert.Contains(t, model.WorkflowStates, "READY FOR UAT")
	assert.Len(t, model.RuleSets, len(rules.Metrics))
}
