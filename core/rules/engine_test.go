package rules

import (
	"testing"

	"github.com/huangsam/qapulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(recs []schema.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Text)
	}
	return out
}

func TestRecommendDefaults(t *testing.T) {
	e := NewEngine(nil)

	t.Run("critical backlog above 15", func(t *testing.T) {
		recs := e.Recommend(MetricCriticalBugsStatus, Env{"pending": 16})
		require.Len(t, recs, 5)
		assert.Equal(t, "pending > 15", recs[0].Condition)
		assert.Equal(t, "pending > 15", recs[1].Condition)
		assert.Equal(t, DefaultCondition, recs[2].Condition)
	})

	t.Run("no critical backlog", func(t *testing.T) {
		recs := e.Recommend(MetricCriticalBugsStatus, Env{"pending": 0})
		require.NotEmpty(t, recs)
		assert.Equal(t, "Excelente: todos los bugs críticos resueltos; formalizar buenas prácticas mantenidas", recs[0].Text)
		assert.Equal(t, PriorityLow, recs[0].Priority)
		assert.False(t, recs[0].Actionable)
		assert.Equal(t, "✅", recs[0].Icon)
		assert.Empty(t, recs[0].Note)
	})

	t.Run("slow critical bugs", func(t *testing.T) {
		recs := e.Recommend(MetricCycleTime, Env{"avg": 8, "byPriority.critical": 6})
		assert.Equal(t, []string{
			"Críticos lentos: establecer SLA de 48h y asignar recursos dedicados a críticos",
			"Aumentar automatización de testing para detectar defectos en fases tempranas",
			"Revisar y estandarizar triage para priorizar correctamente",
		}, texts(recs))
	})

	t.Run("rule order is kept", func(t *testing.T) {
		recs := e.Recommend(MetricDefectDensity, Env{"avg": 0.2, "critical": 0.4})
		require.Len(t, recs, 5)
		assert.Equal(t, "critical > 0.3", recs[3].Condition)
		assert.Equal(t, "avg <= 1.0", recs[4].Condition)
	})
}

func TestRecommendSheetRulesOverride(t *testing.T) {
	sheet := []schema.RecommendationRule{
		{MetricKey: "tiempoPromedioResolucion", Condition: "avg > 2", Text: "Revisar flujo de cierre", Priority: "ALTA", Note: "Plan Q3"},
		{MetricKey: "cycleTime", Condition: "default", Text: "Ignorada por el nombre nuevo", Priority: "baja"},
		{MetricKey: "eficienciaResolucion", Condition: "efficiency < 90", Text: "Subir eficiencia", Priority: "media"},
	}
	e := NewEngine(sheet)

	recs := e.Recommend(MetricCycleTime, Env{"avg": 3})
	require.Len(t, recs, 1)
	assert.Equal(t, "Revisar flujo de cierre", recs[0].Text)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.True(t, recs[0].Actionable)
	assert.Equal(t, "🚧 🚨", recs[0].Icon)
	assert.Equal(t, "Plan Q3", recs[0].Note)

	recs = e.Recommend(MetricResolutionEfficiency, Env{"efficiency": 50})
	require.Len(t, recs, 1)
	assert.Equal(t, DevelopmentNote, recs[0].Note)
	assert.Equal(t, "🚧 ⚠️", recs[0].Icon)

	assert.Equal(t, defaultRules[MetricCriticalBugs], e.RulesFor(MetricCriticalBugs))
}

func TestDefaultRulesAreCopies(t *testing.T) {
	e := NewEngine(nil)
	got := e.RulesFor(MetricCycleTime)
	require.NotEmpty(t, got)
	original := got[0].Text
	got[0].Text = "changed"

	assert.Equal(t, original, e.RulesFor(MetricCycleTime)[0].Text)
	assert.Equal(t, original, DefaultRules(MetricCycleTime)[0].Text)
	assert.Empty(t, DefaultRules("unknown"))
}

func TestRecommendOldMetricName(t *testing.T) {
	e := NewEngine([]schema.RecommendationRule{
		{MetricKey: "testCases", Condition: "avg > 0", Text: "Mantener", Priority: "baja"},
	})
	assert.Equal(t, []string{"Mantener"}, texts(e.Recommend(MetricTestCases, Env{"avg": 3})))
}

func TestRecommendSkipsBrokenRules(t *testing.T) {
	var warned []string
	e := NewEngine([]schema.RecommendationRule{
		{MetricKey: "densidadDefectos", Condition: "avg >", Text: "rota", Priority: "alta"},
		{MetricKey: "densidadDefectos", Condition: "unknown > 1", Text: "desconocida", Priority: "alta"},
		{MetricKey: "densidadDefectos", Condition: "avg > 0.1", Text: "válida", Priority: "media"},
	})
	e.Warn = func(msg string, _ error) { warned = append(warned, msg) }

	recs := e.Recommend(MetricDefectDensity, Env{"avg": 0.2})
	assert.Equal(t, []string{"válida"}, texts(recs))
	assert.Len(t, warned, 2)
}

func TestRecommendAll(t *testing.T) {
	e := NewEngine(nil)
	e.Warn = func(string, error) {}

	out := e.RecommendAll(map[string]Env{MetricTestCases: {"avg": 120}})
	require.Len(t, out, len(Metrics))
	assert.Equal(t, "avg < 150", out[MetricTestCases][0].Condition)

	for _, metric := range Metrics {
		assert.NotNil(t, out[metric], metric)
	}
	// Without a payload only unconditional rules match.
	for _, rec := range out[MetricCycleTime] {
		assert.Equal(t, DefaultCondition, rec.Condition)
	}
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "🚨", Icon("alta"))
	assert.Equal(t, "⚠️", Icon("Media"))
	assert.Equal(t, "✅", Icon("baja"))
	assert.Equal(t, "•", Icon("urgente"))
	assert.False(t, IsActionable("baja"))
	assert.True(t, IsActionable("ALTA"))
}

func TestPayloads(t *testing.T) {
	doc := &schema.QADocument{
		Summary: schema.Summary{TotalBugs: 40, BugsClosed: 30, BugsPending: 8, TestCasesExecuted: 602, ResolutionEfficiency: 75},
		BugsByPriority: map[string]schema.PriorityStats{
			"Más alta": {Count: 6, Pending: 2, Resolved: 4},
			"Alta":     {Count: 10, Pending: 3, Resolved: 6},
			"Media":    {Count: 24},
		},
		SprintData: []schema.SprintPoint{
			{CriticalBugsTotal: 11, CriticalBugsPending: 1, AvgResolutionTime: 2},
			{CriticalBugsTotal: 5, CriticalBugsPending: 2, AvgResolutionTime: 5},
			{CriticalBugsTotal: 7, CriticalBugsPending: 1, AvgResolutionTime: 4},
		},
		QualityMetrics: schema.QualityMetrics{
			CycleTime:         3.2,
			CriticalBugsRatio: 40,
			DefectDensity:     schema.DefectDensity{Average: 0.1, Max: 0.2, Min: 0.05, Trend: -12},
		},
	}

	p := Payloads(doc)
	assert.Equal(t, Env{"avg": 201, "total": 602, "sprints": 3}, p[MetricTestCases])
	assert.Equal(t, 75.0, p[MetricResolutionEfficiency]["efficiency"])
	assert.Equal(t, 16.0, p[MetricCriticalBugs]["total"])
	assert.Equal(t, 5.0, p[MetricCriticalBugsStatus]["pending"])
	assert.Equal(t, 10.0, p[MetricCriticalBugsStatus]["resolved"])
	assert.Equal(t, 3.7, p[MetricCycleTime]["byPriority.critical"])
	assert.Equal(t, 3.2, p[MetricCycleTime]["avg"])
	assert.Equal(t, 0.4, p[MetricDefectDensity]["critical"])
	assert.Equal(t, -12.0, p[MetricDefectDensity]["trend"])
}

func TestPayloadsWithoutPriorities(t *testing.T) {
	doc := &schema.QADocument{
		SprintData: []schema.SprintPoint{
			{CriticalBugsTotal: 11, CriticalBugsPending: 1},
			{CriticalBugsTotal: 5, CriticalBugsPending: 2},
		},
	}
	p := Payloads(doc)
	assert.Equal(t, 16.0, p[MetricCriticalBugs]["total"])
	assert.Equal(t, 3.0, p[MetricCriticalBugsStatus]["pending"])
	assert.Equal(t, 13.0, p[MetricCriticalBugsStatus]["resolved"])
	assert.Equal(t, 0.0, p[MetricTestCases]["avg"])
}
