package agg

import (
	"math"
	"testing"

	"github.com/huangsam/qapulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	trend := []schema.SprintTrendRecord{
		{SprintLabel: "Sprint 1", TestCasesExecuted: 200, PercentFailed: 12, BugsFound: 10, BugsSolved: 6, BugsPending: 3},
		{SprintLabel: "Sprint 2", TestCasesExecuted: 150, PercentFailed: 8},
	}

	t.Run("from bugs", func(t *testing.T) {
		s := Summarize(&schema.Dataset{Bugs: sampleBugs(), Trend: trend})
		assert.Equal(t, schema.Summary{
			TotalBugs:            6,
			BugsClosed:           2,
			BugsPending:          3,
			BugsUnclassified:     1,
			TestCasesTotal:       350,
			TestCasesExecuted:    350,
			TestCasesPassed:      314,
			TestCasesFailed:      36,
			ResolutionEfficiency: 33.3,
		}, s)
	})

	t.Run("from developers", func(t *testing.T) {
		s := Summarize(&schema.Dataset{Developers: []schema.DeveloperSummary{
			{Name: "Ana", Total: 5, StatusCounts: map[string]int{"READY FOR UAT": 3, "Blocked": 1, "IN SIT": 1}},
			{Name: "Luis", Total: 3, StatusCounts: map[string]int{"En curso": 3}},
		}})
		assert.Equal(t, 8, s.TotalBugs)
		assert.Equal(t, 3, s.BugsClosed)
		assert.Equal(t, 4, s.BugsPending)
		assert.Equal(t, 1, s.BugsUnclassified)
		assert.Equal(t, 0, s.TestCasesTotal)
	})

	t.Run("from trend", func(t *testing.T) {
		s := Summarize(&schema.Dataset{Trend: trend})
		assert.Equal(t, 10, s.TotalBugs)
		assert.Equal(t, 6, s.BugsClosed)
		assert.Equal(t, 3, s.BugsPending)
		assert.Equal(t, 1, s.BugsUnclassified)
		assert.Equal(t, 60.0, s.ResolutionEfficiency)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, schema.Summary{}, Summarize(&schema.Dataset{}))
	})
}

func TestDefectDensity(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		dd := DefectDensity(nil)
		assert.Equal(t, schema.DensityNoData, dd.Status)
		assert.Equal(t, "Sin datos", dd.Description)
		assert.NotNil(t, dd.BySprint)
		assert.Zero(t, dd.Average)
	})

	t.Run("good", func(t *testing.T) {
		dd := DefectDensity([]schema.SprintTrendRecord{
			{SprintLabel: "Sprint 1", BugsFound: 10, TestCasesExecuted: 100},
			{SprintLabel: "Sprint 2", BugsFound: 20, TestCasesExecuted: 100},
		})
		assert.Equal(t, 0.15, dd.Average)
		assert.Equal(t, 15.0, dd.AveragePercent)
		assert.Equal(t, 30, dd.TotalBugs)
		assert.Equal(t, 200, dd.TotalTestCases)
		assert.Equal(t, 0.2, dd.Max)
		assert.Equal(t, 0.1, dd.Min)
		assert.Equal(t, 2, dd.Sprints)
		assert.Equal(t, 100.0, dd.Trend)
		assert.Equal(t, schema.DensityGood, dd.Status)
		assert.Equal(t, "Bueno: Densidad de defectos dentro de lo normal", dd.Description)
		require.Len(t, dd.BySprint, 2)
		assert.Equal(t, schema.SprintDensity{Sprint: "Sprint 2", Density: 0.2, Bugs: 20, TestCases: 100}, dd.BySprint[1])
	})

	t.Run("zero test cases", func(t *testing.T) {
		dd := DefectDensity([]schema.SprintTrendRecord{{SprintLabel: "Sprint 1", BugsFound: 4}})
		assert.Zero(t, dd.Average)
		assert.False(t, math.IsNaN(dd.Average))
		assert.Zero(t, dd.Min)
		assert.Equal(t, schema.DensityGood, dd.Status)
	})

	t.Run("bands", func(t *testing.T) {
		critical := DefectDensity([]schema.SprintTrendRecord{{BugsFound: 60, TestCasesExecuted: 100}})
		assert.Equal(t, schema.DensityCritical, critical.Status)
		warning := DefectDensity([]schema.SprintTrendRecord{{BugsFound: 40, TestCasesExecuted: 100}})
		assert.Equal(t, schema.DensityWarning, warning.Status)
		assert.Equal(t, "Alerta: Densidad de defectos elevada", warning.Description)
	})
}

func TestCycleTime(t *testing.T) {
	assert.Equal(t, 2.5, CycleTime(nil))
	assert.Equal(t, 4.5, CycleTime([]schema.SprintTrendRecord{
		{BugsFound: 10, BugsSolved: 8},
		{},
	}))
	assert.Equal(t, 1.5, CycleTime([]schema.SprintTrendRecord{{BugsFound: 5, BugsSolved: 5}}))
}

func TestQuality(t *testing.T) {
	byPriority := ByPriority(sampleBugs())
	s := schema.Summary{TotalBugs: 6, ResolutionEfficiency: 33.3}

	q := Quality(s, byPriority, nil, -1)
	assert.Equal(t, DefaultAutomationCoverage, q.TestAutomation)
	assert.True(t, q.TestAutomationEstimated)
	assert.Equal(t, 2.5, q.CycleTime)
	assert.True(t, q.CycleTimeEstimated)
	assert.Equal(t, 33.3, q.ResolutionEfficiency)
	assert.Equal(t, 33.0, q.CriticalBugsRatio)
	assert.Equal(t, schema.DensityNoData, q.DefectDensity.Status)

	q = Quality(schema.Summary{}, map[string]schema.PriorityStats{}, nil, 62.5)
	assert.Equal(t, 62.5, q.TestAutomation)
	assert.False(t, q.TestAutomationEstimated)
	assert.Zero(t, q.CriticalBugsRatio)
}
