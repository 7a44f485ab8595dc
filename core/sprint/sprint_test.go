package sprint

import (
	"fmt"
	"testing"

	"github.com/huangsam/qapulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trendOf(found ...int) []schema.SprintTrendRecord {
	trend := make([]schema.SprintTrendRecord, 0, len(found))
	for i, n := range found {
		trend = append(trend, schema.SprintTrendRecord{
			SprintLabel: fmt.Sprintf("Sprint %d", 16+i),
			BugsFound:   n,
		})
	}
	return trend
}

func TestBuildChangeSeries(t *testing.T) {
	points := Build(trendOf(46, 19, 28, 21, 19, 5), nil, nil, Options{})
	require.Len(t, points, 6)

	changes := make([]int, 0, len(points))
	for _, p := range points {
		changes = append(changes, p.Change)
	}
	assert.Equal(t, []int{0, -59, 47, -25, -10, -74}, changes)
	assert.Equal(t, []string{"Sprint 16", "Sprint 17", "Sprint 18", "Sprint 19", "Sprint 20", "Sprint 21"}, Labels(points))
}

func TestChange(t *testing.T) {
	tests := []struct {
		name              string
		previous, current int
		want              int
	}{
		{"drop", 46, 19, -59},
		{"rise", 19, 28, 47},
		{"previous zero", 0, 12, 0},
		{"both zero", 0, 0, 0},
		{"double", 5, 10, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Change(tt.previous, tt.current))
		})
	}
}

func TestBuildKeepsSheetOrder(t *testing.T) {
	trend := []schema.SprintTrendRecord{
		{SprintLabel: "Sprint 21", BugsFound: 10},
		{SprintLabel: "Sprint 9", BugsFound: 20},
		{SprintLabel: "Sprint 15", BugsFound: 5},
	}
	points := Build(trend, nil, nil, Options{})
	assert.Equal(t, []string{"Sprint 21", "Sprint 9", "Sprint 15"}, Labels(points))
	assert.Equal(t, []int{0, 100, -75}, []int{points[0].Change, points[1].Change, points[2].Change})
}

func TestFirstSprintChangeIsZero(t *testing.T) {
	for _, found := range [][]int{{0}, {12}, {7, 14}} {
		points := Build(trendOf(found...), nil, nil, Options{})
		assert.Equal(t, 0, points[0].Change)
	}
	assert.Empty(t, Build(nil, nil, nil, Options{}))
}

func TestResolutionDays(t *testing.T) {
	tests := []struct {
		name                  string
		pending, solved, days int
		want                  int
	}{
		{"no backlog", 0, 10, 14, 7},
		{"nothing solved", 3, 0, 14, 3},
		{"fast team", 4, 40, 14, 2},
		{"slow team", 6, 22, 14, 4},
		{"short sprint backlog", 0, 0, 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolutionDays(tt.pending, tt.solved, tt.days))
		})
	}
}

func TestClassifyTestType(t *testing.T) {
	assert.Equal(t, schema.UATTest, ClassifyTestType("UAT", ""))
	assert.Equal(t, schema.UATTest, ClassifyTestType("SIT", "regresión, uat-ready"))
	assert.Equal(t, schema.SystemTest, ClassifyTestType("SIT", "smoke"))
	assert.Equal(t, schema.SystemTest, ClassifyTestType("", ""))
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "21", JoinKey("Sprint 21"))
	assert.Equal(t, "21", JoinKey("S-21"))
	assert.Equal(t, "21", JoinKey("21"))
	assert.Equal(t, "backlog", JoinKey(" Backlog "))
}

func TestBuildJoinsMetadata(t *testing.T) {
	trend := []schema.SprintTrendRecord{
		{SprintLabel: "Sprint 16", TestCasesExecuted: 210, BugsFound: 46, BugsSolved: 40, BugsPending: 4, PercentFailed: 12},
		{SprintLabel: "Sprint 21", TestCasesExecuted: 98, BugsFound: 5, BugsSolved: 2, BugsPending: 3},
	}
	versions := []schema.VersionMetadata{
		{SprintLabel: "16", VersionName: "v2.3.0", Date: "2025-01-06", Environment: "UAT", TestPlan: "TP-16", Tags: "regresión"},
	}
	statuses := []schema.SprintStatusRecord{
		{SprintLabel: "SPRINT 21", StatusCounts: map[string]int{"READY FOR UAT": 2}},
	}

	points := Build(trend, versions, statuses, Options{SprintDays: 14})
	require.Len(t, points, 2)

	first := points[0]
	assert.Equal(t, "v2.3.0", first.Version)
	assert.Equal(t, "2025-01-06", first.StartDate)
	assert.Equal(t, "TP-16", first.TestPlan)
	assert.Equal(t, schema.UATTest, first.TestType)
	assert.Equal(t, 30, first.Velocity)
	assert.Equal(t, 231, first.PlannedVelocity)
	assert.Equal(t, 11, first.CriticalBugsTotal)
	assert.Equal(t, 1, first.CriticalBugsPending)
	assert.Equal(t, 2, first.AvgResolutionTime)
	assert.Equal(t, schema.SprintEstimates{CriticalBugs: true, AvgResolutionTime: true, Velocity: true}, first.Estimated)
	assert.NotNil(t, first.StatusCounts)
	assert.Empty(t, first.StatusCounts)

	second := points[1]
	assert.Equal(t, "", second.Version)
	assert.Equal(t, schema.SystemTest, second.TestType)
	assert.Equal(t, map[string]int{"READY FOR UAT": 2}, second.StatusCounts)
	assert.Equal(t, -89, second.Change)
}

func TestBuildMeasuredCriticalBugs(t *testing.T) {
	critical, pending := 9, 2
	points := Build([]schema.SprintTrendRecord{
		{SprintLabel: "Sprint 1", BugsFound: 46, BugsPending: 8, CriticalBugs: &critical, CriticalBugsPending: &pending},
	}, nil, nil, Options{})
	require.Len(t, points, 1)
	assert.Equal(t, 9, points[0].CriticalBugsTotal)
	assert.Equal(t, 2, points[0].CriticalBugsPending)
	assert.False(t, points[0].Estimated.CriticalBugs)
	assert.True(t, points[0].Estimated.AvgResolutionTime)
}
