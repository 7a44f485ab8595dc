// Package sprint builds the per-sprint trend series.
package sprint

import (
	"math"
	"strings"

	"github.com/huangsam/qapulse/schema"
)

// DefaultDays is the sprint length used by the resolution estimates.
const DefaultDays = 14

// Estimation factors for values the trend sheet does not measure.
const (
	criticalShare        = 0.22
	criticalPendingShare = 0.25
	velocityDays         = 7
	plannedVelocityRatio = 1.1
	idleBacklogShare     = 0.5
)

// Options tunes the series builder.
type Options struct {
	SprintDays int
}

func (o Options) days() int {
	if o.SprintDays <= 0 {
		return DefaultDays
	}
	return o.SprintDays
}

// JoinKey normalizes a sprint label for matching across sheets: "Sprint 21" and "S-21"
// both become "21". Labels without digits match on their lowercased text.
func JoinKey(label string) string {
	if key := schema.SprintKey(label); key != "" {
		return key
	}
	return strings.ToLower(strings.TrimSpace(label))
}

// Change is the rounded percentage change of bugs found against the previous sprint.
// It is 0 when the previous sprint found nothing.
func Change(previous, current int) int {
	if previous == 0 {
		return 0
	}
	return schema.RoundHalfUp(float64(current-previous) / float64(previous) * 100)
}

// ResolutionDays estimates the days needed to clear the pending backlog at the sprint's
// daily resolution rate, assuming one bug a day when nothing was solved. Without a backlog
// it is half a sprint.
func ResolutionDays(pending, solved, sprintDays int) int {
	if pending <= 0 {
		return int(math.Ceil(float64(sprintDays) * idleBacklogShare))
	}
	velocity := 1.0
	if solved > 0 {
		velocity = float64(solved) / float64(sprintDays)
	}
	return int(math.Ceil(float64(pending) / velocity))
}

// ClassifyTestType reports a UAT cycle when the environment or the tags mention "uat".
func ClassifyTestType(environment, tags string) schema.TestType {
	if strings.Contains(strings.ToLower(environment), "uat") || strings.Contains(strings.ToLower(tags), "uat") {
		return schema.UATTest
	}
	return schema.SystemTest
}

// Build joins the trend rows with release metadata and workflow state counts, in trend order.
// Critical bug counts come from the trend sheet when it measures them and are estimated otherwise.
func Build(trend []schema.SprintTrendRecord, versions []schema.VersionMetadata, statuses []schema.SprintStatusRecord, opts Options) []schema.SprintPoint {
	days := opts.days()

	versionByKey := make(map[string]schema.VersionMetadata, len(versions))
	for _, v := range versions {
		versionByKey[JoinKey(v.SprintLabel)] = v
	}
	statusByKey := make(map[string]map[string]int, len(statuses))
	for _, s := range statuses {
		statusByKey[JoinKey(s.SprintLabel)] = s.StatusCounts
	}

	points := make([]schema.SprintPoint, 0, len(trend))
	for i, tr := range trend {
		key := JoinKey(tr.SprintLabel)
		version := versionByKey[key]

		p := schema.SprintPoint{
			Sprint:            tr.SprintLabel,
			Bugs:              tr.BugsFound,
			BugsResolved:      tr.BugsSolved,
			BugsPending:       tr.BugsPending,
			BugsCanceled:      tr.BugsCanceled,
			TestCases:         tr.TestCasesExecuted,
			TestCasesPending:  tr.TestCasesPending,
			PercentFailed:     tr.PercentFailed,
			Velocity:          schema.RoundHalfUp(float64(tr.TestCasesExecuted) / velocityDays),
			PlannedVelocity:   schema.RoundHalfUp(float64(tr.TestCasesExecuted) * plannedVelocityRatio),
			AvgResolutionTime: ResolutionDays(tr.BugsPending, tr.BugsSolved, days),
			TestType:          ClassifyTestType(version.Environment, version.Tags),
			Version:           version.VersionName,
			StartDate:         version.Date,
			Environment:       version.Environment,
			TestPlan:          version.TestPlan,
			Tags:              version.Tags,
			StatusCounts:      map[string]int{},
			Estimated: schema.SprintEstimates{
				AvgResolutionTime: true,
				Velocity:          true,
			},
		}
		if i > 0 {
			p.Change = Change(trend[i-1].BugsFound, tr.BugsFound)
		}

		if tr.CriticalBugs != nil {
			p.CriticalBugsTotal = *tr.CriticalBugs
		} else {
			p.CriticalBugsTotal = int(math.Ceil(float64(tr.BugsFound) * criticalShare))
			p.Estimated.CriticalBugs = true
		}
		if tr.CriticalBugsPending != nil {
			p.CriticalBugsPending = *tr.CriticalBugsPending
		} else {
			p.CriticalBugsPending = int(math.Ceil(float64(tr.BugsPending) * criticalPendingShare))
			p.Estimated.CriticalBugs = true
		}

		if counts, ok := statusByKey[key]; ok && counts != nil {
			p.StatusCounts = counts
		}
		points = append(points, p)
	}
	return points
}

// Labels returns the sprint labels of a series in order.
func Labels(points []schema.SprintPoint) []string {
	labels := make([]string, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.Sprint)
	}
	return labels
}
