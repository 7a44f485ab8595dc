package agg

import (
	"github.com/huangsam/qapulse/core/normalize"
	"github.com/huangsam/qapulse/schema"
)

// DefaultAutomationCoverage is the automation percentage reported when none is configured.
const DefaultAutomationCoverage = 45.0

// defaultCycleTime is the cycle time in days reported without trend data.
const defaultCycleTime = 2.5

// Defect density bands, in bugs per executed test case.
const (
	densityCriticalAbove  = 0.5
	densityWarningAbove   = 0.3
	densityExcellentBelow = 0.1
)

// Summarize computes the headline counts. Bug records are preferred; without them the
// developer sheet is used, and without that the sprint trend totals.
func Summarize(ds *schema.Dataset) schema.Summary {
	var s schema.Summary
	switch {
	case len(ds.Bugs) > 0:
		s.TotalBugs = len(ds.Bugs)
		for _, bug := range ds.Bugs {
			switch bug.StatusClass {
			case schema.StatusResolved:
				s.BugsClosed++
			case schema.StatusPending:
				s.BugsPending++
			default:
				s.BugsUnclassified++
			}
		}
	case len(ds.Developers) > 0:
		for _, d := range ds.Developers {
			resolved, pending, unclassified := normalize.StatusTotals(d.StatusCounts)
			s.TotalBugs += d.Total
			s.BugsClosed += resolved
			s.BugsPending += pending
			s.BugsUnclassified += unclassified
		}
	default:
		for _, tr := range ds.Trend {
			s.TotalBugs += tr.BugsFound
			s.BugsClosed += tr.BugsSolved
			s.BugsPending += tr.BugsPending
		}
		s.BugsUnclassified = max(0, s.TotalBugs-s.BugsClosed-s.BugsPending)
	}

	for _, tr := range ds.Trend {
		s.TestCasesExecuted += tr.TestCasesExecuted
		s.TestCasesFailed += schema.RoundHalfUp(float64(tr.TestCasesExecuted) * tr.PercentFailed / 100)
	}
	s.TestCasesTotal = s.TestCasesExecuted
	s.TestCasesPassed = s.TestCasesExecuted - s.TestCasesFailed
	s.ResolutionEfficiency = schema.RoundTo(schema.SafeDiv(float64(s.BugsClosed), float64(s.TotalBugs))*100, 1)
	return s
}

// DefectDensity computes bugs per executed test case, overall and per sprint.
// The trend compares the mean density of the second half of the sprints with the first.
func DefectDensity(trend []schema.SprintTrendRecord) schema.DefectDensity {
	dd := schema.DefectDensity{
		Status:      schema.DensityNoData,
		Description: densityDescription(0),
		BySprint:    make([]schema.SprintDensity, 0, len(trend)),
	}
	if len(trend) == 0 {
		return dd
	}

	minPositive := 0.0
	for _, tr := range trend {
		density := schema.RoundTo(schema.SafeDiv(float64(tr.BugsFound), float64(tr.TestCasesExecuted)), 4)
		dd.BySprint = append(dd.BySprint, schema.SprintDensity{
			Sprint:    tr.SprintLabel,
			Density:   density,
			Bugs:      tr.BugsFound,
			TestCases: tr.TestCasesExecuted,
		})
		dd.TotalBugs += tr.BugsFound
		dd.TotalTestCases += tr.TestCasesExecuted
		dd.Max = max(dd.Max, density)
		if density > 0 && (minPositive == 0 || density < minPositive) {
			minPositive = density
		}
	}

	avg := schema.SafeDiv(float64(dd.TotalBugs), float64(dd.TotalTestCases))
	dd.Average = schema.RoundTo(avg, 4)
	dd.AveragePercent = schema.RoundTo(avg*100, 2)
	dd.Min = minPositive
	dd.Sprints = len(trend)
	dd.Trend = float64(halvesTrend(dd.BySprint))
	dd.Description = densityDescription(avg)
	switch {
	case avg > densityCriticalAbove:
		dd.Status = schema.DensityCritical
	case avg > densityWarningAbove:
		dd.Status = schema.DensityWarning
	default:
		dd.Status = schema.DensityGood
	}
	return dd
}

func halvesTrend(points []schema.SprintDensity) int {
	mid := len(points) / 2
	first, second := meanDensity(points[:mid]), meanDensity(points[mid:])
	if first <= 0 {
		return 0
	}
	return schema.RoundHalfUp((second - first) / first * 100)
}

func meanDensity(points []schema.SprintDensity) float64 {
	sum := 0.0
	for _, p := range points {
		sum += p.Density
	}
	return schema.SafeDiv(sum, float64(len(points)))
}

func densityDescription(density float64) string {
	switch {
	case density <= 0:
		return "Sin datos"
	case density < densityExcellentBelow:
		return "Excelente: Muy pocos defectos encontrados"
	case density < densityWarningAbove:
		return "Bueno: Densidad de defectos dentro de lo normal"
	case density < densityCriticalAbove:
		return "Alerta: Densidad de defectos elevada"
	default:
		return "Crítico: Densidad de defectos muy alta"
	}
}

// CycleTime estimates the average days from detection to resolution from the mean share of
// bugs solved per sprint, between 1.5 and 6.5 days.
func CycleTime(trend []schema.SprintTrendRecord) float64 {
	if len(trend) == 0 {
		return defaultCycleTime
	}
	sum := 0.0
	for _, tr := range trend {
		found := tr.BugsFound
		if found == 0 {
			found = 1
		}
		sum += float64(tr.BugsSolved) / float64(found)
	}
	avgResolution := sum / float64(len(trend))
	return schema.RoundTo((1-avgResolution)*5+1.5, 1)
}

// CriticalBugsRatio is the percentage of bugs with the two highest priorities.
func CriticalBugsRatio(byPriority map[string]schema.PriorityStats, totalBugs int) float64 {
	critical := byPriority[schema.PriorityHighest.Label()].Count + byPriority[schema.PriorityHigh.Label()].Count
	return float64(schema.Percentage(critical, totalBugs))
}

// Quality computes the KPI block. A negative automationCoverage means no measurement is
// available, in which case the default is reported as an estimate.
func Quality(s schema.Summary, byPriority map[string]schema.PriorityStats, trend []schema.SprintTrendRecord, automationCoverage float64) schema.QualityMetrics {
	q := schema.QualityMetrics{
		TestAutomation:       automationCoverage,
		CycleTime:            CycleTime(trend),
		CycleTimeEstimated:   true,
		ResolutionEfficiency: s.ResolutionEfficiency,
		CriticalBugsRatio:    CriticalBugsRatio(byPriority, s.TotalBugs),
		DefectDensity:        DefectDensity(trend),
	}
	if automationCoverage < 0 {
		q.TestAutomation = DefaultAutomationCoverage
		q.TestAutomationEstimated = true
	}
	return q
}
