// Package agg has aggregation logic for normalized QA records.
package agg

import (
	"cmp"
	"slices"

	"github.com/huangsam/qapulse/core/normalize"
	"github.com/huangsam/qapulse/schema"
)

// Classification thresholds.
const (
	workloadHighAbove   = 15
	workloadMediumAbove = 8
	riskHighFrom        = 60
	riskMediumFrom      = 40
	riskAreaAbove       = 20
	impactCriticalAbove = 50
	impactHighAbove     = 30

	// modulePendingShare estimates the pending share of a module when only its count is known.
	modulePendingShare = 0.4

	unknownModule    = "Sin módulo"
	unknownDeveloper = "Sin asignar"
)

// ClassifyWorkload maps a developer's bug total to a workload band.
func ClassifyWorkload(total int) schema.Workload {
	switch {
	case total > workloadHighAbove:
		return schema.WorkloadHigh
	case total > workloadMediumAbove:
		return schema.WorkloadMedium
	default:
		return schema.WorkloadLow
	}
}

// ClassifyModuleRisk maps a module's share of all bugs to a risk band.
func ClassifyModuleRisk(percentage int) schema.RiskLevel {
	switch {
	case percentage >= riskHighFrom:
		return schema.RiskHigh
	case percentage >= riskMediumFrom:
		return schema.RiskMedium
	default:
		return schema.RiskLow
	}
}

// ClassifyImpact maps a module's bug count to a business impact.
func ClassifyImpact(bugs int) schema.Impact {
	switch {
	case bugs > impactCriticalAbove:
		return schema.ImpactCritical
	case bugs > impactHighAbove:
		return schema.ImpactHigh
	default:
		return schema.ImpactMedium
	}
}

// ByPriority buckets bugs by priority label. The five canonical buckets are present whenever
// there is at least one bug; the unclassified bucket only when it is not empty.
func ByPriority(bugs []schema.BugRecord) map[string]schema.PriorityStats {
	result := make(map[string]schema.PriorityStats)
	if len(bugs) == 0 {
		return result
	}
	for _, p := range schema.CanonicalPriorities {
		result[p.Label()] = schema.PriorityStats{Priority: p}
	}
	for _, bug := range bugs {
		label := bug.Priority.Label()
		stats, ok := result[label]
		if !ok {
			stats.Priority = schema.PriorityUnclassified
		}
		stats.Count++
		switch bug.StatusClass {
		case schema.StatusResolved:
			stats.Resolved++
		case schema.StatusPending:
			stats.Pending++
		default:
			stats.Unclassified++
		}
		result[label] = stats
	}
	return result
}

// Modules completes module summaries with their share of all bugs and a pending figure.
// Sheet rows get the estimated pending share. Without sheet rows, modules are counted from
// bug records and their pending figure is measured.
func Modules(rows []schema.ModuleSummary, bugs []schema.BugRecord) []schema.ModuleSummary {
	if len(rows) == 0 {
		return modulesFromBugs(bugs)
	}

	rows = mergeModuleRows(rows)
	total := 0
	for _, m := range rows {
		total += m.BugCount
	}
	out := make([]schema.ModuleSummary, 0, len(rows))
	for _, m := range rows {
		m.PercentageOfTotal = schema.Percentage(m.BugCount, total)
		m.EstimatedPending = schema.RoundHalfUp(float64(m.BugCount) * modulePendingShare)
		m.PendingEstimated = true
		out = append(out, m)
	}
	return out
}

// mergeModuleRows sums the counts of rows that repeat a module name, keeping first-seen order.
func mergeModuleRows(rows []schema.ModuleSummary) []schema.ModuleSummary {
	index := make(map[string]int, len(rows))
	out := make([]schema.ModuleSummary, 0, len(rows))
	for _, m := range rows {
		if i, ok := index[m.ModuleName]; ok {
			out[i].BugCount += m.BugCount
			continue
		}
		index[m.ModuleName] = len(out)
		out = append(out, m)
	}
	return out
}

func modulesFromBugs(bugs []schema.BugRecord) []schema.ModuleSummary {
	counts := make(map[string]*schema.ModuleSummary)
	var order []string
	for _, bug := range bugs {
		name := bug.Module
		if name == "" {
			name = unknownModule
		}
		m, ok := counts[name]
		if !ok {
			m = &schema.ModuleSummary{ModuleName: name}
			counts[name] = m
			order = append(order, name)
		}
		m.BugCount++
		if bug.StatusClass == schema.StatusPending {
			m.EstimatedPending++
		}
	}

	out := make([]schema.ModuleSummary, 0, len(order))
	for _, name := range order {
		m := *counts[name]
		m.PercentageOfTotal = schema.Percentage(m.BugCount, len(bugs))
		out = append(out, m)
	}
	return out
}

// ByModule keys completed module summaries by module name. Repeated names add up.
func ByModule(modules []schema.ModuleSummary) map[string]schema.ModuleStats {
	result := make(map[string]schema.ModuleStats, len(modules))
	for _, m := range modules {
		stats := result[m.ModuleName]
		stats.Count += m.BugCount
		stats.Percentage += m.PercentageOfTotal
		stats.Pending += m.EstimatedPending
		stats.PendingEstimated = stats.PendingEstimated || m.PendingEstimated
		stats.Risk = ClassifyModuleRisk(stats.Percentage)
		result[m.ModuleName] = stats
	}
	return result
}

// RiskAreas lists modules with more than 20 bugs, largest first.
func RiskAreas(modules []schema.ModuleSummary) []schema.RiskArea {
	areas := make([]schema.RiskArea, 0)
	for _, m := range modules {
		if m.BugCount <= riskAreaAbove {
			continue
		}
		areas = append(areas, schema.RiskArea{
			Module:     m.ModuleName,
			Bugs:       m.BugCount,
			Percentage: m.PercentageOfTotal,
			Risk:       ClassifyModuleRisk(m.PercentageOfTotal),
			Impact:     ClassifyImpact(m.BugCount),
		})
	}
	slices.SortStableFunc(areas, func(a, b schema.RiskArea) int {
		return cmp.Compare(b.Bugs, a.Bugs)
	})
	return areas
}

// ByCategory computes each defect type's share within its category. Rows that repeat a
// category name are summed first.
func ByCategory(categories []schema.CategoryBreakdown) map[string]schema.CategoryStats {
	merged := make(map[string]*schema.CategoryBreakdown, len(categories))
	for _, c := range categories {
		m, ok := merged[c.CategoryName]
		if !ok {
			m = &schema.CategoryBreakdown{CategoryName: c.CategoryName, CountsByDefectType: make(map[schema.DefectType]int)}
			merged[c.CategoryName] = m
		}
		m.Total += c.Total
		for dt, n := range c.CountsByDefectType {
			m.CountsByDefectType[dt] += n
		}
	}

	result := make(map[string]schema.CategoryStats, len(merged))
	for name, c := range merged {
		types := make(map[schema.DefectType]schema.DefectTypeStats, len(schema.AllDefectTypes))
		for _, dt := range schema.AllDefectTypes {
			n := c.CountsByDefectType[dt]
			types[dt] = schema.DefectTypeStats{Count: n, Percentage: schema.Percentage(n, c.Total)}
		}
		result[name] = schema.CategoryStats{Total: c.Total, DefectTypes: types}
	}
	return result
}

// Developers derives per-developer workload. Sheet rows keep their order. Without sheet
// rows, developers are counted from bug records, busiest first.
func Developers(rows []schema.DeveloperSummary, bugs []schema.BugRecord) []schema.DeveloperStats {
	if len(rows) == 0 {
		rows = developersFromBugs(bugs)
	}
	out := make([]schema.DeveloperStats, 0, len(rows))
	for _, d := range rows {
		resolved, pending, unclassified := normalize.StatusTotals(d.StatusCounts)
		counts := d.StatusCounts
		if counts == nil {
			counts = map[string]int{}
		}
		out = append(out, schema.DeveloperStats{
			Name:         d.Name,
			TotalBugs:    d.Total,
			Resolved:     resolved,
			Pending:      pending,
			Unclassified: unclassified,
			Workload:     ClassifyWorkload(d.Total),
			StatusCounts: counts,
		})
	}
	return out
}

func developersFromBugs(bugs []schema.BugRecord) []schema.DeveloperSummary {
	byName := make(map[string]*schema.DeveloperSummary)
	for _, bug := range bugs {
		name := bug.Developer
		if name == "" {
			name = unknownDeveloper
		}
		d, ok := byName[name]
		if !ok {
			d = &schema.DeveloperSummary{Name: name, StatusCounts: make(map[string]int)}
			byName[name] = d
		}
		status := bug.Status
		if status == "" {
			status = "Sin estado"
		}
		d.StatusCounts[status]++
		d.Total++
	}

	out := make([]schema.DeveloperSummary, 0, len(byName))
	for _, d := range byName {
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b schema.DeveloperSummary) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
