package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/qapulse/core/normalize"
	"github.com/huangsam/qapulse/core/rules"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/schema"
)

// PrintMetricsDefinitions displays how every KPI of the document is computed.
// This is a static display that does not read any workbook.
func PrintMetricsDefinitions(cfg *contract.Config) error {
	renderModel := BuildMetricsRenderModel(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMetrics(w, renderModel)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTextMetrics(w, renderModel)
		}, "Wrote text")
	}
}

func writeTextMetrics(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	if _, err := fmt.Fprintf(w, "📐 %s\n%s\n\n", renderModel.Title, renderModel.Description); err != nil {
		return err
	}
	for _, kpi := range renderModel.KPIs {
		name := kpi.Name
		if kpi.Estimated {
			name += " (estimated)"
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n   Formula: %s\n", name, kpi.Purpose, kpi.Formula); err != nil {
			return err
		}
		if len(kpi.Thresholds) > 0 {
			if _, err := fmt.Fprintf(w, "   Thresholds: %s\n", strings.Join(kpi.Thresholds, "; ")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Workflow states: %s\n", strings.Join(renderModel.WorkflowStates, ", ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Built-in recommendation rules:"); err != nil {
		return err
	}
	for _, rs := range renderModel.RuleSets {
		if _, err := fmt.Fprintf(w, "   %s (sheet %s): %d rules\n", rs.Metric, rs.Sheet, rs.Rules); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVMetrics(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	return writeCSVWithHeader(w, []string{"KPI", "Purpose", "Formula", "Thresholds", "Estimated"}, func(cw *csv.Writer) error {
		for _, kpi := range renderModel.KPIs {
			record := []string{kpi.Name, kpi.Purpose, kpi.Formula, strings.Join(kpi.Thresholds, "|"), strconv.FormatBool(kpi.Estimated)}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// BuildMetricsRenderModel describes the KPIs with the sprint length and automation
// coverage of cfg.
func BuildMetricsRenderModel(cfg *contract.Config) *schema.MetricsRenderModel {
	sprintDays := cfg.SprintDays
	if sprintDays <= 0 {
		sprintDays = contract.DefaultSprintDays
	}
	automation := "configured automation-coverage"
	automationEstimated := cfg.AutomationCoverage < 0
	if automationEstimated {
		automation = "45 (no measurement configured)"
	}

	ruleSets := make([]schema.RuleSetDefinition, 0, len(rules.Metrics))
	for _, metric := range rules.Metrics {
		ruleSets = append(ruleSets, schema.RuleSetDefinition{
			Metric: metric,
			Sheet:  rules.SheetName(metric),
			Rules:  len(rules.DefaultRules(metric)),
		})
	}

	return &schema.MetricsRenderModel{
		Title:          "QA Dashboard KPIs",
		Description:    "Percentages round half up; a zero denominator gives 0",
		WorkflowStates: append([]string(nil), normalize.WorkflowStates...),
		RuleSets:       ruleSets,
		KPIs: []schema.KPIDefinition{
			{
				Name:    "Resolution efficiency",
				Purpose: "Share of reported bugs that are closed",
				Formula: "bugsClosed / totalBugs * 100, rounded to one decimal",
			},
			{
				Name:       "Defect density",
				Purpose:    "Bugs found per executed test case",
				Formula:    "sum(bugsFound) / sum(testCasesExecuted); min is the lowest positive sprint density",
				Thresholds: []string{"> 0.5 critical", "> 0.3 warning", "<= 0.3 good"},
			},
			{
				Name:      "Cycle time",
				Purpose:   "Days to clear a sprint's pending backlog",
				Formula:   fmt.Sprintf("ceil(bugsPending / (bugsSolved / %d)); 1 bug/day when nothing was solved; ceil(%d * 0.5) without backlog", sprintDays, sprintDays),
				Estimated: true,
			},
			{
				Name:       "Critical bugs ratio",
				Purpose:    "Share of bugs with the two highest priorities",
				Formula:    "round((Más alta + Alta) / totalBugs * 100)",
				Thresholds: []string{"estimated per sprint as round(bugsFound * 0.22) when not measured"},
			},
			{
				Name:      "Test automation",
				Purpose:   "Share of test cases that run automatically",
				Formula:   automation,
				Estimated: automationEstimated,
			},
			{
				Name:       "Developer workload",
				Purpose:    "Assigned bug volume per developer",
				Formula:    "total bugs assigned",
				Thresholds: []string{"> 15 Alto", "> 8 Medio", "otherwise Bajo"},
			},
			{
				Name:       "Module risk",
				Purpose:    "Concentration of bugs in one module",
				Formula:    "round(moduleBugs / totalBugs * 100)",
				Thresholds: []string{">= 60 Alto", ">= 40 Medio", "otherwise Bajo"},
			},
			{
				Name:       "Risk area impact",
				Purpose:    "Business impact of modules with more than 20 bugs",
				Formula:    "moduleBugs",
				Thresholds: []string{"> 50 Crítico", "> 30 Alto", "otherwise Medio"},
			},
			{
				Name:    "Sprint change",
				Purpose: "Variation of bugs found against the previous sprint",
				Formula: "round((bugs - previousBugs) / previousBugs * 100); 0 for the first sprint",
			},
		},
	}
}
