package outwriter

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/internal/parquet"
	"github.com/huangsam/qapulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// sprintCSVHeader is the column layout of the sprint series in CSV output.
var sprintCSVHeader = []string{
	"sprint", "version", "test_type", "bugs", "bugs_resolved", "bugs_pending", "test_cases",
	"percent_failed", "change", "critical_bugs_total", "critical_bugs_pending",
	"avg_resolution_time", "estimated",
}

// PrintDocument writes the full document as indented JSON.
func PrintDocument(doc *schema.QADocument, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, doc)
	}, "Wrote JSON")
}

// PrintReport outputs a document summary, dispatching based on the output format configured.
// JSON writes the whole document; CSV and Parquet write the sprint series.
func PrintReport(doc *schema.QADocument, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := PrintDocument(doc, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSprints(w, doc.SprintData, createFormatters(cfg.Precision))
		}, "Wrote CSV")
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		if err := parquet.WriteFile(parquet.ConvertSprintPoints(doc.SprintData), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTextReport(w, doc, cfg, duration)
		}, "Wrote text")
		if err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeCSVSprints writes the sprint series as CSV rows.
func writeCSVSprints(w io.Writer, points []schema.SprintPoint, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, sprintCSVHeader, func(cw *csv.Writer) error {
		for _, p := range points {
			estimated := p.Estimated.CriticalBugs || p.Estimated.AvgResolutionTime || p.Estimated.Velocity
			record := []string{
				p.Sprint,
				p.Version,
				string(p.TestType),
				strconv.Itoa(p.Bugs),
				strconv.Itoa(p.BugsResolved),
				strconv.Itoa(p.BugsPending),
				strconv.Itoa(p.TestCases),
				fmtFloat(p.PercentFailed),
				strconv.Itoa(p.Change),
				strconv.Itoa(p.CriticalBugsTotal),
				strconv.Itoa(p.CriticalBugsPending),
				strconv.Itoa(p.AvgResolutionTime),
				strconv.FormatBool(estimated),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeTextReport renders the document as a series of tables.
func writeTextReport(w io.Writer, doc *schema.QADocument, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(cfg.Precision)

	if _, err := fmt.Fprintf(w, "📊 QA Report (%s, updated %s)\n", doc.DataSource, doc.Metadata.LastUpdated); err != nil {
		return err
	}
	if doc.Warning != "" {
		if _, err := fmt.Fprintf(w, "⚠️  %s\n", doc.Warning); err != nil {
			return err
		}
	}

	s := doc.Summary
	q := doc.QualityMetrics
	summaryRows := [][]string{
		{"Total bugs", strconv.Itoa(s.TotalBugs)},
		{"Bugs closed", strconv.Itoa(s.BugsClosed)},
		{"Bugs pending", strconv.Itoa(s.BugsPending)},
		{"Bugs unclassified", strconv.Itoa(s.BugsUnclassified)},
		{"Test cases executed", strconv.Itoa(s.TestCasesExecuted)},
		{"Resolution efficiency %", fmtFloat(s.ResolutionEfficiency)},
		{"Defect density", fmtFloat(q.DefectDensity.Average) + " " + contract.GetDensityLabel(q.DefectDensity.Status, cfg.UseColors)},
		{"Cycle time (days)", fmtFloat(q.CycleTime) + estimatedMark(q.CycleTimeEstimated)},
		{"Test automation %", fmtFloat(q.TestAutomation) + estimatedMark(q.TestAutomationEstimated)},
		{"Critical bugs %", fmtFloat(q.CriticalBugsRatio)},
	}
	if err := renderSection(w, "Summary", []string{"Metric", "Value"}, summaryRows); err != nil {
		return err
	}

	if len(doc.BugsByPriority) > 0 {
		var rows [][]string
		for _, label := range priorityOrder(doc.BugsByPriority) {
			p := doc.BugsByPriority[label]
			rows = append(rows, []string{label, strconv.Itoa(p.Count), strconv.Itoa(p.Resolved), strconv.Itoa(p.Pending)})
		}
		if err := renderSection(w, "Bugs by priority", []string{"Priority", "Count", "Resolved", "Pending"}, rows); err != nil {
			return err
		}
	}

	if len(doc.BugsByModule) > 0 {
		textWidth := GetMaxTableTextWidth(cfg)
		names := slices.SortedFunc(maps.Keys(doc.BugsByModule), func(a, b string) int {
			return cmp.Or(cmp.Compare(doc.BugsByModule[b].Count, doc.BugsByModule[a].Count), cmp.Compare(a, b))
		})
		var rows [][]string
		for _, name := range names {
			m := doc.BugsByModule[name]
			rows = append(rows, []string{
				contract.TruncateText(name, textWidth),
				strconv.Itoa(m.Count),
				strconv.Itoa(m.Percentage) + "%",
				strconv.Itoa(m.Pending) + estimatedMark(m.PendingEstimated),
				contract.GetRiskLabel(m.Risk, cfg.UseColors),
			})
		}
		if err := renderSection(w, "Bugs by module", []string{"Module", "Bugs", "Share", "Pending", "Risk"}, rows); err != nil {
			return err
		}
	}

	if len(doc.DeveloperData) > 0 {
		var rows [][]string
		for _, d := range doc.DeveloperData {
			rows = append(rows, []string{
				d.Name,
				strconv.Itoa(d.TotalBugs),
				strconv.Itoa(d.Resolved),
				strconv.Itoa(d.Pending),
				contract.GetWorkloadLabel(d.Workload, cfg.UseColors),
			})
		}
		if err := renderSection(w, "Developers", []string{"Developer", "Bugs", "Resolved", "Pending", "Workload"}, rows); err != nil {
			return err
		}
	}

	if len(doc.SprintData) > 0 {
		var rows [][]string
		for _, p := range doc.SprintData {
			rows = append(rows, []string{
				p.Sprint,
				strconv.Itoa(p.Bugs),
				strconv.Itoa(p.BugsResolved),
				strconv.Itoa(p.BugsPending),
				strconv.Itoa(p.TestCases),
				fmt.Sprintf("%+d%%", p.Change),
				strconv.Itoa(p.CriticalBugsTotal) + estimatedMark(p.Estimated.CriticalBugs),
				strconv.Itoa(p.AvgResolutionTime) + estimatedMark(p.Estimated.AvgResolutionTime),
				string(p.TestType),
			})
		}
		headers := []string{"Sprint", "Bugs", "Resolved", "Pending", "Tests", "Change", "Critical", "Resolution", "Type"}
		if err := renderSection(w, "Sprints", headers, rows); err != nil {
			return err
		}
	}

	if len(doc.RiskAreas) > 0 {
		var rows [][]string
		for _, r := range doc.RiskAreas {
			rows = append(rows, []string{r.Module, strconv.Itoa(r.Bugs), strconv.Itoa(r.Percentage) + "%", contract.GetRiskLabel(r.Risk, cfg.UseColors), string(r.Impact)})
		}
		if err := renderSection(w, "Risk areas", []string{"Module", "Bugs", "Share", "Risk", "Impact"}, rows); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Transform completed in %v. Cache backend: %s. Values marked * are estimated.\n", duration, cfg.CacheBackend)
	return err
}

// renderSection prints a titled table.
func renderSection(w io.Writer, title string, headers []string, rows [][]string) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// priorityOrder returns the priority labels present in byPriority, highest first, with any
// unknown labels sorted after the canonical ones.
func priorityOrder(byPriority map[string]schema.PriorityStats) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, p := range append(slices.Clone(schema.CanonicalPriorities), schema.PriorityUnclassified) {
		label := p.Label()
		if _, ok := byPriority[label]; ok {
			labels = append(labels, label)
			seen[label] = true
		}
	}
	for _, label := range slices.Sorted(maps.Keys(byPriority)) {
		if !seen[label] {
			labels = append(labels, label)
		}
	}
	return labels
}

func estimatedMark(estimated bool) string {
	if estimated {
		return "*"
	}
	return ""
}
