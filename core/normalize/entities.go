package normalize

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/qapulse/core/sheet"
	"github.com/huangsam/qapulse/schema"
)

// isTotalColumn reports whether a column header holds a row total.
func isTotalColumn(name string) bool {
	f := fold(name)
	return f == "total" || f == "total general"
}

// isGeneratedColumn reports whether a header was generated for a blank header cell.
func isGeneratedColumn(name string) bool {
	return strings.HasPrefix(name, "__EMPTY")
}

// Trend converts rows of the sprint trend sheet. Rows without a sprint label are dropped.
func Trend(records []sheet.Record) []schema.SprintTrendRecord {
	out := make([]schema.SprintTrendRecord, 0, len(records))
	for _, rec := range records {
		f := Normalize(rec, trendFields)
		label := strings.TrimSpace(f.Text("sprint"))
		if label == "" {
			continue
		}
		tr := schema.SprintTrendRecord{
			SprintLabel:        label,
			TestCasesExecuted:  f.Int("executed"),
			TestCasesPending:   f.Int("pendingCases"),
			BugsFound:          f.Int("found"),
			BugsCanceled:       f.Int("canceled"),
			BugsSolved:         f.Int("solved"),
			BugsPending:        f.Int("pending"),
			PercentFailed:      f.Float("pctFailed"),
			PercentPendingBugs: f.Float("pctPending"),
		}
		if f.Has("critical") {
			v := f.Int("critical")
			tr.CriticalBugs = &v
		}
		if f.Has("criticalPending") {
			v := f.Int("criticalPending")
			tr.CriticalBugsPending = &v
		}
		out = append(out, tr)
	}
	return out
}

// Developers converts rows of the developer sheet. The sheet may carry a second header
// row starting with "Desarrollador" that names the status columns; without it the
// status columns are named by their position.
func Developers(records []sheet.Record) []schema.DeveloperSummary {
	out := make([]schema.DeveloperSummary, 0, len(records))
	var labels map[string]string
	for _, rec := range records {
		nameCol, ok := rec.Column(developerColumns...)
		if !ok {
			continue
		}
		name := rec[nameCol]
		if fold(name) == "desarrollador" && nameCol != "Desarrollador" {
			labels = make(map[string]string, len(rec))
			for col, v := range rec {
				if col != nameCol {
					labels[col] = v
				}
			}
			continue
		}

		counts, total := statusCounts(rec, nameCol, func(col string) string {
			if labels != nil {
				if l, ok := labels[col]; ok {
					return l
				}
				return col
			}
			if l, ok := developerPositional[col]; ok {
				return l
			}
			return col
		})
		out = append(out, schema.DeveloperSummary{Name: name, StatusCounts: counts, Total: total})
	}
	return out
}

// statusCounts reads the numeric status columns of rec except skip. The total comes from a
// total column when present and from the sum of the statuses otherwise.
func statusCounts(rec sheet.Record, skip string, label func(string) string) (map[string]int, int) {
	counts := make(map[string]int)
	total, hasTotal, sum := 0, false, 0
	for col, raw := range rec {
		if col == skip {
			continue
		}
		n, ok := ParseNumber(raw)
		if !ok {
			continue
		}
		name := label(col)
		switch {
		case isTotalColumn(name):
			total, hasTotal = schema.RoundHalfUp(n), true
		case isGeneratedColumn(name):
		default:
			counts[name] += schema.RoundHalfUp(n)
			sum += schema.RoundHalfUp(n)
		}
	}
	if !hasTotal {
		total = sum
	}
	return counts, total
}

// Modules converts rows of the module sheet into bug counts. Percentages and pending
// estimates are filled in by the aggregator.
func Modules(records []sheet.Record) []schema.ModuleSummary {
	out := make([]schema.ModuleSummary, 0, len(records))
	for _, rec := range records {
		f := Normalize(rec, moduleFields)
		name := strings.TrimSpace(f.Text("module"))
		if name == "" {
			continue
		}
		out = append(out, schema.ModuleSummary{ModuleName: name, BugCount: f.Int("bugs")})
	}
	return out
}

// SprintStatuses converts rows of the per-sprint workflow state sheet.
func SprintStatuses(records []sheet.Record) []schema.SprintStatusRecord {
	out := make([]schema.SprintStatusRecord, 0, len(records))
	for _, rec := range records {
		col, ok := rec.Column(sprintColumns...)
		if !ok {
			continue
		}
		counts, total := statusCounts(rec, col, func(c string) string { return c })
		out = append(out, schema.SprintStatusRecord{SprintLabel: rec[col], StatusCounts: counts, Total: total})
	}
	return out
}

// Versions converts rows of the release sheet. Tags are spread over the "Etiquetas" column
// and the unnamed columns after it, and are joined with ", ".
func Versions(records []sheet.Record) []schema.VersionMetadata {
	out := make([]schema.VersionMetadata, 0, len(records))
	for _, rec := range records {
		f := Normalize(rec, versionFields)
		label := strings.TrimSpace(f.Text("sprint"))
		if label == "" {
			continue
		}
		out = append(out, schema.VersionMetadata{
			SprintLabel: label,
			VersionName: f.Text("version"),
			Date:        f.Text("date"),
			Environment: f.Text("environment"),
			TestPlan:    f.Text("testPlan"),
			Tags:        strings.Join(versionTags(rec), ", "),
		})
	}
	return out
}

func versionTags(rec sheet.Record) []string {
	var tags []string
	if v, ok := rec.Lookup(tagColumns...); ok {
		tags = append(tags, v)
	}
	var extra []string
	for col := range rec {
		if isGeneratedColumn(col) {
			extra = append(extra, col)
		}
	}
	slices.SortFunc(extra, func(a, b string) int { return generatedIndex(a) - generatedIndex(b) })
	for _, col := range extra {
		tags = append(tags, rec[col])
	}
	return tags
}

// generatedIndex orders "__EMPTY" before "__EMPTY_1" before "__EMPTY_10".
func generatedIndex(col string) int {
	_, suffix, found := strings.Cut(col, "__EMPTY_")
	if !found {
		return 0
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0
	}
	return n
}

// Categories converts rows of the category sheet over the fixed defect taxonomy.
func Categories(records []sheet.Record) []schema.CategoryBreakdown {
	out := make([]schema.CategoryBreakdown, 0, len(records))
	for _, rec := range records {
		name, ok := rec.Lookup(categoryColumns...)
		if !ok {
			continue
		}
		counts := make(map[schema.DefectType]int, len(schema.AllDefectTypes))
		sum := 0
		for _, dt := range schema.AllDefectTypes {
			n, _ := ParseNumber(rec.Get(defectTypeColumns[dt]...))
			counts[dt] = schema.RoundHalfUp(n)
			sum += counts[dt]
		}
		total := sum
		if n, ok := ParseNumber(rec.Get(totalColumns...)); ok {
			total = schema.RoundHalfUp(n)
		}
		out = append(out, schema.CategoryBreakdown{CategoryName: name, CountsByDefectType: counts, Total: total})
	}
	return out
}

// Bugs converts rows of the flat bug report. Bugs are identified by key; later rows
// repeating a key are dropped. Rows without key or ID get a positional key.
func Bugs(records []sheet.Record) []schema.BugRecord {
	out := make([]schema.BugRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		f := Normalize(rec, bugFields)
		key := f.Text("key")
		if key == "" {
			key = f.Text("id")
		}
		if key == "" {
			key = fmt.Sprintf("row-%d", i+1)
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		status := f.Text("status")
		out = append(out, schema.BugRecord{
			Key:           key,
			ID:            f.Text("id"),
			Summary:       f.Text("summary"),
			Priority:      CanonicalPriority(f.Text("priority")),
			PriorityRaw:   f.Text("priority"),
			Status:        status,
			StatusClass:   ClassifyStatus(status),
			Sprint:        f.Text("sprint"),
			Module:        f.Text("module"),
			Developer:     f.Text("developer"),
			FoundInSprint: f.Text("foundIn"),
			FixedInSprint: f.Text("fixedIn"),
			Category:      f.Text("category"),
			CreatedDate:   f.Text("created"),
		})
	}
	return out
}

// Rules converts rows of the recommendation sheet. Rows without a metric or a text are
// dropped; a missing condition means "default" and a missing priority means "media".
func Rules(records []sheet.Record) []schema.RecommendationRule {
	out := make([]schema.RecommendationRule, 0, len(records))
	for _, rec := range records {
		f := Normalize(rec, ruleFields)
		metric, text := f.Text("metric"), f.Text("text")
		if metric == "" || text == "" {
			continue
		}
		out = append(out, schema.RecommendationRule{
			MetricKey: metric,
			Condition: f.Text("condition"),
			Text:      text,
			Priority:  strings.ToLower(f.Text("priority")),
			Note:      f.Text("note"),
		})
	}
	return out
}
