package core

import (
	"slices"
	"time"

	"github.com/huangsam/qapulse/core/agg"
	"github.com/huangsam/qapulse/core/rules"
	"github.com/huangsam/qapulse/core/sprint"
	"github.com/huangsam/qapulse/schema"
)

// FallbackWarning is attached to documents built without a readable workbook.
const FallbackWarning = "Workbook not available; returning minimal safe payload."

// AssembleOptions tunes document assembly.
type AssembleOptions struct {
	Source             schema.DataSource
	AutomationCoverage float64 // negative means not measured
	SprintDays         int
	GeneratedBy        string
	Now                time.Time
}

func (o AssembleOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Assemble builds the QADocument of a normalized dataset. Every collection of the result is
// non-nil and ordered deterministically, so assembling the same dataset twice differs only
// in metadata.lastUpdated.
func Assemble(ds *schema.Dataset, opts AssembleOptions) *schema.QADocument {
	if ds == nil {
		ds = &schema.Dataset{}
	}
	source := opts.Source
	if source == "" {
		source = schema.ExcelSource
	}

	summary := agg.Summarize(ds)
	byPriority := agg.ByPriority(ds.Bugs)
	modules := agg.Modules(ds.Modules, ds.Bugs)
	points := sprint.Build(ds.Trend, ds.Versions, ds.SprintStatuses, sprint.Options{SprintDays: opts.SprintDays})

	doc := &schema.QADocument{
		Summary:        summary,
		BugsByPriority: byPriority,
		BugsByModule:   agg.ByModule(modules),
		DeveloperData:  agg.Developers(ds.Developers, ds.Bugs),
		SprintData:     points,
		BugsByCategory: agg.ByCategory(ds.Categories),
		QualityMetrics: agg.Quality(summary, byPriority, ds.Trend, opts.AutomationCoverage),
		RiskAreas:      agg.RiskAreas(modules),
		Metadata: schema.Metadata{
			LastUpdated: opts.now().UTC().Format(time.RFC3339),
			Source:      source,
			Version:     schema.DocumentVersion,
			Sprints:     sprint.Labels(points),
			ExcelFile:   ds.SourceFile,
			SheetsFound: slices.Clone(ds.SheetsFound),
			GeneratedBy: opts.GeneratedBy,
		},
		IsRealData: ds.HasData(),
		DataSource: source,
	}
	if !doc.IsRealData {
		doc.Warning = "Workbook contains no recognized QA data."
	}

	fillEmpty(doc)

	engine := rules.NewEngine(ds.Rules)
	doc.Recommendations = engine.RecommendAll(rules.Payloads(doc))
	return doc
}

// Fallback builds the minimal safe document served when no workbook can be read. Its
// recommendations are empty since there is nothing to evaluate them against.
func Fallback(warning string, now time.Time) *schema.QADocument {
	if warning == "" {
		warning = FallbackWarning
	}
	if now.IsZero() {
		now = time.Now()
	}
	doc := &schema.QADocument{
		Metadata: schema.Metadata{
			LastUpdated: now.UTC().Format(time.RFC3339),
			Source:      schema.FallbackSource,
			Version:     schema.DocumentVersion,
		},
		Warning:    warning,
		DataSource: schema.FallbackSource,
	}
	fillEmpty(doc)
	for _, metric := range rules.Metrics {
		doc.Recommendations[metric] = []schema.Recommendation{}
	}
	return doc
}

// fillEmpty replaces nil collections so that every key encodes as {} or [] rather than null.
func fillEmpty(doc *schema.QADocument) {
	if doc.BugsByPriority == nil {
		doc.BugsByPriority = map[string]schema.PriorityStats{}
	}
	if doc.BugsByModule == nil {
		doc.BugsByModule = map[string]schema.ModuleStats{}
	}
	if doc.DeveloperData == nil {
		doc.DeveloperData = []schema.DeveloperStats{}
	}
	if doc.SprintData == nil {
		doc.SprintData = []schema.SprintPoint{}
	}
	if doc.BugsByCategory == nil {
		doc.BugsByCategory = map[string]schema.CategoryStats{}
	}
	if doc.RiskAreas == nil {
		doc.RiskAreas = []schema.RiskArea{}
	}
	if doc.Recommendations == nil {
		doc.Recommendations = map[string][]schema.Recommendation{}
	}
	if doc.Metadata.Sprints == nil {
		doc.Metadata.Sprints = []string{}
	}
	if doc.Metadata.SheetsFound == nil {
		doc.Metadata.SheetsFound = []string{}
	}
	if doc.QualityMetrics.DefectDensity.BySprint == nil {
		doc.QualityMetrics.DefectDensity.BySprint = []schema.SprintDensity{}
	}
	for i := range doc.DeveloperData {
		if doc.DeveloperData[i].StatusCounts == nil {
			doc.DeveloperData[i].StatusCounts = map[string]int{}
		}
	}
	for i := range doc.SprintData {
		if doc.SprintData[i].StatusCounts == nil {
			doc.SprintData[i].StatusCounts = map[string]int{}
		}
	}
}
