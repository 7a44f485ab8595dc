package normalize

import (
	"fmt"

	"github.com/huangsam/qapulse/core/sheet"
	"github.com/huangsam/qapulse/schema"
)

// ReadDataset parses and normalizes every known sheet of wb. Missing sheets leave their
// dimension empty. Only a sheet that exists but cannot be read is an error.
func ReadDataset(wb sheet.Workbook, sourceFile string) (*schema.Dataset, error) {
	ds := &schema.Dataset{SourceFile: sourceFile}

	steps := []struct {
		layout sheet.SheetSpec
		apply  func([]sheet.Record)
	}{
		{TrendLayout, func(r []sheet.Record) { ds.Trend = Trend(r) }},
		{DeveloperLayout, func(r []sheet.Record) { ds.Developers = Developers(r) }},
		{ModuleLayout, func(r []sheet.Record) { ds.Modules = Modules(r) }},
		{SprintLayout, func(r []sheet.Record) { ds.SprintStatuses = SprintStatuses(r) }},
		{VersionLayout, func(r []sheet.Record) { ds.Versions = Versions(r) }},
		{CategoryLayout, func(r []sheet.Record) { ds.Categories = Categories(r) }},
		{BugLayout, func(r []sheet.Record) { ds.Bugs = Bugs(r) }},
		{RuleLayout, func(r []sheet.Record) { ds.Rules = Rules(r) }},
	}

	for _, step := range steps {
		records, found, err := sheet.ParseSheet(wb, step.layout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sheet %q: %w", step.layout.Name, err)
		}
		if !found {
			continue
		}
		ds.SheetsFound = append(ds.SheetsFound, step.layout.Name)
		step.apply(records)
	}
	return ds, nil
}
