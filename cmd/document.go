package cmd

import (
	"github.com/huangsam/qapulse/core"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/spf13/cobra"
)

// generateCmd writes the full dashboard document.
var generateCmd = &cobra.Command{
	Use:   "generate [workbook]",
	Short: "Transform the workbook into the dashboard JSON document",
	Long: `Read every sheet of the QA workbook and write the complete dashboard document as JSON.

The document is cached for --cache-ttl (5 minutes by default). When the workbook cannot
be read, a fallback document with zeroed metrics and a warning is written instead.

Examples:
  # Write the document to stdout
  qapulse generate qa-data.xlsx

  # Write it to a file, ignoring the cache
  qapulse generate qa-data.xlsx --output-file qa-data.json --force-reload`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGenerate(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot generate document", err)
		}
	},
}

// reportCmd prints a readable summary of the document.
var reportCmd = &cobra.Command{
	Use:   "report [workbook]",
	Short: "Print sprint, developer, module and KPI tables",
	Long: `Summarize the dashboard document in the terminal.

Shows the overall summary, bugs per priority, the sprint series with its change
percentages, developer workload, module risk, quality KPIs and risk areas.

Use --output csv to get the sprint series as CSV, --output json for the raw document,
or --output parquet with --output-file for the sprint series as a Parquet file.

Examples:
  qapulse report qa-data.xlsx
  qapulse report qa-data.xlsx --output csv --output-file sprints.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot print report", err)
		}
	},
}

// recommendCmd prints the recommendations that apply to the current metrics.
var recommendCmd = &cobra.Command{
	Use:   "recommend [workbook]",
	Short: "Print the recommendations triggered by the current metrics",
	Long: `Evaluate the recommendation rules of the workbook (or the built-in defaults) against
the current metrics and list the ones that apply, grouped by metric.

Examples:
  qapulse recommend qa-data.xlsx
  qapulse recommend qa-data.xlsx --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRecommend(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot print recommendations", err)
		}
	},
}
