package cmd

import (
	"github.com/huangsam/qapulse/core"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of all dashboard KPIs.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display formulas and thresholds for all dashboard KPIs",
	Long: `Show how every KPI of the dashboard is computed, including:
- Formula and the workbook columns it reads
- Target and the thresholds behind each label
- Whether the value is measured or estimated

No workbook is read - this is purely informational.

Examples:
  qapulse metrics
  qapulse metrics --sprint-days 10 --automation-coverage 62`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
