package cmd

import (
	"fmt"

	"github.com/huangsam/qapulse/core/sample"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/spf13/cobra"
)

// sampleCmd writes a demo workbook.
var sampleCmd = &cobra.Command{
	Use:   "sample [path]",
	Short: "Write a sample QA workbook with every sheet filled in",
	Long: `Write a workbook with six sprints, developers, modules, quality metrics and
recommendation rules. Useful to try the other commands or as a template.

Examples:
  qapulse sample qa-data.xlsx
  qapulse report qa-data.xlsx`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		path := contract.DefaultWorkbook
		if len(args) == 1 {
			path = args[0]
		}
		if err := sample.Write(path); err != nil {
			contract.LogFatal("Cannot write sample workbook", err)
		}
		fmt.Printf("Sample workbook written to %s\n", path)
	},
}
