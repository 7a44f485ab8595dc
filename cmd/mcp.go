package cmd

import (
	"github.com/huangsam/qapulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [workbook]",
	Short: "Start the QA Pulse MCP server",
	Long: `Launch an MCP server that lets AI agents read the QA document and evaluate
recommendation conditions. Stdio carries the protocol, so progress output goes to stderr.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
