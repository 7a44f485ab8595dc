package cmd

import (
	"runtime"

	"github.com/huangsam/qapulse/schema"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of qapulse.",
	Long: `Display version information including build details.

The document format version is the "metadata.version" written into every
generated document; dashboards can check it before reading the payload.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("qapulse CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
		cmd.Printf("  Document format: %s\n", schema.DocumentVersion)
	},
}
