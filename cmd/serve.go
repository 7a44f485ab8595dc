package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/qapulse/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve [workbook]",
	Short: "Serve the dashboard document over HTTP",
	Long: `Start an HTTP API for dashboards.

Endpoints:
  GET  /api/qa-data          full document (?forceReload=true skips the cache)
  GET  /api/recommendations  recommendations (?metric=cycleTime for one metric)
  GET  /api/health           workbook and store health
  GET  /api/data-source      recorded import runs (?action=latest|all)
  POST /api/refresh          drop the cache and transform again
  GET  /metrics              Prometheus metrics

Examples:
  qapulse serve qa-data.xlsx --addr :8080`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(cfg, cacheManager).ListenAndServe(ctx)
	},
}
