// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDocument prints the full document as JSON.
func (ow *OutWriter) WriteDocument(doc *schema.QADocument, cfg *contract.Config) error {
	return PrintDocument(doc, cfg)
}

// WriteReport prints a document summary using the configured output format.
func (ow *OutWriter) WriteReport(doc *schema.QADocument, cfg *contract.Config, duration time.Duration) error {
	return PrintReport(doc, cfg, duration)
}

// WriteRecommendations prints the recommendations of a document using the configured output format.
func (ow *OutWriter) WriteRecommendations(doc *schema.QADocument, cfg *contract.Config) error {
	return PrintRecommendations(doc.Recommendations, cfg)
}

// WriteMetrics prints the KPI definitions using the configured output format.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	return PrintMetricsDefinitions(cfg)
}
