// Package core turns QA workbooks into dashboard documents: it assembles the normalized
// sheets into a QADocument, caches it and records each transform.
package core

import (
	"context"
	"time"

	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/internal/outwriter"
	"github.com/huangsam/qapulse/schema"
)

// GeneratedBy identifies this program in document metadata. It is set by the cmd package.
var GeneratedBy = "qapulse"

// ExecutorFunc defines the function signature for executing the document commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// GetDocument loads the document of the configured workbook through the cache.
func GetDocument(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.QADocument, time.Duration, error) {
	start := time.Now()
	doc, err := NewLoader(cfg, mgr, GeneratedBy).Load(ctx, cfg.ForceReload)
	if err != nil {
		return nil, 0, err
	}
	return doc, time.Since(start), nil
}

// ExecuteGenerate writes the full document as JSON.
func ExecuteGenerate(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	doc, _, err := GetDocument(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDocument(doc, cfg)
}

// ExecuteReport prints a summary of the document in the configured output format.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	doc, duration, err := GetDocument(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(doc, cfg, duration)
}

// ExecuteRecommend prints the recommendations of the document.
func ExecuteRecommend(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	doc, _, err := GetDocument(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRecommendations(doc, cfg)
}

// ExecuteMetrics prints the KPI definitions. It does not read the workbook.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.NewOutWriter().WriteMetrics(cfg)
}
