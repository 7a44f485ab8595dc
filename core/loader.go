package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/qapulse/core/normalize"
	"github.com/huangsam/qapulse/core/sheet"
	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/schema"
	"golang.org/x/sync/singleflight"
)

// OpenFunc opens a workbook by path.
type OpenFunc func(path string) (sheet.Workbook, error)

func openExcel(path string) (sheet.Workbook, error) {
	return sheet.OpenWorkbook(path)
}

// Transform reads the workbook at path and assembles its document. A workbook that is
// missing or cannot be read yields the fallback document instead of an error; only a
// cancelled context is reported as one.
func Transform(ctx context.Context, path string, open OpenFunc, opts AssembleOptions) (*schema.QADocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if open == nil {
		open = openExcel
	}

	wb, err := open(path)
	if err != nil {
		if !isQuiet(ctx) {
			contract.LogWarn("Workbook not available, serving fallback", err)
		}
		return Fallback(FallbackWarning, opts.Now), nil
	}
	defer func() { _ = wb.Close() }()

	ds, err := normalize.ReadDataset(wb, path)
	if err != nil {
		if !isQuiet(ctx) {
			contract.LogWarn("Workbook could not be read, serving fallback", err)
		}
		return Fallback(fmt.Sprintf("Workbook could not be read: %v", err), opts.Now), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Assemble(ds, opts), nil
}

// Loader serves the document of one workbook through the document cache.
type Loader struct {
	Path    string
	Options AssembleOptions
	Cache   *DocumentCache
	History contract.HistoryStore
	Open    OpenFunc

	group singleflight.Group
}

// NewLoader builds a loader from a validated config and the persistence stores.
func NewLoader(cfg *contract.Config, mgr contract.CacheManager, generatedBy string) *Loader {
	l := &Loader{
		Path: cfg.WorkbookPath,
		Options: AssembleOptions{
			Source:             schema.ExcelSource,
			AutomationCoverage: cfg.AutomationCoverage,
			SprintDays:         cfg.SprintDays,
			GeneratedBy:        generatedBy,
		},
		Cache: NewDocumentCache(nil, cfg.CacheTTL),
	}
	if mgr != nil {
		if store := mgr.GetDocumentStore(); store != nil {
			l.Cache = NewDocumentCache(store, cfg.CacheTTL)
		}
		l.History = mgr.GetHistoryStore()
	}
	return l
}

// Load returns the current document. A fresh cache entry is returned marked as cached
// unless forceReload is set; otherwise the workbook is transformed again. Concurrent
// loads that miss the cache share a single transform.
func (l *Loader) Load(ctx context.Context, forceReload bool) (*schema.QADocument, error) {
	key := l.key()
	if forceReload {
		cacheLookupCount.WithLabelValues("bypass").Inc()
	} else if doc := l.Cache.Get(key); doc != nil {
		cacheLookupCount.WithLabelValues("hit").Inc()
		doc.Cached = true
		return doc, nil
	} else {
		cacheLookupCount.WithLabelValues("miss").Inc()
	}

	// The shared transform outlives any single caller; each caller waits on its own ctx.
	flightCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		return l.regenerate(flightCtx, key)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*schema.QADocument), nil
	}
}

// Invalidate drops the cached document so that the next load transforms the workbook.
func (l *Loader) Invalidate() error {
	return l.Cache.Invalidate(l.key())
}

// key returns the cache and flight key of the current workbook and options.
func (l *Loader) key() string {
	return cacheKey(l.Path, l.Options)
}

// regenerate transforms the workbook, records the run and refreshes the cache.
// Fallback documents are neither cached nor recorded.
func (l *Loader) regenerate(ctx context.Context, key string) (*schema.QADocument, error) {
	start := time.Now()
	opts := l.Options
	opts.Now = start

	doc, err := Transform(ctx, l.Path, l.Open, opts)
	if err != nil {
		return nil, err
	}
	transformDuration.Observe(time.Since(start).Seconds())
	transformCount.WithLabelValues(string(doc.DataSource)).Inc()

	if doc.DataSource == schema.FallbackSource {
		return doc, nil
	}

	l.recordHistory(start, doc)
	if err := l.Cache.Put(key, doc); err != nil {
		contract.LogWarn("Failed to cache document", err)
	}
	if !isQuiet(ctx) {
		_, _ = fmt.Fprintf(os.Stderr, "Transformed %s: %d bugs across %d sprints in %s\n",
			l.Path, doc.Summary.TotalBugs, len(doc.SprintData), time.Since(start).Round(time.Millisecond))
	}
	return doc, nil
}

// recordHistory stores the run and its sprint series. Failures are reported and ignored.
func (l *Loader) recordHistory(start time.Time, doc *schema.QADocument) {
	if l.History == nil {
		return
	}
	runID, err := l.History.BeginRun(start, l.Path)
	if err != nil {
		contract.LogWarn("Failed to record import run", err)
		return
	}
	for _, point := range doc.SprintData {
		if err := l.History.RecordSprintPoint(runID, point); err != nil {
			contract.LogWarn("Failed to record sprint point", err)
			break
		}
	}
	if err := l.History.EndRun(runID, time.Now(), doc.DataSource, doc.Summary.TotalBugs, len(doc.SprintData)); err != nil {
		contract.LogWarn("Failed to complete import run", err)
	}
}
