package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/qapulse/internal/contract"
	"github.com/huangsam/qapulse/schema"
)

// currentCacheVersion defines the version of the cached document layout
const currentCacheVersion = 1

// DocumentCache keeps assembled documents in a CacheStore for a limited time.
type DocumentCache struct {
	store contract.CacheStore
	ttl   time.Duration
	now   func() time.Time
}

// NewDocumentCache returns a cache over store. A nil store disables caching; a non-positive
// ttl uses the default of five minutes.
func NewDocumentCache(store contract.CacheStore, ttl time.Duration) *DocumentCache {
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}
	return &DocumentCache{store: store, ttl: ttl, now: time.Now}
}

// Enabled reports whether the cache has a backing store.
func (c *DocumentCache) Enabled() bool {
	return c != nil && c.store != nil
}

// Get returns the document stored under key, or nil on a miss. Entries written by
// another cache version or older than the TTL are misses.
func (c *DocumentCache) Get(key string) *schema.QADocument {
	if !c.Enabled() {
		return nil
	}
	data, version, ts, err := c.store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || c.now().Sub(time.Unix(ts, 0)) >= c.ttl {
		return nil
	}
	var doc schema.QADocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return &doc
}

// Put stores a document under key.
func (c *DocumentCache) Put(key string, doc *schema.QADocument) error {
	if !c.Enabled() || doc == nil {
		return nil
	}
	stored := *doc
	stored.Cached = false
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return c.store.Set(key, data, currentCacheVersion, c.now().Unix())
}

// Invalidate removes the document stored under key.
func (c *DocumentCache) Invalidate(key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.store.Delete(key)
}

// cacheKey derives the store key of a workbook and the options that shape its document.
// The file size and modification time are part of the key so that an edited workbook
// misses the cache.
func cacheKey(path string, opts AssembleOptions) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	var size, modTime int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
		modTime = info.ModTime().UnixNano()
	}
	keyString := fmt.Sprintf("qadocument:%s:%s:%d:%g:%d:%d",
		path, opts.Source, opts.SprintDays, opts.AutomationCoverage, size, modTime)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(keyString)))
}
