package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/qapulse/internal/iocache"
	"github.com/huangsam/qapulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSQLiteDocumentCache(t *testing.T, ttl time.Duration) *DocumentCache {
	t.Helper()
	store, err := iocache.NewCacheStore("qapulse_document_cache", schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewDocumentCache(store, ttl)
}

func TestDocumentCacheRoundTrip(t *testing.T) {
	cache := newSQLiteDocumentCache(t, time.Minute)
	now := fixedNow
	cache.now = func() time.Time { return now }

	doc := Fallback("", fixedNow)
	doc.DataSource = schema.ExcelSource
	doc.Cached = true
	doc.Summary.TotalBugs = 42

	assert.Nil(t, cache.Get("qa.xlsx"))
	require.NoError(t, cache.Put("qa.xlsx", doc))

	got := cache.Get("qa.xlsx")
	require.NotNil(t, got)
	assert.Equal(t, 42, got.Summary.TotalBugs)
	assert.False(t, got.Cached, "stored documents are not marked as cached")
	assert.True(t, doc.Cached, "Put does not modify its argument")

	t.Run("expires after ttl", func(t *testing.T) {
		now = fixedNow.Add(59 * time.Second)
		assert.NotNil(t, cache.Get("qa.xlsx"))
		now = fixedNow.Add(time.Minute)
		assert.Nil(t, cache.Get("qa.xlsx"))
		now = fixedNow
	})

	t.Run("invalidate", func(t *testing.T) {
		require.NoError(t, cache.Invalidate("qa.xlsx"))
		assert.Nil(t, cache.Get("qa.xlsx"))
	})
}

func TestDocumentCacheMisses(t *testing.T) {
	data, err := json.Marshal(Fallback("", fixedNow))
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		version int
		err     error
	}{
		{"store error", nil, currentCacheVersion, assert.AnError},
		{"old version", data, currentCacheVersion - 1, nil},
		{"corrupt entry", []byte("{not json"), currentCacheVersion, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			store.On("Get", "qa.xlsx").Return(tt.data, tt.version, fixedNow.Unix(), tt.err)

			cache := NewDocumentCache(store, 0)
			cache.now = func() time.Time { return fixedNow }
			assert.Nil(t, cache.Get("qa.xlsx"))
			store.AssertExpectations(t)
		})
	}
}

func TestDocumentCacheDisabled(t *testing.T) {
	cache := NewDocumentCache(nil, 0)
	assert.False(t, cache.Enabled())
	assert.Equal(t, 5*time.Minute, cache.ttl)
	assert.Nil(t, cache.Get("qa.xlsx"))
	assert.NoError(t, cache.Put("qa.xlsx", Fallback("", fixedNow)))
	assert.NoError(t, cache.Invalidate("qa.xlsx"))

	var nilCache *DocumentCache
	assert.False(t, nilCache.Enabled())
}

func TestDocumentCachePutError(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Set", "qa.xlsx", mock.Anything, currentCacheVersion, fixedNow.Unix()).Return(assert.AnError)

	cache := NewDocumentCache(store, time.Minute)
	cache.now = func() time.Time { return fixedNow }
	assert.ErrorIs(t, cache.Put("qa.xlsx", Fallback("", fixedNow)), assert.AnError)
	store.AssertExpectations(t)
}

func TestCacheKey(t *testing.T) {
	base := AssembleOptions{Source: schema.ExcelSource, SprintDays: 14, AutomationCoverage: -1}
	assert.Equal(t, cacheKey("qa.xlsx", base), cacheKey("./qa.xlsx", base))
	assert.Len(t, cacheKey("qa.xlsx", base), 64)

	t.Run("generated fields do not change the key", func(t *testing.T) {
		opts := base
		opts.GeneratedBy = "qapulse-test"
		opts.Now = fixedNow
		assert.Equal(t, cacheKey("qa.xlsx", base), cacheKey("qa.xlsx", opts))
	})

	tests := []struct {
		name   string
		path   string
		modify func(*AssembleOptions)
	}{
		{"path", "other.xlsx", func(*AssembleOptions) {}},
		{"sprint days", "qa.xlsx", func(o *AssembleOptions) { o.SprintDays = 7 }},
		{"automation coverage", "qa.xlsx", func(o *AssembleOptions) { o.AutomationCoverage = 80 }},
		{"source", "qa.xlsx", func(o *AssembleOptions) { o.Source = schema.FallbackSource }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.modify(&opts)
			assert.NotEqual(t, cacheKey("qa.xlsx", base), cacheKey(tt.path, opts))
		})
	}

	t.Run("edited workbook", func(t *testing.T) {
		path := writeSample(t)
		before := cacheKey(path, base)
		later := time.Now().Add(time.Hour)
		require.NoError(t, os.Chtimes(path, later, later))
		assert.NotEqual(t, before, cacheKey(path, base))
	})
}
