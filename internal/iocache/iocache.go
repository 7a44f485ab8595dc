// Package iocache persists transform results: the document cache and the import history.
package iocache

import (
	"sync"

	"github.com/huangsam/qapulse/internal/contract"
)

// StoreManager manages the document cache and the history store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	document     contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetDocumentStore returns the document CacheStore.
func (mgr *StoreManager) GetDocumentStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.document
}

// GetHistoryStore returns the HistoryStore.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
