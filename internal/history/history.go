// Package history is for keeping conversion runs and metric rows over time.
package history

import (
	"sync"

	"github.com/onchainlab/gauge/internal/contract"
)

// HistoryStoreManager manages the HistoryStore instance.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.HistoryStore
}

var _ contract.HistoryManager = &HistoryStoreManager{} // Compile-time check

// GetHistoryStore returns the HistoryStore, or nil when history is not initialized.
func (mgr *HistoryStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// setStore swaps the managed store.
func (mgr *HistoryStoreManager) setStore(store contract.HistoryStore) {
	mgr.Lock()
	defer mgr.Unlock()
	mgr.store = store
}
