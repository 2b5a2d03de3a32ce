// Package journal persists unsaved drafts and the revision history of saved sessions.
package journal

import (
	"sync"

	"github.com/huangsam/steptrack/internal/contract"
)

// StoreManagerImpl manages the draft and revision stores.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	drafts       contract.DraftStore
	revisions    contract.RevisionStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetDraftStore returns the draft store, or nil when drafts are disabled.
func (mgr *StoreManagerImpl) GetDraftStore() contract.DraftStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.drafts
}

// GetRevisionStore returns the revision store, or nil when the journal is disabled.
func (mgr *StoreManagerImpl) GetRevisionStore() contract.RevisionStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.revisions
}
