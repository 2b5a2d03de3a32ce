package journal

import (
	"time"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetDraftStore implements the StoreManager interface.
func (m *MockStoreManager) GetDraftStore() contract.DraftStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.DraftStore)
	return store
}

// GetRevisionStore implements the StoreManager interface.
func (m *MockStoreManager) GetRevisionStore() contract.RevisionStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RevisionStore)
	return store
}

// MockDraftStore is a mock implementation of DraftStore for testing.
type MockDraftStore struct {
	mock.Mock
}

var _ contract.DraftStore = &MockDraftStore{} // Compile-time check

// Get implements the DraftStore interface.
func (m *MockDraftStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the DraftStore interface.
func (m *MockDraftStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Delete implements the DraftStore interface.
func (m *MockDraftStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// GetStatus implements the DraftStore interface.
func (m *MockDraftStore) GetStatus() (schema.DraftStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.DraftStatus), args.Error(1)
}

// Close implements the DraftStore interface.
func (m *MockDraftStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRevisionStore is a mock implementation of RevisionStore for testing.
type MockRevisionStore struct {
	mock.Mock
}

var _ contract.RevisionStore = &MockRevisionStore{} // Compile-time check

// RecordRevision implements the RevisionStore interface.
func (m *MockRevisionStore) RecordRevision(ref schema.SessionRef, savedAt time.Time, doc schema.Document, stats schema.SessionStats) (int64, error) {
	args := m.Called(ref, savedAt, doc, stats)
	return args.Get(0).(int64), args.Error(1)
}

// GetStatus implements the RevisionStore interface.
func (m *MockRevisionStore) GetStatus() (schema.JournalStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.JournalStatus), args.Error(1)
}

// GetAllRevisions implements the RevisionStore interface.
func (m *MockRevisionStore) GetAllRevisions() ([]schema.RevisionRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RevisionRecord)
	return records, args.Error(1)
}

// GetAllLevelDurations implements the RevisionStore interface.
func (m *MockRevisionStore) GetAllLevelDurations() ([]schema.LevelDurationRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.LevelDurationRecord)
	return records, args.Error(1)
}

// Close implements the RevisionStore interface.
func (m *MockRevisionStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
