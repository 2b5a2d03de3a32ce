package vault

import (
	"context"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/stretchr/testify/mock"
)

// MockSessionStore is a mock implementation of SessionStore for testing.
type MockSessionStore struct {
	mock.Mock
}

var _ contract.SessionStore = &MockSessionStore{} // Compile-time check

// LoadSession implements the SessionStore interface.
func (m *MockSessionStore) LoadSession(ctx context.Context, ref schema.SessionRef) (schema.SessionRecord, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(schema.SessionRecord), args.Error(1)
}

// SaveSession implements the SessionStore interface.
func (m *MockSessionStore) SaveSession(ctx context.Context, ref schema.SessionRef, record schema.SessionRecord) error {
	args := m.Called(ctx, ref, record)
	return args.Error(0)
}
