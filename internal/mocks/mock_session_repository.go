package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/studiosvc/domain"
)

// MockSessionRevocationRepository implements domain.SessionRevocationRepository
// with an in-memory set by default.
type MockSessionRevocationRepository struct {
	RevokeFunc    func(ctx context.Context, sessionID string, expiresAt time.Time) error
	IsRevokedFunc func(ctx context.Context, sessionID string) (bool, error)

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMockSessionRevocationRepository creates a new mock revocation store
func NewMockSessionRevocationRepository() *MockSessionRevocationRepository {
	return &MockSessionRevocationRepository{revoked: map[string]time.Time{}}
}

func (m *MockSessionRevocationRepository) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, sessionID, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]time.Time{}
	}
	m.revoked[sessionID] = expiresAt
	return nil
}

func (m *MockSessionRevocationRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[sessionID]
	return ok, nil
}

// Compile-time interface compliance verification
var _ domain.SessionRevocationRepository = (*MockSessionRevocationRepository)(nil)
