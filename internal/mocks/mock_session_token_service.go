package mocks

import (
	"fmt"
	"sync"
	"time"

	"github.com/you/studiosvc/domain"
)

// MockSessionTokenService implements domain.SessionTokenService for testing
type MockSessionTokenService struct {
	IssueFunc func(identity *domain.Identity) (*domain.IssuedSession, error)
	ReadFunc  func(rawToken string) (*domain.Principal, error)
	TTLValue  time.Duration

	mu     sync.Mutex
	issued int
}

// NewMockSessionTokenService creates a mock whose tokens encode nothing;
// use ReadFunc to decide what a token means.
func NewMockSessionTokenService() *MockSessionTokenService {
	return &MockSessionTokenService{TTLValue: 30 * 24 * time.Hour}
}

// Issue returns a fresh token per call
func (m *MockSessionTokenService) Issue(identity *domain.Identity) (*domain.IssuedSession, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(identity)
	}
	m.mu.Lock()
	m.issued++
	n := m.issued
	m.mu.Unlock()
	now := time.Now()
	return &domain.IssuedSession{
		Token:     fmt.Sprintf("token-%d-%s", n, identity.Role),
		ID:        fmt.Sprintf("jti-%d", n),
		IssuedAt:  now,
		ExpiresAt: now.Add(m.TTLValue),
	}, nil
}

// Read decodes a token
func (m *MockSessionTokenService) Read(rawToken string) (*domain.Principal, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(rawToken)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockSessionTokenService) TTL() time.Duration {
	return m.TTLValue
}

// Compile-time interface compliance verification
var _ domain.SessionTokenService = (*MockSessionTokenService)(nil)
