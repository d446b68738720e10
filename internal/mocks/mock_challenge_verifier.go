package mocks

import (
	"context"
	"sync"

	"github.com/you/studiosvc/domain"
)

// MockChallengeVerifier implements domain.ChallengeVerifier. By default a
// token equal to "valid" passes.
type MockChallengeVerifier struct {
	VerifyFunc func(ctx context.Context, token, expectedAction, remoteIP string) bool

	mu      sync.Mutex
	Calls   int
	Actions []string
}

// NewMockChallengeVerifier creates a new MockChallengeVerifier
func NewMockChallengeVerifier() *MockChallengeVerifier {
	return &MockChallengeVerifier{}
}

func (m *MockChallengeVerifier) Verify(ctx context.Context, token, expectedAction, remoteIP string) bool {
	m.mu.Lock()
	m.Calls++
	m.Actions = append(m.Actions, expectedAction)
	m.mu.Unlock()
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, token, expectedAction, remoteIP)
	}
	return token == "valid"
}

// Compile-time interface compliance verification
var _ domain.ChallengeVerifier = (*MockChallengeVerifier)(nil)
