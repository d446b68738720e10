package mocks

import (
	"context"
	"time"

	"github.com/you/studiosvc/domain"
)

// MockIdentityProvider implements domain.IdentityProvider for testing
type MockIdentityProvider struct {
	ExchangeFunc func(ctx context.Context, code string) (*domain.ExternalIdentity, error)
}

func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{}
}

func (m *MockIdentityProvider) Name() string { return "google" }

func (m *MockIdentityProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return nil, domain.ErrOAuthExchange
}

// MockOAuthStateStore implements domain.OAuthStateStore in memory
type MockOAuthStateStore struct {
	states map[string]string
}

func NewMockOAuthStateStore() *MockOAuthStateStore {
	return &MockOAuthStateStore{states: map[string]string{}}
}

func (m *MockOAuthStateStore) Save(ctx context.Context, state, returnTo string, _ time.Duration) error {
	m.states[state] = returnTo
	return nil
}

func (m *MockOAuthStateStore) Consume(ctx context.Context, state string) (string, error) {
	returnTo, ok := m.states[state]
	if !ok {
		return "", domain.ErrOAuthStateInvalid
	}
	delete(m.states, state)
	return returnTo, nil
}

// Compile-time interface compliance verification
var (
	_ domain.IdentityProvider = (*MockIdentityProvider)(nil)
	_ domain.OAuthStateStore  = (*MockOAuthStateStore)(nil)
)
