package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/studiosvc/domain"
)

// MockLoginThrottle implements domain.LoginThrottle. By default it never
// locks out and counts failures per key.
type MockLoginThrottle struct {
	CheckFunc         func(ctx context.Context, key string) (time.Duration, error)
	RecordFailureFunc func(ctx context.Context, key string) error
	ResetFunc         func(ctx context.Context, key string) error

	mu       sync.Mutex
	Failures map[string]int
	Resets   map[string]int
}

// NewMockLoginThrottle creates a new MockLoginThrottle
func NewMockLoginThrottle() *MockLoginThrottle {
	return &MockLoginThrottle{Failures: map[string]int{}, Resets: map[string]int{}}
}

func (m *MockLoginThrottle) Check(ctx context.Context, key string) (time.Duration, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, key)
	}
	return 0, nil
}

func (m *MockLoginThrottle) RecordFailure(ctx context.Context, key string) error {
	if m.RecordFailureFunc != nil {
		return m.RecordFailureFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures[key]++
	return nil
}

func (m *MockLoginThrottle) Reset(ctx context.Context, key string) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Resets[key]++
	return nil
}

// Compile-time interface compliance verification
var _ domain.LoginThrottle = (*MockLoginThrottle)(nil)
