package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/studiosvc/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc            func(ctx context.Context, user *domain.User) error
	FindByEmailFunc       func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc          func(ctx context.Context, id uint) (*domain.User, error)
	CountFunc             func(ctx context.Context) (int64, error)
	UpdateLastLoginFunc   func(ctx context.Context, id uint, at time.Time) error
	MarkEmailVerifiedFunc func(ctx context.Context, id uint, at time.Time) error

	mu    sync.Mutex
	calls map[string]int
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{calls: map[string]int{}}
}

func (m *MockUserRepository) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

// CallCount returns how often the named method was invoked
func (m *MockUserRepository) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// TotalCalls returns the number of store calls of any kind
func (m *MockUserRepository) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.record("Create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success
	user.ID = 1
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.record("FindByEmail")
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	m.record("FindByID")
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// Count returns the number of users
func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	m.record("Count")
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// UpdateLastLogin records a sign-in time
func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	m.record("UpdateLastLogin")
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	return nil
}

// MarkEmailVerified records email verification
func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id uint, at time.Time) error {
	m.record("MarkEmailVerified")
	if m.MarkEmailVerifiedFunc != nil {
		return m.MarkEmailVerifiedFunc(ctx, id, at)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
