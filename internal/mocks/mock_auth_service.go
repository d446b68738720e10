package mocks

import (
	"context"

	"github.com/you/studiosvc/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	LoginFunc             func(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error)
	RegisterFunc          func(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	VerifyCredentialsFunc func(ctx context.Context, email, password string) (*domain.Identity, error)
	SignInExternalFunc    func(ctx context.Context, ext *domain.ExternalIdentity) (*domain.AuthResult, error)
	LogoutFunc            func(ctx context.Context, principal *domain.Principal) error
	CurrentUserFunc       func(ctx context.Context, principal *domain.Principal) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	// Default behavior: invalid credentials
	return nil, domain.ErrInvalidCredentials
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	// Default behavior: success with an EDITOR account
	return &domain.User{ID: 1, Email: domain.NormalizeEmail(req.Email), Name: req.Name, Role: domain.RoleEditor}, nil
}

// VerifyCredentials checks an email and password
func (m *MockAuthService) VerifyCredentials(ctx context.Context, email, password string) (*domain.Identity, error) {
	if m.VerifyCredentialsFunc != nil {
		return m.VerifyCredentialsFunc(ctx, email, password)
	}
	return nil, domain.ErrUserNotFound
}

// SignInExternal signs in an identity-provider user
func (m *MockAuthService) SignInExternal(ctx context.Context, ext *domain.ExternalIdentity) (*domain.AuthResult, error) {
	if m.SignInExternalFunc != nil {
		return m.SignInExternalFunc(ctx, ext)
	}
	return nil, domain.ErrForbidden
}

// Logout ends a session
func (m *MockAuthService) Logout(ctx context.Context, principal *domain.Principal) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, principal)
	}
	return nil
}

// CurrentUser loads the session's user
func (m *MockAuthService) CurrentUser(ctx context.Context, principal *domain.Principal) (*domain.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, principal)
	}
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	return &domain.User{ID: principal.UserID, Email: principal.Email, Role: principal.Role}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
