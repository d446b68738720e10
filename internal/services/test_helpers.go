package services

import (
	"sync"
	"testing"
	"time"

	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
	"github.com/you/studiosvc/internal/mocks"
)

// authFixture bundles an auth service with the mocks behind it
type authFixture struct {
	svc         *AuthServiceImpl
	users       *mocks.MockUserRepository
	revocations *mocks.MockSessionRevocationRepository
	passwords   *mocks.MockPasswordService
	sessions    *mocks.MockSessionTokenService
	challenge   *mocks.MockChallengeVerifier
	throttle    *mocks.MockLoginThrottle
	audit       *mocks.MockAuditLogger
	recorder    *outcomeRecorder
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *outcomeRecorder) ObserveLogin(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T, cfg AuthConfig) *authFixture {
	t.Helper()

	f := &authFixture{
		users:       mocks.NewMockUserRepository(),
		revocations: mocks.NewMockSessionRevocationRepository(),
		passwords:   mocks.NewMockPasswordService(),
		sessions:    mocks.NewMockSessionTokenService(),
		challenge:   mocks.NewMockChallengeVerifier(),
		throttle:    mocks.NewMockLoginThrottle(),
		audit:       mocks.NewMockAuditLogger(),
		recorder:    &outcomeRecorder{},
	}
	f.svc = NewAuthService(f.users, f.revocations, f.passwords, f.sessions, f.challenge,
		f.throttle, f.audit, logging.Nop(), cfg, WithLoginRecorder(f.recorder))
	t.Cleanup(f.svc.Wait)
	return f
}

func defaultAuthConfig() AuthConfig {
	return AuthConfig{
		DefaultRole:          domain.RoleEditor,
		RegistrationEnabled:  true,
		RequireVerifiedEmail: true,
	}
}

// createValidUser creates a verified ADMIN whose password is "correct-pw"
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	verified := time.Now().Add(-24 * time.Hour)
	return &domain.User{
		ID:              1,
		Email:           "admin@example.com",
		Name:            "Studio Admin",
		PasswordHash:    "hashed_correct-pw",
		Role:            domain.RoleAdmin,
		EmailVerifiedAt: &verified,
		CreatedAt:       time.Now().Add(-48 * time.Hour),
		UpdatedAt:       time.Now().Add(-1 * time.Hour),
	}
}

func createUserWithRole(t *testing.T, role domain.Role) *domain.User {
	t.Helper()

	user := createValidUser(t)
	user.ID = 2
	user.Email = "member@example.com"
	user.Role = role
	return user
}

func principal(id uint, role domain.Role) *domain.Principal {
	return &domain.Principal{
		UserID:    id,
		Role:      role,
		Email:     "actor@example.com",
		SessionID: "sess-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func boolPtr(b bool) *bool { return &b }
