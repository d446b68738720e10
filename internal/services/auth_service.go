package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
)

// Challenge actions bound to the auth forms
const (
	ActionLogin    = "login"
	ActionRegister = "register"
)

const (
	MinPasswordLength       = 8
	MaxPasswordLength       = 72 // bcrypt input limit
	DefaultLastLoginTimeout = 5 * time.Second
)

// Login outcomes reported to the LoginRecorder
const (
	LoginSucceeded       = "success"
	LoginChallengeFailed = "challenge_failed"
	LoginThrottled       = "throttled"
	LoginRejected        = "rejected"
	LoginInvalidInput    = "invalid_input"
	LoginInternalError   = "error"
)

// LoginRecorder counts login outcomes
type LoginRecorder interface {
	ObserveLogin(outcome string)
}

// AuthConfig holds the account policy knobs of the auth service
type AuthConfig struct {
	DefaultRole          domain.Role
	RegistrationEnabled  bool
	RequireVerifiedEmail bool
	LastLoginTimeout     time.Duration
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	revocations domain.SessionRevocationRepository
	passwordSvc domain.PasswordService
	sessions    domain.SessionTokenService
	challenge   domain.ChallengeVerifier
	throttle    domain.LoginThrottle
	audit       domain.AuditLogger
	log         logging.Logger
	recorder    LoginRecorder
	cfg         AuthConfig
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string

	background sync.WaitGroup
}

type AuthOption func(*AuthServiceImpl)

// WithAuthClock replaces time.Now
func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *AuthServiceImpl) { s.now = now }
}

func WithLoginRecorder(r LoginRecorder) AuthOption {
	return func(s *AuthServiceImpl) { s.recorder = r }
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	revocations domain.SessionRevocationRepository,
	passwordSvc domain.PasswordService,
	sessions domain.SessionTokenService,
	challenge domain.ChallengeVerifier,
	throttle domain.LoginThrottle,
	audit domain.AuditLogger,
	log logging.Logger,
	cfg AuthConfig,
	opts ...AuthOption,
) *AuthServiceImpl {
	if !cfg.DefaultRole.Valid() {
		cfg.DefaultRole = domain.RoleEditor
	}
	if cfg.LastLoginTimeout <= 0 {
		cfg.LastLoginTimeout = DefaultLastLoginTimeout
	}
	s := &AuthServiceImpl{
		userRepo:    userRepo,
		revocations: revocations,
		passwordSvc: passwordSvc,
		sessions:    sessions,
		challenge:   challenge,
		throttle:    throttle,
		audit:       audit,
		log:         log.With("component", "auth"),
		cfg:         cfg,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domain.AuthService = (*AuthServiceImpl)(nil)

// Wait blocks until background last-login writes have finished
func (s *AuthServiceImpl) Wait() {
	s.background.Wait()
}

// Login implements domain.AuthService. Order: input, bot challenge,
// throttle, credentials, session.
func (s *AuthServiceImpl) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	if err := validateCredentialsInput(req.Email, req.Password); err != nil {
		s.observe(LoginInvalidInput)
		return nil, err
	}
	email := domain.NormalizeEmail(req.Email)

	if !s.challenge.Verify(ctx, req.ChallengeToken, ActionLogin, req.RemoteIP) {
		s.observe(LoginChallengeFailed)
		s.auditFailure(ctx, domain.UserLoginFailureEvent, 0, email, domain.ErrChallengeFailed)
		return nil, domain.ErrChallengeFailed
	}

	if wait, err := s.throttle.Check(ctx, email); err != nil {
		if errors.Is(err, domain.ErrTooManyAttempts) {
			s.observe(LoginThrottled)
			s.auditFailure(ctx, domain.UserLoginFailureEvent, 0, email, err)
			return nil, fmt.Errorf("%w: retry in %s", domain.ErrTooManyAttempts, wait.Round(time.Second))
		}
		s.log.Warn(ctx, "login throttle unavailable", "error", err)
	}

	identity, err := s.VerifyCredentials(ctx, email, req.Password)
	if err != nil {
		if domain.KindOf(err) == domain.KindInvalidCredentials {
			if rerr := s.throttle.RecordFailure(ctx, email); rerr != nil {
				s.log.Warn(ctx, "failed to record login failure", "error", rerr)
			}
		}
		if domain.KindOf(err) == domain.KindInternal {
			s.observe(LoginInternalError)
		} else {
			s.observe(LoginRejected)
		}
		s.auditFailure(ctx, domain.UserLoginFailureEvent, 0, email, err)
		return nil, err
	}

	issued, err := s.sessions.Issue(identity)
	if err != nil {
		s.observe(LoginInternalError)
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn(ctx, "failed to reset login throttle", "error", err)
	}

	s.observe(LoginSucceeded)
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, identity.UserID).
		WithEmail(identity.Email).
		WithSession(issued.ID).
		WithMetadata("method", "credentials").
		WithMetadata("role", identity.Role.String()))

	return &domain.AuthResult{Identity: identity, Session: issued}, nil
}

// VerifyCredentials implements domain.AuthService. An unknown email and a
// wrong password cost one bcrypt comparison each.
func (s *AuthServiceImpl) VerifyCredentials(ctx context.Context, email, password string) (*domain.Identity, error) {
	if err := validateCredentialsInput(email, password); err != nil {
		return nil, err
	}
	email = domain.NormalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.burnComparison(password)
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.HasPassword() {
		s.burnComparison(password)
		return nil, domain.ErrUserNotFound
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidPassword
	}

	if !user.Role.CanAccessAdmin() {
		return nil, domain.ErrForbidden
	}
	if s.cfg.RequireVerifiedEmail && !user.EmailVerified() {
		return nil, domain.ErrEmailNotVerified
	}

	s.touchLastLogin(user.ID)
	return domain.IdentityOf(user), nil
}

// Register implements domain.AuthService. The first account becomes ADMIN.
func (s *AuthServiceImpl) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if !s.cfg.RegistrationEnabled {
		return nil, domain.ErrRegistrationClosed
	}
	if err := validateRegistration(req); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(req.Email)

	if !s.challenge.Verify(ctx, req.ChallengeToken, ActionRegister, req.RemoteIP) {
		s.auditFailure(ctx, domain.UserRegistrationEvent, 0, email, domain.ErrChallengeFailed)
		return nil, domain.ErrChallengeFailed
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		s.auditFailure(ctx, domain.UserRegistrationEvent, 0, email, domain.ErrUserAlreadyExists)
		return nil, domain.ErrUserAlreadyExists
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	role := s.cfg.DefaultRole
	if count == 0 {
		role = domain.RoleAdmin
	}

	hash, err := s.passwordSvc.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Email:           email,
		Name:            strings.TrimSpace(req.Name),
		PasswordHash:    hash,
		Role:            role,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).
		WithEmail(user.Email).
		WithMetadata("role", user.Role.String()))
	return user, nil
}

// SignInExternal implements domain.AuthService. Only existing accounts
// with an admin role are let in; no account is created.
func (s *AuthServiceImpl) SignInExternal(ctx context.Context, ext *domain.ExternalIdentity) (*domain.AuthResult, error) {
	if ext == nil || ext.Email == "" {
		return nil, domain.ErrUnauthorized
	}
	email := domain.NormalizeEmail(ext.Email)

	deny := func(err error) (*domain.AuthResult, error) {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OAuthSignInDenied, 0).
			WithEmail(email).
			WithMetadata("provider", ext.Provider).
			WithError(err))
		return nil, err
	}

	if !ext.EmailVerified {
		return deny(domain.ErrForbidden)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return deny(domain.ErrForbidden)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.Role.CanAccessAdmin() {
		return deny(domain.ErrForbidden)
	}

	if !user.EmailVerified() {
		if err := s.userRepo.MarkEmailVerified(ctx, user.ID, s.now()); err != nil {
			s.log.Warn(ctx, "failed to mark email verified", "user_id", user.ID, "error", err)
		}
	}
	if user.Image == "" {
		user.Image = ext.Picture
	}

	identity := domain.IdentityOf(user)
	issued, err := s.sessions.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	s.touchLastLogin(user.ID)

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OAuthSignInEvent, user.ID).
		WithEmail(user.Email).
		WithSession(issued.ID).
		WithMetadata("provider", ext.Provider))

	return &domain.AuthResult{Identity: identity, Session: issued}, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, principal *domain.Principal) error {
	if principal == nil || principal.SessionID == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, principal.SessionID, principal.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, principal.UserID).
		WithEmail(principal.Email).
		WithSession(principal.SessionID))
	return nil
}

// CurrentUser implements domain.AuthService
func (s *AuthServiceImpl) CurrentUser(ctx context.Context, principal *domain.Principal) (*domain.User, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// touchLastLogin records the sign-in on a detached context. Failures are
// logged and never reach the caller.
func (s *AuthServiceImpl) touchLastLogin(userID uint) {
	at := s.now()
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.LastLoginTimeout)
		defer cancel()
		if err := s.userRepo.UpdateLastLogin(ctx, userID, at); err != nil {
			s.log.Warn(ctx, "failed to record last login", "user_id", userID, "error", err)
		}
	}()
}

func (s *AuthServiceImpl) burnComparison(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.passwordSvc.Hash("studiosvc-timing-equalizer")
		if err == nil {
			s.dummyHash = hash
		}
	})
	if s.dummyHash != "" {
		s.passwordSvc.Verify(s.dummyHash, password)
	}
}

func (s *AuthServiceImpl) observe(outcome string) {
	if s.recorder != nil {
		s.recorder.ObserveLogin(outcome)
	}
}

func (s *AuthServiceImpl) auditFailure(ctx context.Context, t domain.AuditEventType, userID uint, email string, err error) {
	s.audit.LogEvent(ctx, domain.NewAuditEvent(t, userID).WithEmail(email).WithError(err))
}

func validateCredentialsInput(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return domain.NewValidationError("email", "Email is required")
	}
	if password == "" {
		return domain.NewValidationError("password", "Password is required")
	}
	return nil
}

func validateRegistration(req domain.RegisterRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return domain.NewValidationError("name", "Name is required")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return domain.NewValidationError("email", "Email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return domain.NewValidationError("email", "Invalid email address")
	}
	if len(req.Password) < MinPasswordLength {
		return domain.NewValidationError("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if len(req.Password) > MaxPasswordLength {
		return domain.NewValidationError("password", fmt.Sprintf("Password must be at most %d bytes", MaxPasswordLength))
	}
	if req.Password != req.ConfirmPassword {
		return domain.NewValidationError("confirmPassword", "Passwords do not match")
	}
	return nil
}
