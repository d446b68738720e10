package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Count(ctx context.Context) (int64, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	MarkEmailVerified(ctx context.Context, id uint, at time.Time) error
}

// SessionRevocationRepository remembers sessions ended by logout until
// their natural expiry.
type SessionRevocationRepository interface {
	Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// LoginThrottle limits failed sign-in attempts per account
type LoginThrottle interface {
	// Check returns ErrTooManyAttempts and the remaining lockout when the
	// key exhausted its attempts.
	Check(ctx context.Context, key string) (time.Duration, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// OAuthStateStore keeps single-use OAuth state values
type OAuthStateStore interface {
	Save(ctx context.Context, state, returnTo string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (string, error)
}

// AuthService defines authentication business logic
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*Identity, error)
	SignInExternal(ctx context.Context, ext *ExternalIdentity) (*AuthResult, error)
	Logout(ctx context.Context, principal *Principal) error
	CurrentUser(ctx context.Context, principal *Principal) (*User, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// SessionTokenService issues and reads signed session tokens
type SessionTokenService interface {
	Issue(identity *Identity) (*IssuedSession, error)
	Read(rawToken string) (*Principal, error)
	TTL() time.Duration
}

// ChallengeVerifier checks a bot-challenge token with the upstream service
type ChallengeVerifier interface {
	Verify(ctx context.Context, token, expectedAction, remoteIP string) bool
}

// IdentityProvider performs an OAuth authorization-code exchange
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*ExternalIdentity, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
}

// StudioNotifier tells the studio about new client submissions. Delivery
// is best effort.
type StudioNotifier interface {
	BookingReceived(ctx context.Context, booking *Booking)
	InquiryReceived(ctx context.Context, inquiry *Inquiry)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action, effect string) error
	RemovePolicy(role, resource, action, effect string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}

// PortfolioFilter narrows portfolio listings
type PortfolioFilter struct {
	PublishedOnly bool
	Category      string
}

// PortfolioRepository defines portfolio data access
type PortfolioRepository interface {
	List(ctx context.Context, filter PortfolioFilter) ([]PortfolioItem, error)
	FindByID(ctx context.Context, id uint) (*PortfolioItem, error)
	Create(ctx context.Context, item *PortfolioItem) error
	Update(ctx context.Context, item *PortfolioItem) error
	Delete(ctx context.Context, id uint) error
	CountPublished(ctx context.Context) (int64, error)
}

// BlogRepository defines blog data access
type BlogRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]BlogPost, error)
	FindByID(ctx context.Context, id uint) (*BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*BlogPost, error)
	Create(ctx context.Context, post *BlogPost) error
	Update(ctx context.Context, post *BlogPost) error
	Delete(ctx context.Context, id uint) error
	CountPublished(ctx context.Context) (int64, error)
}

// BookingRepository defines booking data access
type BookingRepository interface {
	List(ctx context.Context, limit int) ([]Booking, error)
	FindByID(ctx context.Context, id uint) (*Booking, error)
	Create(ctx context.Context, booking *Booking) error
	UpdateStatus(ctx context.Context, id uint, status BookingStatus) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, status BookingStatus) (int64, error)
	CompletedRevenue(ctx context.Context) (float64, error)
}

// InquiryRepository defines inquiry data access
type InquiryRepository interface {
	List(ctx context.Context) ([]Inquiry, error)
	FindByID(ctx context.Context, id uint) (*Inquiry, error)
	Create(ctx context.Context, inquiry *Inquiry) error
	UpdateStatus(ctx context.Context, id uint, status InquiryStatus) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, status InquiryStatus) (int64, error)
}

// PortfolioService defines portfolio operations. Methods taking an actor
// re-check the actor's role.
type PortfolioService interface {
	ListPublished(ctx context.Context, category string) ([]PortfolioItem, error)
	List(ctx context.Context, actor *Principal) ([]PortfolioItem, error)
	Create(ctx context.Context, actor *Principal, in PortfolioInput) (*PortfolioItem, error)
	Update(ctx context.Context, actor *Principal, id uint, in PortfolioInput) (*PortfolioItem, error)
	Delete(ctx context.Context, actor *Principal, id uint) error
}

// BlogService defines blog operations
type BlogService interface {
	ListPublished(ctx context.Context) ([]BlogPost, error)
	GetPublished(ctx context.Context, slug string) (*BlogPost, error)
	List(ctx context.Context, actor *Principal) ([]BlogPost, error)
	Create(ctx context.Context, actor *Principal, in BlogInput) (*BlogPost, error)
	Update(ctx context.Context, actor *Principal, id uint, in BlogInput) (*BlogPost, error)
	Delete(ctx context.Context, actor *Principal, id uint) error
}

// BookingService defines booking operations
type BookingService interface {
	Submit(ctx context.Context, req BookingRequest) (*Booking, error)
	List(ctx context.Context, actor *Principal) ([]Booking, error)
	UpdateStatus(ctx context.Context, actor *Principal, id uint, status BookingStatus) (*Booking, error)
	Delete(ctx context.Context, actor *Principal, id uint) error
}

// InquiryService defines contact inquiry operations
type InquiryService interface {
	Submit(ctx context.Context, req InquiryRequest) (*Inquiry, error)
	List(ctx context.Context, actor *Principal) ([]Inquiry, error)
	UpdateStatus(ctx context.Context, actor *Principal, id uint, status InquiryStatus) (*Inquiry, error)
	Delete(ctx context.Context, actor *Principal, id uint) error
}

// DashboardService defines admin dashboard queries
type DashboardService interface {
	Stats(ctx context.Context, actor *Principal) (*DashboardStats, error)
	RecentBookings(ctx context.Context, actor *Principal, limit int) ([]Booking, error)
}
