package domain

import (
	"strings"
	"time"
)

// User represents an account able to sign in to the admin surface
type User struct {
	ID              uint
	Email           string
	Name            string
	PasswordHash    string
	Role            Role
	Image           string
	EmailVerifiedAt *time.Time
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasPassword reports whether the account can use the credentials flow.
// Accounts created through an identity provider have no hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// EmailVerified reports whether the email address was confirmed
func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// Identity is the verified identity handed to the session issuer
type Identity struct {
	UserID uint
	Role   Role
	Name   string
	Email  string
	Image  string
}

// IdentityOf builds the session identity of a user
func IdentityOf(u *User) *Identity {
	return &Identity{
		UserID: u.ID,
		Role:   u.Role,
		Name:   u.Name,
		Email:  u.Email,
		Image:  u.Image,
	}
}

// Principal is the caller recovered from a session token
type Principal struct {
	UserID    uint
	Role      Role
	Name      string
	Email     string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssuedSession is a freshly signed session token
type IssuedSession struct {
	Token     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// LoginRequest carries a credentials sign-in attempt
type LoginRequest struct {
	Email          string
	Password       string
	ChallengeToken string
	RemoteIP       string
}

// RegisterRequest carries a self-service registration
type RegisterRequest struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	ChallengeToken  string
	RemoteIP        string
}

// AuthResult represents a successful sign-in
type AuthResult struct {
	Identity *Identity
	Session  *IssuedSession
}

// ExternalIdentity is the profile returned by an OAuth identity provider
type ExternalIdentity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// ChallengeResult is the decoded answer of the bot-challenge service
type ChallengeResult struct {
	Success     bool     `json:"success"`
	Score       *float64 `json:"score,omitempty"`
	Action      string   `json:"action,omitempty"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
