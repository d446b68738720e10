package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/you/studiosvc/domain"
)

// DefaultSessionTTL is the session lifetime when none is configured
const DefaultSessionTTL = 30 * 24 * time.Hour

// sessionClaims is the signed payload of a session token
type sessionClaims struct {
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTServiceImpl implements domain.SessionTokenService with HS256 tokens
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

// JWTOption customizes a JWTServiceImpl
type JWTOption func(*JWTServiceImpl)

// WithClock overrides the time source used for issuing and validating
func WithClock(now func() time.Time) JWTOption {
	return func(j *JWTServiceImpl) { j.now = now }
}

// NewJWTService creates a new session token service
func NewJWTService(secretKey, issuer string, ttl time.Duration, opts ...JWTOption) *JWTServiceImpl {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	j := &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

var _ domain.SessionTokenService = (*JWTServiceImpl)(nil)

// TTL implements domain.SessionTokenService
func (j *JWTServiceImpl) TTL() time.Duration {
	return j.ttl
}

// Issue implements domain.SessionTokenService
func (j *JWTServiceImpl) Issue(identity *domain.Identity) (*domain.IssuedSession, error) {
	if identity == nil || identity.UserID == 0 {
		return nil, errors.New("session: identity is required")
	}
	if !identity.Role.Valid() {
		return nil, domain.ErrUnknownRole
	}

	now := j.now().Truncate(time.Second)
	exp := now.Add(j.ttl)
	// Unique JWT ID ensures token uniqueness and keys revocation
	jti := uuid.NewString()

	claims := sessionClaims{
		Role:  identity.Role.String(),
		Name:  identity.Name,
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(identity.UserID), 10),
			Issuer:    j.issuer,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return nil, err
	}
	return &domain.IssuedSession{Token: signed, ID: jti, IssuedAt: now, ExpiresAt: exp}, nil
}

// Read implements domain.SessionTokenService. It checks signature,
// expiry and issuer only; revocation and role freshness are decided by
// the caller.
func (j *JWTServiceImpl) Read(rawToken string) (*domain.Principal, error) {
	if rawToken == "" {
		return nil, domain.ErrTokenMalformed
	}

	claims := &sessionClaims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(j.issuer))
	}

	_, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	}, parserOpts...)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, domain.ErrTokenMalformed
	default:
		return nil, domain.ErrTokenInvalid
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, domain.ErrTokenMalformed
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	principal := &domain.Principal{
		UserID:    uint(userID),
		Role:      role,
		Name:      claims.Name,
		Email:     claims.Email,
		SessionID: claims.ID,
	}
	if claims.IssuedAt != nil {
		principal.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal, nil
}
