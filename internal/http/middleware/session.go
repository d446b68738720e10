package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
)

// ProtectedMatcher reports whether a path requires an authorized session
type ProtectedMatcher interface {
	IsProtected(path string) bool
}

// SessionConfig controls where the session token is read from
type SessionConfig struct {
	CookieName string
	// RevalidateRole re-reads the caller's role from the user store on
	// protected paths instead of trusting the token snapshot.
	RevalidateRole bool
}

// SessionMW resolves the caller of every request
type SessionMW struct {
	tokens      domain.SessionTokenService
	revocations domain.SessionRevocationRepository
	users       domain.AuthService
	paths       ProtectedMatcher
	cfg         SessionConfig
	log         logging.Logger
}

// NewSessionMW creates new session middleware
func NewSessionMW(
	tokens domain.SessionTokenService,
	revocations domain.SessionRevocationRepository,
	users domain.AuthService,
	paths ProtectedMatcher,
	cfg SessionConfig,
	log logging.Logger,
) *SessionMW {
	return &SessionMW{
		tokens:      tokens,
		revocations: revocations,
		users:       users,
		paths:       paths,
		cfg:         cfg,
		log:         log.With("component", "session"),
	}
}

// Load attaches the caller and client context to the request. It never
// rejects a request; the route guard decides what anonymous callers see.
func (mw *SessionMW) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := domain.WithClientContext(c.Request.Context(), clientContext(c))
		c.Request = c.Request.WithContext(ctx)

		SetPrincipal(c, mw.PrincipalFor(c, c.Request.URL.Path))
		c.Next()
	}
}

// PrincipalFor resolves the caller as seen by a request to path. The role
// is revalidated against the store only when path is protected.
func (mw *SessionMW) PrincipalFor(c *gin.Context, path string) *domain.Principal {
	principal := mw.resolve(c)
	if principal != nil && mw.cfg.RevalidateRole && mw.paths.IsProtected(path) {
		principal = mw.revalidate(c, principal)
	}
	return principal
}

// Token returns the raw session token: the cookie first, then a bearer
// Authorization header.
func (mw *SessionMW) Token(c *gin.Context) string {
	if cookie, err := c.Cookie(mw.cfg.CookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (mw *SessionMW) resolve(c *gin.Context) *domain.Principal {
	raw := mw.Token(c)
	if raw == "" {
		return nil
	}
	ctx := c.Request.Context()

	principal, err := mw.tokens.Read(raw)
	if err != nil {
		mw.log.Debug(ctx, "session token rejected", "error", err)
		return nil
	}
	revoked, err := mw.revocations.IsRevoked(ctx, principal.SessionID)
	if err != nil {
		mw.log.Error(ctx, "revocation lookup failed", "session_id", principal.SessionID, "error", err)
		return nil
	}
	if revoked {
		mw.log.Debug(ctx, "revoked session presented", "session_id", principal.SessionID)
		return nil
	}
	return principal
}

// revalidate replaces the role snapshot with the stored role. A caller
// whose account can no longer be loaded is treated as anonymous.
func (mw *SessionMW) revalidate(c *gin.Context, principal *domain.Principal) *domain.Principal {
	ctx := c.Request.Context()
	user, err := mw.users.CurrentUser(ctx, principal)
	if err != nil {
		if domain.KindOf(err) != domain.KindUnauthorized {
			mw.log.Error(ctx, "role revalidation failed", "user_id", principal.UserID, "error", err)
		}
		return nil
	}
	if user.Role == principal.Role {
		return principal
	}

	mw.log.Info(ctx, "session role changed since issuance",
		"user_id", principal.UserID, "token_role", principal.Role, "stored_role", user.Role)
	refreshed := *principal
	refreshed.Role = user.Role
	return &refreshed
}
