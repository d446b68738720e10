package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/http/middleware"
	"github.com/you/studiosvc/internal/logging"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

// RedirectConfig names the pages the OAuth flow sends the browser to
type RedirectConfig struct {
	LoginPath   string
	LandingPath string
	StateTTL    time.Duration
}

// OAuth error codes placed on the login page URL
const (
	OAuthErrAccessDenied = "AccessDenied"
	OAuthErrCallback     = "OAuthCallback"
)

// AuthHandlers contains authentication-related HTTP handlers
type AuthHandlers struct {
	authSvc   domain.AuthService
	states    domain.OAuthStateStore
	providers map[string]domain.IdentityProvider
	cookie    CookieConfig
	redirects RedirectConfig
	log       logging.Logger
}

// NewAuthHandlers creates new auth handlers. Providers are looked up by
// their Name.
func NewAuthHandlers(
	authSvc domain.AuthService,
	states domain.OAuthStateStore,
	cookie CookieConfig,
	redirects RedirectConfig,
	log logging.Logger,
	providers ...domain.IdentityProvider,
) *AuthHandlers {
	byName := make(map[string]domain.IdentityProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	if redirects.StateTTL <= 0 {
		redirects.StateTTL = 10 * time.Minute
	}
	return &AuthHandlers{
		authSvc:   authSvc,
		states:    states,
		providers: byName,
		cookie:    cookie,
		redirects: redirects,
		log:       log.With("component", "auth_handlers"),
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email          string `json:"email" binding:"max=254"`
	Password       string `json:"password" binding:"max=256"`
	ChallengeToken string `json:"challengeToken"`
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name            string `json:"name" binding:"max=120"`
	Email           string `json:"email" binding:"max=254"`
	Password        string `json:"password" binding:"max=256"`
	ConfirmPassword string `json:"confirmPassword" binding:"max=256"`
	ChallengeToken  string `json:"challengeToken"`
}

// Login handles password sign-in and sets the session cookie
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), domain.LoginRequest{
		Email:          req.Email,
		Password:       req.Password,
		ChallengeToken: req.ChallengeToken,
		RemoteIP:       c.ClientIP(),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, result.Session)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user":      identitySummary(result.Identity),
			"expiresAt": result.Session.ExpiresAt,
		},
	})
}

// Register handles account creation
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), domain.RegisterRequest{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		ChallengeToken:  req.ChallengeToken,
		RemoteIP:        c.ClientIP(),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": userSummary(user)})
}

// Logout revokes the current session and clears the cookie. It succeeds
// for anonymous callers too.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if principal := middleware.PrincipalFrom(c); principal != nil {
		if err := h.authSvc.Logout(c.Request.Context(), principal); err != nil {
			respondError(c, h.log, err)
			return
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}

// Session reports the caller's session
func (h *AuthHandlers) Session(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"authenticated": false}})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"authenticated": true,
			"user": gin.H{
				"id":    principal.UserID,
				"email": principal.Email,
				"name":  principal.Name,
				"role":  principal.Role.String(),
			},
			"expiresAt": principal.ExpiresAt,
		},
	})
}

// OAuthStart redirects the browser to the identity provider
func (h *AuthHandlers) OAuthStart(c *gin.Context) {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown sign-in provider"})
		return
	}

	state := uuid.NewString()
	returnTo := safeReturnPath(c.Query("callbackUrl"), h.redirects.LandingPath)
	if err := h.states.Save(c.Request.Context(), state, returnTo, h.redirects.StateTTL); err != nil {
		h.log.Error(c.Request.Context(), "failed to save oauth state", "provider", provider.Name(), "error", err)
		c.Redirect(http.StatusFound, h.loginWithError(OAuthErrCallback))
		return
	}
	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// OAuthCallback completes the authorization-code flow
func (h *AuthHandlers) OAuthCallback(c *gin.Context) {
	ctx := c.Request.Context()
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown sign-in provider"})
		return
	}
	if errParam := c.Query("error"); errParam != "" {
		h.log.Info(ctx, "provider returned an error", "provider", provider.Name(), "error", errParam)
		c.Redirect(http.StatusFound, h.loginWithError(OAuthErrAccessDenied))
		return
	}

	returnTo, err := h.states.Consume(ctx, c.Query("state"))
	if err != nil {
		h.log.Warn(ctx, "oauth state rejected", "provider", provider.Name(), "error", err)
		c.Redirect(http.StatusFound, h.loginWithError(OAuthErrCallback))
		return
	}

	ext, err := provider.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.log.Warn(ctx, "oauth exchange failed", "provider", provider.Name(), "error", err)
		c.Redirect(http.StatusFound, h.loginWithError(OAuthErrCallback))
		return
	}

	result, err := h.authSvc.SignInExternal(ctx, ext)
	if err != nil {
		code := OAuthErrAccessDenied
		if domain.KindOf(err) == domain.KindInternal {
			h.log.Error(ctx, "external sign-in failed", "provider", provider.Name(), "error", err)
			code = OAuthErrCallback
		}
		c.Redirect(http.StatusFound, h.loginWithError(code))
		return
	}

	h.setSessionCookie(c, result.Session)
	c.Redirect(http.StatusFound, safeReturnPath(returnTo, h.redirects.LandingPath))
}

// Me returns the stored profile of the caller
func (h *AuthHandlers) Me(c *gin.Context) {
	user, err := h.authSvc.CurrentUser(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": userSummary(user)})
}

func (h *AuthHandlers) setSessionCookie(c *gin.Context, session *domain.IssuedSession) {
	maxAge := int(h.cookie.MaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Until(session.ExpiresAt).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.Token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandlers) loginWithError(code string) string {
	q := url.Values{}
	q.Set("error", code)
	return h.redirects.LoginPath + "?" + q.Encode()
}

// safeReturnPath accepts only same-origin absolute paths
func safeReturnPath(p, fallback string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return fallback
	}
	u, err := url.Parse(p)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return p
}

func identitySummary(id *domain.Identity) gin.H {
	return gin.H{
		"id":    id.UserID,
		"email": id.Email,
		"name":  id.Name,
		"role":  id.Role.String(),
		"image": id.Image,
	}
}

func userSummary(u *domain.User) gin.H {
	return gin.H{
		"id":            u.ID,
		"email":         u.Email,
		"name":          u.Name,
		"role":          u.Role.String(),
		"image":         u.Image,
		"emailVerified": u.EmailVerified(),
		"lastLoginAt":   u.LastLoginAt,
		"createdAt":     u.CreatedAt,
	}
}
