package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
	"github.com/you/studiosvc/internal/services"
)

// DecisionRecorder observes route decisions
type DecisionRecorder interface {
	ObserveDecision(d services.Decision)
}

// RouteGuard applies the route authorizer before any handler runs
type RouteGuard struct {
	authz     *services.RouteAuthorizer
	apiPrefix string
	audit     domain.AuditLogger
	recorder  DecisionRecorder
	log       logging.Logger
}

// NewRouteGuard creates the route guard. Paths under apiPrefix get JSON
// errors instead of redirects.
func NewRouteGuard(authz *services.RouteAuthorizer, apiPrefix string, audit domain.AuditLogger, recorder DecisionRecorder, log logging.Logger) *RouteGuard {
	return &RouteGuard{
		authz:     authz,
		apiPrefix: apiPrefix,
		audit:     audit,
		recorder:  recorder,
		log:       log.With("component", "route_guard"),
	}
}

// Enforce returns the route authorization middleware
func (g *RouteGuard) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		d := g.authz.Decide(c.Request.Method, c.Request.URL.Path, c.Request.URL.RawQuery, principal)
		if g.recorder != nil {
			g.recorder.ObserveDecision(d)
		}

		if d.Reason == services.ReasonForbidden {
			g.denied(c, principal)
		}

		switch d.Kind {
		case services.Allow:
			c.Next()
		case services.RedirectLogin:
			if g.isAPI(c.Request.URL.Path) {
				if d.Reason == services.ReasonForbidden {
					c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this resource"})
				} else {
					c.Header("Location", d.Location)
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
				}
				return
			}
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
		case services.RedirectLanding:
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
		default:
			g.log.Error(c.Request.Context(), "unknown route decision", "kind", d.Kind)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}
}

func (g *RouteGuard) isAPI(path string) bool {
	return g.apiPrefix != "" && strings.HasPrefix(path, g.apiPrefix)
}

func (g *RouteGuard) denied(c *gin.Context, principal *domain.Principal) {
	ctx := c.Request.Context()
	g.log.Warn(ctx, "access denied", "path", c.Request.URL.Path, "method", c.Request.Method,
		"user_id", principal.UserID, "role", principal.Role)
	if g.audit == nil {
		return
	}
	event := domain.NewAuditEvent(domain.AccessDeniedEvent, principal.UserID).
		WithError(domain.ErrForbidden).
		WithSession(principal.SessionID).
		WithClientContext(domain.ClientContextFrom(ctx)).
		WithMetadata("path", c.Request.URL.Path).
		WithMetadata("method", c.Request.Method).
		WithMetadata("role", principal.Role.String())
	g.audit.LogEvent(ctx, event)
}
