package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/http/middleware"
	"github.com/you/studiosvc/internal/logging"
	"github.com/you/studiosvc/internal/services"
)

// Headers understood and emitted by the edge check
const (
	HeaderOriginalURI    = "X-Original-URI"
	HeaderOriginalMethod = "X-Original-Method"
	HeaderUserID         = "X-User-Id"
	HeaderUserRole       = "X-User-Role"
)

// PrincipalResolver resolves the caller for a path other than the one
// being requested.
type PrincipalResolver interface {
	PrincipalFor(c *gin.Context, path string) *domain.Principal
}

// AuthzCheckHandlers answers subrequests from an edge proxy with the same
// route decision the service applies to its own requests.
type AuthzCheckHandlers struct {
	authz    *services.RouteAuthorizer
	resolver PrincipalResolver
	recorder middleware.DecisionRecorder
	log      logging.Logger
}

func NewAuthzCheckHandlers(authz *services.RouteAuthorizer, resolver PrincipalResolver, recorder middleware.DecisionRecorder, log logging.Logger) *AuthzCheckHandlers {
	return &AuthzCheckHandlers{
		authz:    authz,
		resolver: resolver,
		recorder: recorder,
		log:      log.With("component", "authz_check"),
	}
}

// Check answers 200 when the original request may proceed, 401 for an
// anonymous caller and 403 for a forbidden one. A signed-in caller on an
// auth page also gets 403, with the landing page as Location, so the proxy
// never serves that page. Redirect targets are returned in the Location
// header and the decision kind in the body.
func (h *AuthzCheckHandlers) Check(c *gin.Context) {
	original := c.GetHeader(HeaderOriginalURI)
	if original == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": HeaderOriginalURI + " header required"})
		return
	}
	target, err := url.ParseRequestURI(original)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + HeaderOriginalURI})
		return
	}
	method := strings.ToUpper(c.GetHeader(HeaderOriginalMethod))
	if method == "" {
		method = http.MethodGet
	}

	principal := h.resolver.PrincipalFor(c, target.Path)
	d := h.authz.Decide(method, target.Path, target.RawQuery, principal)
	if h.recorder != nil {
		h.recorder.ObserveDecision(d)
	}

	if principal != nil {
		c.Header(HeaderUserID, strconv.FormatUint(uint64(principal.UserID), 10))
		c.Header(HeaderUserRole, principal.Role.String())
	}
	if d.Location != "" {
		c.Header("Location", d.Location)
	}

	body := gin.H{"decision": d.Kind.String(), "reason": d.Reason}
	if d.Location != "" {
		body["location"] = d.Location
	}

	switch d.Kind {
	case services.RedirectLogin:
		status := http.StatusUnauthorized
		if d.Reason == services.ReasonForbidden {
			status = http.StatusForbidden
			h.log.Info(c.Request.Context(), "edge request forbidden", "path", target.Path, "role", principal.Role)
		}
		c.JSON(status, body)
	case services.RedirectLanding:
		c.JSON(http.StatusForbidden, body)
	case services.Allow:
		c.JSON(http.StatusOK, body)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
	}
}
