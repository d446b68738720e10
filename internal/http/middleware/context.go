package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/studiosvc/domain"
)

// Context keys set by the session middleware
const (
	ContextPrincipal = "principal"
	ContextUserID    = "user_id"
	ContextUserRole  = "user_role"
	ContextSessionID = "session_id"
	ContextRequestID = "request_id"
)

// SetPrincipal stores the caller on the gin context. A nil principal
// leaves the request anonymous.
func SetPrincipal(c *gin.Context, p *domain.Principal) {
	if p == nil {
		return
	}
	c.Set(ContextPrincipal, p)
	c.Set(ContextUserID, strconv.FormatUint(uint64(p.UserID), 10))
	c.Set(ContextUserRole, p.Role.String())
	if p.SessionID != "" {
		c.Set(ContextSessionID, p.SessionID)
	}
}

// PrincipalFrom returns the caller, or nil for anonymous requests
func PrincipalFrom(c *gin.Context) *domain.Principal {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*domain.Principal)
	return p
}

// clientContext extracts client information from the request
func clientContext(c *gin.Context) *domain.ClientContext {
	return &domain.ClientContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
