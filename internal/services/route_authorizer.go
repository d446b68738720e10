package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
)

// DecisionKind is the outcome of a route decision
type DecisionKind int

const (
	Allow DecisionKind = iota
	RedirectLogin
	RedirectLanding
)

func (k DecisionKind) String() string {
	switch k {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectLanding:
		return "redirect_landing"
	default:
		return "unknown"
	}
}

// Decision reasons
const (
	ReasonPublic      = "public"
	ReasonAuthPage    = "auth_page"
	ReasonSignedIn    = "signed_in"
	ReasonAnonymous   = "anonymous"
	ReasonForbidden   = "forbidden"
	ReasonPermitted   = "permitted"
	ReasonUnprotected = "unprotected"
)

// Decision tells the edge what to do with a request
type Decision struct {
	Kind     DecisionKind
	Location string
	Reason   string
}

// RoutePolicy describes which paths are public, which are sign-in
// pages and which need a session.
type RoutePolicy struct {
	LoginPath         string
	LandingPath       string
	PublicPrefixes    []string
	AuthPages         []string
	ProtectedPrefixes []string
}

// RouteAuthorizer decides every request before it reaches a handler. Role
// membership for protected paths is answered by the policy enforcer.
type RouteAuthorizer struct {
	policy   RoutePolicy
	enforcer domain.PolicyService
	log      logging.Logger
}

func NewRouteAuthorizer(policy RoutePolicy, enforcer domain.PolicyService, log logging.Logger) *RouteAuthorizer {
	return &RouteAuthorizer{
		policy:   policy,
		enforcer: enforcer,
		log:      log.With("component", "route_authorizer"),
	}
}

// IsPublic reports whether path skips the session entirely
func (a *RouteAuthorizer) IsPublic(path string) bool {
	return matchAny(path, a.policy.PublicPrefixes)
}

// IsProtected reports whether path needs an authorized session
func (a *RouteAuthorizer) IsProtected(path string) bool {
	return !a.IsPublic(path) && matchAny(path, a.policy.ProtectedPrefixes)
}

// Decide runs the route rules in order. A nil principal is anonymous.
func (a *RouteAuthorizer) Decide(method, path, rawQuery string, principal *domain.Principal) Decision {
	if a.IsPublic(path) {
		return Decision{Kind: Allow, Reason: ReasonPublic}
	}

	if matchAny(path, a.policy.AuthPages) {
		// A signed-in caller who could not use the landing page stays on
		// the sign-in page instead of bouncing between the two.
		if principal != nil && a.permitted(principal, http.MethodGet, a.policy.LandingPath) {
			return Decision{Kind: RedirectLanding, Location: a.policy.LandingPath, Reason: ReasonSignedIn}
		}
		return Decision{Kind: Allow, Reason: ReasonAuthPage}
	}

	if !matchAny(path, a.policy.ProtectedPrefixes) {
		return Decision{Kind: Allow, Reason: ReasonUnprotected}
	}

	callback := path
	if rawQuery != "" {
		callback += "?" + rawQuery
	}
	if principal == nil {
		return Decision{Kind: RedirectLogin, Location: a.loginURL(callback, ""), Reason: ReasonAnonymous}
	}
	if !a.permitted(principal, method, path) {
		return Decision{Kind: RedirectLogin, Location: a.loginURL(callback, ReasonForbidden), Reason: ReasonForbidden}
	}
	return Decision{Kind: Allow, Reason: ReasonPermitted}
}

func (a *RouteAuthorizer) permitted(p *domain.Principal, method, path string) bool {
	switch p.Role {
	case domain.RoleAdmin, domain.RoleEditor, domain.RoleViewer:
		ok, err := a.enforcer.CheckPermission(p.Role.String(), path, method)
		if err != nil {
			a.log.Error(context.Background(), "policy check failed", "role", p.Role, "path", path, "error", err)
			return false
		}
		return ok
	case domain.RoleUnknown:
		return false
	default:
		return false
	}
}

func (a *RouteAuthorizer) loginURL(callback, errCode string) string {
	q := url.Values{}
	q.Set("callbackUrl", callback)
	if errCode != "" {
		q.Set("error", errCode)
	}
	return a.policy.LoginPath + "?" + q.Encode()
}

// matchAny reports whether path falls under one of the prefixes. A prefix
// ending in "/" matches anything below it; otherwise it matches the exact
// path and its sub-paths, so "/admin" never matches "/administrator".
func matchAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		if strings.HasSuffix(prefix, "/") {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
