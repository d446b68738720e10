package services

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/you/studiosvc/domain"
)

const (
	policyAnyAction = ".*"
	effectAllow     = "allow"
	effectDeny      = "deny"
)

// CasbinEnforcerWrapper wraps the real Casbin enforcer to implement our interface
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

// PolicyServiceImpl implements domain.PolicyService using Casbin. Writes
// reach the store through the adapter's auto-save.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: NewCasbinEnforcerWrapper(enforcer),
	}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: enforcer,
	}
}

// AddPolicy implements domain.PolicyService. An existing rule is not an error.
func (p *PolicyServiceImpl) AddPolicy(role, resource, action, effect string) error {
	rule, err := normalizePolicy(role, resource, action, effect)
	if err != nil {
		return err
	}
	if _, err := p.enforcer.AddPolicy(rule...); err != nil {
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

// RemovePolicy implements domain.PolicyService
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action, effect string) error {
	rule, err := normalizePolicy(role, resource, action, effect)
	if err != nil {
		return err
	}
	removed, err := p.enforcer.RemovePolicy(rule...)
	if err != nil {
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	if !removed {
		return domain.ErrResourceNotFound
	}
	return nil
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(role, resource, action)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}

func normalizePolicy(role, resource, action, effect string) ([]interface{}, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, domain.NewValidationError("role", "Role must be one of ADMIN, EDITOR, VIEWER")
	}
	resource = strings.TrimSpace(resource)
	if !strings.HasPrefix(resource, "/") {
		return nil, domain.NewValidationError("resource", "Resource must be a path starting with /")
	}
	action = strings.TrimSpace(action)
	if action == "" || action == "*" {
		action = policyAnyAction
	}
	switch effect = strings.ToLower(strings.TrimSpace(effect)); effect {
	case "":
		effect = effectAllow
	case effectAllow, effectDeny:
	default:
		return nil, domain.NewValidationError("effect", "Effect must be allow or deny")
	}
	return []interface{}{r.String(), resource, action, effect}, nil
}
