package mocks

import (
	"slices"
	"strings"

	"github.com/you/studiosvc/domain"
)

// MockCasbinEnforcer keeps rules in memory and evaluates them with deny-wins
// prefix matching, close enough to the real model for service tests.
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)
	policies         [][]string
}

var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer starts with the default admin surface rules
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{
		policies: [][]string{
			{"ADMIN", "/admin/*", ".*", "allow"},
			{"EDITOR", "/admin/*", ".*", "allow"},
			{"VIEWER", "/admin/*", ".*", "deny"},
		},
	}
}

// AddPolicy records a {role, resource, action, effect} rule
func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	r, ok := rule(params)
	if !ok {
		return false, nil
	}
	m.policies = append(m.policies, r)
	return true, nil
}

// RemovePolicy deletes the first identical rule
func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	r, ok := rule(params)
	if !ok {
		return false, nil
	}
	i := slices.IndexFunc(m.policies, func(p []string) bool { return slices.Equal(p, r) })
	if i < 0 {
		return false, nil
	}
	m.policies = slices.Delete(m.policies, i, i+1)
	return true, nil
}

func rule(params []interface{}) ([]string, bool) {
	if len(params) < 4 {
		return nil, false
	}
	out := make([]string, len(params))
	for i, p := range params {
		out[i], _ = p.(string)
	}
	return out, true
}

// Enforce checks if a request should be allowed
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}

	// Default behavior: exact or trailing-wildcard resource match, deny wins
	if len(rvals) < 2 {
		return false, nil
	}
	role, _ := rvals[0].(string)
	resource, _ := rvals[1].(string)
	allowed := false
	for _, policy := range m.policies {
		if len(policy) < 4 || policy[0] != role || !matchResource(resource, policy[1]) {
			continue
		}
		if policy[3] == "deny" {
			return false, nil
		}
		allowed = true
	}
	return allowed, nil
}

func matchResource(resource, pattern string) bool {
	if strings.HasSuffix(pattern, "/*") {
		return strings.HasPrefix(resource, strings.TrimSuffix(pattern, "*"))
	}
	return resource == pattern
}

// GetPolicy returns all policies
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	out := make([][]string, 0, len(m.policies))
	for _, p := range m.policies {
		out = append(out, slices.Clone(p))
	}
	return out, nil
}
