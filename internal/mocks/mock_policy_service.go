package mocks

import "github.com/you/studiosvc/domain"

// MockPolicyService implements domain.PolicyService interface for testing
type MockPolicyService struct {
	AddPolicyFunc       func(role, resource, action, effect string) error
	RemovePolicyFunc    func(role, resource, action, effect string) error
	CheckPermissionFunc func(role, resource, action string) (bool, error)
	GetPoliciesFunc     func() [][]string
}

// NewMockPolicyService creates a new MockPolicyService with default behaviors
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

// AddPolicy adds a policy rule
func (m *MockPolicyService) AddPolicy(role, resource, action, effect string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, resource, action, effect)
	}
	return nil
}

// RemovePolicy removes a policy rule
func (m *MockPolicyService) RemovePolicy(role, resource, action, effect string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(role, resource, action, effect)
	}
	return nil
}

// CheckPermission checks a permission
func (m *MockPolicyService) CheckPermission(role, resource, action string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, resource, action)
	}
	// Default behavior: ADMIN and EDITOR may do anything
	return role == string(domain.RoleAdmin) || role == string(domain.RoleEditor), nil
}

// GetPolicies returns all policies
func (m *MockPolicyService) GetPolicies() [][]string {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return [][]string{}
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
