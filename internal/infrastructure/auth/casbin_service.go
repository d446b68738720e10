package auth

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/you/studiosvc/domain"
	"gorm.io/gorm"
)

// ModelText is the access model used when no model file is configured.
// A matching deny beats any allow, so a nested prefix can narrow the
// roles admitted by its parent.
const ModelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act, eft

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

const (
	AnyMethod   = ".*"
	EffectAllow = "allow"
	EffectDeny  = "deny"
)

// AccessRule admits the listed roles to everything under Prefix
type AccessRule struct {
	Prefix string
	Roles  []domain.Role
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer persisted through gorm
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}
	E, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, err
	}
	if err := E.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E}, nil
}

// NewMemoryCasbinService builds an enforcer without persistence
func NewMemoryCasbinService() (*CasbinService, error) {
	m, err := loadModel("")
	if err != nil {
		return nil, err
	}
	E, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	return &CasbinService{E}, nil
}

func loadModel(modelPath string) (model.Model, error) {
	if modelPath != "" {
		return model.NewModelFromFile(modelPath)
	}
	return model.NewModelFromString(ModelText)
}

// RulePolicies expands access rules into allow/deny policies for every role
func RulePolicies(rules []AccessRule) [][]string {
	var policies [][]string
	for _, rule := range rules {
		prefix := strings.TrimSuffix(rule.Prefix, "/")
		if prefix == "" {
			prefix = "/"
		}
		allowed := make(map[domain.Role]bool, len(rule.Roles))
		for _, r := range rule.Roles {
			allowed[r] = true
		}
		for _, role := range domain.Roles() {
			eft := EffectDeny
			if allowed[role] {
				eft = EffectAllow
			}
			policies = append(policies,
				[]string{role.String(), prefix, AnyMethod, eft},
				[]string{role.String(), strings.TrimSuffix(prefix, "/") + "/*", AnyMethod, eft},
			)
		}
	}
	return policies
}

// Seed adds every rule policy the store lacks and reports how many rows
// were written. Rows added at runtime are kept, so the configured rules act
// as a floor: a deny for a nested prefix is always present even when the
// store was first seeded from an older configuration.
func (s *CasbinService) Seed(rules []AccessRule) (int, error) {
	existing, err := s.E.GetPolicy()
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[strings.Join(p, "\x00")] = true
	}
	var missing [][]string
	for _, p := range RulePolicies(rules) {
		key := strings.Join(p, "\x00")
		if !have[key] {
			have[key] = true
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}
	if _, err := s.E.AddPolicies(missing); err != nil {
		return 0, fmt.Errorf("casbin: seed policies: %w", err)
	}
	return len(missing), nil
}

// Allowed reports whether role may perform method on path
func (s *CasbinService) Allowed(role domain.Role, path, method string) (bool, error) {
	if !role.Valid() {
		return false, nil
	}
	return s.E.Enforce(role.String(), path, method)
}
