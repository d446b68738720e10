package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role is the authorization level attached to a user account
type Role string

const (
	RoleUnknown Role = ""
	RoleAdmin   Role = "ADMIN"
	RoleEditor  Role = "EDITOR"
	RoleViewer  Role = "VIEWER"
)

// Roles lists every valid role. Adding a role here forces the switches
// in this file to be revisited.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleViewer}
}

// ParseRole maps a stored or claimed role name onto the enum.
// Unrecognized names yield RoleUnknown and an error.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleEditor:
		return RoleEditor, nil
	case RoleViewer:
		return RoleViewer, nil
	default:
		return RoleUnknown, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Valid reports whether r is one of the enumerated roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	case RoleUnknown:
		return false
	default:
		return false
	}
}

// CanAccessAdmin reports whether the role may enter the admin surface
func (r Role) CanAccessAdmin() bool {
	switch r {
	case RoleAdmin, RoleEditor:
		return true
	case RoleViewer, RoleUnknown:
		return false
	default:
		return false
	}
}

// CanManageAll reports whether the role may modify content owned by others
func (r Role) CanManageAll() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleEditor, RoleViewer, RoleUnknown:
		return false
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Value stores the role as its name
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, string(r))
	}
	return string(r), nil
}

// Scan reads a role column
func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*r = RoleUnknown
		return nil
	default:
		return fmt.Errorf("role: unsupported column type %T", src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
