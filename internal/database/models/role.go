package models

import (
	"fmt"
	"strings"
)

// Role is an organization role. Lower values are more privileged, so
// "at least Manager" means role <= RoleManager.
type Role int

const (
	RoleAdmin Role = iota
	RoleManager
	RoleMember
)

var roleNames = map[Role]string{
	RoleAdmin:   "admin",
	RoleManager: "manager",
	RoleMember:  "member",
}

// AllRoles lists roles from most to least privileged.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleMember}
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether r is as privileged as min or more.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r <= min
}

// ParseRole accepts the lowercase role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
