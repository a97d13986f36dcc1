package access

import (
	"strings"

	"github.com/hugh/workops/internal/database/models"
)

// Requirement is a predicate over a member's role. It is either a minimum
// role in the Admin > Manager > Member hierarchy or an explicit allow-set.
type Requirement struct {
	min     models.Role
	allowed []models.Role
	isSet   bool
}

// AtLeast is satisfied by min and every role more privileged than it.
func AtLeast(min models.Role) Requirement {
	return Requirement{min: min}
}

// OneOf is satisfied by any listed role. With no roles it is satisfied by
// any member.
func OneOf(roles ...models.Role) Requirement {
	return Requirement{allowed: append([]models.Role(nil), roles...), isSet: true}
}

// AnyMember only requires membership.
var AnyMember = AtLeast(models.RoleMember)

func (q Requirement) SatisfiedBy(role models.Role) bool {
	if !role.Valid() {
		return false
	}
	if !q.isSet {
		return role.AtLeast(q.min)
	}
	if len(q.allowed) == 0 {
		return true
	}
	for _, r := range q.allowed {
		if r == role {
			return true
		}
	}
	return false
}

func (q Requirement) String() string {
	if !q.isSet {
		return ">=" + q.min.String()
	}
	if len(q.allowed) == 0 {
		return "any"
	}
	names := make([]string, len(q.allowed))
	for i, r := range q.allowed {
		names[i] = r.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}
