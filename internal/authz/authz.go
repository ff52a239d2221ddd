// Package authz holds the authorization policy: pure decisions over a
// resolved principal, with no side effects. Transport handlers call these
// before touching the registry or catalog.
package authz

import (
	"github.com/firewatch-geo/firewatch-services/models"
)

// CanManageGroups reports whether p may create, update or delete access
// groups and their memberships. Requires manager; admin implies manager.
func CanManageGroups(p models.Principal) bool {
	return p.Caps.IsManager
}

// CanAdministerUsers reports whether p may list, create or delete user
// accounts and read global statistics.
func CanAdministerUsers(p models.Principal) bool {
	return p.Caps.IsAdmin
}

// CanViewGroup reports whether p may read a specific group's roster.
// Managers and admins see any group; everyone else only groups they are a
// member of.
func CanViewGroup(p models.Principal, isMember bool) bool {
	if p.Caps.IsManager {
		return true
	}
	return isMember
}

// ValidateUserDeletion enforces the self-protection invariants on account
// deletion. These are business-rule validations, not authorization
// failures: violating them reports as Validation, not Forbidden.
func ValidateUserDeletion(actor models.Principal, target models.User, adminCount int) error {
	if !actor.Caps.IsAdmin {
		return models.Forbidden("administrator access required")
	}
	if target.ID == actor.User.ID {
		return models.Validation("an administrator cannot delete their own account")
	}
	if target.Role == models.RoleAdmin && adminCount <= 1 {
		return models.Validation("cannot delete the last remaining administrator")
	}
	return nil
}
