package auth

import "github.com/cinehub/cinehub/internal/model"

// Fine-grained capability strings layered on top of roles.  A route may
// demand a specific permission instead of a bare role.
const (
	PermManageUsers   = "manage_users"
	PermManageContent = "manage_content"
	PermViewActivity  = "view_activity"
	PermManageSystem  = "manage_system"
)

// AllPermissions lists every known capability, used to validate override
// sets submitted through the admin permissions endpoint.
var AllPermissions = []string{
	PermManageUsers,
	PermManageContent,
	PermViewActivity,
	PermManageSystem,
}

// RoleSatisfies implements the containment rule: admin satisfies any
// requirement moderator satisfies, but not the reverse, and user only
// matches itself.
func RoleSatisfies(have, want model.Role) bool {
	if have == want {
		return true
	}
	if have == model.RoleAdmin && want == model.RoleModerator {
		return true
	}
	return false
}

// DefaultPermissions computes the deterministic permission set for a role.
// Admin holds everything; moderator a reduced subset; plain users none.
func DefaultPermissions(role model.Role) []string {
	switch role {
	case model.RoleAdmin:
		out := make([]string, len(AllPermissions))
		copy(out, AllPermissions)
		return out
	case model.RoleModerator:
		return []string{PermManageContent, PermViewActivity}
	default:
		return nil
	}
}

// EffectivePermissions layers per-user overrides on top of the role
// defaults.  A nil override slice means "role defaults apply unchanged";
// a non-nil slice replaces the default set entirely, which is how the
// admin permissions endpoint narrows or widens a single account.
func EffectivePermissions(role model.Role, overrides []string) []string {
	if overrides == nil {
		return DefaultPermissions(role)
	}
	out := make([]string, 0, len(overrides))
	known := map[string]bool{}
	for _, p := range AllPermissions {
		known[p] = true
	}
	for _, p := range overrides {
		if known[p] {
			out = append(out, p)
		}
	}
	return out
}

// ValidPermission reports whether p names a known capability.
func ValidPermission(p string) bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}
