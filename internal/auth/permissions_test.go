package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinehub/cinehub/internal/model"
)

func TestDefaultPermissions(t *testing.T) {
	assert.ElementsMatch(t, AllPermissions, DefaultPermissions(model.RoleAdmin))
	assert.ElementsMatch(t,
		[]string{PermManageContent, PermViewActivity},
		DefaultPermissions(model.RoleModerator))
	assert.Empty(t, DefaultPermissions(model.RoleUser))
}

func TestEffectivePermissionsNilMeansDefaults(t *testing.T) {
	assert.ElementsMatch(t, AllPermissions, EffectivePermissions(model.RoleAdmin, nil))
	assert.Empty(t, EffectivePermissions(model.RoleUser, nil))
}

func TestEffectivePermissionsOverrideReplaces(t *testing.T) {
	// An explicit override replaces the role defaults entirely.  An empty
	// non-nil set therefore strips an admin of every capability.
	got := EffectivePermissions(model.RoleAdmin, []string{PermViewActivity})
	assert.Equal(t, []string{PermViewActivity}, got)

	assert.Empty(t, EffectivePermissions(model.RoleAdmin, []string{}))

	// And can widen a plain user.
	got = EffectivePermissions(model.RoleUser, []string{PermManageContent})
	assert.Equal(t, []string{PermManageContent}, got)
}

func TestEffectivePermissionsFiltersUnknown(t *testing.T) {
	got := EffectivePermissions(model.RoleUser, []string{"launch_rockets", PermViewActivity})
	assert.Equal(t, []string{PermViewActivity}, got)
}

func TestValidPermission(t *testing.T) {
	for _, p := range AllPermissions {
		assert.True(t, ValidPermission(p), p)
	}
	assert.False(t, ValidPermission("launch_rockets"))
	assert.False(t, ValidPermission(""))
}

func TestIdentityHasPermission(t *testing.T) {
	id := Identity{Permissions: []string{PermViewActivity}}
	assert.True(t, id.HasPermission(PermViewActivity))
	assert.False(t, id.HasPermission(PermManageSystem))
}

func TestHashAndVerifyPassword(t *testing.T) {
	h, err := HashPassword("correct horse", 4)
	assert.NoError(t, err)
	assert.True(t, VerifyPassword(h, "correct horse"))
	assert.False(t, VerifyPassword(h, "wrong horse"))
	assert.False(t, VerifyPassword("", "correct horse"))
}
