// AngelaMos | 2026
// entity_test.go

package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionPredicates(t *testing.T) {
	u := &User{
		Permissions: Permissions{
			CreateBooks: true,
			ModifyUsers: true,
		},
	}

	assert.True(t, u.CanCreateBooks())
	assert.False(t, u.CanModifyBooks())
	assert.False(t, u.CanDisableBooks())
	assert.True(t, u.CanModifyUsers())
	assert.False(t, u.CanDisableUsers())
}

func TestHasPermission(t *testing.T) {
	u := &User{
		Permissions: Permissions{
			DisableBooks: true,
			DisableUsers: true,
		},
	}

	assert.True(t, u.HasPermission(PermDisableBooks))
	assert.True(t, u.HasPermission(PermDisableUsers))
	assert.False(t, u.HasPermission(PermCreateBooks))
	assert.False(t, u.HasPermission(PermModifyBooks))
	assert.False(t, u.HasPermission("unknown-permission"))
}

func TestCanModifyUser(t *testing.T) {
	self := &User{ID: "u-1"}

	assert.True(t, self.CanModifyUser("u-1"), "users manage themselves")
	assert.False(t, self.CanModifyUser("u-2"))

	manager := &User{
		ID:          "u-3",
		Permissions: Permissions{ModifyUsers: true},
	}
	assert.True(t, manager.CanModifyUser("u-2"))
}

func TestCanDisableUser(t *testing.T) {
	self := &User{ID: "u-1"}

	assert.True(t, self.CanDisableUser("u-1"))
	assert.False(t, self.CanDisableUser("u-2"))

	admin := &User{
		ID:          "u-3",
		Permissions: Permissions{DisableUsers: true},
	}
	assert.True(t, admin.CanDisableUser("u-2"))

	// modify-users alone does not grant disabling
	modifier := &User{
		ID:          "u-4",
		Permissions: Permissions{ModifyUsers: true},
	}
	assert.False(t, modifier.CanDisableUser("u-2"))
}

func TestDisable(t *testing.T) {
	u := &User{ID: "u-1", Enabled: true}

	u.Disable()

	assert.False(t, u.Enabled)
	assert.False(t, u.IsEnabled())
}
