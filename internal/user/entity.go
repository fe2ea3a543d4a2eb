// AngelaMos | 2026
// entity.go

package user

import (
	"context"
	"time"

	"github.com/acervolib/library-api/internal/middleware"
)

// Permissions is the flat capability set gating mutating operations.
// Each flag is independent; there are no roles.
type Permissions struct {
	CreateBooks  bool `db:"can_create_books"  json:"create_books"`
	ModifyBooks  bool `db:"can_modify_books"  json:"modify_books"`
	DisableBooks bool `db:"can_disable_books" json:"disable_books"`
	ModifyUsers  bool `db:"can_modify_users"  json:"modify_users"`
	DisableUsers bool `db:"can_disable_users" json:"disable_users"`
}

func (p Permissions) CanCreateBooks() bool  { return p.CreateBooks }
func (p Permissions) CanModifyBooks() bool  { return p.ModifyBooks }
func (p Permissions) CanDisableBooks() bool { return p.DisableBooks }
func (p Permissions) CanModifyUsers() bool  { return p.ModifyUsers }
func (p Permissions) CanDisableUsers() bool { return p.DisableUsers }

type User struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Permissions
	Enabled   bool      `db:"enabled"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (u *User) IsEnabled() bool {
	return u.Enabled
}

func (u *User) Disable() {
	u.Enabled = false
}

// CanModifyUser allows self-modification or the modify-users capability.
func (u *User) CanModifyUser(userID string) bool {
	return u.ID == userID || u.CanModifyUsers()
}

// CanDisableUser allows self-disable or the disable-users capability.
func (u *User) CanDisableUser(userID string) bool {
	return u.ID == userID || u.CanDisableUsers()
}

const (
	PermCreateBooks  = "create-books"
	PermModifyBooks  = "modify-books"
	PermDisableBooks = "disable-books"
	PermModifyUsers  = "modify-users"
	PermDisableUsers = "disable-users"
)

// HasPermission satisfies middleware.PermissionHolder for route gates.
func (u *User) HasPermission(permission string) bool {
	switch permission {
	case PermCreateBooks:
		return u.CanCreateBooks()
	case PermModifyBooks:
		return u.CanModifyBooks()
	case PermDisableBooks:
		return u.CanDisableBooks()
	case PermModifyUsers:
		return u.CanModifyUsers()
	case PermDisableUsers:
		return u.CanDisableUsers()
	default:
		return false
	}
}

// FromContext returns the authenticated user stored by the authenticator
// middleware, or nil when the request is unauthenticated.
func FromContext(ctx context.Context) *User {
	u, _ := middleware.CurrentUser(ctx).(*User)
	return u
}
