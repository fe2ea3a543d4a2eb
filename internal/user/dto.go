// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateUserRequest struct {
	Name        *string      `json:"name,omitempty"     validate:"omitempty,min=1,max=100"`
	Email       *string      `json:"email,omitempty"    validate:"omitempty,email,max=255"`
	Password    *string      `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	Permissions *Permissions `json:"permissions,omitempty"`
}

type UserResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Permissions Permissions `json:"permissions"`
	Enabled     bool        `json:"enabled"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ToUserResponse maps the entity to its outward shape. The password hash
// never leaves the service boundary.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Permissions: u.Permissions,
		Enabled:     u.Enabled,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
