// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/acervolib/library-api/internal/user"
)

type RegisterRequest struct {
	Name        string            `json:"name"        validate:"required,min=1,max=255"`
	Email       string            `json:"email"       validate:"required,email,max=255"`
	Password    string            `json:"password"    validate:"required,min=8,max=128"`
	Permissions *user.Permissions `json:"permissions" validate:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresIn int64     `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthResponse struct {
	User  user.UserResponse `json:"user"`
	Token TokenResponse     `json:"token"`
}
