// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/acervolib/library-api/internal/core"
)

const (
	UserIDKey      contextKey = "user_id"
	CurrentUserKey contextKey = "current_user"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// UserLoader resolves a verified token subject to the authenticated domain
// user. It must fail with core.ErrUnauthorized for missing or disabled
// accounts so stale tokens stop working the moment an account is disabled.
type UserLoader interface {
	LoadAuthenticated(ctx context.Context, id string) (any, error)
}

// PermissionHolder is implemented by the domain user so route-level gates
// can check capabilities without this package importing the user package.
type PermissionHolder interface {
	HasPermission(permission string) bool
}

func Authenticator(
	verifier TokenVerifier,
	users UserLoader,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			userID, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			current, err := users.LoadAuthenticated(r.Context(), userID)
			if err != nil {
				if errors.Is(err, core.ErrUnauthorized) {
					core.JSONError(
						w,
						core.UnauthorizedError("invalid token or disabled user"),
					)
					return
				}
				core.InternalServerError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, userID)
			ctx = context.WithValue(ctx, CurrentUserKey, current)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			holder, ok := CurrentUser(r.Context()).(PermissionHolder)
			if !ok {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if !holder.HasPermission(permission) {
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// CurrentUser returns the authenticated domain user stored by
// Authenticator, or nil. Callers assert the concrete type.
func CurrentUser(ctx context.Context) any {
	return ctx.Value(CurrentUserKey)
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
