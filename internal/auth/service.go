// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/acervolib/library-api/internal/core"
	"github.com/acervolib/library-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrEmailExists        = errors.New("email already exists")
)

// UserProvider is the slice of the user service the auth flow needs.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(
		ctx context.Context,
		name, email, passwordHash string,
		perms user.Permissions,
	) (*user.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type Service struct {
	users  UserProvider
	jwt    *JWTManager
	hasher *core.PasswordHasher
	logger *slog.Logger
}

func NewService(
	users UserProvider,
	jwt *JWTManager,
	hasher *core.PasswordHasher,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:  users,
		jwt:    jwt,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req *RegisterRequest,
) (*user.User, *TokenResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("register: %w", err)
	}

	var perms user.Permissions
	if req.Permissions != nil {
		perms = *req.Permissions
	}

	created, err := s.users.Create(ctx, req.Name, req.Email, hash, perms)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, nil, fmt.Errorf("register: %w", ErrEmailExists)
		}
		return nil, nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.issueToken(created.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("register: %w", err)
	}

	return created, token, nil
}

func (s *Service) Login(
	ctx context.Context,
	req *LoginRequest,
) (*user.User, *TokenResponse, error) {
	account, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Burn comparable time so unknown emails are not
			// distinguishable by response latency.
			s.hasher.VerifyTimingSafe(req.Password, nil)
			return nil, nil, fmt.Errorf("login: %w", ErrInvalidCredentials)
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	valid, newHash, err := s.hasher.VerifyTimingSafe(
		req.Password,
		&account.PasswordHash,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	if !valid {
		return nil, nil, fmt.Errorf("login: %w", ErrInvalidCredentials)
	}

	if !account.IsEnabled() {
		return nil, nil, fmt.Errorf("login: %w", ErrUserDisabled)
	}

	if newHash != "" {
		// Hash upgrades are best effort and never block a login.
		if err := s.users.UpdatePassword(ctx, account.ID, newHash); err != nil {
			s.logger.Warn(
				"password rehash failed",
				"user_id", account.ID,
				"error", err,
			)
		}
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	return account, token, nil
}

func (s *Service) issueToken(userID string) (*TokenResponse, error) {
	signed, err := s.jwt.CreateToken(userID)
	if err != nil {
		return nil, err
	}

	expire := s.jwt.config.TokenExpire
	return &TokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(expire.Seconds()),
		ExpiresAt: time.Now().Add(expire),
	}, nil
}
