// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/acervolib/library-api/internal/core"
)

type Service interface {
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(
		ctx context.Context,
		name, email, passwordHash string,
		perms Permissions,
	) (*User, error)
	Update(
		ctx context.Context,
		id string,
		req *UpdateUserRequest,
		requester *User,
	) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Disable(ctx context.Context, id string, requester *User) error
	LoadAuthenticated(ctx context.Context, id string) (any, error)
}

type service struct {
	repo   Repository
	hasher *core.PasswordHasher
}

func NewService(repo Repository, hasher *core.PasswordHasher) Service {
	return &service{repo: repo, hasher: hasher}
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id, false)
}

// GetByEmail includes disabled accounts so login can distinguish a
// disabled user from an unknown one.
func (s *service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(email), true)
}

func (s *service) Create(
	ctx context.Context,
	name, email, passwordHash string,
	perms Permissions,
) (*User, error) {
	email = strings.ToLower(email)

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	user := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Permissions:  perms,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req *UpdateUserRequest,
	requester *User,
) (*User, error) {
	if !requester.CanModifyUser(id) {
		return nil, fmt.Errorf("update user: %w", core.ErrForbidden)
	}

	user, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		if email != user.Email {
			exists, err := s.repo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, fmt.Errorf(
					"update user: %w",
					core.ErrDuplicateKey,
				)
			}
			user.Email = email
		}
	}

	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.PasswordHash = hash
	}

	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

func (s *service) Disable(
	ctx context.Context,
	id string,
	requester *User,
) error {
	if !requester.CanDisableUser(id) {
		return fmt.Errorf("disable user: %w", core.ErrForbidden)
	}

	return s.repo.SoftDelete(ctx, id)
}

// LoadAuthenticated resolves a verified token subject to its account.
// A missing or disabled account fails authentication rather than
// surfacing as a 404.
func (s *service) LoadAuthenticated(
	ctx context.Context,
	id string,
) (any, error) {
	user, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("load authenticated user: %w", core.ErrUnauthorized)
	}
	return user, nil
}
