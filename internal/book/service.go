// AngelaMos | 2026
// service.go

package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/acervolib/library-api/internal/core"
	"github.com/acervolib/library-api/internal/user"
)

type Service interface {
	Create(ctx context.Context, req *CreateBookRequest) (*Book, error)
	Get(ctx context.Context, id string, includeDisabled bool) (*Book, error)
	List(ctx context.Context, params ListBooksParams) ([]Book, int, error)
	Update(
		ctx context.Context,
		id string,
		req *UpdateBookRequest,
		requester *user.User,
	) (*Book, error)
	Disable(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(
	ctx context.Context,
	req *CreateBookRequest,
) (*Book, error) {
	book := &Book{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		PublicationDate: req.PublicationDate,
		Publisher:       req.Publisher,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("create book: %w", core.ErrConflict)
		}
		return nil, err
	}

	return book, nil
}

func (s *service) Get(
	ctx context.Context,
	id string,
	includeDisabled bool,
) (*Book, error) {
	return s.repo.GetByID(ctx, id, includeDisabled)
}

func (s *service) List(
	ctx context.Context,
	params ListBooksParams,
) ([]Book, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req *UpdateBookRequest,
	requester *user.User,
) (*Book, error) {
	if req.HasInfoChange() && !requester.CanModifyBooks() {
		return nil, fmt.Errorf("update book: %w", core.ErrForbidden)
	}

	book, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.PublicationDate != nil {
		book.PublicationDate = *req.PublicationDate
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.Available != nil {
		book.Available = *req.Available
	}

	if err := s.repo.Update(ctx, book); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("update book: %w", core.ErrConflict)
		}
		return nil, err
	}

	return book, nil
}

func (s *service) Disable(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}
