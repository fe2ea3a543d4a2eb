// AngelaMos | 2026
// service.go

package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/acervolib/library-api/internal/book"
	"github.com/acervolib/library-api/internal/core"
	"github.com/acervolib/library-api/internal/user"
)

var (
	ErrBookNotAvailable = fmt.Errorf(
		"book not available: %w", core.ErrConflict,
	)
	ErrAlreadyReserved = fmt.Errorf(
		"reservation already active: %w", core.ErrConflict,
	)
)

// BookStore is the slice of the book repository the reservation flow
// needs. Claiming goes through the conditional update so concurrent
// reservations of the same copy cannot both succeed.
type BookStore interface {
	GetByID(
		ctx context.Context,
		id string,
		includeDisabled bool,
	) (*book.Book, error)
	MarkUnavailable(ctx context.Context, id string) (bool, error)
	MarkAvailable(ctx context.Context, id string) error
}

type UserStore interface {
	GetByID(
		ctx context.Context,
		id string,
		includeDisabled bool,
	) (*user.User, error)
}

type Service interface {
	Create(
		ctx context.Context,
		bookID string,
		requester *user.User,
	) (*Reservation, error)
	Return(
		ctx context.Context,
		reservationID string,
		requester *user.User,
	) (*Reservation, error)
	UserHistory(
		ctx context.Context,
		userID string,
		requester *user.User,
	) ([]HistoryEntry, error)
	BookHistory(ctx context.Context, bookID string) ([]HistoryEntry, error)
}

type service struct {
	repo   Repository
	books  BookStore
	users  UserStore
	logger *slog.Logger
}

func NewService(
	repo Repository,
	books BookStore,
	users UserStore,
	logger *slog.Logger,
) Service {
	return &service{
		repo:   repo,
		books:  books,
		users:  users,
		logger: logger,
	}
}

// Create reserves a book for the requesting user. The book's copy is
// claimed with a conditional update before the reservation row is
// inserted; when the insert loses the unique-active race the claim is
// released again.
func (s *service) Create(
	ctx context.Context,
	bookID string,
	requester *user.User,
) (*Reservation, error) {
	b, err := s.books.GetByID(ctx, bookID, false)
	if err != nil {
		return nil, err
	}

	if !b.IsAvailable() {
		return nil, fmt.Errorf("create reservation: %w", ErrBookNotAvailable)
	}

	active, err := s.repo.HasActive(ctx, requester.ID, bookID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, fmt.Errorf("create reservation: %w", ErrAlreadyReserved)
	}

	claimed, err := s.books.MarkUnavailable(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("create reservation: %w", ErrBookNotAvailable)
	}

	res := &Reservation{
		ID:     uuid.New().String(),
		UserID: requester.ID,
		BookID: bookID,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		if releaseErr := s.books.MarkAvailable(ctx, bookID); releaseErr != nil {
			s.logger.Error(
				"failed to release claimed book",
				"book_id", bookID,
				"error", releaseErr,
			)
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("create reservation: %w", ErrAlreadyReserved)
		}
		return nil, err
	}

	return res, nil
}

// Return closes a reservation on behalf of its owner or a caller with
// the modify-users permission.
func (s *service) Return(
	ctx context.Context,
	reservationID string,
	requester *user.User,
) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if res.UserID != requester.ID && !requester.CanModifyUsers() {
		return nil, fmt.Errorf("return reservation: %w", core.ErrForbidden)
	}

	if !res.Active {
		return nil, fmt.Errorf(
			"return reservation: already returned: %w",
			core.ErrConflict,
		)
	}

	res.Return(time.Now())
	if err := s.repo.MarkReturned(ctx, res); err != nil {
		return nil, err
	}

	// Best effort: a book disabled since the reservation was taken
	// stays unavailable, and a vanished row is tolerated.
	if err := s.books.MarkAvailable(ctx, res.BookID); err != nil {
		s.logger.Warn(
			"failed to restore book availability",
			"book_id", res.BookID,
			"error", err,
		)
	}

	return res, nil
}

func (s *service) UserHistory(
	ctx context.Context,
	userID string,
	requester *user.User,
) ([]HistoryEntry, error) {
	if userID != requester.ID && !requester.CanModifyUsers() {
		return nil, fmt.Errorf("user history: %w", core.ErrForbidden)
	}

	if _, err := s.users.GetByID(ctx, userID, true); err != nil {
		return nil, err
	}

	return s.repo.ListByUser(ctx, userID)
}

func (s *service) BookHistory(
	ctx context.Context,
	bookID string,
) ([]HistoryEntry, error) {
	if _, err := s.books.GetByID(ctx, bookID, true); err != nil {
		return nil, err
	}

	return s.repo.ListByBook(ctx, bookID)
}
