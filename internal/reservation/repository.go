// AngelaMos | 2026
// repository.go

package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/acervolib/library-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, res *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	MarkReturned(ctx context.Context, res *Reservation) error
	HasActive(ctx context.Context, userID, bookID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]HistoryEntry, error)
	ListByBook(ctx context.Context, bookID string) ([]HistoryEntry, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, res *Reservation) error {
	query := `
		INSERT INTO reservations (id, user_id, book_id)
		VALUES ($1, $2, $3)
		RETURNING reserved_at, active, created_at, updated_at`

	err := r.db.GetContext(ctx, res, query, res.ID, res.UserID, res.BookID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create reservation: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Reservation, error) {
	query := `
		SELECT id, user_id, book_id, reserved_at, returned_at, active,
		       created_at, updated_at
		FROM reservations
		WHERE id = $1`

	var res Reservation
	err := r.db.GetContext(ctx, &res, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get reservation: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}

	return &res, nil
}

// MarkReturned closes the reservation only while it is still active, so
// two concurrent returns cannot both succeed.
func (r *repository) MarkReturned(
	ctx context.Context,
	res *Reservation,
) error {
	query := `
		UPDATE reservations
		SET active = FALSE, returned_at = $2, updated_at = NOW()
		WHERE id = $1 AND active
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &res.UpdatedAt, query, res.ID, res.ReturnedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("return reservation: %w", core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("return reservation: %w", err)
	}

	return nil
}

func (r *repository) HasActive(
	ctx context.Context,
	userID, bookID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE user_id = $1 AND book_id = $2 AND active
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, bookID); err != nil {
		return false, fmt.Errorf("check active reservation: %w", err)
	}

	return exists, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]HistoryEntry, error) {
	query := `
		SELECT r.id, r.user_id, r.book_id, r.reserved_at, r.returned_at,
		       r.active,
		       b.title AS book_title, b.author AS book_author,
		       b.genre AS book_genre
		FROM reservations r
		JOIN books b ON b.id = r.book_id
		WHERE r.user_id = $1
		ORDER BY r.reserved_at DESC`

	entries := []HistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list user reservations: %w", err)
	}

	return entries, nil
}

func (r *repository) ListByBook(
	ctx context.Context,
	bookID string,
) ([]HistoryEntry, error) {
	query := `
		SELECT r.id, r.user_id, r.book_id, r.reserved_at, r.returned_at,
		       r.active,
		       u.name AS user_name, u.email AS user_email
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		WHERE r.book_id = $1
		ORDER BY r.reserved_at DESC`

	entries := []HistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, bookID); err != nil {
		return nil, fmt.Errorf("list book reservations: %w", err)
	}

	return entries, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
