// AngelaMos | 2026
// repository.go

package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/acervolib/library-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, book *Book) error
	GetByID(ctx context.Context, id string, includeDisabled bool) (*Book, error)
	List(ctx context.Context, params ListBooksParams) ([]Book, int, error)
	Update(ctx context.Context, book *Book) error
	SoftDelete(ctx context.Context, id string) error
	MarkUnavailable(ctx context.Context, id string) (bool, error)
	MarkAvailable(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const bookColumns = `id, title, author, genre, publication_date, publisher,
       available, enabled, created_at, updated_at`

func (r *repository) Create(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (id, title, author, genre, publication_date, publisher)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING available, enabled, created_at, updated_at`

	err := r.db.GetContext(ctx, book, query,
		book.ID,
		book.Title,
		book.Author,
		book.Genre,
		book.PublicationDate,
		book.Publisher,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create book: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create book: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
	includeDisabled bool,
) (*Book, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE id = $1`, bookColumns)
	if !includeDisabled {
		query += " AND enabled"
	}

	var book Book
	err := r.db.GetContext(ctx, &book, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &book, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListBooksParams,
) ([]Book, int, error) {
	where, args := buildListFilter(params)

	countQuery := "SELECT COUNT(*) FROM books" + where

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		ORDER BY title
		LIMIT $%d OFFSET $%d`,
		bookColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	books := []Book{}
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return books, total, nil
}

func buildListFilter(params ListBooksParams) (string, []any) {
	conditions := []string{}
	args := []any{}

	like := func(column, value string) {
		args = append(args, "%"+escapeLike(value)+"%")
		conditions = append(conditions, fmt.Sprintf(
			"%s ILIKE $%d", column, len(args),
		))
	}

	if params.Title != "" {
		like("title", params.Title)
	}
	if params.Author != "" {
		like("author", params.Author)
	}
	if params.Genre != "" {
		like("genre", params.Genre)
	}
	if params.Publisher != "" {
		like("publisher", params.Publisher)
	}

	if params.PublicationDate != nil {
		// Matches the calendar day regardless of the stored time of day.
		y, m, d := params.PublicationDate.UTC().Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		args = append(args, day)
		conditions = append(conditions, fmt.Sprintf(
			"publication_date >= $%d", len(args),
		))
		args = append(args, day.AddDate(0, 0, 1))
		conditions = append(conditions, fmt.Sprintf(
			"publication_date < $%d", len(args),
		))
	}

	if params.Available != nil {
		args = append(args, *params.Available)
		conditions = append(conditions, fmt.Sprintf(
			"available = $%d", len(args),
		))
	}

	if !params.IncludeDisabled {
		conditions = append(conditions, "enabled")
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *repository) Update(ctx context.Context, book *Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, genre = $4, publication_date = $5,
		    publisher = $6, available = $7, updated_at = NOW()
		WHERE id = $1 AND enabled
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &book.UpdatedAt, query,
		book.ID,
		book.Title,
		book.Author,
		book.Genre,
		book.PublicationDate,
		book.Publisher,
		book.Available,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update book: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update book: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update book: %w", err)
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE books
		SET enabled = FALSE, available = FALSE, updated_at = NOW()
		WHERE id = $1 AND enabled`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("disable book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("disable book: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("disable book: %w", core.ErrNotFound)
	}

	return nil
}

// MarkUnavailable claims the book for a reservation. The condition on
// available and enabled makes concurrent claims race safe: exactly one
// caller sees a row flip.
func (r *repository) MarkUnavailable(
	ctx context.Context,
	id string,
) (bool, error) {
	query := `
		UPDATE books
		SET available = FALSE, updated_at = NOW()
		WHERE id = $1 AND available AND enabled`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark book unavailable: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark book unavailable: %w", err)
	}

	return rows > 0, nil
}

func (r *repository) MarkAvailable(ctx context.Context, id string) error {
	query := `
		UPDATE books
		SET available = TRUE, updated_at = NOW()
		WHERE id = $1 AND enabled`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark book available: %w", err)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
