// AngelaMos | 2026
// entity.go

package reservation

import (
	"time"
)

type Reservation struct {
	ID         string     `db:"id"          json:"id"`
	UserID     string     `db:"user_id"     json:"user_id"`
	BookID     string     `db:"book_id"     json:"book_id"`
	ReservedAt time.Time  `db:"reserved_at" json:"reserved_at"`
	ReturnedAt *time.Time `db:"returned_at" json:"returned_at"`
	Active     bool       `db:"active"      json:"active"`
	CreatedAt  time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"  json:"updated_at"`
}

// Return closes the reservation.
func (r *Reservation) Return(at time.Time) {
	r.Active = false
	r.ReturnedAt = &at
}

// HistoryEntry is a reservation row joined with display fields of the
// counterpart side: book details for a user's history, user details
// for a book's history.
type HistoryEntry struct {
	ID         string     `db:"id"          json:"id"`
	UserID     string     `db:"user_id"     json:"user_id"`
	BookID     string     `db:"book_id"     json:"book_id"`
	ReservedAt time.Time  `db:"reserved_at" json:"reserved_at"`
	ReturnedAt *time.Time `db:"returned_at" json:"returned_at"`
	Active     bool       `db:"active"      json:"active"`

	UserName  string `db:"user_name"  json:"user_name,omitempty"`
	UserEmail string `db:"user_email" json:"user_email,omitempty"`

	BookTitle  string `db:"book_title"  json:"book_title,omitempty"`
	BookAuthor string `db:"book_author" json:"book_author,omitempty"`
	BookGenre  string `db:"book_genre"  json:"book_genre,omitempty"`
}
