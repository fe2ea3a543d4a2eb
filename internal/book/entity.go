// AngelaMos | 2026
// entity.go

package book

import (
	"time"
)

type Book struct {
	ID              string    `db:"id"               json:"id"`
	Title           string    `db:"title"            json:"title"`
	Author          string    `db:"author"           json:"author"`
	Genre           string    `db:"genre"            json:"genre"`
	PublicationDate time.Time `db:"publication_date" json:"publication_date"`
	Publisher       string    `db:"publisher"        json:"publisher"`
	Available       bool      `db:"available"        json:"available"`
	Enabled         bool      `db:"enabled"          json:"enabled"`
	CreatedAt       time.Time `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"       json:"updated_at"`
}

// IsAvailable reports whether the book can be reserved right now.
func (b *Book) IsAvailable() bool {
	return b.Available && b.Enabled
}

func (b *Book) MarkUnavailable() {
	b.Available = false
}

func (b *Book) MarkAvailable() {
	b.Available = true
}

// Disable soft deletes the book. A disabled book is never available.
func (b *Book) Disable() {
	b.Enabled = false
	b.Available = false
}
