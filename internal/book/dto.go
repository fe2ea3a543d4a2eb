// AngelaMos | 2026
// dto.go

package book

import (
	"time"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

type CreateBookRequest struct {
	Title           string    `json:"title"            validate:"required,min=1,max=512"`
	Author          string    `json:"author"           validate:"required,min=1,max=255"`
	Genre           string    `json:"genre"            validate:"required,min=1,max=128"`
	PublicationDate time.Time `json:"publication_date" validate:"required"`
	Publisher       string    `json:"publisher"        validate:"required,min=1,max=255"`
}

// UpdateBookRequest uses pointers so absent fields are left untouched.
// Unknown JSON keys are dropped on decode.
type UpdateBookRequest struct {
	Title           *string    `json:"title"            validate:"omitempty,min=1,max=512"`
	Author          *string    `json:"author"           validate:"omitempty,min=1,max=255"`
	Genre           *string    `json:"genre"            validate:"omitempty,min=1,max=128"`
	PublicationDate *time.Time `json:"publication_date" validate:"omitempty"`
	Publisher       *string    `json:"publisher"        validate:"omitempty,min=1,max=255"`
	Available       *bool      `json:"available"`
}

// HasInfoChange reports whether the update touches descriptive fields,
// which require the modify-books permission. Toggling availability
// alone does not.
func (r *UpdateBookRequest) HasInfoChange() bool {
	return r.Title != nil ||
		r.Author != nil ||
		r.Genre != nil ||
		r.PublicationDate != nil ||
		r.Publisher != nil
}

type ListBooksParams struct {
	Page            int
	PageSize        int
	Title           string
	Author          string
	Genre           string
	Publisher       string
	PublicationDate *time.Time
	Available       *bool
	IncludeDisabled bool
}

func (p *ListBooksParams) Normalize() {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

func (p *ListBooksParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type BookResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	PublicationDate time.Time `json:"publication_date"`
	Publisher       string    `json:"publisher"`
	Available       bool      `json:"available"`
	Enabled         bool      `json:"enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookListItem is the list projection: catalogue browsing exposes
// titles only.
type BookListItem struct {
	Title string `json:"title"`
}

func ToBookResponse(b *Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		PublicationDate: b.PublicationDate,
		Publisher:       b.Publisher,
		Available:       b.Available,
		Enabled:         b.Enabled,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func ToBookListItems(books []Book) []BookListItem {
	items := make([]BookListItem, len(books))
	for i := range books {
		items[i] = BookListItem{Title: books[i].Title}
	}
	return items
}
