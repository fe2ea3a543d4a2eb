// AngelaMos | 2026
// service_test.go

package book

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acervolib/library-api/internal/core"
	"github.com/acervolib/library-api/internal/user"
)

type fakeRepository struct {
	books map[string]*Book
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{books: make(map[string]*Book)}
}

func (f *fakeRepository) Create(_ context.Context, book *Book) error {
	for _, existing := range f.books {
		if existing.Enabled &&
			existing.Title == book.Title &&
			existing.Author == book.Author {
			return fmt.Errorf("create book: %w", core.ErrDuplicateKey)
		}
	}
	book.Available = true
	book.Enabled = true
	stored := *book
	f.books[book.ID] = &stored
	return nil
}

func (f *fakeRepository) GetByID(
	_ context.Context,
	id string,
	includeDisabled bool,
) (*Book, error) {
	stored, ok := f.books[id]
	if !ok || (!includeDisabled && !stored.Enabled) {
		return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
	}
	out := *stored
	return &out, nil
}

func (f *fakeRepository) List(
	_ context.Context,
	params ListBooksParams,
) ([]Book, int, error) {
	matched := []Book{}
	for _, stored := range f.books {
		if !params.IncludeDisabled && !stored.Enabled {
			continue
		}
		if params.Title != "" && !strings.Contains(
			strings.ToLower(stored.Title),
			strings.ToLower(params.Title),
		) {
			continue
		}
		if params.Available != nil && stored.Available != *params.Available {
			continue
		}
		matched = append(matched, *stored)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Title < matched[j].Title
	})

	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (f *fakeRepository) Update(_ context.Context, book *Book) error {
	stored, ok := f.books[book.ID]
	if !ok || !stored.Enabled {
		return fmt.Errorf("update book: %w", core.ErrNotFound)
	}
	updated := *book
	updated.Enabled = stored.Enabled
	f.books[book.ID] = &updated
	return nil
}

func (f *fakeRepository) SoftDelete(_ context.Context, id string) error {
	stored, ok := f.books[id]
	if !ok || !stored.Enabled {
		return fmt.Errorf("disable book: %w", core.ErrNotFound)
	}
	stored.Enabled = false
	stored.Available = false
	return nil
}

func (f *fakeRepository) MarkUnavailable(
	_ context.Context,
	id string,
) (bool, error) {
	stored, ok := f.books[id]
	if !ok || !stored.Enabled || !stored.Available {
		return false, nil
	}
	stored.Available = false
	return true, nil
}

func (f *fakeRepository) MarkAvailable(_ context.Context, id string) error {
	stored, ok := f.books[id]
	if ok && stored.Enabled {
		stored.Available = true
	}
	return nil
}

func seedBook(t *testing.T, svc Service, title, author string) *Book {
	t.Helper()
	created, err := svc.Create(context.Background(), &CreateBookRequest{
		Title:           title,
		Author:          author,
		Genre:           "fiction",
		PublicationDate: time.Date(1955, 3, 1, 0, 0, 0, 0, time.UTC),
		Publisher:       "Acme Press",
	})
	require.NoError(t, err)
	return created
}

func TestCreateDuplicate(t *testing.T) {
	svc := NewService(newFakeRepository())

	seedBook(t, svc, "Dune", "Frank Herbert")

	_, err := svc.Create(context.Background(), &CreateBookRequest{
		Title:           "Dune",
		Author:          "Frank Herbert",
		Genre:           "sci-fi",
		PublicationDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
		Publisher:       "Chilton",
	})
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestCreateSameTitleDifferentAuthor(t *testing.T) {
	svc := NewService(newFakeRepository())

	seedBook(t, svc, "Collected Poems", "Frost")
	created := seedBook(t, svc, "Collected Poems", "Plath")

	assert.True(t, created.Available)
	assert.True(t, created.Enabled)
}

func TestUpdateInfoRequiresPermission(t *testing.T) {
	svc := NewService(newFakeRepository())

	target := seedBook(t, svc, "Dune", "Frank Herbert")
	reader := &user.User{ID: "u-1"}

	newTitle := "Dune Messiah"
	_, err := svc.Update(
		context.Background(),
		target.ID,
		&UpdateBookRequest{Title: &newTitle},
		reader,
	)
	assert.ErrorIs(t, err, core.ErrForbidden)

	librarian := &user.User{
		ID:          "u-2",
		Permissions: user.Permissions{ModifyBooks: true},
	}
	updated, err := svc.Update(
		context.Background(),
		target.ID,
		&UpdateBookRequest{Title: &newTitle},
		librarian,
	)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
}

func TestUpdateAvailabilityAloneNeedsNoPermission(t *testing.T) {
	svc := NewService(newFakeRepository())

	target := seedBook(t, svc, "Dune", "Frank Herbert")
	reader := &user.User{ID: "u-1"}

	unavailable := false
	updated, err := svc.Update(
		context.Background(),
		target.ID,
		&UpdateBookRequest{Available: &unavailable},
		reader,
	)
	require.NoError(t, err)
	assert.False(t, updated.Available)
}

func TestUpdateMissingBook(t *testing.T) {
	svc := NewService(newFakeRepository())

	available := true
	_, err := svc.Update(
		context.Background(),
		"missing",
		&UpdateBookRequest{Available: &available},
		&user.User{ID: "u-1"},
	)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDisableClearsAvailability(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	target := seedBook(t, svc, "Dune", "Frank Herbert")

	require.NoError(t, svc.Disable(context.Background(), target.ID))

	stored := repo.books[target.ID]
	assert.False(t, stored.Enabled)
	assert.False(t, stored.Available)

	_, err := svc.Get(context.Background(), target.ID, false)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// still visible when disabled records are requested
	got, err := svc.Get(context.Background(), target.ID, true)
	require.NoError(t, err)
	assert.False(t, got.Enabled)
}

func TestListPagination(t *testing.T) {
	svc := NewService(newFakeRepository())

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		seedBook(t, svc, title, "Author")
	}

	books, total, err := svc.List(context.Background(), ListBooksParams{
		Page:     1,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, books, 2)
	assert.Equal(t, "Alpha", books[0].Title)
	assert.Equal(t, "Beta", books[1].Title)

	books, _, err = svc.List(context.Background(), ListBooksParams{
		Page:     2,
		PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Gamma", books[0].Title)
}

func TestListParamsNormalize(t *testing.T) {
	params := ListBooksParams{Page: 0, PageSize: -3}
	params.Normalize()
	assert.Equal(t, defaultPage, params.Page)
	assert.Equal(t, defaultPageSize, params.PageSize)
	assert.Equal(t, 0, params.Offset())

	params = ListBooksParams{Page: 3, PageSize: 1000}
	params.Normalize()
	assert.Equal(t, maxPageSize, params.PageSize)
	assert.Equal(t, 2*maxPageSize, params.Offset())
}
