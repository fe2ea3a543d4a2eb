// AngelaMos | 2026
// service_test.go

package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acervolib/library-api/internal/book"
	"github.com/acervolib/library-api/internal/core"
	"github.com/acervolib/library-api/internal/user"
)

type fakeRepository struct {
	reservations map[string]*Reservation
	failCreate   error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{reservations: make(map[string]*Reservation)}
}

func (f *fakeRepository) Create(_ context.Context, res *Reservation) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	for _, existing := range f.reservations {
		if existing.Active &&
			existing.UserID == res.UserID &&
			existing.BookID == res.BookID {
			return fmt.Errorf("create reservation: %w", core.ErrDuplicateKey)
		}
	}
	res.Active = true
	res.ReservedAt = time.Now()
	stored := *res
	f.reservations[res.ID] = &stored
	return nil
}

func (f *fakeRepository) GetByID(
	_ context.Context,
	id string,
) (*Reservation, error) {
	stored, ok := f.reservations[id]
	if !ok {
		return nil, fmt.Errorf("get reservation: %w", core.ErrNotFound)
	}
	out := *stored
	return &out, nil
}

func (f *fakeRepository) MarkReturned(
	_ context.Context,
	res *Reservation,
) error {
	stored, ok := f.reservations[res.ID]
	if !ok || !stored.Active {
		return fmt.Errorf("return reservation: %w", core.ErrConflict)
	}
	stored.Active = false
	stored.ReturnedAt = res.ReturnedAt
	return nil
}

func (f *fakeRepository) HasActive(
	_ context.Context,
	userID, bookID string,
) (bool, error) {
	for _, stored := range f.reservations {
		if stored.Active &&
			stored.UserID == userID &&
			stored.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) ListByUser(
	_ context.Context,
	userID string,
) ([]HistoryEntry, error) {
	entries := []HistoryEntry{}
	for _, stored := range f.reservations {
		if stored.UserID == userID {
			entries = append(entries, HistoryEntry{
				ID:         stored.ID,
				UserID:     stored.UserID,
				BookID:     stored.BookID,
				ReservedAt: stored.ReservedAt,
				ReturnedAt: stored.ReturnedAt,
				Active:     stored.Active,
			})
		}
	}
	return entries, nil
}

func (f *fakeRepository) ListByBook(
	_ context.Context,
	bookID string,
) ([]HistoryEntry, error) {
	entries := []HistoryEntry{}
	for _, stored := range f.reservations {
		if stored.BookID == bookID {
			entries = append(entries, HistoryEntry{
				ID:         stored.ID,
				UserID:     stored.UserID,
				BookID:     stored.BookID,
				ReservedAt: stored.ReservedAt,
				ReturnedAt: stored.ReturnedAt,
				Active:     stored.Active,
			})
		}
	}
	return entries, nil
}

type fakeBookStore struct {
	books map[string]*book.Book
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{books: make(map[string]*book.Book)}
}

func (f *fakeBookStore) add(id string, available, enabled bool) {
	f.books[id] = &book.Book{
		ID:        id,
		Title:     "Title " + id,
		Author:    "Author",
		Available: available,
		Enabled:   enabled,
	}
}

func (f *fakeBookStore) GetByID(
	_ context.Context,
	id string,
	includeDisabled bool,
) (*book.Book, error) {
	stored, ok := f.books[id]
	if !ok || (!includeDisabled && !stored.Enabled) {
		return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
	}
	out := *stored
	return &out, nil
}

func (f *fakeBookStore) MarkUnavailable(
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

func (f *fakeBookStore) MarkAvailable(_ context.Context, id string) error {
	stored, ok := f.books[id]
	if ok && stored.Enabled {
		stored.Available = true
	}
	return nil
}

type fakeUserStore struct {
	users map[string]*user.User
}

func newFakeUserStore(ids ...string) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*user.User)}
	for _, id := range ids {
		f.users[id] = &user.User{ID: id, Enabled: true}
	}
	return f
}

func (f *fakeUserStore) GetByID(
	_ context.Context,
	id string,
	includeDisabled bool,
) (*user.User, error) {
	stored, ok := f.users[id]
	if !ok || (!includeDisabled && !stored.Enabled) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	out := *stored
	return &out, nil
}

type fixture struct {
	svc   Service
	repo  *fakeRepository
	books *fakeBookStore
	users *fakeUserStore
}

func newFixture() *fixture {
	repo := newFakeRepository()
	books := newFakeBookStore()
	users := newFakeUserStore("u-1", "u-2")
	svc := NewService(repo, books, users, slog.New(slog.DiscardHandler))
	return &fixture{svc: svc, repo: repo, books: books, users: users}
}

func TestCreateReservation(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-1", true, true)
	requester := &user.User{ID: "u-1", Enabled: true}

	res, err := fx.svc.Create(context.Background(), "b-1", requester)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, "u-1", res.UserID)
	assert.Equal(t, "b-1", res.BookID)
	assert.Nil(t, res.ReturnedAt)

	assert.False(t, fx.books.books["b-1"].Available, "copy is claimed")
}

func TestCreateReservationMissingOrDisabledBook(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-disabled", true, false)
	requester := &user.User{ID: "u-1", Enabled: true}

	_, err := fx.svc.Create(context.Background(), "b-missing", requester)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = fx.svc.Create(context.Background(), "b-disabled", requester)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateReservationNotAvailable(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-1", false, true)
	requester := &user.User{ID: "u-1", Enabled: true}

	_, err := fx.svc.Create(context.Background(), "b-1", requester)
	assert.ErrorIs(t, err, ErrBookNotAvailable)
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestCreateReservationAlreadyActive(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-1", true, true)
	requester := &user.User{ID: "u-1", Enabled: true}

	_, err := fx.svc.Create(context.Background(), "b-1", requester)
	require.NoError(t, err)

	_, err = fx.svc.Create(context.Background(), "b-1", requester)
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestCreateReservationInsertRaceReleasesClaim(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-1", true, true)
	fx.repo.failCreate = fmt.Errorf(
		"create reservation: %w", core.ErrDuplicateKey,
	)
	requester := &user.User{ID: "u-1", Enabled: true}

	_, err := fx.svc.Create(context.Background(), "b-1", requester)
	assert.ErrorIs(t, err, ErrAlreadyReserved)

	assert.True(t, fx.books.books["b-1"].Available, "claim released")
}

func TestReturnRoundTrip(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-1", true, true)
	requester := &user.User{ID: "u-1", Enabled: true}

	res, err := fx.svc.Create(context.Background(), "b-1", requester)
	require.NoError(t, err)

	returned, err := fx.svc.Return(context.Background(), res.ID, requester)
	require.NoError(t, err)
	assert.False(t, returned.Active)
	require.NotNil(t, returned.ReturnedAt)
	assert.False(t, returned.ReturnedAt.Before(returned.ReservedAt))

	assert.True(t, fx.books.books["b-1"].Available, "copy restored")
}

func TestReturnPermissions(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-1", true, true)
	owner := &user.User{ID: "u-1", Enabled: true}

	res, err := fx.svc.Create(context.Background(), "b-1", owner)
	require.NoError(t, err)

	stranger := &user.User{ID: "u-2", Enabled: true}
	_, err = fx.svc.Return(context.Background(), res.ID, stranger)
	assert.ErrorIs(t, err, core.ErrForbidden)

	manager := &user.User{
		ID:          "u-2",
		Enabled:     true,
		Permissions: user.Permissions{ModifyUsers: true},
	}
	_, err = fx.svc.Return(context.Background(), res.ID, manager)
	assert.NoError(t, err)
}

func TestReturnAlreadyReturned(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-1", true, true)
	requester := &user.User{ID: "u-1", Enabled: true}

	res, err := fx.svc.Create(context.Background(), "b-1", requester)
	require.NoError(t, err)

	_, err = fx.svc.Return(context.Background(), res.ID, requester)
	require.NoError(t, err)

	_, err = fx.svc.Return(context.Background(), res.ID, requester)
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestReturnMissingReservation(t *testing.T) {
	fx := newFixture()
	requester := &user.User{ID: "u-1", Enabled: true}

	_, err := fx.svc.Return(context.Background(), "missing", requester)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestReturnToleratesVanishedBook(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-1", true, true)
	requester := &user.User{ID: "u-1", Enabled: true}

	res, err := fx.svc.Create(context.Background(), "b-1", requester)
	require.NoError(t, err)

	delete(fx.books.books, "b-1")

	returned, err := fx.svc.Return(context.Background(), res.ID, requester)
	require.NoError(t, err)
	assert.False(t, returned.Active)
}

func TestUserHistoryAccessControl(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-1", true, true)
	owner := &user.User{ID: "u-1", Enabled: true}

	_, err := fx.svc.Create(context.Background(), "b-1", owner)
	require.NoError(t, err)

	entries, err := fx.svc.UserHistory(context.Background(), "u-1", owner)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	stranger := &user.User{ID: "u-2", Enabled: true}
	_, err = fx.svc.UserHistory(context.Background(), "u-1", stranger)
	assert.ErrorIs(t, err, core.ErrForbidden)

	manager := &user.User{
		ID:          "u-2",
		Enabled:     true,
		Permissions: user.Permissions{ModifyUsers: true},
	}
	entries, err = fx.svc.UserHistory(context.Background(), "u-1", manager)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUserHistoryMissingUser(t *testing.T) {
	fx := newFixture()
	manager := &user.User{
		ID:          "u-1",
		Enabled:     true,
		Permissions: user.Permissions{ModifyUsers: true},
	}

	_, err := fx.svc.UserHistory(context.Background(), "ghost", manager)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestBookHistory(t *testing.T) {
	fx := newFixture()
	fx.books.add("b-1", true, true)
	owner := &user.User{ID: "u-1", Enabled: true}

	res, err := fx.svc.Create(context.Background(), "b-1", owner)
	require.NoError(t, err)
	_, err = fx.svc.Return(context.Background(), res.ID, owner)
	require.NoError(t, err)

	entries, err := fx.svc.BookHistory(context.Background(), "b-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Active)

	_, err = fx.svc.BookHistory(context.Background(), "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
