// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acervolib/library-api/internal/core"
)

type fakeRepository struct {
	users map[string]*User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[string]*User)}
}

func (f *fakeRepository) Create(_ context.Context, user *User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email && existing.Enabled {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	user.Enabled = true
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeRepository) GetByID(
	_ context.Context,
	id string,
	includeDisabled bool,
) (*User, error) {
	stored, ok := f.users[id]
	if !ok || (!includeDisabled && !stored.Enabled) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	out := *stored
	return &out, nil
}

func (f *fakeRepository) GetByEmail(
	_ context.Context,
	email string,
	includeDisabled bool,
) (*User, error) {
	for _, stored := range f.users {
		if stored.Email == email && (includeDisabled || stored.Enabled) {
			out := *stored
			return &out, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeRepository) Update(_ context.Context, user *User) error {
	stored, ok := f.users[user.ID]
	if !ok || !stored.Enabled {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	updated := *user
	updated.Enabled = stored.Enabled
	f.users[user.ID] = &updated
	return nil
}

func (f *fakeRepository) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	stored, ok := f.users[id]
	if !ok || !stored.Enabled {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	stored.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepository) SoftDelete(_ context.Context, id string) error {
	stored, ok := f.users[id]
	if !ok || !stored.Enabled {
		return fmt.Errorf("disable user: %w", core.ErrNotFound)
	}
	stored.Enabled = false
	return nil
}

func (f *fakeRepository) ExistsByEmail(
	_ context.Context,
	email string,
) (bool, error) {
	for _, stored := range f.users {
		if stored.Email == email && stored.Enabled {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, core.NewPasswordHasher(core.HasherConfig{}))
}

func seedUser(t *testing.T, svc Service, name, email string) *User {
	t.Helper()
	created, err := svc.Create(
		context.Background(),
		name,
		email,
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		Permissions{},
	)
	require.NoError(t, err)
	return created
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeRepository())

	seedUser(t, svc, "Ana", "ana@example.com")

	_, err := svc.Create(
		context.Background(),
		"Other Ana",
		"Ana@Example.com",
		"hash",
		Permissions{},
	)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestUpdateRequiresPermissionOrSelf(t *testing.T) {
	svc := newTestService(newFakeRepository())

	target := seedUser(t, svc, "Ana", "ana@example.com")
	stranger := seedUser(t, svc, "Bob", "bob@example.com")

	newName := "Renamed"
	req := &UpdateUserRequest{Name: &newName}

	_, err := svc.Update(context.Background(), target.ID, req, stranger)
	assert.ErrorIs(t, err, core.ErrForbidden)

	updated, err := svc.Update(context.Background(), target.ID, req, target)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	manager := seedUser(t, svc, "Mia", "mia@example.com")
	manager.ModifyUsers = true

	other := "Managed"
	updated, err = svc.Update(
		context.Background(),
		target.ID,
		&UpdateUserRequest{Name: &other},
		manager,
	)
	require.NoError(t, err)
	assert.Equal(t, "Managed", updated.Name)
}

func TestUpdateEmailConflict(t *testing.T) {
	svc := newTestService(newFakeRepository())

	seedUser(t, svc, "Ana", "ana@example.com")
	target := seedUser(t, svc, "Bob", "bob@example.com")

	taken := "ana@example.com"
	_, err := svc.Update(
		context.Background(),
		target.ID,
		&UpdateUserRequest{Email: &taken},
		target,
	)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	// keeping your own email is not a conflict
	same := "bob@example.com"
	_, err = svc.Update(
		context.Background(),
		target.ID,
		&UpdateUserRequest{Email: &same},
		target,
	)
	assert.NoError(t, err)
}

func TestUpdatePasswordIsRehashed(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	target := seedUser(t, svc, "Ana", "ana@example.com")

	password := "correct horse battery staple"
	updated, err := svc.Update(
		context.Background(),
		target.ID,
		&UpdateUserRequest{Password: &password},
		target,
	)
	require.NoError(t, err)
	assert.NotEqual(t, password, updated.PasswordHash)
	assert.NotEqual(t, target.PasswordHash, updated.PasswordHash)

	hasher := core.NewPasswordHasher(core.HasherConfig{})
	valid, err := hasher.Verify(password, updated.PasswordHash)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestDisableUser(t *testing.T) {
	svc := newTestService(newFakeRepository())

	target := seedUser(t, svc, "Ana", "ana@example.com")
	stranger := seedUser(t, svc, "Bob", "bob@example.com")

	err := svc.Disable(context.Background(), target.ID, stranger)
	assert.ErrorIs(t, err, core.ErrForbidden)

	require.NoError(t, svc.Disable(context.Background(), target.ID, target))

	_, err = svc.Get(context.Background(), target.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// a second disable reports the account as gone
	admin := seedUser(t, svc, "Mia", "mia@example.com")
	admin.DisableUsers = true
	err = svc.Disable(context.Background(), target.ID, admin)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLoadAuthenticatedRejectsDisabled(t *testing.T) {
	svc := newTestService(newFakeRepository())

	target := seedUser(t, svc, "Ana", "ana@example.com")

	loaded, err := svc.LoadAuthenticated(context.Background(), target.ID)
	require.NoError(t, err)
	require.IsType(t, &User{}, loaded)

	require.NoError(t, svc.Disable(context.Background(), target.ID, target))

	_, err = svc.LoadAuthenticated(context.Background(), target.ID)
	assert.True(t, errors.Is(err, core.ErrUnauthorized))
}
