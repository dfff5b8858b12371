package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

func seedUsers(t *testing.T, s *Store, users ...domain.User) {
	t.Helper()
	for i := range users {
		_, err := s.Users().Create(context.Background(), &users[i])
		require.NoError(t, err)
	}
}

func TestUserRepository_Uniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUsers(t, s, domain.User{ID: "u1", Email: "a@example.com"})

	_, err := s.Users().Create(ctx, &domain.User{ID: "u2", Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = s.Users().Create(ctx, &domain.User{ID: "u1", Email: "b@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = s.Users().FindByID(ctx, "u2")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = s.Users().FindByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestContactRepository_PairIsUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Contacts()

	require.NoError(t, repo.Create(ctx, &domain.Contact{ID: "c1", UserID: "u1", ContactUserID: "u2"}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Contact{ID: "c2", UserID: "u1", ContactUserID: "u2"}), domain.ErrContactExists)
	assert.NoError(t, repo.Create(ctx, &domain.Contact{ID: "c3", UserID: "u2", ContactUserID: "u1"}))
}

func TestContactRepository_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUsers(t, s, domain.User{ID: "u2", Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, s.Contacts().Create(ctx, &domain.Contact{ID: "c1", UserID: "u1", ContactUserID: "u2", Tags: []string{"a"}}))

	got, err := s.Contacts().FindOwned(ctx, "u1", "c1")
	require.NoError(t, err)
	require.NotNil(t, got.ContactUser)
	assert.Equal(t, "Bob", got.ContactUser.Name)
	got.Tags[0] = "mutated"

	again, err := s.Contacts().FindOwned(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Tags)

	_, err = s.Contacts().FindOwned(ctx, "someone-else", "c1")
	assert.ErrorIs(t, err, domain.ErrContactNotFound)
}

func TestContactRepository_UpdateAppliesOnlySetFields(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	notes := "keep"
	require.NoError(t, s.Contacts().Create(ctx, &domain.Contact{ID: "c1", UserID: "u1", ContactUserID: "u2", Notes: &notes, Tags: []string{"x"}, IsActive: true}))

	stamp := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	inactive := false
	got, err := s.Contacts().Update(ctx, "u1", "c1", ports.ContactPatch{IsActive: &inactive, UpdatedAt: stamp})
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "keep", *got.Notes)
	assert.Equal(t, []string{"x"}, got.Tags)
	assert.Equal(t, stamp, got.UpdatedAt)

	_, err = s.Contacts().Update(ctx, "u9", "c1", ports.ContactPatch{UpdatedAt: stamp})
	assert.ErrorIs(t, err, domain.ErrContactNotFound)
}

func TestContactRepository_ListSearchIsLiteral(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUsers(t, s,
		domain.User{ID: "u2", Email: "a.b@example.com", Name: "Dot"},
		domain.User{ID: "u3", Email: "axb@example.com", Name: "Ex"},
	)
	require.NoError(t, s.Contacts().Create(ctx, &domain.Contact{ID: "c1", UserID: "u1", ContactUserID: "u2"}))
	require.NoError(t, s.Contacts().Create(ctx, &domain.Contact{ID: "c2", UserID: "u1", ContactUserID: "u3"}))

	items, total, err := s.Contacts().List(ctx, ports.ContactQuery{OwnerID: "u1", Search: "A.B"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "c1", items[0].ID)

	items, total, err = s.Contacts().List(ctx, ports.ContactQuery{OwnerID: "u1", Skip: 5, Take: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Empty(t, items)
}

func TestContactRepository_ListOutOfRangeSkip(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUsers(t, s, domain.User{ID: "u2", Email: "b@example.com"})
	require.NoError(t, s.Contacts().Create(ctx, &domain.Contact{ID: "c1", UserID: "u1", ContactUserID: "u2"}))

	for _, skip := range []int{-10, math.MinInt, math.MaxInt} {
		items, total, err := s.Contacts().List(ctx, ports.ContactQuery{OwnerID: "u1", Skip: skip, Take: 10})
		require.NoError(t, err, "skip %d", skip)
		assert.EqualValues(t, 1, total)
		assert.Empty(t, items)
	}

	items, _, err := s.Contacts().List(ctx, ports.ContactQuery{OwnerID: "u1", Take: math.MaxInt})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
