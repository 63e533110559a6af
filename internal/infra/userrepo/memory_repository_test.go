package userrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmwise/internal/domain/auth"
)

func TestMemoryRepository_CreateAndLookup(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	created := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

	user, err := repo.Create(ctx, auth.User{Email: "farmer@example.zm", Name: "Mutale", PasswordHash: "hash", CreatedAt: created})
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	_, err = repo.Create(ctx, auth.User{Email: "farmer@example.zm", Name: "Other"})
	require.ErrorIs(t, err, auth.ErrEmailExists)

	byEmail, found, err := repo.FindByEmail(ctx, "farmer@example.zm")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, user.ID, byEmail.ID)

	_, found, err = repo.FindByID(ctx, 42)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryRepository_UpdateKeepsIdentity(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	user, err := repo.Create(ctx, auth.User{Email: "farmer@example.zm", Name: "Mutale", PasswordHash: "hash"})
	require.NoError(t, err)

	user.Email = "changed@example.zm"
	user.Location = "Mazabuka"
	user.PasswordHash = "new-hash"
	updated, err := repo.Update(ctx, user)
	require.NoError(t, err)
	require.Equal(t, "farmer@example.zm", updated.Email)
	require.Equal(t, "Mazabuka", updated.Location)
	require.Equal(t, "new-hash", updated.PasswordHash)

	_, err = repo.Update(ctx, auth.User{ID: 99})
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}
