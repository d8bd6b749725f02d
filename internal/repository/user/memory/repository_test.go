package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/model"
)

func newRepo() *UserRepository {
	return NewUserRepository(logger.New("test"))
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.User{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.True(t, created.CreatedAt.Valid)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byUsername, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.User{Username: "alice"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.User{Username: "alice"})
	assert.ErrorIs(t, err, custom_errors.ErrUsernameExists)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
}
