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

func newRepo() *GroupRepository {
	return NewGroupRepository(logger.New("test"))
}

func TestGroupRepository_CreateAndGet(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Group{Title: "Cats", Slug: "cats", Description: "About cats"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cats", byID.Title)

	bySlug, err := repo.GetBySlug(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)
}

func TestGroupRepository_DuplicateSlug(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.Group{Title: "Cats", Slug: "cats"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.Group{Title: "Other cats", Slug: "cats"})
	assert.ErrorIs(t, err, custom_errors.ErrSlugExists)
}

func TestGroupRepository_NotFound(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, custom_errors.ErrGroupNotFound)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, custom_errors.ErrGroupNotFound)
}

func TestGroupRepository_List(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.Group{Title: "Dogs", Slug: "dogs"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &model.Group{Title: "Cats", Slug: "cats"})
	require.NoError(t, err)

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	// Sorted by title.
	assert.Equal(t, "Cats", groups[0].Title)
	assert.Equal(t, "Dogs", groups[1].Title)
}
