package post_service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/model"
	group_memory "yatube/internal/repository/group/memory"
	memory_uow "yatube/internal/repository/memory"
	post_memory "yatube/internal/repository/post/memory"
	user_memory "yatube/internal/repository/user/memory"
	cache_mock "yatube/mocks/cache"
)

type decoratorFixture struct {
	svc       Service
	cache     *cache_mock.PostCache
	postRepo  *post_memory.PostRepository
	userRepo  *user_memory.UserRepository
	groupRepo *group_memory.GroupRepository
}

func newDecoratorFixture(t *testing.T) *decoratorFixture {
	t.Helper()
	log := logger.New("test")
	postRepo := post_memory.NewPostRepository(log)
	groupRepo := group_memory.NewGroupRepository(log)
	userRepo := user_memory.NewUserRepository(log)
	uow := memory_uow.NewMemoryUOW(postRepo, groupRepo)

	postCache := &cache_mock.PostCache{}
	inner := NewPostService(postRepo, groupRepo, userRepo, uow, log, newMetricsMock())

	return &decoratorFixture{
		svc:       NewPostServiceCacheDecorator(inner, postCache, log, newMetricsMock()),
		cache:     postCache,
		postRepo:  postRepo,
		userRepo:  userRepo,
		groupRepo: groupRepo,
	}
}

func TestPostServiceCacheDecorator_GetPostByID_CacheHit(t *testing.T) {
	f := newDecoratorFixture(t)

	cached := &model.PostDetailed{
		Post:   &model.Post{ID: 1, AuthorID: 1, Text: "Cached text"},
		Author: &model.User{ID: 1, Username: "alice"},
	}
	f.cache.On("GetPost", mock.Anything, int64(1)).Return(cached, nil)

	// The backing repositories are empty, so this can only come from the
	// cache.
	got, err := f.svc.GetPostByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, cached, got)
}

func TestPostServiceCacheDecorator_GetPostByID_CacheMiss(t *testing.T) {
	f := newDecoratorFixture(t)
	ctx := context.Background()

	author, err := f.userRepo.Create(ctx, &model.User{Username: "alice"})
	require.NoError(t, err)
	post, err := f.postRepo.Create(ctx, &model.Post{AuthorID: author.ID, Text: "Stored text"})
	require.NoError(t, err)

	f.cache.On("GetPost", mock.Anything, post.ID).Return(nil, custom_errors.ErrCacheMiss)
	f.cache.On("SetPost", mock.Anything, mock.AnythingOfType("*model.PostDetailed")).Return(nil)

	got, err := f.svc.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stored text", got.Post.Text)
	assert.Equal(t, "alice", got.Author.Username)
	f.cache.AssertCalled(t, "SetPost", mock.Anything, mock.AnythingOfType("*model.PostDetailed"))
}

func TestPostServiceCacheDecorator_UpdatePost_InvalidatesCache(t *testing.T) {
	f := newDecoratorFixture(t)
	ctx := context.Background()

	author, err := f.userRepo.Create(ctx, &model.User{Username: "alice"})
	require.NoError(t, err)
	post, err := f.postRepo.Create(ctx, &model.Post{AuthorID: author.ID, Text: "Before"})
	require.NoError(t, err)

	f.cache.On("DeletePost", mock.Anything, post.ID).Return(nil)

	text := "After"
	updated, err := f.svc.UpdatePost(ctx, author.ID, post.ID, &model.UpdatePostDTO{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Text)
	f.cache.AssertCalled(t, "DeletePost", mock.Anything, post.ID)
}

func TestPostServiceCacheDecorator_UpdatePost_ErrorSkipsInvalidation(t *testing.T) {
	f := newDecoratorFixture(t)
	ctx := context.Background()

	author, err := f.userRepo.Create(ctx, &model.User{Username: "alice"})
	require.NoError(t, err)
	other, err := f.userRepo.Create(ctx, &model.User{Username: "bob"})
	require.NoError(t, err)
	post, err := f.postRepo.Create(ctx, &model.Post{AuthorID: author.ID, Text: "Original"})
	require.NoError(t, err)

	text := "Hijacked"
	_, err = f.svc.UpdatePost(ctx, other.ID, post.ID, &model.UpdatePostDTO{Text: &text})
	assert.ErrorIs(t, err, custom_errors.ErrForbidden)
	f.cache.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
}
