package feed_service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/model"
	group_memory "yatube/internal/repository/group/memory"
	post_memory "yatube/internal/repository/post/memory"
	user_memory "yatube/internal/repository/user/memory"
)

type fixture struct {
	posts  *post_memory.PostRepository
	groups *group_memory.GroupRepository
	users  *user_memory.UserRepository
	svc    *FeedService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New("test")
	posts := post_memory.NewPostRepository(log)
	groups := group_memory.NewGroupRepository(log)
	users := user_memory.NewUserRepository(log)
	return &fixture{
		posts:  posts,
		groups: groups,
		users:  users,
		svc:    NewFeedService(posts, groups, users, 10, log),
	}
}

func (f *fixture) addUser(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &model.User{Username: username})
	require.NoError(t, err)
	return user
}

func (f *fixture) addGroup(t *testing.T, title, slug string) *model.Group {
	t.Helper()
	group, err := f.groups.Create(context.Background(), &model.Group{Title: title, Slug: slug})
	require.NoError(t, err)
	return group
}

func (f *fixture) addPosts(t *testing.T, authorID int64, groupID *int64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := f.posts.Create(context.Background(), &model.Post{
			AuthorID: authorID,
			GroupID:  groupID,
			Text:     fmt.Sprintf("Post number %d", i),
		})
		require.NoError(t, err)
	}
}

func TestFeedService_ListPosts_Pagination(t *testing.T) {
	f := newFixture(t)
	author := f.addUser(t, "author")
	f.addPosts(t, author.ID, nil, 13)

	first, err := f.svc.ListPosts(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, 13, first.Page.TotalItems)
	assert.Equal(t, 2, first.Page.PageCount)
	assert.True(t, first.Page.HasNext())
	assert.False(t, first.Page.HasPrev())

	second, err := f.svc.ListPosts(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 3)
	assert.False(t, second.Page.HasNext())
	assert.True(t, second.Page.HasPrev())

	third, err := f.svc.ListPosts(context.Background(), nil, 3)
	require.NoError(t, err)
	assert.Empty(t, third.Posts)
}

func TestFeedService_ListPosts_NewestFirst(t *testing.T) {
	f := newFixture(t)
	author := f.addUser(t, "author")
	f.addPosts(t, author.ID, nil, 3)

	page, err := f.svc.ListPosts(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)
	assert.Equal(t, "Post number 2", page.Posts[0].Post.Text)
	assert.Equal(t, "Post number 0", page.Posts[2].Post.Text)
	assert.Equal(t, "author", page.Posts[0].Author.Username)
}

func TestFeedService_ListPosts_Empty(t *testing.T) {
	f := newFixture(t)

	page, err := f.svc.ListPosts(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 0, page.Page.TotalItems)
	assert.Equal(t, 1, page.Page.PageCount)
}

func TestFeedService_ListGroupPosts(t *testing.T) {
	f := newFixture(t)
	author := f.addUser(t, "author")
	cats := f.addGroup(t, "Cats", "cats")
	dogs := f.addGroup(t, "Dogs", "dogs")
	f.addPosts(t, author.ID, &cats.ID, 4)
	f.addPosts(t, author.ID, nil, 2)

	group, page, err := f.svc.ListGroupPosts(context.Background(), "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, "Cats", group.Title)
	assert.Len(t, page.Posts, 4)
	for _, p := range page.Posts {
		require.NotNil(t, p.Group)
		assert.Equal(t, cats.ID, p.Group.ID)
	}

	// The other group stays empty.
	_, empty, err := f.svc.ListGroupPosts(context.Background(), "dogs", 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)
	_ = dogs
}

func TestFeedService_ListGroupPosts_UnknownSlug(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.ListGroupPosts(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, custom_errors.ErrGroupNotFound)
}

func TestFeedService_ListAuthorPosts(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.addPosts(t, alice.ID, nil, 5)
	f.addPosts(t, bob.ID, nil, 2)

	author, page, err := f.svc.ListAuthorPosts(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", author.Username)
	assert.Len(t, page.Posts, 5)
	assert.Equal(t, 5, page.Page.TotalItems)
	for _, p := range page.Posts {
		assert.Equal(t, alice.ID, p.Post.AuthorID)
	}
}

func TestFeedService_ListAuthorPosts_UnknownUsername(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.ListAuthorPosts(context.Background(), "nobody", 1)
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
}
