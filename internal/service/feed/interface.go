package feed_service

import (
	"context"

	"yatube/internal/model"
)

//go:generate mockery --name Service --dir . --output ../../../mocks/feed --outpkg mocks --filename FeedService.go
type Service interface {
	ListPosts(ctx context.Context, filters *model.PostFilters, page int) (*model.PostPage, error)
	ListGroupPosts(ctx context.Context, slug string, page int) (*model.Group, *model.PostPage, error)
	ListAuthorPosts(ctx context.Context, username string, page int) (*model.User, *model.PostPage, error)
}
