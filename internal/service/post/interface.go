package post_service

import (
	"context"

	"yatube/internal/model"
)

//go:generate mockery --name Service --dir . --output ../../../mocks/post --outpkg mocks --filename PostService.go
type Service interface {
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
	GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error)
	UpdatePost(ctx context.Context, editorID int64, id int64, update *model.UpdatePostDTO) (*model.Post, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
}
