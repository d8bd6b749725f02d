package group_repository

import (
	"context"

	"yatube/internal/model"
)

//go:generate mockery --name Repository --dir . --output ../../../mocks/group --outpkg mocks --filename GroupRepository.go
type Repository interface {
	Create(ctx context.Context, group *model.Group) (*model.Group, error)
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
}
