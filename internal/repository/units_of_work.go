package repository

import (
	"context"

	group_repository "yatube/internal/repository/group"
	post_repository "yatube/internal/repository/post"
)

//go:generate mockery --name UnitOfWork --dir . --output ../../mocks/repository --outpkg mocks --filename UnitOfWork.go
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

//go:generate mockery --name Transaction --dir . --output ../../mocks/repository --outpkg mocks --filename Transaction.go
type Transaction interface {
	Posts() post_repository.Repository
	Groups() group_repository.Repository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
