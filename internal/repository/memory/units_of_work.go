package memory

import (
	"context"

	"yatube/internal/repository"
	group_repository "yatube/internal/repository/group"
	post_repository "yatube/internal/repository/post"
)

// MemoryUnitOfWork hands out the shared in-memory repositories. Writes apply
// immediately; Commit and Rollback are no-ops, so it provides no isolation.
// Intended for tests and local runs without postgres.
type MemoryUnitOfWork struct {
	posts  post_repository.Repository
	groups group_repository.Repository
}

func NewMemoryUOW(posts post_repository.Repository, groups group_repository.Repository) repository.UnitOfWork {
	return &MemoryUnitOfWork{posts: posts, groups: groups}
}

func (uow *MemoryUnitOfWork) Begin(ctx context.Context) (repository.Transaction, error) {
	return &MemoryTransaction{posts: uow.posts, groups: uow.groups}, nil
}

type MemoryTransaction struct {
	posts  post_repository.Repository
	groups group_repository.Repository
}

func (t *MemoryTransaction) Commit(ctx context.Context) error {
	return nil
}

func (t *MemoryTransaction) Rollback(ctx context.Context) error {
	return nil
}

func (t *MemoryTransaction) Posts() post_repository.Repository {
	return t.posts
}

func (t *MemoryTransaction) Groups() group_repository.Repository {
	return t.groups
}
