package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yatube/internal/logger"
	"yatube/internal/metrics"
	"yatube/internal/repository"
	group_repository "yatube/internal/repository/group"
	group_repository_postgres "yatube/internal/repository/group/postgres"
	post_repository "yatube/internal/repository/post"
	post_repository_postgres "yatube/internal/repository/post/postgres"
)

type PostgresUnitOfWork struct {
	pool    *pgxpool.Pool
	log     *logger.Logger
	metrics metrics.Provider
}

func NewPostgresUOW(pool *pgxpool.Pool, log *logger.Logger, metrics metrics.Provider) repository.UnitOfWork {
	return &PostgresUnitOfWork{pool: pool, log: log, metrics: metrics}
}

func (uow *PostgresUnitOfWork) Begin(ctx context.Context) (repository.Transaction, error) {
	tx, err := uow.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return &PostgresTransaction{tx: tx, log: uow.log, metrics: uow.metrics}, nil
}

type PostgresTransaction struct {
	tx      pgx.Tx
	log     *logger.Logger
	metrics metrics.Provider
}

func (t *PostgresTransaction) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *PostgresTransaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *PostgresTransaction) Posts() post_repository.Repository {
	return post_repository_postgres.NewPostRepository(t.tx, t.log, t.metrics)
}

func (t *PostgresTransaction) Groups() group_repository.Repository {
	return group_repository_postgres.NewGroupRepository(t.tx, t.log, t.metrics)
}
