package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/metrics"
	"yatube/internal/model"
	"yatube/internal/repository/postgres/db"
)

type PostRepository struct {
	db      db.PgDB
	log     *logger.Logger
	metrics metrics.Provider
}

func NewPostRepository(db db.PgDB, log *logger.Logger, metrics metrics.Provider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	args := pgx.NamedArgs{
		"author_id":  post.AuthorID,
		"group_id":   post.GroupID,
		"text":       post.Text,
		"created_at": pgtype.Timestamp{Time: time.Now(), Valid: true},
	}

	query := `
		INSERT INTO posts (author_id, group_id, text, created_at)
		VALUES (@author_id, @group_id, @text, @created_at)
		RETURNING id, author_id, group_id, text, created_at`

	var createdPost model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&createdPost.ID,
		&createdPost.AuthorID,
		&createdPost.GroupID,
		&createdPost.Text,
		&createdPost.CreatedAt,
	)
	p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))

	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_create", false)
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_create", true)
	return &createdPost, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	start := time.Now()
	args := pgx.NamedArgs{"id": id}
	query := `SELECT id, author_id, group_id, text, created_at
				FROM posts WHERE id = @id`

	post := &model.Post{}
	err := p.db.QueryRow(ctx, query, args).Scan(
		&post.ID,
		&post.AuthorID,
		&post.GroupID,
		&post.Text,
		&post.CreatedAt,
	)
	p.metrics.RecordDatabaseQueryDuration("post_get_by_id", time.Since(start))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.metrics.IncrementDatabaseQueries("post_get_by_id", true)
			p.log.Debug("Post not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.metrics.IncrementDatabaseQueries("post_get_by_id", false)
		p.log.Error("Error getting post by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_get_by_id", true)
	return post, nil
}

func (p *PostRepository) Update(ctx context.Context, id int64, update *model.UpdatePostDTO) (*model.Post, error) {
	setClauses := []string{}
	args := pgx.NamedArgs{"id": id}

	if update.Text != nil {
		setClauses = append(setClauses, "text = @text")
		args["text"] = *update.Text
	}
	if update.GroupID != nil {
		setClauses = append(setClauses, "group_id = @group_id")
		args["group_id"] = *update.GroupID
	}

	if len(setClauses) == 0 {
		return nil, custom_errors.ErrNoUpdateRows
	}

	query := "UPDATE posts SET " + strings.Join(setClauses, ", ") +
		" WHERE id = @id RETURNING id, author_id, group_id, text, created_at"

	start := time.Now()
	var updatedPost model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&updatedPost.ID,
		&updatedPost.AuthorID,
		&updatedPost.GroupID,
		&updatedPost.Text,
		&updatedPost.CreatedAt,
	)
	p.metrics.RecordDatabaseQueryDuration("post_update", time.Since(start))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.metrics.IncrementDatabaseQueries("post_update", true)
			p.log.Debug("Post not found by id during Update", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.metrics.IncrementDatabaseQueries("post_update", false)
		p.log.Error("Error updating post", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_update", true)
	return &updatedPost, nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	args := pgx.NamedArgs{}
	whereClauses := []string{}

	if filters.AuthorID != nil {
		whereClauses = append(whereClauses, "author_id = @author_id")
		args["author_id"] = *filters.AuthorID
	}
	if filters.GroupID != nil {
		whereClauses = append(whereClauses, "group_id = @group_id")
		args["group_id"] = *filters.GroupID
	}

	condition := ""
	if len(whereClauses) > 0 {
		condition = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	start := time.Now()
	var total int
	countQuery := "SELECT COUNT(*) FROM posts" + condition
	if err := p.db.QueryRow(ctx, countQuery, args).Scan(&total); err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	query := "SELECT id, author_id, group_id, text, created_at FROM posts" + condition +
		" ORDER BY created_at DESC, id DESC"
	if filters.Limit != nil {
		query += " LIMIT @limit"
		args["limit"] = *filters.Limit
	}
	if filters.Offset != nil {
		query += " OFFSET @offset"
		args["offset"] = *filters.Offset
	}

	rows, err := p.db.Query(ctx, query, args)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.GroupID,
			&post.Text,
			&post.CreatedAt,
		)
		if err != nil {
			p.metrics.IncrementDatabaseQueries("post_list", false)
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, 0, custom_errors.ErrDatabaseScan
		}
		posts = append(posts, &post)
	}

	if err = rows.Err(); err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_list", true)
	p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
	return posts, total, nil
}

func (p *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	start := time.Now()
	args := pgx.NamedArgs{"author_id": authorID}
	query := `SELECT COUNT(*) FROM posts WHERE author_id = @author_id`

	var count int
	err := p.db.QueryRow(ctx, query, args).Scan(&count)
	p.metrics.RecordDatabaseQueryDuration("post_count_by_author", time.Since(start))

	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_count_by_author", false)
		p.log.Error("Error counting posts by author", slog.Int64("author_id", authorID), slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_count_by_author", true)
	return count, nil
}
