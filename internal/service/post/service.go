package post_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/metrics"
	"yatube/internal/model"
	"yatube/internal/repository"
	group_repository "yatube/internal/repository/group"
	post_repository "yatube/internal/repository/post"
	user_repository "yatube/internal/repository/user"
)

type PostService struct {
	postRepo  post_repository.Repository
	groupRepo group_repository.Repository
	userRepo  user_repository.Repository
	uow       repository.UnitOfWork
	log       *logger.Logger
	metrics   metrics.Provider
}

func NewPostService(
	postRepo post_repository.Repository,
	groupRepo group_repository.Repository,
	userRepo user_repository.Repository,
	uow repository.UnitOfWork,
	log *logger.Logger,
	metrics metrics.Provider,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		uow:       uow,
		log:       log,
		metrics:   metrics,
	}
}

// CreatePost persists a new post for dto.AuthorID. The group reference, when
// present, must resolve to an existing group; the check and the insert share
// one transaction.
func (s *PostService) CreatePost(ctx context.Context, dto *model.CreatePostDTO) (result *model.Post, err error) {
	if strings.TrimSpace(dto.Text) == "" {
		s.log.Debug("Rejected post with empty text", slog.Int64("author_id", dto.AuthorID))
		return nil, custom_errors.ErrPostValidation
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("create", false)
		return nil, custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer func() {
		if !txCommitted && tx != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				s.log.Debug("Transaction rollback", slog.String("error", rollbackErr.Error()))
			}
		}
	}()

	if dto.GroupID != nil {
		if _, err := tx.Groups().GetByID(ctx, *dto.GroupID); err != nil {
			if errors.Is(err, custom_errors.ErrGroupNotFound) {
				s.log.Debug("Group not found for new post", slog.Int64("group_id", *dto.GroupID))
				s.metrics.IncrementPostOperations("create", false)
				return nil, custom_errors.ErrGroupNotFound
			}
			s.log.Error("Failed to check group for new post",
				slog.Int64("group_id", *dto.GroupID),
				slog.String("error", err.Error()))
			s.metrics.IncrementPostOperations("create", false)
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	newPost := &model.Post{
		AuthorID: dto.AuthorID,
		GroupID:  dto.GroupID,
		Text:     dto.Text,
	}
	createdPost, err := tx.Posts().Create(ctx, newPost)
	if err != nil {
		s.log.Error("Failed to create post", slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("create", false)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("create", false)
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	s.metrics.IncrementPostOperations("create", true)
	return createdPost, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrPostNotFound):
			s.log.Debug("Post not found", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		default:
			s.log.Error("Failed to get post by id",
				slog.String("error", err.Error()),
				slog.Int64("id", id))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	author, err := s.userRepo.GetByID(ctx, post.AuthorID)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrUserNotFound):
			s.log.Debug("Author not found", slog.Int64("author_id", post.AuthorID))
			return nil, custom_errors.ErrUserNotFound
		default:
			s.log.Error("Failed to get author",
				slog.String("error", err.Error()),
				slog.Int64("author_id", post.AuthorID))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	var group *model.Group
	if post.GroupID != nil {
		group, err = s.groupRepo.GetByID(ctx, *post.GroupID)
		if err != nil {
			s.log.Error("Failed to get group for post",
				slog.String("error", err.Error()),
				slog.Int64("group_id", *post.GroupID))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	return &model.PostDetailed{
		Post:   post,
		Author: author,
		Group:  group,
	}, nil
}

// UpdatePost applies the given changes if editorID is the post's author. A
// non-author attempt fails with ErrForbidden and leaves the post untouched.
// An update with no fields set is a no-op returning the current post.
func (s *PostService) UpdatePost(ctx context.Context, editorID int64, id int64, update *model.UpdatePostDTO) (result *model.Post, err error) {
	if update.Text != nil && strings.TrimSpace(*update.Text) == "" {
		s.log.Debug("Rejected post update with empty text", slog.Int64("id", id))
		return nil, custom_errors.ErrPostValidation
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("update", false)
		return nil, custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer func() {
		if !txCommitted && tx != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				s.log.Debug("Transaction rollback", slog.String("error", rollbackErr.Error()))
			}
		}
	}()

	existingPost, err := tx.Posts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for update", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post for update", slog.String("error", err.Error()), slog.Int64("id", id))
		s.metrics.IncrementPostOperations("update", false)
		return nil, custom_errors.ErrDatabaseQuery
	}

	if existingPost.AuthorID != editorID {
		s.log.Debug("Editor is not author of post",
			slog.Int64("editor_id", editorID),
			slog.Int64("author_id", existingPost.AuthorID))
		return nil, custom_errors.ErrForbidden
	}

	if update.Text == nil && update.GroupID == nil {
		if err := tx.Commit(ctx); err != nil {
			s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
		txCommitted = true
		return existingPost, nil
	}

	if update.GroupID != nil {
		if _, err := tx.Groups().GetByID(ctx, *update.GroupID); err != nil {
			if errors.Is(err, custom_errors.ErrGroupNotFound) {
				s.log.Debug("Group not found for post update", slog.Int64("group_id", *update.GroupID))
				s.metrics.IncrementPostOperations("update", false)
				return nil, custom_errors.ErrGroupNotFound
			}
			s.log.Error("Failed to check group for post update",
				slog.Int64("group_id", *update.GroupID),
				slog.String("error", err.Error()))
			s.metrics.IncrementPostOperations("update", false)
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	updatedPost, err := tx.Posts().Update(ctx, id, update)
	if err != nil {
		s.log.Error("Failed to update post", slog.String("error", err.Error()), slog.Int64("id", id))
		s.metrics.IncrementPostOperations("update", false)
		return nil, custom_errors.ErrDatabaseQuery
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("update", false)
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	s.metrics.IncrementPostOperations("update", true)
	return updatedPost, nil
}

func (s *PostService) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	count, err := s.postRepo.CountByAuthor(ctx, authorID)
	if err != nil {
		s.log.Error("Failed to count posts by author",
			slog.Int64("author_id", authorID),
			slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}
	return count, nil
}

func (s *PostService) ListGroups(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list groups", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return groups, nil
}
