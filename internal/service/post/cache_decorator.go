package post_service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"yatube/internal/cache"
	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/metrics"
	"yatube/internal/model"
)

// PostServiceCacheDecorator keeps detailed posts in a cache in front of the
// wrapped service. Mutations invalidate the cached entry.
type PostServiceCacheDecorator struct {
	service   Service
	postCache cache.PostCache
	log       *logger.Logger
	metrics   metrics.Provider
}

func NewPostServiceCacheDecorator(
	service Service,
	postCache cache.PostCache,
	log *logger.Logger,
	metrics metrics.Provider,
) Service {
	return &PostServiceCacheDecorator{
		service:   service,
		postCache: postCache,
		log:       log,
		metrics:   metrics,
	}
}

func (d *PostServiceCacheDecorator) CreatePost(ctx context.Context, dto *model.CreatePostDTO) (*model.Post, error) {
	return d.service.CreatePost(ctx, dto)
}

func (d *PostServiceCacheDecorator) GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error) {
	cacheStart := time.Now()
	cachedPost, err := d.postCache.GetPost(ctx, id)
	d.metrics.RecordCacheOperationDuration("post_get", time.Since(cacheStart))
	if err == nil {
		d.log.Debug("Post found in cache", slog.Int64("post_id", id))
		d.metrics.IncrementCacheHits()
		return cachedPost, nil
	}

	if errors.Is(err, custom_errors.ErrCacheMiss) {
		d.metrics.IncrementCacheMisses()
	} else {
		d.log.Warn("Failed to get post from cache",
			slog.Int64("post_id", id),
			slog.String("error", err.Error()))
	}

	post, err := d.service.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	setStart := time.Now()
	if err := d.postCache.SetPost(ctx, post); err != nil {
		d.log.Warn("Failed to cache post",
			slog.Int64("post_id", id),
			slog.String("error", err.Error()))
	}
	d.metrics.RecordCacheOperationDuration("post_set", time.Since(setStart))

	return post, nil
}

func (d *PostServiceCacheDecorator) UpdatePost(ctx context.Context, editorID int64, id int64, update *model.UpdatePostDTO) (*model.Post, error) {
	post, err := d.service.UpdatePost(ctx, editorID, id, update)
	if err != nil {
		return nil, err
	}

	deleteStart := time.Now()
	if err := d.postCache.DeletePost(ctx, id); err != nil {
		d.log.Warn("Failed to invalidate post cache after update",
			slog.Int64("post_id", id),
			slog.String("error", err.Error()))
	}
	d.metrics.RecordCacheOperationDuration("post_delete", time.Since(deleteStart))

	return post, nil
}

func (d *PostServiceCacheDecorator) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	return d.service.CountByAuthor(ctx, authorID)
}

func (d *PostServiceCacheDecorator) ListGroups(ctx context.Context) ([]*model.Group, error) {
	return d.service.ListGroups(ctx)
}
