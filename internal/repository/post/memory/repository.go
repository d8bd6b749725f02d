package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/model"
)

type PostRepository struct {
	log    *logger.Logger
	mu     sync.RWMutex
	posts  map[int64]*model.Post
	nextID int64
}

func NewPostRepository(log *logger.Logger) *PostRepository {
	return &PostRepository{
		log:    log,
		posts:  make(map[int64]*model.Post),
		nextID: 1,
	}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	newPost := &model.Post{
		ID:        p.nextID,
		AuthorID:  post.AuthorID,
		GroupID:   post.GroupID,
		Text:      post.Text,
		CreatedAt: pgtype.Timestamp{Time: time.Now(), Valid: true},
	}
	p.nextID++

	p.posts[newPost.ID] = newPost

	result := *newPost
	return &result, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	post, exists := p.posts[id]
	if !exists {
		p.log.Debug("Post not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	result := *post
	return &result, nil
}

func (p *PostRepository) Update(ctx context.Context, id int64, update *model.UpdatePostDTO) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	post, exists := p.posts[id]
	if !exists {
		return nil, custom_errors.ErrPostNotFound
	}

	if update.Text == nil && update.GroupID == nil {
		return nil, custom_errors.ErrNoUpdateRows
	}

	if update.Text != nil {
		post.Text = *update.Text
	}
	if update.GroupID != nil {
		groupID := *update.GroupID
		post.GroupID = &groupID
	}

	result := *post
	return &result, nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var filteredPosts []*model.Post
	for _, post := range p.posts {
		if filters.AuthorID != nil && post.AuthorID != *filters.AuthorID {
			continue
		}
		if filters.GroupID != nil && (post.GroupID == nil || *post.GroupID != *filters.GroupID) {
			continue
		}

		postCopy := *post
		filteredPosts = append(filteredPosts, &postCopy)
	}

	// Most recent first, id as a tie-break for posts created within the
	// same clock tick.
	sort.Slice(filteredPosts, func(i, j int) bool {
		if filteredPosts[i].CreatedAt.Time.Equal(filteredPosts[j].CreatedAt.Time) {
			return filteredPosts[i].ID > filteredPosts[j].ID
		}
		return filteredPosts[i].CreatedAt.Time.After(filteredPosts[j].CreatedAt.Time)
	})

	total := len(filteredPosts)

	if filters.Offset != nil {
		offset := *filters.Offset
		if offset >= len(filteredPosts) {
			return []*model.Post{}, total, nil
		}
		filteredPosts = filteredPosts[offset:]
	}

	if filters.Limit != nil {
		limit := *filters.Limit
		if limit < len(filteredPosts) {
			filteredPosts = filteredPosts[:limit]
		}
	}

	return filteredPosts, total, nil
}

func (p *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	count := 0
	for _, post := range p.posts {
		if post.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}
