package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/model"
)

type GroupRepository struct {
	log    *logger.Logger
	mu     sync.RWMutex
	groups map[int64]*model.Group
	bySlug map[string]int64
	nextID int64
}

func NewGroupRepository(log *logger.Logger) *GroupRepository {
	return &GroupRepository{
		log:    log,
		groups: make(map[int64]*model.Group),
		bySlug: make(map[string]int64),
		nextID: 1,
	}
}

func (g *GroupRepository) Create(ctx context.Context, group *model.Group) (*model.Group, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.bySlug[group.Slug]; exists {
		g.log.Debug("Group slug already exists", slog.String("slug", group.Slug))
		return nil, custom_errors.ErrSlugExists
	}

	newGroup := &model.Group{
		ID:          g.nextID,
		Title:       group.Title,
		Slug:        group.Slug,
		Description: group.Description,
	}
	g.nextID++

	g.groups[newGroup.ID] = newGroup
	g.bySlug[newGroup.Slug] = newGroup.ID

	result := *newGroup
	return &result, nil
}

func (g *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	group, exists := g.groups[id]
	if !exists {
		g.log.Debug("Group not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrGroupNotFound
	}

	result := *group
	return &result, nil
}

func (g *GroupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	id, exists := g.bySlug[slug]
	if !exists {
		g.log.Debug("Group not found by slug", slog.String("slug", slug))
		return nil, custom_errors.ErrGroupNotFound
	}

	result := *g.groups[id]
	return &result, nil
}

func (g *GroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*model.Group, 0, len(g.groups))
	for _, group := range g.groups {
		groupCopy := *group
		result = append(result, &groupCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Title < result[j].Title
	})

	return result, nil
}
