package feed_service

import (
	"context"
	"errors"
	"log/slog"

	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/model"
	"yatube/internal/pagination"
	group_repository "yatube/internal/repository/group"
	post_repository "yatube/internal/repository/post"
	user_repository "yatube/internal/repository/user"
)

type FeedService struct {
	postRepo  post_repository.Repository
	groupRepo group_repository.Repository
	userRepo  user_repository.Repository
	pageSize  int
	log       *logger.Logger
}

func NewFeedService(
	postRepo post_repository.Repository,
	groupRepo group_repository.Repository,
	userRepo user_repository.Repository,
	pageSize int,
	log *logger.Logger,
) *FeedService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &FeedService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		pageSize:  pageSize,
		log:       log,
	}
}

// ListPosts returns one page of the filtered listing, most recent first.
// A page number past the end yields an empty page.
func (s *FeedService) ListPosts(ctx context.Context, filters *model.PostFilters, page int) (*model.PostPage, error) {
	if filters == nil {
		filters = &model.PostFilters{}
	}
	if page < 1 {
		page = 1
	}

	limit := s.pageSize
	offset := (page - 1) * s.pageSize
	filters.Limit = &limit
	filters.Offset = &offset

	posts, total, err := s.postRepo.List(ctx, *filters)
	if err != nil {
		s.log.Error("Failed to list posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	detailed, err := s.resolveDetails(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &model.PostPage{
		Posts: detailed,
		Page:  pagination.Paginate(total, page, s.pageSize),
	}, nil
}

// ListGroupPosts resolves the group by slug and returns its page of posts.
// A group with no posts yields an empty page, not an error.
func (s *FeedService) ListGroupPosts(ctx context.Context, slug string, page int) (*model.Group, *model.PostPage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, custom_errors.ErrGroupNotFound) {
			s.log.Debug("Group not found by slug", slog.String("slug", slug))
			return nil, nil, custom_errors.ErrGroupNotFound
		}
		s.log.Error("Failed to get group by slug", slog.String("slug", slug), slog.String("error", err.Error()))
		return nil, nil, custom_errors.ErrDatabaseQuery
	}

	postPage, err := s.ListPosts(ctx, &model.PostFilters{GroupID: &group.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return group, postPage, nil
}

// ListAuthorPosts resolves the user by username and returns their page of
// posts; PostPage.Page.TotalItems doubles as the author's post count.
func (s *FeedService) ListAuthorPosts(ctx context.Context, username string, page int) (*model.User, *model.PostPage, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("User not found by username", slog.String("username", username))
			return nil, nil, custom_errors.ErrUserNotFound
		}
		s.log.Error("Failed to get user by username", slog.String("username", username), slog.String("error", err.Error()))
		return nil, nil, custom_errors.ErrDatabaseQuery
	}

	postPage, err := s.ListPosts(ctx, &model.PostFilters{AuthorID: &author.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return author, postPage, nil
}

// resolveDetails attaches authors and groups to the listed posts, looking
// each one up at most once per call.
func (s *FeedService) resolveDetails(ctx context.Context, posts []*model.Post) ([]*model.PostDetailed, error) {
	authors := make(map[int64]*model.User)
	groups := make(map[int64]*model.Group)

	result := make([]*model.PostDetailed, 0, len(posts))
	for _, post := range posts {
		author, ok := authors[post.AuthorID]
		if !ok {
			var err error
			author, err = s.userRepo.GetByID(ctx, post.AuthorID)
			if err != nil {
				s.log.Error("Failed to get author for post",
					slog.Int64("post_id", post.ID),
					slog.Int64("author_id", post.AuthorID),
					slog.String("error", err.Error()))
				return nil, custom_errors.ErrDatabaseQuery
			}
			authors[post.AuthorID] = author
		}

		var group *model.Group
		if post.GroupID != nil {
			var ok bool
			group, ok = groups[*post.GroupID]
			if !ok {
				var err error
				group, err = s.groupRepo.GetByID(ctx, *post.GroupID)
				if err != nil {
					s.log.Error("Failed to get group for post",
						slog.Int64("post_id", post.ID),
						slog.Int64("group_id", *post.GroupID),
						slog.String("error", err.Error()))
					return nil, custom_errors.ErrDatabaseQuery
				}
				groups[*post.GroupID] = group
			}
		}

		result = append(result, &model.PostDetailed{
			Post:   post,
			Author: author,
			Group:  group,
		})
	}
	return result, nil
}
