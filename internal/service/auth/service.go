package auth_service

import (
	"context"
	"errors"
	"log/slog"

	"yatube/internal/auth"
	"yatube/internal/custom_errors"
	"yatube/internal/logger"
	"yatube/internal/model"
	user_repository "yatube/internal/repository/user"
)

//go:generate mockery --name Service --dir . --output ../../../mocks/auth --outpkg mocks --filename AuthService.go
type Service interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Register(ctx context.Context, username, password string) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

type AuthService struct {
	userRepo user_repository.Repository
	log      *logger.Logger
}

func NewAuthService(userRepo user_repository.Repository, log *logger.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, log: log}
}

// Authenticate checks the credentials and returns the matching user. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Login attempt for unknown username", slog.String("username", username))
			return nil, custom_errors.ErrInvalidCredentials
		}
		s.log.Error("Failed to get user for login", slog.String("username", username), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if !auth.CheckPassword(user, password) {
		s.log.Debug("Login attempt with wrong password", slog.String("username", username))
		return nil, custom_errors.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	user := &model.User{Username: username}
	auth.SetPassword(user, password)

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUsernameExists) {
			s.log.Debug("Registration for taken username", slog.String("username", username))
			return nil, custom_errors.ErrUsernameExists
		}
		s.log.Error("Failed to create user", slog.String("username", username), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return created, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			return nil, custom_errors.ErrUserNotFound
		}
		s.log.Error("Failed to get user by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return user, nil
}
