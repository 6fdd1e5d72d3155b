package service

import (
	"context"

	"github.com/aidar/taskhub/internal/directory"
	"github.com/aidar/taskhub/internal/domain"
	"github.com/aidar/taskhub/internal/repository"
)

// UserService handles business logic for the user directory
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// List returns all users from the directory
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// Search returns users matching the query by username or full name
func (s *UserService) Search(ctx context.Context, query string) ([]domain.User, error) {
	if query == "" {
		return s.userRepo.List(ctx)
	}
	return s.userRepo.Search(ctx, query)
}

// GetByTelegramID retrieves a user by telegram id
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// Directory builds a username lookup over the whole user directory.
// It is rebuilt per request: the directory is small and the callers
// always want the latest records.
func (s *UserService) Directory(ctx context.Context) (directory.Directory, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return directory.Build(users), nil
}
