package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/repository"
	"github.com/dylanmckay04/project-management-api/internal/security"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// UserService manages profiles of existing users.
type UserService struct {
	userRepo          repository.UserRepository
	passwordMinLength int
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, passwordMinLength int) *UserService {
	return &UserService{
		userRepo:          userRepo,
		passwordMinLength: passwordMinLength,
	}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput holds the fields a user may change on their own account.
// Empty values are treated as not provided.
type UpdateProfileInput struct {
	FullName *string
	Password *string
}

// UpdateProfile applies input to the acting user.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, input UpdateProfileInput) (*models.User, error) {
	updated := *actor

	if input.FullName != nil && *input.FullName != "" {
		updated.FullName = *input.FullName
	}
	if input.Password != nil && *input.Password != "" {
		if err := validatePassword(*input.Password, s.passwordMinLength); err != nil {
			return nil, err
		}
		hash, err := security.HashPassword(*input.Password)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		updated.PasswordHash = hash
	}

	if err := s.userRepo.UpdateProfile(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &updated, nil
}

// Deactivate soft-deletes the acting user.
func (s *UserService) Deactivate(ctx context.Context, actorID uint64) error {
	if err := s.userRepo.Deactivate(ctx, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}
