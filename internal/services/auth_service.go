package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dylanmckay04/project-management-api/internal/config"
	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/repository"
	"github.com/dylanmckay04/project-management-api/internal/security"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrPasswordTooLong      = errors.New("password too long")
	ErrFullNameRequired     = errors.New("full name is required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue access token")
)

// AuthService handles registration and login.
type AuthService struct {
	userRepo          repository.UserRepository
	tokens            *security.TokenService
	passwordMinLength int
	tokenTTL          time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenService, cfg config.Config) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		tokens:            tokens,
		passwordMinLength: cfg.PasswordMinLength,
		tokenTTL:          cfg.AccessTokenTTL(),
	}
}

// PasswordMinLength is the minimum accepted password length.
func (s *AuthService) PasswordMinLength() int {
	return s.passwordMinLength
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

// Register creates a new active user. Emails are compared exactly as stored.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := validatePassword(input.Password, s.passwordMinLength); err != nil {
		return nil, err
	}
	if input.FullName == "" {
		return nil, ErrFullNameRequired
	}

	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// validatePassword counts the minimum in characters and the maximum in bytes,
// the unit bcrypt limits.
func validatePassword(password string, minLength int) error {
	if utf8.RuneCountInString(password) < minLength {
		return ErrPasswordTooShort
	}
	if len(password) > security.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a signed access token and the user it was issued for.
type LoginResult struct {
	AccessToken string
	User        *models.User
}

// Login verifies credentials and issues an access token. Unknown email,
// wrong password and deactivated account all return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, ErrFailedToIssueToken
	}

	return &LoginResult{
		AccessToken: token,
		User:        user,
	}, nil
}
