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

var (
	ErrUnauthenticated = errors.New("could not validate credentials")
	ErrAccountInactive = errors.New("inactive user")
)

// IdentityService maps a bearer token to the active user it was issued for.
type IdentityService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenService
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(userRepo repository.UserRepository, tokens *security.TokenService) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Resolve validates token and loads its subject. A bad token or a missing
// user yields ErrUnauthenticated; a deactivated user yields ErrAccountInactive.
// Tokens stay cryptographically valid after deactivation, so the account
// state is checked on every call.
func (s *IdentityService) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return user, nil
}
