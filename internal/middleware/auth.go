package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/dylanmckay04/project-management-api/internal/constants"
	apierrors "github.com/dylanmckay04/project-management-api/internal/errors"
	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// IdentityResolver maps a bearer token to an active user.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth authenticates the request from its Authorization header and
// stores the resolved user in the context.
func RequireAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(constants.AuthorizationHeader))
		if !ok {
			c.Header("WWW-Authenticate", constants.BearerScheme)
			apierrors.Unauthorized(c, "Not authenticated")
			return
		}

		user, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAccountInactive):
				apierrors.Forbidden(c, "Inactive user")
			case errors.Is(err, services.ErrUnauthenticated):
				c.Header("WWW-Authenticate", constants.BearerScheme)
				apierrors.Unauthorized(c, "Could not validate credentials")
			default:
				_ = c.Error(err)
				apierrors.InternalError(c, "")
			}
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
