package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dylanmckay04/project-management-api/internal/dto"
	apierrors "github.com/dylanmckay04/project-management-api/internal/errors"
	"github.com/dylanmckay04/project-management-api/internal/middleware"
	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/security"
	"github.com/dylanmckay04/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the authenticated user endpoints.
type UserHandler struct {
	userService       *services.UserService
	passwordMinLength int
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, passwordMinLength int) *UserHandler {
	return &UserHandler{
		userService:       userService,
		passwordMinLength: passwordMinLength,
	}
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

// GetMe returns the authenticated user.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetUser returns any user's public profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateMe applies a partial update to the authenticated user.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	h.update(c, user)
}

// UpdateUser is UpdateMe addressed by id. Any id other than the caller's is
// reported as not found.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	if actor.ID != id {
		apierrors.NotFound(c, "User not found")
		return
	}
	h.update(c, actor)
}

func (h *UserHandler) update(c *gin.Context, actor *models.User) {
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), actor, services.UpdateProfileInput{
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*updated))
}

// DeleteMe deactivates the authenticated user.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), userID); err != nil {
		h.respondUserError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.Unprocessable(c, fmt.Sprintf("Password must be at least %d characters", h.passwordMinLength))
	case errors.Is(err, services.ErrPasswordTooLong):
		apierrors.Unprocessable(c, fmt.Sprintf("Password must be at most %d bytes", security.MaxPasswordBytes))
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
