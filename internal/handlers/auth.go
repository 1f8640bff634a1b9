package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dylanmckay04/project-management-api/internal/constants"
	"github.com/dylanmckay04/project-management-api/internal/dto"
	apierrors "github.com/dylanmckay04/project-management-api/internal/errors"
	"github.com/dylanmckay04/project-management-api/internal/security"
	"github.com/dylanmckay04/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// AuthHandler coordinates registration and login.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// loginRequest accepts a JSON body or an OAuth2 password form, where the
// email travels in the username field.
type loginRequest struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	var err error
	if c.ContentType() == binding.MIMEPOSTForm {
		err = c.ShouldBindWith(&req, binding.FormPost)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponseDTO{
		AccessToken: result.AccessToken,
		TokenType:   constants.TokenTypeBearer,
		User:        dto.ToUserDTO(*result.User),
	})
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.Unprocessable(c, fmt.Sprintf("Password must be at least %d characters", h.authService.PasswordMinLength()))
	case errors.Is(err, services.ErrPasswordTooLong):
		apierrors.Unprocessable(c, fmt.Sprintf("Password must be at most %d bytes", security.MaxPasswordBytes))
	case errors.Is(err, services.ErrFullNameRequired):
		apierrors.Unprocessable(c, "Full name is required")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.AlreadyExists(c, "Email already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", constants.BearerScheme)
		apierrors.Unauthorized(c, "Invalid email or password")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
