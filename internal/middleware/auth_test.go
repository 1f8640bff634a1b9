package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubResolver struct {
	user *models.User
	err  error
	seen string
}

func (s *stubResolver) Resolve(_ context.Context, token string) (*models.User, error) {
	s.seen = token
	return s.user, s.err
}

func newAuthRouter(resolver IdentityResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireAuth(resolver), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		userID, idOK := GetUserID(c)
		if !ok || !idOK || user.ID != userID {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": userID})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		resolver   *stubResolver
		wantStatus int
		wantToken  string
	}{
		{
			name:       "valid bearer token",
			header:     "Bearer abc",
			resolver:   &stubResolver{user: &models.User{ID: 5, IsActive: true}},
			wantStatus: http.StatusOK,
			wantToken:  "abc",
		},
		{
			name:       "scheme is case insensitive",
			header:     "bearer abc",
			resolver:   &stubResolver{user: &models.User{ID: 5, IsActive: true}},
			wantStatus: http.StatusOK,
			wantToken:  "abc",
		},
		{
			name:       "missing header",
			resolver:   &stubResolver{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			resolver:   &stubResolver{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			header:     "Bearer ",
			resolver:   &stubResolver{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			header:     "Bearer abc",
			resolver:   &stubResolver{err: services.ErrUnauthenticated},
			wantStatus: http.StatusUnauthorized,
			wantToken:  "abc",
		},
		{
			name:       "inactive user",
			header:     "Bearer abc",
			resolver:   &stubResolver{err: services.ErrAccountInactive},
			wantStatus: http.StatusForbidden,
			wantToken:  "abc",
		},
		{
			name:       "storage failure",
			header:     "Bearer abc",
			resolver:   &stubResolver{err: errors.New("connection reset")},
			wantStatus: http.StatusInternalServerError,
			wantToken:  "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(tt.resolver)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantToken, tt.resolver.seen)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "connection reset")
			}
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)

	_, ok = CurrentUser(c)
	assert.False(t, ok)
}
