package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dylanmckay04/project-management-api/internal/middleware"
	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/repository"
	"github.com/dylanmckay04/project-management-api/internal/security"
	"github.com/dylanmckay04/project-management-api/internal/services"
	"github.com/dylanmckay04/project-management-api/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *security.TokenService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	cfg := testutil.Config()
	db := testutil.NewDB(t)
	tokens := testutil.TokenService(t)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authHandler := NewAuthHandler(services.NewAuthService(userRepo, tokens, cfg))
	userHandler := NewUserHandler(services.NewUserService(userRepo, cfg.PasswordMinLength), cfg.PasswordMinLength)
	projectHandler := NewProjectHandler(services.NewProjectService(projectRepo))
	taskHandler := NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, userRepo))

	r := gin.New()
	uow := middleware.UnitOfWork(db, nil)
	auth := middleware.RequireAuth(services.NewIdentityService(userRepo, tokens))

	r.POST("/users/register", uow, authHandler.Register)
	r.POST("/users/login", uow, authHandler.Login)
	users := r.Group("/users", uow, auth)
	users.GET("/me", userHandler.GetMe)
	users.PUT("/me", userHandler.UpdateMe)
	users.DELETE("/me", userHandler.DeleteMe)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)

	projects := r.Group("/projects", uow, auth)
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.ListProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)

	tasks := r.Group("/tasks", uow, auth)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("", taskHandler.ListTasks)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

	return testEnv{db: db, router: r, tokens: tokens}
}

func (e testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.tokens.Issue(user.ID, 0)
	require.NoError(t, err)
	return token
}

func (e testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		req = httptest.NewRequest(method, path, bytes.NewBufferString(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
