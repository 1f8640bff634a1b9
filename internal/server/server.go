package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dylanmckay04/project-management-api/internal/config"
	"github.com/dylanmckay04/project-management-api/internal/database"
	"github.com/dylanmckay04/project-management-api/internal/handlers"
	"github.com/dylanmckay04/project-management-api/internal/metrics"
	"github.com/dylanmckay04/project-management-api/internal/middleware"
	"github.com/dylanmckay04/project-management-api/internal/repository"
	"github.com/dylanmckay04/project-management-api/internal/security"
	"github.com/dylanmckay04/project-management-api/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Server holds the HTTP router and the dependencies behind it.
type Server struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *gorm.DB
	router   *gin.Engine
	metrics  *metrics.HTTPMetrics
	identity *services.IdentityService

	auth     *handlers.AuthHandler
	users    *handlers.UserHandler
	projects *handlers.ProjectHandler
	tasks    *handlers.TaskHandler
}

// New wires repositories, services and handlers on top of db. A nil registry
// gets a fresh one carrying the Go runtime and process collectors.
func New(cfg config.Config, db *gorm.DB, logger *slog.Logger, registry *prometheus.Registry) (*Server, error) {
	tokens, err := security.NewTokenService(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL())
	if err != nil {
		return nil, fmt.Errorf("init token service: %w", err)
	}

	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, tokens, cfg)
	userService := services.NewUserService(userRepo, cfg.PasswordMinLength)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		router:   gin.New(),
		metrics:  metrics.NewHTTPMetrics(registry),
		identity: services.NewIdentityService(userRepo, tokens),
		auth:     handlers.NewAuthHandler(authService),
		users:    handlers.NewUserHandler(userService, cfg.PasswordMinLength),
		projects: handlers.NewProjectHandler(projectService),
		tasks:    handlers.NewTaskHandler(taskService),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(corsConfig(cfg.CORSAllowOrigins)))
	s.router.Use(middleware.RequestLogger(logger))
	s.router.Use(middleware.Metrics(s.metrics))
	s.registerRoutes()

	return s, nil
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database pool.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return database.Close(s.db)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// The unit of work must wrap RequireAuth so identity lookups share the
	// request transaction.
	uow := middleware.UnitOfWork(s.db, s.logger)
	requireAuth := middleware.RequireAuth(s.identity)

	users := s.router.Group("/users", uow)
	{
		users.POST("/register", s.auth.Register)
		users.POST("/login", s.auth.Login)

		authed := users.Group("", requireAuth)
		authed.GET("/me", s.users.GetMe)
		authed.PUT("/me", s.users.UpdateMe)
		authed.DELETE("/me", s.users.DeleteMe)
		authed.GET("/:id", s.users.GetUser)
		authed.PUT("/:id", s.users.UpdateUser)
	}

	projects := s.router.Group("/projects", uow, requireAuth)
	{
		projects.POST("", s.projects.CreateProject)
		projects.GET("", s.projects.ListProjects)
		projects.GET("/:id", s.projects.GetProject)
		projects.PUT("/:id", s.projects.UpdateProject)
		projects.DELETE("/:id", s.projects.DeleteProject)
	}

	tasks := s.router.Group("/tasks", uow, requireAuth)
	{
		tasks.POST("", s.tasks.CreateTask)
		tasks.GET("", s.tasks.ListTasks)
		tasks.GET("/:id", s.tasks.GetTask)
		tasks.PUT("/:id", s.tasks.UpdateTask)
		tasks.DELETE("/:id", s.tasks.DeleteTask)
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to " + s.cfg.AppName,
		"health":  "/health",
		"metrics": "/metrics",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
