package repository

import (
	"context"

	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID, active or not
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by exact email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Exists reports whether a user with the given ID exists
	Exists(ctx context.Context, id uint64) (bool, error)

	// UpdateProfile persists full name and password hash
	UpdateProfile(ctx context.Context, user *models.User) error

	// Deactivate marks the user inactive
	Deactivate(ctx context.Context, id uint64) error
}

// ProjectRepository defines the interface for project data access. Every
// read and write is restricted to projects owned by ownerID.
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// ListOwned lists the owner's projects
	ListOwned(ctx context.Context, ownerID uint64, page utils.PaginationParams) ([]models.Project, error)

	// FindOwned finds an owned project with optional preloading
	FindOwned(ctx context.Context, ownerID, id uint64, preload ...string) (*models.Project, error)

	// Update updates an owned project's mutable columns
	Update(ctx context.Context, project *models.Project) error

	// DeleteOwned deletes an owned project and all of its tasks
	DeleteOwned(ctx context.Context, ownerID, id uint64) error
}

// TaskRepository defines the interface for task data access. Tasks are
// owned through their parent project.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// ListOwned retrieves the owner's tasks with filtering and pagination
	ListOwned(ctx context.Context, ownerID uint64, filter TaskFilter) ([]models.Task, error)

	// FindOwned finds an owned task with optional preloading
	FindOwned(ctx context.Context, ownerID, id uint64, preload ...string) (*models.Task, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// DeleteOwned deletes an owned task
	DeleteOwned(ctx context.Context, ownerID, id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID *uint64
	Status    *models.TaskStatus
	Page      utils.PaginationParams
}
