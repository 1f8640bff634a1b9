package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/repository"
	"github.com/dylanmckay04/project-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrAssigneeNotFound  = errors.New("assigned user not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// TaskService handles task business logic. A task belongs to whoever owns
// its project; the assignee gains no access.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// ListTasksInput represents filters for listing tasks. Status is raw user
// input and is parsed here.
type ListTasksInput struct {
	OwnerID   uint64
	ProjectID *uint64
	Status    string
	Page      utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID     uint64
	ProjectID   uint64
	Title       string
	Description *string
	AssignedTo  *uint64
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// UpdateTaskInput represents a partial task update. Title, Status and
// Priority are ignored when nil or empty. Description, AssignedTo and DueDate
// are applied whenever Set, and an explicit null clears them.
type UpdateTaskInput struct {
	Title       *string
	Description utils.Optional[string]
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssignedTo  utils.Optional[uint64]
	DueDate     utils.Optional[time.Time]
}

// ValidTaskStatuses returns the accepted status filter values.
func ValidTaskStatuses() []string {
	values := make([]string, len(models.TaskStatuses))
	for i, s := range models.TaskStatuses {
		values[i] = string(s)
	}
	return values
}

// ListTasks returns a page of tasks in the owner's projects.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{Page: input.Page}

	if input.Status != "" {
		status, err := models.ParseTaskStatus(input.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: must be one of %s", ErrInvalidTaskStatus, strings.Join(ValidTaskStatuses(), ", "))
		}
		filter.Status = &status
	}
	if input.ProjectID != nil && *input.ProjectID != 0 {
		filter.ProjectID = input.ProjectID
	}

	tasks, err := s.taskRepo.ListOwned(ctx, input.OwnerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns an owned task with its assigned user.
func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID uint64) (*models.Task, error) {
	return s.findOwned(ctx, ownerID, taskID, "AssignedUser")
}

// CreateTask creates a task in a project owned by input.OwnerID. A project
// that exists but belongs to someone else is reported as ErrProjectNotFound.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	if _, err := s.projectRepo.FindOwned(ctx, input.OwnerID, input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	assignee := input.AssignedTo
	if assignee != nil && *assignee == 0 {
		assignee = nil
	}
	if assignee != nil {
		if err := s.ensureUserExists(ctx, *assignee); err != nil {
			return nil, err
		}
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		AssignedTo:  assignee,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies input to an owned task.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil && *input.Title != "" {
		task.Title = *input.Title
	}
	if input.Description.Set {
		task.Description = input.Description.Ptr()
	}
	if input.Status != nil && *input.Status != "" {
		task.Status = *input.Status
	}
	if input.Priority != nil && *input.Priority != "" {
		task.Priority = *input.Priority
	}
	if input.AssignedTo.Set {
		if input.AssignedTo.Null || input.AssignedTo.Value == 0 {
			task.AssignedTo = nil
		} else {
			if err := s.ensureUserExists(ctx, input.AssignedTo.Value); err != nil {
				return nil, err
			}
			task.AssignedTo = input.AssignedTo.Ptr()
		}
	}
	if input.DueDate.Set {
		task.DueDate = input.DueDate.Ptr()
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes an owned task.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID uint64) error {
	if err := s.taskRepo.DeleteOwned(ctx, ownerID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) findOwned(ctx context.Context, ownerID, taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, ownerID, taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ensureUserExists checks an assignee at assignment time only.
func (s *TaskService) ensureUserExists(ctx context.Context, userID uint64) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to verify assigned user: %w", err)
	}
	if !exists {
		return ErrAssigneeNotFound
	}
	return nil
}
