package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/repository"
	"github.com/dylanmckay04/project-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name is required")
)

// ProjectService provides owner-scoped project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description *string
	OwnerID     uint64
}

// CreateProject creates a project owned by input.OwnerID.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns a page of the owner's projects.
func (s *ProjectService) ListProjects(ctx context.Context, ownerID uint64, page utils.PaginationParams) ([]models.Project, error) {
	projects, err := s.projectRepo.ListOwned(ctx, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns an owned project with its owner and tasks.
func (s *ProjectService) GetProject(ctx context.Context, ownerID, projectID uint64) (*models.Project, error) {
	return s.findOwned(ctx, ownerID, projectID, "Owner", "Tasks")
}

// UpdateProjectInput holds a partial project update. Nil and empty values
// leave the stored field unchanged, so neither field can be cleared here.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// UpdateProject applies input to an owned project.
func (s *ProjectService) UpdateProject(ctx context.Context, ownerID, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findOwned(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		project.Name = *input.Name
	}
	if input.Description != nil && *input.Description != "" {
		description := *input.Description
		project.Description = &description
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject deletes an owned project together with its tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, ownerID, projectID uint64) error {
	if err := s.projectRepo.DeleteOwned(ctx, ownerID, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) findOwned(ctx context.Context, ownerID, projectID uint64, preload ...string) (*models.Project, error) {
	project, err := s.projectRepo.FindOwned(ctx, ownerID, projectID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
