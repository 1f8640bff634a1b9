package repository

import (
	"context"

	"github.com/dylanmckay04/project-management-api/internal/database"
	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(project).Error
}

func (r *GormProjectRepository) ListOwned(ctx context.Context, ownerID uint64, page utils.PaginationParams) ([]models.Project, error) {
	projects := []models.Project{}
	err := database.Conn(ctx, r.db).
		Scopes(database.OwnedBy(ownerID, &models.Project{}), database.Paginate(page)).
		Order("projects.id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormProjectRepository) FindOwned(ctx context.Context, ownerID, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := database.Conn(ctx, r.db).Scopes(database.OwnedBy(ownerID, &project))

	for _, p := range preload {
		if p == "Tasks" {
			query = query.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
				return db.Order("tasks.id ASC")
			})
			continue
		}
		query = query.Preload(p)
	}

	if err := query.Where("projects.id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Save(project).Error
}

// DeleteOwned removes the project and its tasks in one transaction. A
// project the owner does not own is reported as gorm.ErrRecordNotFound.
func (r *GormProjectRepository) DeleteOwned(ctx context.Context, ownerID, id uint64) error {
	return database.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Scopes(database.OwnedBy(ownerID, &project)).
			Where("projects.id = ?", id).
			First(&project).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, project.ID).Error
	})
}
