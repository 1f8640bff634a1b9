package repository

import (
	"context"

	"github.com/dylanmckay04/project-management-api/internal/database"
	"github.com/dylanmckay04/project-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(task).Error
}

func (r *GormTaskRepository) ListOwned(ctx context.Context, ownerID uint64, filter TaskFilter) ([]models.Task, error) {
	query := database.Conn(ctx, r.db).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(ownerID, &models.Task{}))

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	tasks := []models.Task{}
	err := query.
		Scopes(database.Paginate(filter.Page)).
		Order("tasks.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *GormTaskRepository) FindOwned(ctx context.Context, ownerID, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := database.Conn(ctx, r.db).Scopes(database.OwnedBy(ownerID, &task))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("tasks.id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update writes every column, so nil description, assignee and due date are cleared.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Save(task).Error
}

func (r *GormTaskRepository) DeleteOwned(ctx context.Context, ownerID, id uint64) error {
	result := database.Conn(ctx, r.db).
		Scopes(database.OwnedBy(ownerID, &models.Task{})).
		Where("tasks.id = ?", id).
		Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
