package database

import (
	"gorm.io/gorm"

	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/utils"
)

// Paginate applies offset/limit pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Skip).Limit(params.Limit)
	}
}

// OwnedBy restricts a query on model to rows the actor owns. Projects are
// owned directly; tasks through their parent project. Any other model matches
// nothing.
func OwnedBy(actorID uint64, model interface{}) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch model.(type) {
		case *models.Project, models.Project:
			return db.Where("projects.owner_id = ?", actorID)
		case *models.Task, models.Task:
			ownedProjects := db.Session(&gorm.Session{NewDB: true}).
				Model(&models.Project{}).
				Select("projects.id").
				Where("projects.owner_id = ?", actorID)
			return db.Where("tasks.project_id IN (?)", ownedProjects)
		default:
			return db.Where("1 = 0")
		}
	}
}
