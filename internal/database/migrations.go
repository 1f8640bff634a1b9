package database

import (
	"fmt"
	"log"

	"github.com/dylanmckay04/project-management-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema and the composite indexes used by task listing.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return err
	}

	log.Println("Database migrations completed")
	return nil
}

// AddIndexes adds indexes that cannot be expressed as single-column struct tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task listing filters by project then status
		{"tasks", "idx_tasks_project_id_status", "project_id, status"},
		// Project listing is always scoped by owner and ordered by id
		{"projects", "idx_projects_owner_id_id", "owner_id, id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
