package testutil

import (
	"testing"

	"github.com/dylanmckay04/project-management-api/internal/config"
	"github.com/dylanmckay04/project-management-api/internal/database"
	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/security"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestSecret signs tokens in tests.
const TestSecret = "test-secret-key"

// Config returns a valid configuration for tests.
func Config() config.Config {
	return config.Config{
		AppName:                  "Project Management API",
		HTTPAddr:                 ":0",
		GinMode:                  "test",
		LogLevel:                 "error",
		DBDriver:                 config.DriverSQLite,
		DatabaseURL:              ":memory:",
		SecretKey:                TestSecret,
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
		PasswordMinLength:        8,
		CORSAllowOrigins:         []string{"*"},
	}
}

// NewDB opens a migrated in-memory SQLite database that is closed with the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))

	return db
}

// TokenService returns a token service using TestSecret.
func TokenService(t testing.TB) *security.TokenService {
	t.Helper()

	svc, err := security.NewTokenService(TestSecret, "HS256", security.DefaultTokenTTL)
	require.NoError(t, err)
	return svc
}

// CreateUser inserts an active user with a bcrypt hash of password.
func CreateUser(t testing.TB, db *gorm.DB, email, password string) *models.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		FullName:     "Test User",
		PasswordHash: hash,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project owned by ownerID.
func CreateProject(t testing.TB, db *gorm.DB, ownerID uint64, name string) *models.Project {
	t.Helper()

	project := &models.Project{Name: name, OwnerID: ownerID}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTask inserts a todo task in projectID.
func CreateTask(t testing.TB, db *gorm.DB, projectID uint64, title string) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:     title,
		ProjectID: projectID,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
