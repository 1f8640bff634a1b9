package database_test

import (
	"context"
	"testing"

	"github.com/dylanmckay04/project-management-api/internal/database"
	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/testutil"
	"github.com/dylanmckay04/project-management-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnedBy_UnknownModelMatchesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "a@x.com", "pw123456")

	var users []models.User
	require.NoError(t, db.Scopes(database.OwnedBy(user.ID, &models.User{})).Find(&users).Error)
	assert.Empty(t, users)
}

func TestOwnedBy_Tasks(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@x.com", "pw123456")
	other := testutil.CreateUser(t, db, "b@x.com", "pw123456")
	mine := testutil.CreateTask(t, db, testutil.CreateProject(t, db, owner.ID, "Mine").ID, "T1")
	testutil.CreateTask(t, db, testutil.CreateProject(t, db, other.ID, "Theirs").ID, "T2")

	var tasks []models.Task
	require.NoError(t, db.Scopes(database.OwnedBy(owner.ID, &models.Task{})).Find(&tasks).Error)
	require.Len(t, tasks, 1)
	assert.Equal(t, mine.ID, tasks[0].ID)
}

func TestPaginate(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@x.com", "pw123456")
	for _, name := range []string{"A", "B", "C"} {
		testutil.CreateProject(t, db, owner.ID, name)
	}

	var projects []models.Project
	err := db.Scopes(database.Paginate(utils.PaginationParams{Skip: 1, Limit: 5})).
		Order("id ASC").
		Find(&projects).Error
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "B", projects[0].Name)
}

func TestConn_UsesContextTransaction(t *testing.T) {
	db := testutil.NewDB(t)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	ctx := database.WithTx(context.Background(), tx)

	_, ok := database.TxFromContext(context.Background())
	assert.False(t, ok)

	got, ok := database.TxFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, tx, got)

	user := &models.User{Email: "a@x.com", FullName: "A", PasswordHash: "x", IsActive: true}
	require.NoError(t, database.Conn(ctx, db).Create(user).Error)
	require.NoError(t, tx.Rollback().Error)

	var count int64
	require.NoError(t, database.Conn(context.Background(), db).Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.Migrate(db))
	assert.True(t, db.Migrator().HasIndex("tasks", "idx_tasks_project_id_status"))
	assert.True(t, db.Migrator().HasIndex("projects", "idx_projects_owner_id_id"))
}
