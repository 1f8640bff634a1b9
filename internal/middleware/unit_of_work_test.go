package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dylanmckay04/project-management-api/internal/database"
	apierrors "github.com/dylanmckay04/project-management-api/internal/errors"
	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUnitOfWorkRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(UnitOfWork(db, nil))

	create := func(c *gin.Context) error {
		user := &models.User{Email: c.Query("email"), FullName: "U", PasswordHash: "x", IsActive: true}
		return database.Conn(c.Request.Context(), db).Create(user).Error
	}

	r.POST("/ok", func(c *gin.Context) {
		if err := create(c); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusCreated)
	})
	r.POST("/fail", func(c *gin.Context) {
		if err := create(c); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNotFound)
	})
	r.POST("/commit-fails", func(c *gin.Context) {
		if err := create(c); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		tx, _ := database.TxFromContext(c.Request.Context())
		_ = tx.Rollback().Error
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	r.POST("/panic", func(c *gin.Context) {
		_ = create(c)
		panic("boom")
	})
	return r
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	return count
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	return w
}

func TestUnitOfWork(t *testing.T) {
	db := testutil.NewDB(t)
	r := newUnitOfWorkRouter(db)

	send := func(path string) int {
		return serve(r, path).Code
	}

	assert.Equal(t, http.StatusCreated, send("/ok?email=a@x.com"))
	assert.Equal(t, int64(1), countUsers(t, db))

	assert.Equal(t, http.StatusNotFound, send("/fail?email=b@x.com"))
	assert.Equal(t, int64(1), countUsers(t, db))

	assert.Equal(t, http.StatusInternalServerError, send("/panic?email=c@x.com"))
	assert.Equal(t, int64(1), countUsers(t, db))
}

func TestUnitOfWork_CommitFailureReplacesResponse(t *testing.T) {
	db := testutil.NewDB(t)
	r := newUnitOfWorkRouter(db)

	w := serve(r, "/commit-fails?email=d@x.com")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierrors.ErrCodeInternalError, body.Code)
	assert.NotContains(t, w.Body.String(), `"ok"`)
	assert.Equal(t, int64(0), countUsers(t, db))
}

func TestUnitOfWork_HoldsBodyUntilCommit(t *testing.T) {
	db := testutil.NewDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(UnitOfWork(db, nil))
	r.GET("/json", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/json", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"status":"queued"}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}
