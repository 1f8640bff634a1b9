package middleware

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/dylanmckay04/project-management-api/internal/database"
	apierrors "github.com/dylanmckay04/project-management-api/internal/errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// bufferedWriter holds the handler's status and body until the transaction
// outcome is known. Headers go straight to the underlying writer's map.
type bufferedWriter struct {
	gin.ResponseWriter
	status  int
	body    bytes.Buffer
	written bool
}

func newBufferedWriter(w gin.ResponseWriter) *bufferedWriter {
	return &bufferedWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *bufferedWriter) WriteHeader(code int) {
	if code > 0 && !w.written {
		w.status = code
	}
}

func (w *bufferedWriter) WriteHeaderNow() {
	w.written = true
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	w.written = true
	return w.body.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	w.written = true
	return w.body.WriteString(s)
}

func (w *bufferedWriter) Status() int {
	return w.status
}

func (w *bufferedWriter) Size() int {
	if !w.written {
		return -1
	}
	return w.body.Len()
}

func (w *bufferedWriter) Written() bool {
	return w.written
}

// flush sends the held response to the underlying writer.
func (w *bufferedWriter) flush() error {
	w.ResponseWriter.WriteHeader(w.status)
	w.ResponseWriter.WriteHeaderNow()
	if w.body.Len() == 0 {
		return nil
	}
	_, err := w.ResponseWriter.Write(w.body.Bytes())
	return err
}

// UnitOfWork opens one transaction per request and exposes it through the
// request context. The transaction commits when the handler finishes with a
// status below 400 and no recorded gin errors, and rolls back otherwise,
// including on panic. The response is held back until the commit succeeds; a
// failed commit replaces it with a 500.
func UnitOfWork(db *gorm.DB, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := db.WithContext(c.Request.Context()).Begin()
		if tx.Error != nil {
			if logger != nil {
				logger.Error("begin transaction failed", slog.String("error", tx.Error.Error()))
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		original := c.Writer
		buffered := newBufferedWriter(original)
		c.Writer = buffered

		committed := false
		defer func() {
			c.Writer = original
			if committed {
				return
			}
			if err := tx.Rollback().Error; err != nil && logger != nil {
				logger.Error("rollback failed", slog.String("error", err.Error()))
			}
		}()

		c.Request = c.Request.WithContext(database.WithTx(c.Request.Context(), tx))
		c.Next()

		if buffered.Status() >= http.StatusBadRequest || len(c.Errors) > 0 {
			c.Writer = original
			if err := buffered.flush(); err != nil && logger != nil {
				logger.Error("write response failed", slog.String("error", err.Error()))
			}
			return
		}

		c.Writer = original
		if err := tx.Commit().Error; err != nil {
			if logger != nil {
				logger.Error("commit failed", slog.String("error", err.Error()))
			}
			apierrors.InternalError(c, "")
			return
		}
		committed = true

		if err := buffered.flush(); err != nil && logger != nil {
			logger.Error("write response failed", slog.String("error", err.Error()))
		}
	}
}
