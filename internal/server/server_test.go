package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dylanmckay04/project-management-api/internal/dto"
	"github.com/dylanmckay04/project-management-api/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	handler http.Handler
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(s.T())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := New(testutil.Config(), db, logger, prometheus.NewRegistry())
	s.Require().NoError(err)
	s.handler = srv.Router()
}

func (s *ServerTestSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decodeInto[T any](s *ServerTestSuite, w *httptest.ResponseRecorder) T {
	var out T
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *ServerTestSuite) TestEndToEnd() {
	w := s.request(http.MethodPost, "/users/register", "", map[string]string{
		"email":     "a@x.com",
		"full_name": "A",
		"password":  "pw123456",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.request(http.MethodPost, "/users/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "pw123456",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	login := decodeInto[dto.LoginResponseDTO](s, w)
	s.Require().NotEmpty(login.AccessToken)
	s.Equal("bearer", login.TokenType)

	w = s.request(http.MethodPost, "/projects", login.AccessToken, map[string]string{"name": "P"})
	s.Require().Equal(http.StatusCreated, w.Code)
	project := decodeInto[dto.ProjectDTO](s, w)
	s.Equal(uint64(1), project.ID)

	w = s.request(http.MethodPost, "/tasks", login.AccessToken, map[string]any{"title": "T", "project_id": 1})
	s.Require().Equal(http.StatusCreated, w.Code)
	task := decodeInto[dto.TaskDTO](s, w)

	w = s.request(http.MethodGet, "/tasks", login.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	tasks := decodeInto[[]dto.TaskDTO](s, w)
	s.Require().Len(tasks, 1)
	s.Equal(task.ID, tasks[0].ID)
}

func (s *ServerTestSuite) TestFailedRequestRollsBack() {
	body := map[string]string{"email": "a@x.com", "full_name": "A", "password": "pw123456"}
	s.Require().Equal(http.StatusCreated, s.request(http.MethodPost, "/users/register", "", body).Code)
	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, "/users/register", "", body).Code)

	w := s.request(http.MethodPost, "/users/login", "", map[string]string{"email": "a@x.com", "password": "pw123456"})
	s.Equal(http.StatusOK, w.Code)
}

func (s *ServerTestSuite) TestDeactivatedUser() {
	s.Require().Equal(http.StatusCreated, s.request(http.MethodPost, "/users/register", "", map[string]string{
		"email": "a@x.com", "full_name": "A", "password": "pw123456",
	}).Code)
	w := s.request(http.MethodPost, "/users/login", "", map[string]string{"email": "a@x.com", "password": "pw123456"})
	s.Require().Equal(http.StatusOK, w.Code)
	token := decodeInto[dto.LoginResponseDTO](s, w).AccessToken

	s.Require().Equal(http.StatusNoContent, s.request(http.MethodDelete, "/users/me", token, nil).Code)
	s.Equal(http.StatusForbidden, s.request(http.MethodGet, "/projects", token, nil).Code)
	s.Equal(http.StatusUnauthorized, s.request(http.MethodPost, "/users/login", "", map[string]string{
		"email": "a@x.com", "password": "pw123456",
	}).Code)
}

func (s *ServerTestSuite) TestPublicEndpoints() {
	w := s.request(http.MethodGet, "/health", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"healthy"}`, w.Body.String())

	s.Equal(http.StatusOK, s.request(http.MethodGet, "/", "", nil).Code)

	w = s.request(http.MethodGet, "/metrics", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `http_requests_total{method="GET",route="/health",status="200"} 1`)

	s.Equal(http.StatusUnauthorized, s.request(http.MethodGet, "/projects", "", nil).Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
