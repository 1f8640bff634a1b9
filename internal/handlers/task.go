package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dylanmckay04/project-management-api/internal/dto"
	apierrors "github.com/dylanmckay04/project-management-api/internal/errors"
	"github.com/dylanmckay04/project-management-api/internal/middleware"
	"github.com/dylanmckay04/project-management-api/internal/models"
	"github.com/dylanmckay04/project-management-api/internal/services"
	"github.com/dylanmckay04/project-management-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// TaskHandler serves the /tasks routes for the authenticated user.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a TaskHandler backed by taskService.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

type createTaskRequest struct {
	Title       string               `json:"title" binding:"required"`
	Description *string              `json:"description"`
	ProjectID   uint64               `json:"project_id" binding:"required"`
	AssignedTo  *uint64              `json:"assigned_to"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *time.Time           `json:"due_date"`
}

type updateTaskRequest struct {
	Title       *string                   `json:"title"`
	Description utils.Optional[string]    `json:"description"`
	Status      *models.TaskStatus        `json:"status"`
	Priority    *models.TaskPriority      `json:"priority"`
	AssignedTo  utils.Optional[uint64]    `json:"assigned_to"`
	DueDate     utils.Optional[time.Time] `json:"due_date"`
}

// ListTasks returns tasks in the current user's projects.
// Supports project_id and task_status filters plus skip/limit.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{
		OwnerID: userID,
		Status:  c.Query("task_status"),
	}

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.Unprocessable(c, "Invalid project_id")
			return
		}
		input.ProjectID = &projectID
	}

	page, err := utils.GetPaginationParams(c)
	if err != nil {
		apierrors.Unprocessable(c, err.Error())
		return
	}
	input.Page = page

	tasks, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a task in one of the current user's projects.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.CreateTaskInput{
		OwnerID:     userID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		input.Status = *req.Status
	}
	if req.Priority != nil {
		input.Priority = *req.Priority
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task with its assigned user.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*task))
}

// UpdateTask applies a partial update to a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, "Assigned user not found")
	case errors.Is(err, services.ErrInvalidTaskStatus):
		apierrors.BadRequest(c, "Invalid status. Must be one of: "+strings.Join(services.ValidTaskStatuses(), ", "))
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.Unprocessable(c, "Title is required")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
