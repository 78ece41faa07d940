package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todo-api/internal/apperr"
	"todo-api/internal/models"
	"todo-api/internal/repository"
	"todo-api/internal/service"
	"todo-api/pkg/logger"
)

// SubjectKey is the gin context key under which the auth middleware stores
// the verified caller identifier.
const SubjectKey = "subject"

// Tasks handles the task endpoints.
type Tasks struct {
	svc *service.TaskService
}

// NewTasks returns the task handler set.
func NewTasks(svc *service.TaskService) *Tasks {
	return &Tasks{svc: svc}
}

// Root reports the API name and version.
func (h *Tasks) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Todo API - Phase II", "version": "2.0.0"})
}

// Health returns 200 if the process is alive. Used by load balancers.
func (h *Tasks) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// List returns the caller's tasks, filtered and sorted per query params.
func (h *Tasks) List(c *gin.Context) {
	f := repository.Filter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Tag:      c.Query("tag"),
		Q:        c.Query("q"),
		SortBy:   c.DefaultQuery("sort_by", "created_at"),
		Order:    c.DefaultQuery("order", "asc"),
	}
	tasks, err := h.svc.List(c.Request.Context(), caller(c), c.Param("user_id"), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Create inserts a new task for the caller.
func (h *Tasks) Create(c *gin.Context) {
	var in models.TaskCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondError(c, apperr.Validation("Invalid request body"))
		return
	}
	t, err := h.svc.Create(c.Request.Context(), caller(c), c.Param("user_id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Get returns a single task by id.
func (h *Tasks) Get(c *gin.Context) {
	id, err := taskID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	t, err := h.svc.Get(c.Request.Context(), caller(c), c.Param("user_id"), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Update applies a partial update to a task.
func (h *Tasks) Update(c *gin.Context) {
	id, err := taskID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var in models.TaskUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondError(c, apperr.Validation("Invalid request body"))
		return
	}
	t, err := h.svc.Update(c.Request.Context(), caller(c), c.Param("user_id"), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete removes a task.
func (h *Tasks) Delete(c *gin.Context) {
	id, err := taskID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), caller(c), c.Param("user_id"), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleComplete flips a task between open and done.
func (h *Tasks) ToggleComplete(c *gin.Context) {
	id, err := taskID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	t, err := h.svc.ToggleComplete(c.Request.Context(), caller(c), c.Param("user_id"), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func caller(c *gin.Context) string {
	v, _ := c.Get(SubjectKey)
	s, _ := v.(string)
	return s
}

func taskID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperr.Validation("Invalid task id")
	}
	return id, nil
}

// respondError maps a service error to its HTTP status. Anything outside the
// taxonomy is an unexpected store failure and becomes a 500.
func (h *Tasks) respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.JSON(ae.Status(), gin.H{"error": ae.Message})
		return
	}
	logger.Error(c.Request.Context(), "Unhandled error", "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
