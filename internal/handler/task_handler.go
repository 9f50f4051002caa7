package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/metrics"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

type TaskHandler struct {
	tasks  *service.TaskService
	logger *zap.Logger
}

func NewTaskHandler(tasks *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

func taskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task id")
		return 0, false
	}
	return id, true
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		AssignedTo  int        `json:"assignedTo"`
		DueDate     *time.Time `json:"dueDate"`
		Tags        []string   `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), actor, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		respondServiceError(c, err, "Not authorized to create this task", "Error creating task")
		return
	}

	metrics.RecordTaskOperation("create")
	respondData(c, http.StatusCreated, "Task created successfully", gin.H{"task": task})
}

// parseFilter builds a TaskFilter from the list query params. The role
// scope is applied later by the service, never trusted from the client.
func parseFilter(c *gin.Context) model.TaskFilter {
	f := model.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	if v, err := strconv.Atoi(c.Query("assignedTo")); err == nil {
		f.AssignedTo = v
	}
	if v, err := strconv.Atoi(c.Query("createdBy")); err == nil {
		f.CreatedBy = v
	}
	// Clamp here so the page/pages echoed in the response match what
	// the service actually serves.
	f.Page = 1
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		f.Page = v
	}
	f.Limit = 10
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 {
		f.Limit = v
	}

	// sortBy uses "field:direction", e.g. "dueDate:asc".
	if sortBy := c.Query("sortBy"); sortBy != "" {
		parts := strings.SplitN(sortBy, ":", 2)
		f.SortField = parts[0]
		f.SortDesc = len(parts) == 2 && parts[1] == "desc"
	} else {
		f.SortField = "createdAt"
		f.SortDesc = true
	}
	return f
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	f := parseFilter(c)
	tasks, total, err := h.tasks.List(c.Request.Context(), actor, f)
	if err != nil {
		h.logger.Error("List tasks failed", zap.Int("user_id", actor.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Error fetching tasks")
		return
	}

	pages := 0
	if f.Limit > 0 {
		pages = (total + f.Limit - 1) / f.Limit
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(tasks),
		"total":   total,
		"page":    f.Page,
		"pages":   pages,
		"data":    gin.H{"tasks": tasks},
	})
}

// Stats handles GET /api/tasks/stats.
func (h *TaskHandler) Stats(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.tasks.Stats(c.Request.Context(), actor)
	if err != nil {
		h.logger.Error("Task stats failed", zap.Int("user_id", actor.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Error fetching task statistics")
		return
	}
	respondData(c, http.StatusOK, "", stats)
}

// Get handles GET /api/tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err, "Not authorized to access this task", "Error fetching task")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"task": task})
}

// Update handles PUT /api/tasks/:id. Absent fields are left untouched.
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status"`
		Priority    *string    `json:"priority"`
		AssignedTo  *int       `json:"assignedTo"`
		DueDate     *time.Time `json:"dueDate"`
		Tags        *[]string  `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), actor, id, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		respondServiceError(c, err, "Not authorized to update this task", "Error updating task")
		return
	}

	metrics.RecordTaskOperation("update")
	respondData(c, http.StatusOK, "Task updated successfully", gin.H{"task": task})
}

// UpdateStatus handles PATCH /api/tasks/:id/status.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.tasks.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondServiceError(c, err, "Not authorized to update this task", "Error updating task status")
		return
	}

	metrics.RecordTaskOperation("status")
	respondData(c, http.StatusOK, "Task status updated successfully", gin.H{"task": task})
}

// Assign handles PATCH /api/tasks/:id/assign.
func (h *TaskHandler) Assign(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req struct {
		AssignedTo int `json:"assignedTo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AssignedTo == 0 {
		respondError(c, http.StatusBadRequest, "Please provide assignedTo user ID")
		return
	}

	task, err := h.tasks.Assign(c.Request.Context(), actor, id, req.AssignedTo)
	if err != nil {
		respondServiceError(c, err, "Not authorized to assign this task", "Error assigning task")
		return
	}

	metrics.RecordTaskOperation("assign")
	respondData(c, http.StatusOK, "Task assigned successfully", gin.H{"task": task})
}

// Delete handles DELETE /api/tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, err, "Not authorized to delete this task", "Error deleting task")
		return
	}

	metrics.RecordTaskOperation("delete")
	respondData(c, http.StatusOK, "Task deleted successfully", gin.H{})
}
