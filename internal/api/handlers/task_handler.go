package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-labs/taskforge-backend/internal/api/middleware"
	"github.com/taskforge-labs/taskforge-backend/internal/models"
	"github.com/taskforge-labs/taskforge-backend/internal/pagination"
	"github.com/taskforge-labs/taskforge-backend/internal/service"
)

type TaskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ============================================
// TASK CRUD
// ============================================

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), userID, &service.CreateTaskRequest{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		logAPIError(c, "Task.Create", err, map[string]interface{}{
			"projectID": req.ProjectID,
			"title":     req.Title,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	taskID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), taskID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	taskID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), taskID, userID, &service.UpdateTaskRequest{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		AssigneeID:    req.AssigneeID,
		ClearAssignee: req.ClearAssignee,
		DueDate:       req.DueDate,
		ClearDueDate:  req.ClearDueDate,
		Tags:          req.Tags,
	})
	if err != nil {
		logAPIError(c, "Task.Update", err, map[string]interface{}{"taskID": taskID})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	taskID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), taskID, userID); err != nil {
		logAPIError(c, "Task.Delete", err, map[string]interface{}{"taskID": taskID})
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ============================================
// LISTING
// ============================================

func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	filters := &service.TaskListFilters{
		ProjectID:  queryPtr(c, "projectId"),
		Status:     queryPtr(c, "status"),
		Priority:   queryPtr(c, "priority"),
		AssigneeID: queryPtr(c, "assigneeId"),
		CreatorID:  queryPtr(c, "creatorId"),
		SortBy:     c.Query("sortBy"),
		Order:      c.Query("order"),
	}
	req := parsePagination(c, pagination.TaskLimits)

	res, err := h.taskService.List(c.Request.Context(), userID, filters, req)
	if err != nil {
		logAPIError(c, "Task.List", err, nil)
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listPayload(res, toTaskResponse))
}

func (h *TaskHandler) ListActivity(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	taskID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	req := parsePagination(c, pagination.ActivityLimits)

	res, err := h.taskService.ListActivity(c.Request.Context(), taskID, userID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listPayload(res, toActivityResponse))
}

// ============================================
// BULK OPERATIONS
// ============================================

func (h *TaskHandler) BulkUpdateStatus(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.taskService.BulkUpdateStatus(c.Request.Context(), userID, req.TaskIDs, req.Status)
	if err != nil {
		logAPIError(c, "Task.BulkUpdateStatus", err, map[string]interface{}{
			"count":  len(req.TaskIDs),
			"status": req.Status,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BulkStatusResponse{
		Updated: res.Updated,
		Skipped: res.Skipped,
		TaskIDs: res.TaskIDs,
	})
}

func queryPtr(c *gin.Context, name string) *string {
	if v, ok := c.GetQuery(name); ok && v != "" {
		return &v
	}
	return nil
}
