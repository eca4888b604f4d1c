package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-labs/taskforge-backend/internal/api/middleware"
	"github.com/taskforge-labs/taskforge-backend/internal/models"
	"github.com/taskforge-labs/taskforge-backend/internal/service"
)

type TimeEntryHandler struct {
	timeEntryService service.TimeEntryService
}

func NewTimeEntryHandler(timeEntryService service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{timeEntryService: timeEntryService}
}

// ============================================
// TIMERS
// ============================================

func (h *TimeEntryHandler) StartTimer(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.StartTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.timeEntryService.StartTimer(c.Request.Context(), req.TaskID, userID, req.Description)
	if err != nil {
		logAPIError(c, "TimeEntry.StartTimer", err, map[string]interface{}{"taskID": req.TaskID})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTimeEntryResponse(entry))
}

func (h *TimeEntryHandler) StopTimer(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	entryID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.timeEntryService.StopTimer(c.Request.Context(), entryID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTimeEntryResponse(entry))
}

func (h *TimeEntryHandler) ActiveTimer(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	entry, err := h.timeEntryService.ActiveTimer(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"active": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"active": toTimeEntryResponse(entry)})
}

// ============================================
// ENTRIES
// ============================================

func (h *TimeEntryHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.timeEntryService.Create(c.Request.Context(), userID, &service.CreateTimeEntryRequest{
		TaskID:      req.TaskID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
	})
	if err != nil {
		logAPIError(c, "TimeEntry.Create", err, map[string]interface{}{"taskID": req.TaskID})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTimeEntryResponse(entry))
}

func (h *TimeEntryHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	entryID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.timeEntryService.GetByID(c.Request.Context(), entryID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTimeEntryResponse(entry))
}

func (h *TimeEntryHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	entries, err := h.timeEntryService.List(c.Request.Context(), userID, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := make([]models.TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toTimeEntryResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TimeEntryHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	entryID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.timeEntryService.Update(c.Request.Context(), entryID, userID, &service.UpdateTimeEntryRequest{
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTimeEntryResponse(entry))
}

func (h *TimeEntryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	entryID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.timeEntryService.Delete(c.Request.Context(), entryID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TimeEntryHandler) Stats(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	stats, err := h.timeEntryService.Stats(c.Request.Context(), userID, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *TimeEntryHandler) parseFilters(c *gin.Context) (*service.TimeEntryListFilters, bool) {
	filters := &service.TimeEntryListFilters{
		TaskID:    queryPtr(c, "taskId"),
		ProjectID: queryPtr(c, "projectId"),
	}

	for name, dst := range map[string]**time.Time{"dateFrom": &filters.DateFrom, "dateTo": &filters.DateTo} {
		if v := c.Query(name); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " timestamp"})
				return nil, false
			}
			*dst = &t
		}
	}
	return filters, true
}
