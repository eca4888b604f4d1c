package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-labs/taskforge-backend/internal/models"
	"github.com/taskforge-labs/taskforge-backend/internal/pagination"
	"github.com/taskforge-labs/taskforge-backend/internal/repository"
	"github.com/taskforge-labs/taskforge-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth         *AuthHandler
	Project      *ProjectHandler
	Task         *TaskHandler
	Notification *NotificationHandler
	TimeEntry    *TimeEntryHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         &AuthHandler{authService: services.Auth},
		Project:      &ProjectHandler{projectService: services.Project},
		Task:         &TaskHandler{taskService: services.Task},
		Notification: &NotificationHandler{notificationService: services.Notification},
		TimeEntry:    &TimeEntryHandler{timeEntryService: services.TimeEntry},
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	switch err {
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case service.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case service.ErrInvalidCredentials:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case service.ErrInvalidToken:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case service.ErrUserExists:
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	case service.ErrMemberExists:
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member"})
	case service.ErrTimerAlreadyRunning:
		c.JSON(http.StatusConflict, gin.H{"error": "A timer is already running"})
	case service.ErrTimerNotRunning:
		c.JSON(http.StatusBadRequest, gin.H{"error": "This time entry has already been stopped"})
	case service.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case service.ErrAssigneeNotMember:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee is not a member of the project"})
	case service.ErrLastOwner:
		c.JSON(http.StatusBadRequest, gin.H{"error": "A project must keep at least one owner"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func logAPIError(c *gin.Context, action string, err error, fields map[string]interface{}) {
	log.Printf(
		"[API_ERROR] action=%s method=%s path=%s userID=%v fields=%v err=%v",
		action,
		c.Request.Method,
		c.FullPath(),
		c.GetString("userID"),
		fields,
		err,
	)
}

// ============================================
// Pagination helpers
// ============================================

// parsePagination normalizes the page/cursor/limit query parameters.
// A cursor parameter, even an empty one, selects cursor mode over page.
func parsePagination(c *gin.Context, limits pagination.Limits) pagination.Request {
	pageStr, hasPage := c.GetQuery("page")
	cursorStr, hasCursor := c.GetQuery("cursor")
	return pagination.Parse(pageStr, hasPage, cursorStr, hasCursor, c.Query("limit"), limits)
}

// listPayload renders a pagination result. Raw mode keeps the legacy
// bare-array shape; the envelope modes wrap the rows with their
// pagination block.
func listPayload[T, R any](res *pagination.Result[T], mapFn func(T) R) interface{} {
	data := make([]R, 0, len(res.Data))
	for _, item := range res.Data {
		data = append(data, mapFn(item))
	}

	switch res.Mode {
	case pagination.ModeOffset:
		return gin.H{"data": data, "pagination": res.Offset}
	case pagination.ModeCursor:
		return gin.H{"data": data, "pagination": res.Cursor}
	default:
		return data
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func toProjectResponse(p *repository.Project) models.ProjectResponse {
	return models.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toMemberResponse(m *repository.ProjectMember) models.MemberResponse {
	return models.MemberResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      m.Role,
		JoinedAt:  m.JoinedAt,
	}
}

func toTaskResponse(t *repository.Task) models.TaskResponse {
	if t == nil {
		return models.TaskResponse{}
	}
	return models.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		ProjectID:   t.ProjectID,
		AssigneeID:  t.AssigneeID,
		CreatorID:   t.CreatorID,
		DueDate:     t.DueDate,
		Tags:        safeStringSlice(t.Tags),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toNotificationResponse(n *repository.Notification) models.NotificationResponse {
	return models.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		Data:      n.Data,
		CreatedAt: n.CreatedAt,
	}
}

func toActivityResponse(e *repository.ActivityLog) models.ActivityResponse {
	return models.ActivityResponse{
		ID:        e.ID,
		TaskID:    e.TaskID,
		UserID:    e.UserID,
		Action:    e.Action,
		Field:     e.Field,
		OldValue:  e.OldValue,
		NewValue:  e.NewValue,
		CreatedAt: e.CreatedAt,
	}
}

func toTimeEntryResponse(e *repository.TimeEntry) models.TimeEntryResponse {
	return models.TimeEntryResponse{
		ID:          e.ID,
		TaskID:      e.TaskID,
		UserID:      e.UserID,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Duration:    e.Duration,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// Helper to ensure nil slices become empty slices
func safeStringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
