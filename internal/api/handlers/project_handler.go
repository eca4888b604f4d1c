package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskforge-labs/taskforge-backend/internal/api/middleware"
	"github.com/taskforge-labs/taskforge-backend/internal/models"
	"github.com/taskforge-labs/taskforge-backend/internal/service"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// requireUUIDParam rejects malformed path IDs before they reach a
// query.
func requireUUIDParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return "", false
	}
	return id, true
}

// ============================================
// PROJECT CRUD
// ============================================

func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), userID, &service.CreateProjectRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		logAPIError(c, "Project.Create", err, map[string]interface{}{"name": req.Name})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(project))
}

func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := make([]models.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, toProjectResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), projectID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), projectID, userID, &service.UpdateProjectRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		logAPIError(c, "Project.Update", err, map[string]interface{}{"projectID": projectID})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), projectID, userID); err != nil {
		logAPIError(c, "Project.Delete", err, map[string]interface{}{"projectID": projectID})
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ============================================
// MEMBERS
// ============================================

func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.projectService.AddMember(c.Request.Context(), projectID, userID, req.UserID, req.Role)
	if err != nil {
		logAPIError(c, "Project.AddMember", err, map[string]interface{}{
			"projectID": projectID,
			"memberID":  req.UserID,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMemberResponse(member))
}

func (h *ProjectHandler) ListMembers(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(c.Request.Context(), projectID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := make([]models.MemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, toMemberResponse(m))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) UpdateMemberRole(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := requireUUIDParam(c, "userId")
	if !ok {
		return
	}

	var req models.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projectService.UpdateMemberRole(c.Request.Context(), projectID, userID, memberID, req.Role); err != nil {
		logAPIError(c, "Project.UpdateMemberRole", err, map[string]interface{}{
			"projectID": projectID,
			"memberID":  memberID,
			"role":      req.Role,
		})
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := requireUUIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(c.Request.Context(), projectID, userID, memberID); err != nil {
		logAPIError(c, "Project.RemoveMember", err, map[string]interface{}{
			"projectID": projectID,
			"memberID":  memberID,
		})
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
