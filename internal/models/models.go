package models

import (
	"encoding/json"
	"time"
)

// ============================================
// AUTH REQUESTS & RESPONSES
// ============================================

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ============================================
// PROJECT REQUESTS & RESPONSES
// ============================================

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type MemberResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// ============================================
// TASK REQUESTS & RESPONSES
// ============================================

type CreateTaskRequest struct {
	ProjectID   string     `json:"projectId" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *string    `json:"assigneeId"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
}

// UpdateTaskRequest distinguishes omitted fields from explicit nulls:
// `"assigneeId": null` clears the assignee, omitting the key leaves it
// unchanged, and the same applies to dueDate. The clear flags are set
// during decoding and are not part of the wire shape.
type UpdateTaskRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	Priority      *string    `json:"priority"`
	AssigneeID    *string    `json:"assigneeId"`
	ClearAssignee bool       `json:"-"`
	DueDate       *time.Time `json:"dueDate"`
	ClearDueDate  bool       `json:"-"`
	Tags          *[]string  `json:"tags"`
}

func (r *UpdateTaskRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateTaskRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["assigneeId"]; ok && string(v) == "null" {
		p.ClearAssignee = true
	}
	if v, ok := raw["dueDate"]; ok && string(v) == "null" {
		p.ClearDueDate = true
	}

	*r = UpdateTaskRequest(p)
	return nil
}

type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ProjectID   string     `json:"projectId"`
	AssigneeID  *string    `json:"assigneeId"`
	CreatorID   string     `json:"creatorId"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type BulkStatusRequest struct {
	TaskIDs []string `json:"taskIds" binding:"required"`
	Status  string   `json:"status" binding:"required"`
}

type BulkStatusResponse struct {
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	TaskIDs []string `json:"taskIds"`
}

// ============================================
// NOTIFICATION RESPONSES
// ============================================

type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Read      bool                   `json:"read"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"createdAt"`
}

type NotificationCountResponse struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}

// ============================================
// ACTIVITY RESPONSES
// ============================================

type ActivityResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	UserID    *string   `json:"userId"`
	Action    string    `json:"action"`
	Field     string    `json:"field,omitempty"`
	OldValue  *string   `json:"oldValue"`
	NewValue  *string   `json:"newValue"`
	CreatedAt time.Time `json:"createdAt"`
}

// ============================================
// TIME ENTRY REQUESTS & RESPONSES
// ============================================

type StartTimerRequest struct {
	TaskID      string  `json:"taskId" binding:"required"`
	Description *string `json:"description"`
}

type CreateTimeEntryRequest struct {
	TaskID      string    `json:"taskId" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
	Description *string   `json:"description"`
}

type UpdateTimeEntryRequest struct {
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Description *string    `json:"description"`
}

type TimeEntryResponse struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"taskId"`
	UserID      string     `json:"userId"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Duration    *int       `json:"duration"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
}
