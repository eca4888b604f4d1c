package types

// Task Status values
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusInReview   = "IN_REVIEW"
	StatusDone       = "DONE"
)

// Task Priority values
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Project Member Roles
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
	RoleViewer = "VIEWER"
)

// Notification types
const (
	NotifTaskAssigned    = "TASK_ASSIGNED"
	NotifTaskUpdated     = "TASK_UPDATED"
	NotifTaskCompleted   = "TASK_COMPLETED"
	NotifCommentAdded    = "COMMENT_ADDED"
	NotifDueDateReminder = "DUE_DATE_REMINDER"
)

// Activity log actions
const (
	ActivityCreated         = "CREATED"
	ActivityUpdated         = "UPDATED"
	ActivityStatusChanged   = "STATUS_CHANGED"
	ActivityPriorityChanged = "PRIORITY_CHANGED"
	ActivityAssigned        = "ASSIGNED"
	ActivityUnassigned      = "UNASSIGNED"
	ActivityCompleted       = "COMPLETED"
	ActivityDeleted         = "DELETED"
)

// Valid status values for validation
var ValidTaskStatuses = []string{
	StatusTodo, StatusInProgress, StatusInReview, StatusDone,
}

// Valid priority values for validation
var ValidTaskPriorities = []string{
	PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent,
}

// Valid member roles for validation
var ValidRoles = []string{
	RoleOwner, RoleAdmin, RoleMember, RoleViewer,
}

// IsValidStatus checks a task status value
func IsValidStatus(s string) bool {
	return contains(ValidTaskStatuses, s)
}

// IsValidPriority checks a task priority value
func IsValidPriority(p string) bool {
	return contains(ValidTaskPriorities, p)
}

// IsValidRole checks a project member role value
func IsValidRole(r string) bool {
	return contains(ValidRoles, r)
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
