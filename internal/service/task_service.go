package service

import (
	"context"
	"log"
	"time"

	"github.com/taskforge-labs/taskforge-backend/internal/pagination"
	"github.com/taskforge-labs/taskforge-backend/internal/repository"
	"github.com/taskforge-labs/taskforge-backend/internal/types"
)

type TaskService interface {
	// Task CRUD
	Create(ctx context.Context, userID string, req *CreateTaskRequest) (*repository.Task, error)
	GetByID(ctx context.Context, taskID, userID string) (*repository.Task, error)
	Update(ctx context.Context, taskID, userID string, req *UpdateTaskRequest) (*repository.Task, error)
	Delete(ctx context.Context, taskID, userID string) error

	// Listing
	List(ctx context.Context, userID string, f *TaskListFilters, req pagination.Request) (*pagination.Result[*repository.Task], error)
	ListActivity(ctx context.Context, taskID, userID string, req pagination.Request) (*pagination.Result[*repository.ActivityLog], error)

	// Bulk operations
	BulkUpdateStatus(ctx context.Context, userID string, taskIDs []string, status string) (*BulkStatusResult, error)
}

type CreateTaskRequest struct {
	ProjectID   string
	Title       string
	Description *string
	Status      string
	Priority    string
	AssigneeID  *string
	DueDate     *time.Time
	Tags        []string
}

// UpdateTaskRequest uses pointer fields so absent and zero-valued
// inputs stay distinguishable. ClearAssignee and ClearDueDate carry
// the explicit null the pointer fields cannot express.
type UpdateTaskRequest struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	AssigneeID    *string
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
	Tags          *[]string
}

// TaskListFilters are the caller-visible listing filters. The
// membership scope is added by the service, never by the caller.
type TaskListFilters struct {
	ProjectID  *string
	Status     *string
	Priority   *string
	AssigneeID *string
	CreatorID  *string
	SortBy     string
	Order      string
}

// BulkStatusResult reports a partial bulk outcome: authorized tasks
// were updated, the rest were skipped rather than failing the batch.
type BulkStatusResult struct {
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	TaskIDs []string `json:"taskIds"`
}

type taskService struct {
	taskRepo     repository.TaskRepository
	projectRepo  repository.ProjectRepository
	activityRepo repository.ActivityLogRepository
	notifier     NotificationService
	access       *accessResolver
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	activityRepo repository.ActivityLogRepository,
	notifier NotificationService,
	access *accessResolver,
) TaskService {
	return &taskService{
		taskRepo:     taskRepo,
		projectRepo:  projectRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		access:       access,
	}
}

// ============================================
// CREATE
// ============================================

func (s *taskService) Create(ctx context.Context, userID string, req *CreateTaskRequest) (*repository.Task, error) {
	if req.Title == "" {
		return nil, ErrInvalidInput
	}

	// An absent project is 404; an existing project where the caller
	// holds no membership row is 403, not the scoped lookup's 404.
	project, err := s.projectRepo.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	member, err := s.projectRepo.FindMember(ctx, req.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrForbidden
	}
	if !RoleCan(member.Role, OpCreateTask) {
		return nil, ErrForbidden
	}

	if req.Status == "" {
		req.Status = types.StatusTodo
	}
	if req.Priority == "" {
		req.Priority = types.PriorityMedium
	}
	if !types.IsValidStatus(req.Status) || !types.IsValidPriority(req.Priority) {
		return nil, ErrInvalidInput
	}

	// An assignee must already hold a membership row in the task's
	// project; assignment never grants access.
	if req.AssigneeID != nil {
		member, err := s.projectRepo.FindMember(ctx, req.ProjectID, *req.AssigneeID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, ErrAssigneeNotMember
		}
	}

	task := &repository.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		CreatorID:   userID,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logActivity(ctx, task.ID, userID, types.ActivityCreated, "", nil, nil)

	if task.AssigneeID != nil && *task.AssigneeID != userID {
		s.notifier.NotifyTaskAssigned(ctx, task, *task.AssigneeID)
	}

	return task, nil
}

// ============================================
// READ
// ============================================

func (s *taskService) GetByID(ctx context.Context, taskID, userID string) (*repository.Task, error) {
	task, _, err := s.access.ScopedTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, userID string, f *TaskListFilters, req pagination.Request) (*pagination.Result[*repository.Task], error) {
	filters := &repository.TaskFilters{
		MemberUserID: userID,
		ProjectID:    f.ProjectID,
		Status:       f.Status,
		Priority:     f.Priority,
		AssigneeID:   f.AssigneeID,
		CreatorID:    f.CreatorID,
	}
	// Keyset traversal runs on (created_at, id) only; a caller sort
	// order would break the cursor chain.
	if req.Mode != pagination.ModeCursor {
		filters.SortBy = f.SortBy
		filters.Order = f.Order
	}

	return pagination.Paginate(ctx, req, pagination.Fetcher[*repository.Task]{
		Fetch: func(ctx context.Context, limit, offset int, after *pagination.Cursor) ([]*repository.Task, error) {
			return s.taskRepo.List(ctx, filters, limit, offset, after)
		},
		Count: func(ctx context.Context) (int, error) {
			return s.taskRepo.Count(ctx, filters)
		},
		Key: func(t *repository.Task) (time.Time, string) {
			return t.CreatedAt, t.ID
		},
	})
}

func (s *taskService) ListActivity(ctx context.Context, taskID, userID string, req pagination.Request) (*pagination.Result[*repository.ActivityLog], error) {
	// Visibility first: an activity listing for a task outside the
	// caller's scope is a 404, not an empty page.
	if _, _, err := s.access.ScopedTask(ctx, taskID, userID); err != nil {
		return nil, err
	}

	filters := &repository.ActivityFilters{TaskID: taskID}

	return pagination.Paginate(ctx, req, pagination.Fetcher[*repository.ActivityLog]{
		Fetch: func(ctx context.Context, limit, offset int, after *pagination.Cursor) ([]*repository.ActivityLog, error) {
			return s.activityRepo.List(ctx, filters, limit, offset, after)
		},
		Count: func(ctx context.Context) (int, error) {
			return s.activityRepo.Count(ctx, filters)
		},
		Key: func(e *repository.ActivityLog) (time.Time, string) {
			return e.CreatedAt, e.ID
		},
	})
}

// ============================================
// UPDATE
// ============================================

func (s *taskService) Update(ctx context.Context, taskID, userID string, req *UpdateTaskRequest) (*repository.Task, error) {
	task, role, err := s.access.ScopedTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if !canMutate(role, task.CreatorID, userID, OpUpdateAny, OpUpdateOwn) {
		return nil, ErrForbidden
	}

	if req.Status != nil && !types.IsValidStatus(*req.Status) {
		return nil, ErrInvalidInput
	}
	if req.Priority != nil && !types.IsValidPriority(*req.Priority) {
		return nil, ErrInvalidInput
	}

	var changes []activityChange
	completed := false

	if req.Title != nil && *req.Title != task.Title {
		if *req.Title == "" {
			return nil, ErrInvalidInput
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil && *req.Status != task.Status {
		old := task.Status
		task.Status = *req.Status
		action := types.ActivityStatusChanged
		if task.Status == types.StatusDone {
			action = types.ActivityCompleted
			completed = true
		}
		changes = append(changes, activityChange{action, "status", &old, req.Status})
	}
	if req.Priority != nil && *req.Priority != task.Priority {
		old := task.Priority
		task.Priority = *req.Priority
		changes = append(changes, activityChange{types.ActivityPriorityChanged, "priority", &old, req.Priority})
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
		if task.Tags == nil {
			task.Tags = []string{}
		}
	}
	if req.ClearDueDate {
		task.DueDate = nil
	} else if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	var newAssignee *string
	if req.ClearAssignee {
		if task.AssigneeID != nil {
			changes = append(changes, activityChange{types.ActivityUnassigned, "assignee", task.AssigneeID, nil})
		}
		task.AssigneeID = nil
	} else if req.AssigneeID != nil && (task.AssigneeID == nil || *task.AssigneeID != *req.AssigneeID) {
		member, err := s.projectRepo.FindMember(ctx, task.ProjectID, *req.AssigneeID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, ErrAssigneeNotMember
		}
		changes = append(changes, activityChange{types.ActivityAssigned, "assignee", task.AssigneeID, req.AssigneeID})
		task.AssigneeID = req.AssigneeID
		newAssignee = req.AssigneeID
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	for _, c := range changes {
		s.logActivity(ctx, task.ID, userID, c.action, c.field, c.oldValue, c.newValue)
	}

	if newAssignee != nil && *newAssignee != userID {
		s.notifier.NotifyTaskAssigned(ctx, task, *newAssignee)
	}
	if completed {
		s.notifier.NotifyTaskCompleted(ctx, task, userID)
	}

	return task, nil
}

// ============================================
// DELETE
// ============================================

func (s *taskService) Delete(ctx context.Context, taskID, userID string) error {
	task, role, err := s.access.ScopedTask(ctx, taskID, userID)
	if err != nil {
		return err
	}
	if !canMutate(role, task.CreatorID, userID, OpDeleteAny, OpDeleteOwn) {
		return ErrForbidden
	}

	return s.taskRepo.Delete(ctx, taskID)
}

// ============================================
// BULK OPERATIONS
// ============================================

// BulkUpdateStatus applies the status to every task in the batch the
// caller may update, and reports the rest as skipped. One unauthorized
// or missing id never fails the whole batch.
func (s *taskService) BulkUpdateStatus(ctx context.Context, userID string, taskIDs []string, status string) (*BulkStatusResult, error) {
	if !types.IsValidStatus(status) {
		return nil, ErrInvalidInput
	}
	if len(taskIDs) == 0 {
		return &BulkStatusResult{TaskIDs: []string{}}, nil
	}

	var authorized []string
	for _, id := range taskIDs {
		task, role, err := s.access.ScopedTask(ctx, id, userID)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !canMutate(role, task.CreatorID, userID, OpUpdateAny, OpUpdateOwn) {
			continue
		}
		authorized = append(authorized, id)
	}

	updated := 0
	if len(authorized) > 0 {
		n, err := s.taskRepo.BulkUpdateStatus(ctx, authorized, status)
		if err != nil {
			return nil, err
		}
		updated = n

		action := types.ActivityStatusChanged
		if status == types.StatusDone {
			action = types.ActivityCompleted
		}
		for _, id := range authorized {
			s.logActivity(ctx, id, userID, action, "status", nil, &status)
		}
	}
	if authorized == nil {
		authorized = []string{}
	}

	return &BulkStatusResult{
		Updated: updated,
		Skipped: len(taskIDs) - updated,
		TaskIDs: authorized,
	}, nil
}

// ============================================
// ACTIVITY
// ============================================

type activityChange struct {
	action   string
	field    string
	oldValue *string
	newValue *string
}

// logActivity records the change without failing the mutation that
// triggered it. Activity is best effort.
func (s *taskService) logActivity(ctx context.Context, taskID, userID, action, field string, oldValue, newValue *string) {
	entry := &repository.ActivityLog{
		TaskID:   taskID,
		UserID:   &userID,
		Action:   action,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		log.Printf("[TASK] failed to record %s activity for task %s: %v", action, taskID, err)
	}
}
