package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/taskforge-labs/taskforge-backend/internal/pagination"
	"github.com/taskforge-labs/taskforge-backend/internal/repository"
)

// UserRepository is a mock for repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *repository.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) FindByID(ctx context.Context, id string) (*repository.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*repository.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*repository.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, project *repository.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *ProjectRepository) FindByID(ctx context.Context, id string) (*repository.Project, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*repository.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) FindByMemberUserID(ctx context.Context, userID string) ([]*repository.Project, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]*repository.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, project *repository.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) AddMember(ctx context.Context, member *repository.ProjectMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *ProjectRepository) FindMember(ctx context.Context, projectID, userID string) (*repository.ProjectMember, error) {
	args := m.Called(ctx, projectID, userID)
	if member, ok := args.Get(0).(*repository.ProjectMember); ok {
		return member, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListMembers(ctx context.Context, projectID string) ([]*repository.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]*repository.ProjectMember); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) UpdateMemberRole(ctx context.Context, projectID, userID, role string) error {
	args := m.Called(ctx, projectID, userID, role)
	return args.Error(0)
}

func (m *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *ProjectRepository) CountMembersWithRole(ctx context.Context, projectID, role string) (int, error) {
	args := m.Called(ctx, projectID, role)
	return args.Int(0), args.Error(1)
}

// TaskRepository is a mock for repository.TaskRepository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, task *repository.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskRepository) FindByID(ctx context.Context, id string) (*repository.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*repository.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, task *repository.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TaskRepository) List(ctx context.Context, f *repository.TaskFilters, limit, offset int, after *pagination.Cursor) ([]*repository.Task, error) {
	args := m.Called(ctx, f, limit, offset, after)
	if list, ok := args.Get(0).([]*repository.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Count(ctx context.Context, f *repository.TaskFilters) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *TaskRepository) BulkUpdateStatus(ctx context.Context, taskIDs []string, status string) (int, error) {
	args := m.Called(ctx, taskIDs, status)
	return args.Int(0), args.Error(1)
}

// NotificationRepository is a mock for repository.NotificationRepository.
type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notification *repository.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *NotificationRepository) FindByID(ctx context.Context, id string) (*repository.Notification, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*repository.Notification); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NotificationRepository) List(ctx context.Context, f *repository.NotificationFilters, limit, offset int, after *pagination.Cursor) ([]*repository.Notification, error) {
	args := m.Called(ctx, f, limit, offset, after)
	if list, ok := args.Get(0).([]*repository.Notification); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NotificationRepository) Count(ctx context.Context, f *repository.NotificationFilters) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepository) CountByUserID(ctx context.Context, userID string) (int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *NotificationRepository) MarkAsRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationRepository) DeleteReadOlderThan(ctx context.Context, olderThan time.Time) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

// ActivityLogRepository is a mock for repository.ActivityLogRepository.
type ActivityLogRepository struct {
	mock.Mock
}

func (m *ActivityLogRepository) Create(ctx context.Context, entry *repository.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityLogRepository) List(ctx context.Context, f *repository.ActivityFilters, limit, offset int, after *pagination.Cursor) ([]*repository.ActivityLog, error) {
	args := m.Called(ctx, f, limit, offset, after)
	if list, ok := args.Get(0).([]*repository.ActivityLog); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityLogRepository) Count(ctx context.Context, f *repository.ActivityFilters) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

// TimeEntryRepository is a mock for repository.TimeEntryRepository.
type TimeEntryRepository struct {
	mock.Mock
}

func (m *TimeEntryRepository) Create(ctx context.Context, entry *repository.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *TimeEntryRepository) FindByID(ctx context.Context, id string) (*repository.TimeEntry, error) {
	args := m.Called(ctx, id)
	if entry, ok := args.Get(0).(*repository.TimeEntry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryRepository) FindActiveByUserID(ctx context.Context, userID string) (*repository.TimeEntry, error) {
	args := m.Called(ctx, userID)
	if entry, ok := args.Get(0).(*repository.TimeEntry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryRepository) FindByUser(ctx context.Context, f *repository.TimeEntryFilters) ([]*repository.TimeEntry, error) {
	args := m.Called(ctx, f)
	if list, ok := args.Get(0).([]*repository.TimeEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryRepository) Update(ctx context.Context, entry *repository.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *TimeEntryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TimeEntryRepository) StopStale(ctx context.Context, startedBefore time.Time) (int, error) {
	args := m.Called(ctx, startedBefore)
	return args.Int(0), args.Error(1)
}
