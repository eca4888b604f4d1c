package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskforge-labs/taskforge-backend/internal/repository"
	"github.com/taskforge-labs/taskforge-backend/internal/repository/mocks"
	"github.com/taskforge-labs/taskforge-backend/internal/types"
)

type timeEntryFixture struct {
	entryRepo   *mocks.TimeEntryRepository
	taskRepo    *mocks.TaskRepository
	projectRepo *mocks.ProjectRepository
	svc         TimeEntryService
}

func newTimeEntryFixture() *timeEntryFixture {
	f := &timeEntryFixture{
		entryRepo:   new(mocks.TimeEntryRepository),
		taskRepo:    new(mocks.TaskRepository),
		projectRepo: new(mocks.ProjectRepository),
	}
	access := newAccessResolver(f.taskRepo, f.projectRepo)
	f.svc = NewTimeEntryService(f.entryRepo, access)
	return f
}

func (f *timeEntryFixture) allowTask(taskID, projectID, userID string) {
	f.taskRepo.On("FindByID", mock.Anything, taskID).
		Return(&repository.Task{ID: taskID, ProjectID: projectID, CreatorID: "creator"}, nil)
	f.projectRepo.On("FindMember", mock.Anything, projectID, userID).
		Return(&repository.ProjectMember{ProjectID: projectID, UserID: userID, Role: types.RoleMember}, nil)
}

func TestStartTimer_RejectsSecondTimer(t *testing.T) {
	f := newTimeEntryFixture()
	f.allowTask("t1", "p1", "u1")
	f.entryRepo.On("FindActiveByUserID", mock.Anything, "u1").
		Return(&repository.TimeEntry{ID: "e1", UserID: "u1", StartTime: time.Now()}, nil)

	_, err := f.svc.StartTimer(context.Background(), "t1", "u1", nil)
	require.ErrorIs(t, err, ErrTimerAlreadyRunning)
	f.entryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStartTimer_OutOfScopeTaskIsNotFound(t *testing.T) {
	f := newTimeEntryFixture()
	f.taskRepo.On("FindByID", mock.Anything, "t1").Return(nil, nil)

	_, err := f.svc.StartTimer(context.Background(), "t1", "u1", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStartTimer_CreatesOpenEntry(t *testing.T) {
	f := newTimeEntryFixture()
	f.allowTask("t1", "p1", "u1")
	f.entryRepo.On("FindActiveByUserID", mock.Anything, "u1").Return(nil, nil)
	f.entryRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *repository.TimeEntry) bool {
		return e.TaskID == "t1" && e.UserID == "u1" && e.EndTime == nil && e.Duration == nil
	})).Return(nil)

	entry, err := f.svc.StartTimer(context.Background(), "t1", "u1", nil)
	require.NoError(t, err)
	require.Nil(t, entry.EndTime)
	f.entryRepo.AssertExpectations(t)
}

func TestStopTimer_AbsentEntryIsNotFound(t *testing.T) {
	f := newTimeEntryFixture()
	f.entryRepo.On("FindByID", mock.Anything, "e1").Return(nil, nil)

	_, err := f.svc.StopTimer(context.Background(), "e1", "u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStopTimer_ForeignEntryIsNotFound(t *testing.T) {
	f := newTimeEntryFixture()
	f.entryRepo.On("FindByID", mock.Anything, "e1").
		Return(&repository.TimeEntry{ID: "e1", UserID: "someone-else", StartTime: time.Now()}, nil)

	_, err := f.svc.StopTimer(context.Background(), "e1", "u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStopTimer_AlreadyStopped(t *testing.T) {
	f := newTimeEntryFixture()
	ended := time.Now().UTC()
	f.entryRepo.On("FindByID", mock.Anything, "e1").
		Return(&repository.TimeEntry{ID: "e1", UserID: "u1", StartTime: ended.Add(-time.Hour), EndTime: &ended}, nil)

	_, err := f.svc.StopTimer(context.Background(), "e1", "u1")
	require.ErrorIs(t, err, ErrTimerNotRunning)
	f.entryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStopTimer_RecordsDuration(t *testing.T) {
	f := newTimeEntryFixture()
	started := time.Now().UTC().Add(-90 * time.Minute)
	f.entryRepo.On("FindByID", mock.Anything, "e1").
		Return(&repository.TimeEntry{ID: "e1", TaskID: "t1", UserID: "u1", StartTime: started}, nil)
	f.entryRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *repository.TimeEntry) bool {
		return e.EndTime != nil && e.Duration != nil && *e.Duration >= 5400
	})).Return(nil)

	entry, err := f.svc.StopTimer(context.Background(), "e1", "u1")
	require.NoError(t, err)
	require.NotNil(t, entry.Duration)
	require.GreaterOrEqual(t, *entry.Duration, 5400)
}

func TestManualCreate_EndBeforeStartRejected(t *testing.T) {
	f := newTimeEntryFixture()
	f.allowTask("t1", "p1", "u1")

	now := time.Now().UTC()
	_, err := f.svc.Create(context.Background(), "u1", &CreateTimeEntryRequest{
		TaskID:    "t1",
		StartTime: now,
		EndTime:   now.Add(-time.Hour),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestManualCreate_ComputesDuration(t *testing.T) {
	f := newTimeEntryFixture()
	f.allowTask("t1", "p1", "u1")

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	f.entryRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *repository.TimeEntry) bool {
		return e.Duration != nil && *e.Duration == 3600
	})).Return(nil)

	entry, err := f.svc.Create(context.Background(), "u1", &CreateTimeEntryRequest{
		TaskID:    "t1",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, 3600, *entry.Duration)
}

func TestUpdate_ForeignEntryIsNotFound(t *testing.T) {
	f := newTimeEntryFixture()
	f.entryRepo.On("FindByID", mock.Anything, "e1").
		Return(&repository.TimeEntry{ID: "e1", UserID: "someone-else"}, nil)

	_, err := f.svc.Update(context.Background(), "e1", "u1", &UpdateTimeEntryRequest{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_OwnEntry(t *testing.T) {
	f := newTimeEntryFixture()
	f.entryRepo.On("FindByID", mock.Anything, "e1").
		Return(&repository.TimeEntry{ID: "e1", UserID: "u1"}, nil)
	f.entryRepo.On("Delete", mock.Anything, "e1").Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), "e1", "u1"))
	f.entryRepo.AssertExpectations(t)
}

func TestStats_AggregatesByTaskAndDay(t *testing.T) {
	f := newTimeEntryFixture()

	day1 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	secs := func(n int) *int { return &n }
	f.entryRepo.On("FindByUser", mock.Anything, mock.MatchedBy(func(ff *repository.TimeEntryFilters) bool {
		return ff.UserID == "u1" && ff.ClosedOnly
	})).Return([]*repository.TimeEntry{
		{ID: "e1", TaskID: "t1", UserID: "u1", StartTime: day1, Duration: secs(3600)},
		{ID: "e2", TaskID: "t1", UserID: "u1", StartTime: day2, Duration: secs(1800)},
		{ID: "e3", TaskID: "t2", UserID: "u1", StartTime: day2, Duration: secs(900)},
	}, nil)

	stats, err := f.svc.Stats(context.Background(), "u1", nil)
	require.NoError(t, err)
	require.Equal(t, 6300, stats.TotalSeconds)
	require.True(t, stats.TotalHours.Equal(decimal.RequireFromString("1.75")))

	require.Len(t, stats.ByTask, 2)
	require.Equal(t, "t1", stats.ByTask[0].TaskID)
	require.Equal(t, 5400, stats.ByTask[0].Seconds)
	require.True(t, stats.ByTask[0].Hours.Equal(decimal.RequireFromString("1.5")))

	require.Len(t, stats.ByDay, 2)
	require.Equal(t, "2026-08-01", stats.ByDay[0].Date)
	require.Equal(t, 3600, stats.ByDay[0].Seconds)
	require.Equal(t, "2026-08-02", stats.ByDay[1].Date)
	require.Equal(t, 2700, stats.ByDay[1].Seconds)
}

func TestStats_EmptyEntries(t *testing.T) {
	f := newTimeEntryFixture()
	f.entryRepo.On("FindByUser", mock.Anything, mock.Anything).Return([]*repository.TimeEntry{}, nil)

	stats, err := f.svc.Stats(context.Background(), "u1", nil)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalSeconds)
	require.True(t, stats.TotalHours.IsZero())
	require.Empty(t, stats.ByTask)
	require.Empty(t, stats.ByDay)
}
