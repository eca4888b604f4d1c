package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskforge-labs/taskforge-backend/internal/pagination"
	"github.com/taskforge-labs/taskforge-backend/internal/repository"
	"github.com/taskforge-labs/taskforge-backend/internal/repository/mocks"
	"github.com/taskforge-labs/taskforge-backend/internal/types"
)

func TestNotificationList_ScopesToOwner(t *testing.T) {
	repo := new(mocks.NotificationRepository)
	svc := NewNotificationService(repo, nil)

	var captured *repository.NotificationFilters
	repo.On("Count", mock.Anything, mock.Anything).Return(1, nil)
	repo.On("List", mock.Anything, mock.Anything, 20, 0, (*pagination.Cursor)(nil)).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*repository.NotificationFilters)
		}).
		Return([]*repository.Notification{{ID: "n1", UserID: "u1"}}, nil)

	res, err := svc.List(context.Background(), "u1", false, pagination.Request{Mode: pagination.ModeOffset, Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	require.Equal(t, "u1", captured.UserID)
	require.False(t, captured.UnreadOnly)
}

func TestNotificationList_UnreadOnlyPassedThrough(t *testing.T) {
	repo := new(mocks.NotificationRepository)
	svc := NewNotificationService(repo, nil)

	repo.On("Count", mock.Anything, mock.MatchedBy(func(f *repository.NotificationFilters) bool {
		return f.UnreadOnly
	})).Return(0, nil)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f *repository.NotificationFilters) bool {
		return f.UnreadOnly
	}), mock.Anything, mock.Anything, mock.Anything).Return([]*repository.Notification{}, nil)

	_, err := svc.List(context.Background(), "u1", true, pagination.Request{Mode: pagination.ModeOffset, Page: 1, Limit: 20})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotificationMarkAsRead_ForeignRowIsNotFound(t *testing.T) {
	repo := new(mocks.NotificationRepository)
	svc := NewNotificationService(repo, nil)

	repo.On("FindByID", mock.Anything, "n1").Return(&repository.Notification{ID: "n1", UserID: "someone-else"}, nil)

	err := svc.MarkAsRead(context.Background(), "n1", "u1")
	require.ErrorIs(t, err, ErrNotFound)
	repo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestNotificationDelete_AbsentRowIsNotFound(t *testing.T) {
	repo := new(mocks.NotificationRepository)
	svc := NewNotificationService(repo, nil)

	repo.On("FindByID", mock.Anything, "gone").Return(nil, nil)

	err := svc.Delete(context.Background(), "gone", "u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationMarkAsRead_OwnRow(t *testing.T) {
	repo := new(mocks.NotificationRepository)
	svc := NewNotificationService(repo, nil)

	repo.On("FindByID", mock.Anything, "n1").Return(&repository.Notification{ID: "n1", UserID: "u1"}, nil)
	repo.On("MarkAsRead", mock.Anything, "n1").Return(nil)

	require.NoError(t, svc.MarkAsRead(context.Background(), "n1", "u1"))
	repo.AssertExpectations(t)
}

func TestNotificationCount_FallsBackToRepoWithoutCache(t *testing.T) {
	repo := new(mocks.NotificationRepository)
	svc := NewNotificationService(repo, nil)

	repo.On("CountByUserID", mock.Anything, "u1").Return(7, 3, nil)

	total, unread, err := svc.Count(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 7, total)
	require.Equal(t, 3, unread)
}

func TestNotifyTaskCompleted_SkipsSelfCompletion(t *testing.T) {
	repo := new(mocks.NotificationRepository)
	svc := NewNotificationService(repo, nil)

	task := &repository.Task{ID: "t1", Title: "x", ProjectID: "p1", CreatorID: "alice"}
	svc.NotifyTaskCompleted(context.Background(), task, "alice")

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotifyTaskAssigned_CreatesTypedNotification(t *testing.T) {
	repo := new(mocks.NotificationRepository)
	svc := NewNotificationService(repo, nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *repository.Notification) bool {
		return n.UserID == "carol" && n.Type == types.NotifTaskAssigned && n.Data["taskId"] == "t1"
	})).Return(nil)

	svc.NotifyTaskAssigned(context.Background(), &repository.Task{ID: "t1", Title: "x", ProjectID: "p1"}, "carol")
	repo.AssertExpectations(t)
}

func TestPurgeRead_PassesCutoffThrough(t *testing.T) {
	repo := new(mocks.NotificationRepository)
	svc := NewNotificationService(repo, nil)

	cutoff := time.Now().AddDate(0, 0, -30)
	repo.On("DeleteReadOlderThan", mock.Anything, cutoff).Return(12, nil)

	n, err := svc.PurgeRead(context.Background(), cutoff)
	require.NoError(t, err)
	require.Equal(t, 12, n)
}
