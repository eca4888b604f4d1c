package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/taskforge-labs/taskforge-backend/internal/db"
	"github.com/taskforge-labs/taskforge-backend/internal/pagination"
	"github.com/taskforge-labs/taskforge-backend/internal/repository"
	"github.com/taskforge-labs/taskforge-backend/internal/types"
)

// ============================================
// Notification Service
// ============================================

type NotificationService interface {
	List(ctx context.Context, userID string, unreadOnly bool, req pagination.Request) (*pagination.Result[*repository.Notification], error)
	Count(ctx context.Context, userID string) (total int, unread int, err error)
	MarkAsRead(ctx context.Context, id, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) error

	// Fire-and-forget producers used by the task service. Delivery
	// failures are logged, never propagated to the mutation.
	NotifyTaskAssigned(ctx context.Context, task *repository.Task, assigneeID string)
	NotifyTaskCompleted(ctx context.Context, task *repository.Task, actorID string)

	PurgeRead(ctx context.Context, olderThan time.Time) (int, error)
}

const countCacheTTL = 60 * time.Second

type notificationService struct {
	notificationRepo repository.NotificationRepository
	redis            *db.RedisDB // optional, nil disables caching
}

func NewNotificationService(notificationRepo repository.NotificationRepository, redis *db.RedisDB) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, redis: redis}
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, req pagination.Request) (*pagination.Result[*repository.Notification], error) {
	filters := &repository.NotificationFilters{UserID: userID, UnreadOnly: unreadOnly}

	return pagination.Paginate(ctx, req, pagination.Fetcher[*repository.Notification]{
		Fetch: func(ctx context.Context, limit, offset int, after *pagination.Cursor) ([]*repository.Notification, error) {
			return s.notificationRepo.List(ctx, filters, limit, offset, after)
		},
		Count: func(ctx context.Context) (int, error) {
			return s.notificationRepo.Count(ctx, filters)
		},
		Key: func(n *repository.Notification) (time.Time, string) {
			return n.CreatedAt, n.ID
		},
	})
}

type notificationCounts struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}

func (s *notificationService) Count(ctx context.Context, userID string) (int, int, error) {
	key := countCacheKey(userID)
	if s.redis != nil {
		var cached notificationCounts
		if err := s.redis.GetCache(ctx, key, &cached); err == nil {
			return cached.Total, cached.Unread, nil
		}
	}

	total, unread, err := s.notificationRepo.CountByUserID(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	if s.redis != nil {
		if err := s.redis.SetCache(ctx, key, notificationCounts{Total: total, Unread: unread}, countCacheTTL); err != nil {
			log.Printf("[NOTIFICATION] count cache write failed for user %s: %v", userID, err)
		}
	}
	return total, unread, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID string) error {
	if err := s.ownNotification(ctx, id, userID); err != nil {
		return err
	}
	if err := s.notificationRepo.MarkAsRead(ctx, id); err != nil {
		return err
	}
	s.invalidateCounts(ctx, userID)
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.invalidateCounts(ctx, userID)
	return nil
}

func (s *notificationService) Delete(ctx context.Context, id, userID string) error {
	if err := s.ownNotification(ctx, id, userID); err != nil {
		return err
	}
	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCounts(ctx, userID)
	return nil
}

func (s *notificationService) PurgeRead(ctx context.Context, olderThan time.Time) (int, error) {
	return s.notificationRepo.DeleteReadOlderThan(ctx, olderThan)
}

// ============================================
// Producers
// ============================================

func (s *notificationService) NotifyTaskAssigned(ctx context.Context, task *repository.Task, assigneeID string) {
	s.create(ctx, &repository.Notification{
		UserID:  assigneeID,
		Type:    types.NotifTaskAssigned,
		Title:   "Task assigned to you",
		Message: fmt.Sprintf("You have been assigned to %q", task.Title),
		Data:    map[string]interface{}{"taskId": task.ID, "projectId": task.ProjectID},
	})
}

func (s *notificationService) NotifyTaskCompleted(ctx context.Context, task *repository.Task, actorID string) {
	// The creator hears about completion unless they completed it
	// themselves.
	if task.CreatorID == actorID {
		return
	}
	s.create(ctx, &repository.Notification{
		UserID:  task.CreatorID,
		Type:    types.NotifTaskCompleted,
		Title:   "Task completed",
		Message: fmt.Sprintf("%q has been marked as done", task.Title),
		Data:    map[string]interface{}{"taskId": task.ID, "projectId": task.ProjectID},
	})
}

func (s *notificationService) create(ctx context.Context, n *repository.Notification) {
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("[NOTIFICATION] failed to create %s notification for user %s: %v", n.Type, n.UserID, err)
		return
	}
	s.invalidateCounts(ctx, n.UserID)
}

// ownNotification conflates absent and foreign rows into ErrNotFound.
func (s *notificationService) ownNotification(ctx context.Context, id, userID string) error {
	n, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil || n.UserID != userID {
		return ErrNotFound
	}
	return nil
}

func (s *notificationService) invalidateCounts(ctx context.Context, userID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.DeleteCache(ctx, countCacheKey(userID)); err != nil {
		log.Printf("[NOTIFICATION] count cache invalidation failed for user %s: %v", userID, err)
	}
}

func countCacheKey(userID string) string {
	return "notifications:counts:" + userID
}
