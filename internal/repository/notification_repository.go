package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge-labs/taskforge-backend/internal/pagination"
)

type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Message   string
	Read      bool
	Data      map[string]interface{}
	CreatedAt time.Time
}

// NotificationFilters scope a listing to the owning user; notifications
// belong to a principal, not a project.
type NotificationFilters struct {
	UserID     string
	UnreadOnly bool
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	FindByID(ctx context.Context, id string) (*Notification, error)

	List(ctx context.Context, f *NotificationFilters, limit, offset int, after *pagination.Cursor) ([]*Notification, error)
	Count(ctx context.Context, f *NotificationFilters) (int, error)
	CountByUserID(ctx context.Context, userID string) (total int, unread int, err error)

	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
	DeleteReadOlderThan(ctx context.Context, olderThan time.Time) (int, error)
}

type pgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &pgNotificationRepository{pool: pool}
}

func (r *pgNotificationRepository) Create(ctx context.Context, notification *Notification) error {
	dataJSON, _ := json.Marshal(notification.Data)
	if notification.Data == nil {
		dataJSON = []byte("{}")
	}
	query := `
		INSERT INTO notifications (user_id, type, title, message, read, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		notification.UserID, notification.Type, notification.Title,
		notification.Message, notification.Read, dataJSON,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *pgNotificationRepository) FindByID(ctx context.Context, id string) (*Notification, error) {
	query := `SELECT id, user_id, type, title, message, read, data, created_at FROM notifications WHERE id = $1`
	n := &Notification{}
	var dataJSON []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &dataJSON, &n.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	json.Unmarshal(dataJSON, &n.Data)
	return n, nil
}

func buildNotificationWhere(f *NotificationFilters) (string, []interface{}) {
	where := ` WHERE user_id = $1`
	args := []interface{}{f.UserID}
	if f.UnreadOnly {
		where += ` AND read = FALSE`
	}
	return where, args
}

func (r *pgNotificationRepository) List(ctx context.Context, f *NotificationFilters, limit, offset int, after *pagination.Cursor) ([]*Notification, error) {
	query := `SELECT id, user_id, type, title, message, read, data, created_at FROM notifications`
	where, args := buildNotificationWhere(f)

	if after != nil {
		n := len(args)
		where += ` AND (created_at < $` + strconv.Itoa(n+1) +
			` OR (created_at = $` + strconv.Itoa(n+1) + ` AND id < $` + strconv.Itoa(n+2) + `))`
		args = append(args, after.CreatedAt, after.ID)
	}
	query += where + ` ORDER BY created_at DESC, id DESC`

	if limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1)
		args = append(args, limit)
	}
	if offset > 0 {
		query += ` OFFSET $` + strconv.Itoa(len(args)+1)
		args = append(args, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n := &Notification{}
		var dataJSON []byte
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &dataJSON, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		json.Unmarshal(dataJSON, &n.Data)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *pgNotificationRepository) Count(ctx context.Context, f *NotificationFilters) (int, error) {
	where, args := buildNotificationWhere(f)
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where, args...).Scan(&count)
	return count, err
}

func (r *pgNotificationRepository) CountByUserID(ctx context.Context, userID string) (total int, unread int, err error) {
	query := `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE read = FALSE) as unread
		FROM notifications WHERE user_id = $1`
	err = r.pool.QueryRow(ctx, query, userID).Scan(&total, &unread)
	return
}

func (r *pgNotificationRepository) MarkAsRead(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	return err
}

func (r *pgNotificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1`, userID)
	return err
}

func (r *pgNotificationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}

func (r *pgNotificationRepository) DeleteReadOlderThan(ctx context.Context, olderThan time.Time) (int, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE read = TRUE AND created_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}
