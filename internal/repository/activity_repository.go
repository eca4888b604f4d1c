package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/taskforge-labs/taskforge-backend/internal/pagination"
)

// ActivityLog records a change made to a task. UserID is nullable for
// system actions (cron cleanup, auto-stopped timers).
type ActivityLog struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"taskId" db:"task_id"`
	UserID    *string   `json:"userId,omitempty" db:"user_id"`
	Action    string    `json:"action" db:"action"`
	Field     string    `json:"field,omitempty" db:"field"`
	OldValue  *string   `json:"oldValue,omitempty" db:"old_value"`
	NewValue  *string   `json:"newValue,omitempty" db:"new_value"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ActivityFilters scope a listing to one task. Membership of the task's
// project is checked by the service before the query runs.
type ActivityFilters struct {
	TaskID string
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *ActivityLog) error
	List(ctx context.Context, f *ActivityFilters, limit, offset int, after *pagination.Cursor) ([]*ActivityLog, error)
	Count(ctx context.Context, f *ActivityFilters) (int, error)
}

type activityLogRepository struct {
	db *sql.DB
}

func NewActivityLogRepository(db *sql.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *ActivityLog) error {
	query := `
		INSERT INTO activity_logs (task_id, user_id, action, field, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		entry.TaskID, entry.UserID, entry.Action, entry.Field, entry.OldValue, entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *activityLogRepository) List(ctx context.Context, f *ActivityFilters, limit, offset int, after *pagination.Cursor) ([]*ActivityLog, error) {
	query := `
		SELECT id, task_id, user_id, action, field, old_value, new_value, created_at
		FROM activity_logs WHERE task_id = $1`
	args := []interface{}{f.TaskID}

	if after != nil {
		n := len(args)
		query += ` AND (created_at < $` + strconv.Itoa(n+1) +
			` OR (created_at = $` + strconv.Itoa(n+1) + ` AND id < $` + strconv.Itoa(n+2) + `))`
		args = append(args, after.CreatedAt, after.ID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	if limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1)
		args = append(args, limit)
	}
	if offset > 0 {
		query += ` OFFSET $` + strconv.Itoa(len(args)+1)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*ActivityLog
	for rows.Next() {
		entry := &ActivityLog{}
		if err := rows.Scan(
			&entry.ID, &entry.TaskID, &entry.UserID, &entry.Action,
			&entry.Field, &entry.OldValue, &entry.NewValue, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *activityLogRepository) Count(ctx context.Context, f *ActivityFilters) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_logs WHERE task_id = $1`, f.TaskID).Scan(&count)
	return count, err
}
