package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"
)

type TimeEntry struct {
	ID          string     `json:"id" db:"id"`
	TaskID      string     `json:"taskId" db:"task_id"`
	UserID      string     `json:"userId" db:"user_id"`
	StartTime   time.Time  `json:"startTime" db:"start_time"`
	EndTime     *time.Time `json:"endTime,omitempty" db:"end_time"`
	Duration    *int       `json:"duration,omitempty" db:"duration_seconds"`
	Description *string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

type TimeEntryFilters struct {
	UserID    string
	TaskID    *string
	ProjectID *string
	DateFrom  *time.Time
	DateTo    *time.Time
	// ClosedOnly restricts to entries with a recorded duration (stats).
	ClosedOnly bool
}

type TimeEntryRepository interface {
	Create(ctx context.Context, entry *TimeEntry) error
	FindByID(ctx context.Context, id string) (*TimeEntry, error)
	FindActiveByUserID(ctx context.Context, userID string) (*TimeEntry, error)
	FindByUser(ctx context.Context, f *TimeEntryFilters) ([]*TimeEntry, error)
	Update(ctx context.Context, entry *TimeEntry) error
	Delete(ctx context.Context, id string) error

	// StopStale closes open entries that started before the given time,
	// recording the elapsed duration. Used by the cron cleanup.
	StopStale(ctx context.Context, startedBefore time.Time) (int, error)
}

type timeEntryRepository struct {
	db *sql.DB
}

func NewTimeEntryRepository(db *sql.DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

const timeEntryColumns = `id, task_id, user_id, start_time, end_time, duration_seconds, description, created_at`

func (r *timeEntryRepository) Create(ctx context.Context, entry *TimeEntry) error {
	query := `
		INSERT INTO time_entries (task_id, user_id, start_time, end_time, duration_seconds, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		entry.TaskID, entry.UserID, entry.StartTime, entry.EndTime, entry.Duration, entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *timeEntryRepository) FindByID(ctx context.Context, id string) (*TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = $1`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *timeEntryRepository) FindActiveByUserID(ctx context.Context, userID string) (*TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE user_id = $1 AND end_time IS NULL LIMIT 1`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, userID))
}

func (r *timeEntryRepository) FindByUser(ctx context.Context, f *TimeEntryFilters) ([]*TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE user_id = $1`
	args := []interface{}{f.UserID}

	if f.TaskID != nil {
		query += ` AND task_id = $` + strconv.Itoa(len(args)+1)
		args = append(args, *f.TaskID)
	}
	if f.ProjectID != nil {
		query += ` AND task_id IN (SELECT id FROM tasks WHERE project_id = $` + strconv.Itoa(len(args)+1) + `)`
		args = append(args, *f.ProjectID)
	}
	if f.DateFrom != nil {
		query += ` AND start_time >= $` + strconv.Itoa(len(args)+1)
		args = append(args, *f.DateFrom)
	}
	if f.DateTo != nil {
		query += ` AND start_time <= $` + strconv.Itoa(len(args)+1)
		args = append(args, *f.DateTo)
	}
	if f.ClosedOnly {
		query += ` AND end_time IS NOT NULL AND duration_seconds IS NOT NULL`
	}
	query += ` ORDER BY start_time DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*TimeEntry
	for rows.Next() {
		entry := &TimeEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.TaskID, &entry.UserID, &entry.StartTime,
			&entry.EndTime, &entry.Duration, &entry.Description, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *timeEntryRepository) Update(ctx context.Context, entry *TimeEntry) error {
	query := `
		UPDATE time_entries SET
			start_time = $2, end_time = $3, duration_seconds = $4, description = $5
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.StartTime, entry.EndTime, entry.Duration, entry.Description,
	)
	return err
}

func (r *timeEntryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	return err
}

func (r *timeEntryRepository) StopStale(ctx context.Context, startedBefore time.Time) (int, error) {
	query := `
		UPDATE time_entries SET
			end_time = NOW(),
			duration_seconds = EXTRACT(EPOCH FROM (NOW() - start_time))::int
		WHERE end_time IS NULL AND start_time < $1`
	result, err := r.db.ExecContext(ctx, query, startedBefore)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

func (r *timeEntryRepository) scanEntry(row *sql.Row) (*TimeEntry, error) {
	entry := &TimeEntry{}
	err := row.Scan(
		&entry.ID, &entry.TaskID, &entry.UserID, &entry.StartTime,
		&entry.EndTime, &entry.Duration, &entry.Description, &entry.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}
