package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/taskforge-labs/taskforge-backend/internal/pagination"
)

type Task struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Status      string     `json:"status" db:"status"`
	Priority    string     `json:"priority" db:"priority"`
	ProjectID   string     `json:"projectId" db:"project_id"`
	AssigneeID  *string    `json:"assigneeId,omitempty" db:"assignee_id"`
	CreatorID   string     `json:"creatorId" db:"creator_id"`
	DueDate     *time.Time `json:"dueDate,omitempty" db:"due_date"`
	Tags        []string   `json:"tags" db:"tags"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// TaskFilters combines the authorization scope with caller-supplied
// filters. MemberUserID is mandatory: every list query is bounded to
// projects where that user holds a membership row, before any other
// filter is applied.
type TaskFilters struct {
	MemberUserID string

	ProjectID  *string
	Status     *string
	Priority   *string
	AssigneeID *string
	CreatorID  *string

	// SortBy/Order apply to raw and offset listings only; keyset
	// listings always run on (created_at, id) descending.
	SortBy string
	Order  string
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id string) error

	// List returns rows within scope. limit == 0 means no limit; a
	// non-nil after applies the keyset bound and forces the
	// (created_at, id) descending order.
	List(ctx context.Context, f *TaskFilters, limit, offset int, after *pagination.Cursor) ([]*Task, error)
	Count(ctx context.Context, f *TaskFilters) (int, error)

	BulkUpdateStatus(ctx context.Context, taskIDs []string, status string) (int, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `
	id, project_id, creator_id, assignee_id, title, description,
	status, priority, due_date, tags, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *Task) error {
	query := `
		INSERT INTO tasks (
			project_id, creator_id, assignee_id, title, description,
			status, priority, due_date, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(
		ctx, query,
		task.ProjectID, task.CreatorID, task.AssigneeID, task.Title, task.Description,
		task.Status, task.Priority, task.DueDate, pq.Array(task.Tags),
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task := &Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.ProjectID,
		&task.CreatorID,
		&task.AssigneeID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		pq.Array(&task.Tags),
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *Task) error {
	query := `
		UPDATE tasks SET
			assignee_id = $2, title = $3, description = $4, status = $5,
			priority = $6, due_date = $7, tags = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRowContext(
		ctx, query,
		task.ID, task.AssigneeID, task.Title, task.Description,
		task.Status, task.Priority, task.DueDate, pq.Array(task.Tags),
	).Scan(&task.UpdatedAt)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

// taskSortColumns whitelists sortBy values against real columns.
var taskSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"priority":  "priority",
	"status":    "status",
	"title":     "title",
}

func (r *taskRepository) List(ctx context.Context, f *TaskFilters, limit, offset int, after *pagination.Cursor) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	where, args := buildTaskWhere(f)

	if after != nil {
		n := len(args)
		where += ` AND (created_at < $` + strconv.Itoa(n+1) +
			` OR (created_at = $` + strconv.Itoa(n+1) + ` AND id < $` + strconv.Itoa(n+2) + `))`
		args = append(args, after.CreatedAt, after.ID)
	}
	query += where

	if after != nil {
		query += ` ORDER BY created_at DESC, id DESC`
	} else {
		column, ok := taskSortColumns[f.SortBy]
		if !ok {
			column = "created_at"
		}
		direction := "DESC"
		if f.Order == "asc" {
			direction = "ASC"
		}
		query += ` ORDER BY ` + column + ` ` + direction + `, id DESC`
	}

	if limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1)
		args = append(args, limit)
	}
	if offset > 0 {
		query += ` OFFSET $` + strconv.Itoa(len(args)+1)
		args = append(args, offset)
	}

	return r.queryTasks(ctx, query, args...)
}

func (r *taskRepository) Count(ctx context.Context, f *TaskFilters) (int, error) {
	where, args := buildTaskWhere(f)
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&count)
	return count, err
}

// buildTaskWhere renders the scope predicate first, then ANDs the
// caller filters into it. An unauthorized row can never appear in an
// intermediate result because the scope is part of the same WHERE.
func buildTaskWhere(f *TaskFilters) (string, []interface{}) {
	where := ` WHERE project_id IN (SELECT project_id FROM project_members WHERE user_id = $1)`
	args := []interface{}{f.MemberUserID}

	addEq := func(column string, value *string) {
		if value != nil {
			where += ` AND ` + column + ` = $` + strconv.Itoa(len(args)+1)
			args = append(args, *value)
		}
	}
	addEq("project_id", f.ProjectID)
	addEq("status", f.Status)
	addEq("priority", f.Priority)
	addEq("assignee_id", f.AssigneeID)
	addEq("creator_id", f.CreatorID)

	return where, args
}

func (r *taskRepository) BulkUpdateStatus(ctx context.Context, taskIDs []string, status string) (int, error) {
	query := `UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = ANY($1)`
	result, err := r.db.ExecContext(ctx, query, pq.Array(taskIDs), status)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task := &Task{}
		err := rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.CreatorID,
			&task.AssigneeID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.DueDate,
			pq.Array(&task.Tags),
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
