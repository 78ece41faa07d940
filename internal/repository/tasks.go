package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo-api/internal/apperr"
	"todo-api/internal/models"
	"todo-api/pkg/logger"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TaskRepository persists tasks. All lookups are owner-scoped: a task id that
// exists under a different owner is indistinguishable from a missing one.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository returns a repository over the given pool.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Filter narrows and orders a list query. All filters are conjunctive.
type Filter struct {
	Status   string // exact match
	Priority string // exact match
	Tag      string // substring of tags
	Q        string // substring of title or description
	SortBy   string // column name, whitelist-checked
	Order    string // "asc" (default) or "desc"
}

// sortColumns is the explicit whitelist of sortable attributes. Anything
// else falls back to created_at.
var sortColumns = map[string]string{
	"id":         "id",
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"due_date":   "due_date",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

const taskColumns = `id, user_id, title, description, status, priority, tags, due_date, is_recurring, recurrence_rule, created_at, updated_at`

// Insert persists a new task, assigning id, created_at, and updated_at.
func (r *TaskRepository) Insert(ctx context.Context, t *models.Task) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (user_id, title, description, status, priority, tags, due_date, is_recurring, recurrence_rule, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		t.UserID, t.Title, t.Description, t.Status, t.Priority, t.Tags, t.DueDate,
		t.IsRecurring, t.RecurrenceRule, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
	if err != nil {
		logger.Error(ctx, "Repository Insert failed", "error", err)
		return err
	}
	return nil
}

// GetByOwner returns the task with the given id if it belongs to owner.
func (r *TaskRepository) GetByOwner(ctx context.Context, id int64, owner string) (*models.Task, error) {
	return getByOwner(ctx, r.db, id, owner)
}

func getByOwner(ctx context.Context, q queryer, id int64, owner string) (*models.Task, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, owner)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Task not found")
	}
	if err != nil {
		logger.Error(ctx, "Repository GetByOwner failed", "error", err, "id", id)
		return nil, err
	}
	return t, nil
}

// List returns the owner's tasks narrowed by f, in the requested order.
func (r *TaskRepository) List(ctx context.Context, owner string, f Filter) ([]models.Task, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)
	args := []interface{}{owner}

	addFilter := func(clause string, value interface{}) {
		args = append(args, value)
		fmt.Fprintf(&sb, clause, len(args))
	}
	if f.Status != "" {
		addFilter(" AND status = $%d", f.Status)
	}
	if f.Priority != "" {
		addFilter(" AND priority = $%d", f.Priority)
	}
	// tag and q are plain substring filters; % and _ are not escaped and
	// keep their LIKE meaning, matching the original contains() behavior
	if f.Tag != "" {
		addFilter(" AND tags LIKE '%%' || $%d || '%%'", f.Tag)
	}
	if f.Q != "" {
		args = append(args, f.Q)
		n := len(args)
		fmt.Fprintf(&sb, " AND (title LIKE '%%' || $%d || '%%' OR description LIKE '%%' || $%d || '%%')", n, n)
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if f.Order == "desc" {
		dir = "DESC"
	}
	sb.WriteString(" ORDER BY " + col + " " + dir)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		logger.Error(ctx, "Repository List failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan task failed", "error", err)
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Delete removes the owner's task. Deleting a missing or foreign task is a
// not-found error.
func (r *TaskRepository) Delete(ctx context.Context, id int64, owner string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "id", id)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("Task not found")
	}
	return nil
}

// Mutate loads the owner's task, applies fn, bumps updated_at, and writes the
// result back, all inside one transaction. The transaction is rolled back on
// every failure path.
func (r *TaskRepository) Mutate(ctx context.Context, id int64, owner string, fn func(*models.Task) error) (*models.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := getByOwner(ctx, tx, id, owner)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE tasks SET title = $1, description = $2, status = $3, priority = $4, tags = $5,
		 due_date = $6, is_recurring = $7, recurrence_rule = $8, updated_at = $9
		 WHERE id = $10 AND user_id = $11`,
		t.Title, t.Description, t.Status, t.Priority, t.Tags, t.DueDate,
		t.IsRecurring, t.RecurrenceRule, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		logger.Error(ctx, "Repository Mutate failed", "error", err, "id", id)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status,
		&t.Priority, &t.Tags, &t.DueDate, &t.IsRecurring, &t.RecurrenceRule,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
