package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/agenda-tarefas/agenda-api/internal"
)

// Task represents the repository used for interacting with Task records.
type Task struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTask instantiates the Task repository.
func NewTask(db *sql.DB, logger *zap.Logger) *Task {
	return &Task{
		db:     db,
		logger: logger,
	}
}

// Select returns all existing Tasks, most recently created first.
func (t *Task) Select(ctx context.Context) ([]internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Select").End()

	rows, err := t.db.QueryContext(ctx, `
		SELECT id, title, description, status, created_at, due_date
		FROM tasks
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "db.QueryContext")
	}
	defer rows.Close()

	var res []internal.Task

	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}

		res = append(res, task)
	}

	if err := rows.Err(); err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "rows.Err")
	}

	return res, nil
}

// Find returns the Task matching the received id.
func (t *Task) Find(ctx context.Context, id int64) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Find").End()

	row := t.db.QueryRowContext(ctx, `
		SELECT id, title, description, status, created_at, due_date
		FROM tasks
		WHERE id = ?`, id)

	task, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "task %d not found", id)
		}

		return internal.Task{}, err
	}

	return task, nil
}

// Create inserts a new record and returns it with the identifier assigned by
// the store.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Create").End()

	createdAt := time.Now().UTC().Truncate(time.Second)

	res, err := t.db.ExecContext(ctx, `
		INSERT INTO tasks (title, description, status, created_at, due_date)
		VALUES (?, ?, ?, ?, ?)`,
		params.Title,
		params.Description,
		string(params.Status),
		createdAt,
		newNullTime(params.DueDate))
	if err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "db.ExecContext")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "res.LastInsertId")
	}

	return internal.Task{
		ID:          id,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		CreatedAt:   createdAt,
		DueDate:     params.DueDate,
	}, nil
}

// Update persists the mutable fields of an already existing record. The row
// count is not inspected, updating a row with identical values reports zero
// affected rows on MySQL and callers are expected to Find the record first.
func (t *Task) Update(ctx context.Context, task internal.Task) error {
	defer newOTELSpan(ctx, "Task.Update").End()

	if _, err := t.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, due_date = ?
		WHERE id = ?`,
		task.Title,
		task.Description,
		string(task.Status),
		newNullTime(task.DueDate),
		task.ID); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "db.ExecContext")
	}

	return nil
}

// Delete removes the record matching the received id.
func (t *Task) Delete(ctx context.Context, id int64) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	res, err := t.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "db.ExecContext")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "res.RowsAffected")
	}

	if affected == 0 {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "task %d not found", id)
	}

	return nil
}

func scanTask(scan func(dest ...interface{}) error) (internal.Task, error) {
	var (
		task        internal.Task
		description sql.NullString
		status      string
		dueDate     sql.NullTime
	)

	if err := scan(&task.ID, &task.Title, &description, &status, &task.CreatedAt, &dueDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return internal.Task{}, err
		}

		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "scan")
	}

	task.Description = description.String
	task.Status = internal.Status(status)
	task.DueDate = timePtr(dueDate)

	return task, nil
}
