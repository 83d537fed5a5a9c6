// Package service orchestrates the Task use cases on top of the repository
// and the message broker.
package service

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/agenda-tarefas/agenda-api/internal"
)

// TaskRepository defines the datastore handling persisted Task records.
type TaskRepository interface {
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, id int64) (internal.Task, error)
	Select(ctx context.Context) ([]internal.Task, error)
	Update(ctx context.Context, task internal.Task) error
}

// TaskMessageBrokerRepository defines the broker receiving Task lifecycle
// events. Publishing is best effort, errors never surface to API callers.
type TaskMessageBrokerRepository interface {
	Created(ctx context.Context, task internal.Task) error
	Deleted(ctx context.Context, id int64) error
	Updated(ctx context.Context, task internal.Task) error
}

// Task defines the application service in charge of interacting with Tasks.
type Task struct {
	logger    *zap.Logger
	repo      TaskRepository
	msgBroker TaskMessageBrokerRepository
}

// NewTask instantiates the Task service, msgBroker may be nil when no broker
// is configured.
func NewTask(logger *zap.Logger, repo TaskRepository, msgBroker TaskMessageBrokerRepository) *Task {
	if msgBroker == nil {
		msgBroker = noopMessageBroker{}
	}

	return &Task{
		logger:    logger,
		repo:      repo,
		msgBroker: msgBroker,
	}
}

// List returns all existing Tasks, most recently created first.
func (t *Task) List(ctx context.Context) ([]internal.Task, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("service").Start(ctx, "Task.List")
	defer span.End()

	return t.repo.Select(ctx)
}

// Create validates the received values and stores a new record, a blank
// status defaults to pending.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("service").Start(ctx, "Task.Create")
	defer span.End()

	if err := params.Validate(); err != nil {
		return internal.Task{}, err
	}

	if params.Status == "" {
		params.Status = internal.StatusPending
	}

	task, err := t.repo.Create(ctx, params)
	if err != nil {
		return internal.Task{}, err
	}

	if err := t.msgBroker.Created(ctx, task); err != nil {
		t.logger.Warn("msgBroker.Created failed", zap.Error(err))
	}

	return task, nil
}

// Task gets an existing Task from the datastore.
func (t *Task) Task(ctx context.Context, id int64) (internal.Task, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("service").Start(ctx, "Task.Task")
	defer span.End()

	return t.repo.Find(ctx, id)
}

// Update applies the mentioned values to an existing Task and persists it,
// unmentioned fields keep their previous values.
func (t *Task) Update(ctx context.Context, id int64, params internal.UpdateParams) (internal.Task, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("service").Start(ctx, "Task.Update")
	defer span.End()

	if err := params.Validate(); err != nil {
		return internal.Task{}, err
	}

	task, err := t.repo.Find(ctx, id)
	if err != nil {
		return internal.Task{}, err
	}

	params.Apply(&task)

	if err := t.repo.Update(ctx, task); err != nil {
		return internal.Task{}, err
	}

	if err := t.msgBroker.Updated(ctx, task); err != nil {
		t.logger.Warn("msgBroker.Updated failed", zap.Error(err))
	}

	return task, nil
}

// MarkCompleted flips an existing Task to the completed status and persists
// it. Completing an already completed Task is a no-op that still succeeds.
func (t *Task) MarkCompleted(ctx context.Context, id int64) (internal.Task, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("service").Start(ctx, "Task.MarkCompleted")
	defer span.End()

	task, err := t.repo.Find(ctx, id)
	if err != nil {
		return internal.Task{}, err
	}

	task.Status = internal.StatusCompleted

	if err := t.repo.Update(ctx, task); err != nil {
		return internal.Task{}, err
	}

	if err := t.msgBroker.Updated(ctx, task); err != nil {
		t.logger.Warn("msgBroker.Updated failed", zap.Error(err))
	}

	return task, nil
}

// Delete removes an existing Task from the datastore.
func (t *Task) Delete(ctx context.Context, id int64) error {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("service").Start(ctx, "Task.Delete")
	defer span.End()

	if err := t.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := t.msgBroker.Deleted(ctx, id); err != nil {
		t.logger.Warn("msgBroker.Deleted failed", zap.Error(err))
	}

	return nil
}

type noopMessageBroker struct{}

func (noopMessageBroker) Created(context.Context, internal.Task) error { return nil }
func (noopMessageBroker) Deleted(context.Context, int64) error         { return nil }
func (noopMessageBroker) Updated(context.Context, internal.Task) error { return nil }
