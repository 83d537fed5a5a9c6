package memcached

import (
	"context"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"

	"github.com/agenda-tarefas/agenda-api/internal"
)

// TaskStore defines the repository being decorated.
type TaskStore interface {
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, id int64) (internal.Task, error)
	Select(ctx context.Context) ([]internal.Task, error)
	Update(ctx context.Context, task internal.Task) error
}

// Task caches Find results in front of another TaskStore.
type Task struct {
	client     *memcache.Client
	orig       TaskStore
	expiration time.Duration
	logger     *zap.Logger
}

// NewTask instantiates the decorated Task repository.
func NewTask(client *memcache.Client, orig TaskStore, logger *zap.Logger) *Task {
	return &Task{
		client:     client,
		orig:       orig,
		expiration: 15 * time.Minute,
		logger:     logger,
	}
}

// Create delegates and primes the cache with the new record.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Create").End()

	task, err := t.orig.Create(ctx, params)
	if err != nil {
		return internal.Task{}, err
	}

	setValue(ctx, t.client, cacheKey(task.ID), &task, t.expiration)

	return task, nil
}

// Delete delegates and invalidates the cached record.
func (t *Task) Delete(ctx context.Context, id int64) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	if err := t.orig.Delete(ctx, id); err != nil {
		return err
	}

	deleteValue(ctx, t.client, cacheKey(id))

	return nil
}

// Find returns the cached record when present, otherwise it reads through
// and caches the result.
func (t *Task) Find(ctx context.Context, id int64) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Find").End()

	var res internal.Task

	if err := getValue(ctx, t.client, cacheKey(id), &res); err == nil {
		return res, nil
	}

	t.logger.Debug("Find: cache miss", zap.Int64("id", id))

	res, err := t.orig.Find(ctx, id)
	if err != nil {
		return internal.Task{}, err
	}

	setValue(ctx, t.client, cacheKey(res.ID), &res, t.expiration)

	return res, nil
}

// Select is a passthrough, listings are not cached.
func (t *Task) Select(ctx context.Context) ([]internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Select").End()

	return t.orig.Select(ctx)
}

// Update delegates and refreshes the cached record.
func (t *Task) Update(ctx context.Context, task internal.Task) error {
	defer newOTELSpan(ctx, "Task.Update").End()

	if err := t.orig.Update(ctx, task); err != nil {
		return err
	}

	setValue(ctx, t.client, cacheKey(task.ID), &task, t.expiration)

	return nil
}

func cacheKey(id int64) string {
	return "task:" + strconv.FormatInt(id, 10)
}
