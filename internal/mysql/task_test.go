package mysql_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenda-tarefas/agenda-api/internal"
	"github.com/agenda-tarefas/agenda-api/internal/mysql"
)

var taskColumns = []string{"id", "title", "description", "status", "created_at", "due_date"}

func newStore(t *testing.T) (*mysql.Task, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return mysql.NewTask(db, zap.NewNop()), mock
}

func errorCode(t *testing.T, err error) internal.ErrorCode {
	t.Helper()

	var ierr *internal.Error
	require.ErrorAs(t, err, &ierr)

	return ierr.Code()
}

func TestTaskSelect(t *testing.T) {
	t.Parallel()

	t.Run("ok: most recent first", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		newest := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
		oldest := newest.Add(-time.Hour)

		mock.ExpectQuery(`ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(taskColumns).
				AddRow(int64(3), "C", "terceira", "pendente", newest, nil).
				AddRow(int64(1), "A", "primeira", "concluída", oldest, oldest.AddDate(0, 0, 7)))

		tasks, err := store.Select(context.Background())
		require.NoError(t, err)
		require.Len(t, tasks, 2)

		assert.Equal(t, int64(3), tasks[0].ID)
		assert.Equal(t, internal.StatusPending, tasks[0].Status)
		assert.Nil(t, tasks[0].DueDate)

		assert.Equal(t, int64(1), tasks[1].ID)
		assert.Equal(t, internal.StatusCompleted, tasks[1].Status)
		require.NotNil(t, tasks[1].DueDate)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: query failure surfaces", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		mock.ExpectQuery(`ORDER BY created_at DESC`).
			WillReturnError(assert.AnError)

		_, err := store.Select(context.Background())
		assert.Equal(t, internal.ErrorCodeUnknown, errorCode(t, err))
	})
}

func TestTaskFind(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		createdAt := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`FROM tasks\s+WHERE id = \?`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(taskColumns).
				AddRow(int64(42), "comprar pão", "", "pendente", createdAt, nil))

		task, err := store.Find(context.Background(), 42)
		require.NoError(t, err)

		assert.Equal(t, int64(42), task.ID)
		assert.Equal(t, "comprar pão", task.Title)
		assert.True(t, createdAt.Equal(task.CreatedAt))
	})

	t.Run("error: no rows means not found", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		mock.ExpectQuery(`FROM tasks\s+WHERE id = \?`).
			WithArgs(int64(999999)).
			WillReturnRows(sqlmock.NewRows(taskColumns))

		_, err := store.Find(context.Background(), 999999)
		assert.Equal(t, internal.ErrorCodeNotFound, errorCode(t, err))
	})

	t.Run("error: query failure is not a not found", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		mock.ExpectQuery(`FROM tasks\s+WHERE id = \?`).
			WithArgs(int64(1)).
			WillReturnError(assert.AnError)

		_, err := store.Find(context.Background(), 1)
		assert.Equal(t, internal.ErrorCodeUnknown, errorCode(t, err))
	})
}

func TestTaskCreate(t *testing.T) {
	t.Parallel()

	t.Run("ok: store assigns the identifier", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		mock.ExpectExec(`INSERT INTO tasks`).
			WithArgs("comprar pão", "na padaria", "pendente", sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(7, 1))

		task, err := store.Create(context.Background(), internal.CreateParams{
			Title:       "comprar pão",
			Description: "na padaria",
			Status:      internal.StatusPending,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(7), task.ID)
		assert.False(t, task.CreatedAt.IsZero())
		assert.Nil(t, task.DueDate)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: insert failure", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		mock.ExpectExec(`INSERT INTO tasks`).
			WillReturnError(assert.AnError)

		_, err := store.Create(context.Background(), internal.CreateParams{Title: "x", Status: internal.StatusPending})
		assert.Equal(t, internal.ErrorCodeUnknown, errorCode(t, err))
	})
}

func TestTaskUpdate(t *testing.T) {
	t.Parallel()

	t.Run("ok: zero affected rows is not an error", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		// MySQL reports zero affected rows when the values didn't change,
		// e.g. completing an already completed task.
		mock.ExpectExec(`UPDATE tasks`).
			WithArgs("comprar pão", "", "concluída", nil, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Update(context.Background(), internal.Task{
			ID:     7,
			Title:  "comprar pão",
			Status: internal.StatusCompleted,
		})
		require.NoError(t, err)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: exec failure", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		mock.ExpectExec(`UPDATE tasks`).
			WillReturnError(assert.AnError)

		err := store.Update(context.Background(), internal.Task{ID: 7, Title: "x", Status: internal.StatusPending})
		assert.Equal(t, internal.ErrorCodeUnknown, errorCode(t, err))
	})
}

func TestTaskDelete(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		mock.ExpectExec(`DELETE FROM tasks WHERE id = \?`).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Delete(context.Background(), 7))
	})

	t.Run("error: zero affected rows means not found", func(t *testing.T) {
		t.Parallel()

		store, mock := newStore(t)

		mock.ExpectExec(`DELETE FROM tasks WHERE id = \?`).
			WithArgs(int64(999999)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Delete(context.Background(), 999999)
		assert.Equal(t, internal.ErrorCodeNotFound, errorCode(t, err))
	})
}
