package internal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenda-tarefas/agenda-api/internal"
)

func TestCreateParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  internal.CreateParams
		wantErr bool
	}{
		{
			name:   "ok",
			params: internal.CreateParams{Title: "comprar pão", Status: internal.StatusPending},
		},
		{
			name:   "ok: blank status defaults later",
			params: internal.CreateParams{Title: "comprar pão"},
		},
		{
			name:    "error: missing title",
			params:  internal.CreateParams{Description: "sem título"},
			wantErr: true,
		},
		{
			name:    "error: unknown status",
			params:  internal.CreateParams{Title: "comprar pão", Status: internal.Status("done")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.params.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var ierr *internal.Error
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())
		})
	}
}

func TestUpdateParamsValidate(t *testing.T) {
	t.Parallel()

	title := "novo título"
	empty := ""
	bad := internal.Status("weird")

	require.NoError(t, internal.UpdateParams{Title: &title}.Validate())
	require.NoError(t, internal.UpdateParams{}.Validate())
	require.Error(t, internal.UpdateParams{Title: &empty}.Validate())
	require.Error(t, internal.UpdateParams{Status: &bad}.Validate())
}

func TestUpdateParamsApply(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	base := func() internal.Task {
		return internal.Task{
			ID:          1,
			Title:       "título",
			Description: "descrição",
			Status:      internal.StatusPending,
			CreatedAt:   time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
			DueDate:     &due,
		}
	}

	t.Run("only mentioned fields change", func(t *testing.T) {
		t.Parallel()

		desc := "outra descrição"

		task := base()
		internal.UpdateParams{Description: &desc}.Apply(&task)

		assert.Equal(t, "título", task.Title)
		assert.Equal(t, "outra descrição", task.Description)
		assert.Equal(t, internal.StatusPending, task.Status)
		require.NotNil(t, task.DueDate)
		assert.True(t, due.Equal(*task.DueDate))
	})

	t.Run("due date mentioned as empty clears it", func(t *testing.T) {
		t.Parallel()

		task := base()
		internal.UpdateParams{DueDate: internal.OptionalTime{Set: true}}.Apply(&task)

		assert.Nil(t, task.DueDate)
	})

	t.Run("due date absent keeps previous value", func(t *testing.T) {
		t.Parallel()

		title := "atualizado"

		task := base()
		internal.UpdateParams{Title: &title}.Apply(&task)

		require.NotNil(t, task.DueDate)
		assert.True(t, due.Equal(*task.DueDate))
	})

	t.Run("due date replaced", func(t *testing.T) {
		t.Parallel()

		newDue := due.AddDate(0, 1, 0)

		task := base()
		internal.UpdateParams{DueDate: internal.OptionalTime{Set: true, Value: &newDue}}.Apply(&task)

		require.NotNil(t, task.DueDate)
		assert.True(t, newDue.Equal(*task.DueDate))
	})
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339 with Z",
			value: "2026-08-29T10:00:00Z",
			want:  time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 with offset",
			value: "2026-08-29T10:00:00-03:00",
			want:  time.Date(2026, 8, 29, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "no offset",
			value: "2026-08-29T10:00:00",
			want:  time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "no offset with trailing Z",
			value: "2026-08-29T10:00Z",
			want:  time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			value: "2026-08-29",
			want:  time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "space separated",
			value: "2026-08-29 10:00:00",
			want:  time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "error: not a date",
			value:   "amanhã",
			wantErr: true,
		},
		{
			name:    "error: wrong order",
			value:   "29/08/2026",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := internal.ParseTime(tt.value)
			if tt.wantErr {
				var ierr *internal.Error
				require.ErrorAs(t, err, &ierr)
				assert.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestStatusValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, internal.StatusPending.Validate())
	require.NoError(t, internal.StatusCompleted.Validate())
	require.Error(t, internal.Status("").Validate())
	require.Error(t, internal.Status("completed").Validate())
}
