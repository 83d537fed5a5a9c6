package internal

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Status is the lifecycle state of a Task. The literal values are the ones
// persisted and exposed over the wire.
type Status string

const (
	// StatusPending indicates the task still needs to be done.
	StatusPending Status = "pendente"

	// StatusCompleted indicates the task was marked as done.
	StatusCompleted Status = "concluída"
)

// Validate checks the receiver is one of the recognized values.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusCompleted:
		return nil
	}

	return NewErrorf(ErrorCodeInvalidArgument, "unknown status %q", string(s))
}

// Task is an activity registered in the agenda, persisted in the datastore.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	CreatedAt   time.Time
	DueDate     *time.Time
}

// CreateParams defines the values required for creating a new Task.
type CreateParams struct {
	Title       string
	Description string
	Status      Status
	DueDate     *time.Time
}

// Validate indicates whether the received values are complete enough to be
// persisted. A blank Status is allowed, it defaults to StatusPending.
func (p CreateParams) Validate() error {
	if err := validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required.Error("Título é obrigatório")),
		validation.Field(&p.Status, validation.In(StatusPending, StatusCompleted)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "validation.ValidateStruct")
	}

	return nil
}

// OptionalTime represents a tri-state timestamp argument: not mentioned at
// all (Set == false), mentioned but cleared (Set == true, Value == nil), or
// mentioned with a concrete value.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// UpdateParams defines the values allowed to change on an existing Task.
// Only non-nil fields are applied; DueDate keeps its previous value unless
// explicitly mentioned.
type UpdateParams struct {
	Title       *string
	Description *string
	Status      *Status
	DueDate     OptionalTime
}

// Validate indicates whether the mentioned values are acceptable.
func (p UpdateParams) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return NewErrorf(ErrorCodeInvalidArgument, "title can't be cleared")
	}

	if p.Status != nil {
		if err := p.Status.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Apply mutates the received Task with the mentioned values.
func (p UpdateParams) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}

	if p.Description != nil {
		t.Description = *p.Description
	}

	if p.Status != nil {
		t.Status = *p.Status
	}

	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
}

// timeLayouts are tried in order when parsing request timestamps. The first
// two cover RFC 3339 with and without sub-second precision, the rest cover
// the shortened ISO-8601 forms browsers tend to send.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime interprets an ISO-8601 timestamp, a trailing literal "Z" is
// accepted as the UTC offset even on layouts that don't carry one.
func ParseTime(value string) (time.Time, error) {
	trimmed := strings.TrimSuffix(value, "Z")
	if trimmed != value {
		// Give full RFC 3339 a chance before falling back to offset-less layouts.
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t, nil
		}
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, NewErrorf(ErrorCodeInvalidArgument, "unsupported time value %q", value)
}
