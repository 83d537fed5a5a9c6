// Package mysql implements the persistence layer for Task records on top of
// a MySQL "tasks" table.
package mysql

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"
)

const otelName = "github.com/agenda-tarefas/agenda-api/internal/mysql"

// newNullTime converts an optional timestamp into its database representation.
func newNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{
		Time:  *t,
		Valid: true,
	}
}

// timePtr converts a nullable column back into an optional timestamp.
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}

	res := t.Time

	return &res
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemMySQL)

	return span
}
