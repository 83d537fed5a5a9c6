// Package rest exposes the Task use cases over HTTP, every response is
// wrapped in the {success, data, message} envelope.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"

	"github.com/agenda-tarefas/agenda-api/internal"
)

// Envelope is the uniform response wrapper, data is omitted when there is
// nothing to report.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// msgRouteNotFound is rendered for every unmatched method and path pair.
const msgRouteNotFound = "Rota não encontrada"

func renderResponse(w http.ResponseWriter, res Envelope, status int) {
	w.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)

	_, _ = w.Write(content)
}

// renderErrorResponse maps the error code to a status, 404 and 400 use the
// received messages while everything else falls back to internalMsg. The
// underlying error text is only appended when debug is enabled.
func renderErrorResponse(ctx context.Context, w http.ResponseWriter, err error, notFoundMsg, internalMsg string, debug bool) {
	status := http.StatusInternalServerError
	msg := internalMsg

	var ierr *internal.Error
	if errors.As(err, &ierr) {
		switch ierr.Code() {
		case internal.ErrorCodeNotFound:
			status = http.StatusNotFound
			msg = notFoundMsg
		case internal.ErrorCodeInvalidArgument:
			status = http.StatusBadRequest
			msg = "Dados inválidos"
		}
	}

	if err != nil {
		_, span := otel.Tracer("rest").Start(ctx, "rest.renderErrorResponse")
		defer span.End()

		span.RecordError(err)
	}

	if debug && status == http.StatusInternalServerError && err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}

	renderResponse(w, Envelope{Success: false, Message: msg}, status)
}

func renderFailure(w http.ResponseWriter, status int, msg string) {
	renderResponse(w, Envelope{Success: false, Message: msg}, status)
}

// RouteNotFound renders the standard 404 envelope, it is registered as both
// the NotFound and MethodNotAllowed handler of the router.
func RouteNotFound(w http.ResponseWriter, _ *http.Request) {
	renderFailure(w, http.StatusNotFound, msgRouteNotFound)
}
