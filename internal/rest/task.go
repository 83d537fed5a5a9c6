package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agenda-tarefas/agenda-api/internal"
)

// TaskService defines the use cases the handlers depend on.
type TaskService interface {
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]internal.Task, error)
	MarkCompleted(ctx context.Context, id int64) (internal.Task, error)
	Task(ctx context.Context, id int64) (internal.Task, error)
	Update(ctx context.Context, id int64, params internal.UpdateParams) (internal.Task, error)
}

// TaskHandler exposes the Task use cases over HTTP.
type TaskHandler struct {
	svc   TaskService
	debug bool
}

// NewTaskHandler instantiates the handler, debug controls whether internal
// error text leaks into 500 responses.
func NewTaskHandler(svc TaskService, debug bool) *TaskHandler {
	return &TaskHandler{
		svc:   svc,
		debug: debug,
	}
}

// Register connects the handlers to the router.
func (t *TaskHandler) Register(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", t.list)
		r.Post("/", t.create)

		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", t.find)
			r.Put("/", t.update)
			r.Delete("/", t.delete)
			r.Patch("/complete", t.markCompleted)
		})
	})

	// Browsers request this unconditionally, answer with an empty 204 instead
	// of the 404 envelope.
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// Task is the wire representation of a task record, timestamps are ISO-8601
// strings or null.
type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   *string `json:"created_at"`
	DueDate     *string `json:"due_date"`
}

func newTask(task internal.Task) Task {
	return Task{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   newTimeString(&task.CreatedAt),
		DueDate:     newTimeString(task.DueDate),
	}
}

func newTimeString(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}

	res := t.Format(time.RFC3339)

	return &res
}

// CreateTasksRequest defines the request used for creating tasks.
type CreateTasksRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
}

// UpdateTasksRequest defines the request used for updating tasks, every field
// is optional and only mentioned fields are applied.
type UpdateTasksRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	DueDate     optionalDate `json:"due_date"`
}

// optionalDate distinguishes an absent due_date key from one explicitly set
// to null or empty, which clears the stored value.
type optionalDate struct {
	set   bool
	value string
}

func (o *optionalDate) UnmarshalJSON(data []byte) error {
	o.set = true

	if string(data) == "null" {
		o.value = ""
		return nil
	}

	return json.Unmarshal(data, &o.value)
}

func (t *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	tasks, err := t.svc.List(r.Context())
	if err != nil {
		renderErrorResponse(r.Context(), w, err, msgRouteNotFound, "Erro ao buscar tarefas", t.debug)
		return
	}

	data := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		data = append(data, newTask(task))
	}

	renderResponse(w, Envelope{
		Success: true,
		Data:    data,
		Message: fmt.Sprintf("Encontradas %d tarefas", len(data)),
	}, http.StatusOK)
}

func (t *TaskHandler) find(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := t.svc.Task(r.Context(), id)
	if err != nil {
		renderErrorResponse(r.Context(), w, err,
			fmt.Sprintf("Tarefa com ID %d não encontrada", id),
			"Erro ao buscar tarefa", t.debug)
		return
	}

	renderResponse(w, Envelope{
		Success: true,
		Data:    newTask(task),
		Message: "Tarefa encontrada com sucesso",
	}, http.StatusOK)
}

func (t *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderFailure(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	defer r.Body.Close()

	if req.Title == "" {
		renderFailure(w, http.StatusBadRequest, "Título é obrigatório")
		return
	}

	var dueDate *time.Time

	if req.DueDate != "" {
		parsed, err := internal.ParseTime(req.DueDate)
		if err != nil {
			renderFailure(w, http.StatusBadRequest, "Formato de data inválido. Use ISO 8601 (YYYY-MM-DDTHH:MM:SS)")
			return
		}

		dueDate = &parsed
	}

	task, err := t.svc.Create(r.Context(), internal.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      internal.Status(req.Status),
		DueDate:     dueDate,
	})
	if err != nil {
		renderErrorResponse(r.Context(), w, err, msgRouteNotFound, "Erro ao salvar tarefa no banco de dados", t.debug)
		return
	}

	renderResponse(w, Envelope{
		Success: true,
		Data:    newTask(task),
		Message: "Tarefa criada com sucesso",
	}, http.StatusCreated)
}

func (t *TaskHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderFailure(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	defer r.Body.Close()

	params := internal.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
	}

	if req.Status != nil {
		status := internal.Status(*req.Status)
		params.Status = &status
	}

	if req.DueDate.set {
		params.DueDate.Set = true

		if req.DueDate.value != "" {
			parsed, err := internal.ParseTime(req.DueDate.value)
			if err != nil {
				renderFailure(w, http.StatusBadRequest, "Formato de data inválido. Use ISO 8601 (YYYY-MM-DDTHH:MM:SS)")
				return
			}

			params.DueDate.Value = &parsed
		}
	}

	task, err := t.svc.Update(r.Context(), id, params)
	if err != nil {
		renderErrorResponse(r.Context(), w, err,
			fmt.Sprintf("Tarefa com ID %d não encontrada", id),
			"Erro ao atualizar tarefa no banco de dados", t.debug)
		return
	}

	renderResponse(w, Envelope{
		Success: true,
		Data:    newTask(task),
		Message: "Tarefa atualizada com sucesso",
	}, http.StatusOK)
}

func (t *TaskHandler) markCompleted(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := t.svc.MarkCompleted(r.Context(), id)
	if err != nil {
		renderErrorResponse(r.Context(), w, err,
			fmt.Sprintf("Tarefa com ID %d não encontrada", id),
			"Erro ao marcar tarefa como concluída", t.debug)
		return
	}

	renderResponse(w, Envelope{
		Success: true,
		Data:    newTask(task),
		Message: "Tarefa marcada como concluída com sucesso",
	}, http.StatusOK)
}

func (t *TaskHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := t.svc.Delete(r.Context(), id); err != nil {
		renderErrorResponse(r.Context(), w, err,
			fmt.Sprintf("Tarefa com ID %d não encontrada", id),
			"Erro ao remover tarefa do banco de dados", t.debug)
		return
	}

	renderResponse(w, Envelope{
		Success: true,
		Message: "Tarefa removida com sucesso",
	}, http.StatusOK)
}

// pathID parses the id path parameter, the route pattern already restricts
// it to digits so the only way this fails is an int64 overflow.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		RouteNotFound(w, r)
		return 0, false
	}

	return id, true
}
