package web

import (
	"errors"
	"log/slog"
	"net/http"

	taskservice "github.com/thenoetrevino/todo/internal/services/task"
)

// Messages shown to the user. Causes go to the log only.
const (
	msgListFailed   = "There was an issue locating your tasks."
	msgInsertFailed = "There was an issue inserting your task."
	msgDeleteFailed = "There was an issue removing your task."
	msgLocateFailed = "There was an issue locating your task."
	msgUpdateFailed = "There was an issue updating your task."
	msgMissingTask  = "Missing task content."
	msgTooLarge     = "Task content is too large."
)

const (
	contentField = "content"
	maxFormBytes = 1 << 20
)

type handlers struct {
	tasks  taskservice.Service
	logger *slog.Logger
}

func (h *handlers) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("POST /{$}", h.create)
	mux.HandleFunc("GET /delete/{id}", h.delete)
	mux.HandleFunc("GET /update/{id}", h.edit)
	mux.HandleFunc("POST /update/{id}", h.update)
	mux.HandleFunc("GET /healthz", h.healthz)
}

// index renders every task.
func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListTasks(r.Context())
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, msgListFailed, err)
		return
	}
	if err := render(w, "index.html", indexView{Tasks: tasks}); err != nil {
		h.fail(w, r, http.StatusInternalServerError, msgListFailed, err)
	}
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	content, ok := h.formContent(w, r)
	if !ok {
		return
	}
	if _, err := h.tasks.CreateTask(r.Context(), content); err != nil {
		h.fail(w, r, http.StatusInternalServerError, msgInsertFailed, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, http.StatusInternalServerError, msgDeleteFailed, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// edit shows the update form for one task.
func (h *handlers) edit(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.GetTask(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, taskservice.ErrTaskNotFound):
		h.fail(w, r, http.StatusNotFound, msgLocateFailed, err)
		return
	case err != nil:
		h.fail(w, r, http.StatusInternalServerError, msgLocateFailed, err)
		return
	}
	if err := render(w, "update.html", updateView{Task: task}); err != nil {
		h.fail(w, r, http.StatusInternalServerError, msgLocateFailed, err)
	}
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	content, ok := h.formContent(w, r)
	if !ok {
		return
	}
	if err := h.tasks.UpdateTask(r.Context(), r.PathValue("id"), content); err != nil {
		h.fail(w, r, http.StatusInternalServerError, msgUpdateFailed, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// formContent reads the required content field, writing a 400 when it is
// absent and a 413 when the body is over maxFormBytes.
func (h *handlers) formContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, http.StatusRequestEntityTooLarge, msgTooLarge, err)
			return "", false
		}
		h.fail(w, r, http.StatusBadRequest, msgMissingTask, err)
		return "", false
	}
	values, ok := r.PostForm[contentField]
	if !ok || len(values) == 0 {
		h.fail(w, r, http.StatusBadRequest, msgMissingTask, errors.New("content field missing"))
		return "", false
	}
	return values[0], true
}

// fail logs the cause and writes the static message as text/plain.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"request_id", r.Header.Get(RequestIDHeader),
		"error", err,
	)
	http.Error(w, msg, status)
}
