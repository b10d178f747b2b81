package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/BuzzLyutic/life-command/internal/auth"
	"github.com/BuzzLyutic/life-command/internal/schema"
	"github.com/BuzzLyutic/life-command/pkg/respond"
)

const MsgInvalidPriority = "Invalid priority or id"

// Action runs a form-encoded command from the browser session and redirects
// back to the task list.
func (h *TaskHandler) Action(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid form body")
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	ctx := r.Context()
	id := r.PostFormValue("id")

	var err error
	switch chi.URLParam(r, "action") {
	case "createTask":
		_, err = h.service.CreateTask(ctx, userID, schema.CreateTaskInput{
			Title: r.PostFormValue("title"),
		})

	case "updateTaskStatus":
		completed := r.PostFormValue("completed") == "true"
		err = h.service.UpdateTaskStatus(ctx, userID, schema.UpdateTaskStatusInput{
			ID:        id,
			Completed: &completed,
		})

	case "updateTaskTitle":
		err = h.service.UpdateTaskTitle(ctx, userID, schema.UpdateTaskTitleInput{
			ID:    id,
			Title: r.PostFormValue("title"),
		})

	case "deleteTask":
		err = h.service.DeleteTask(ctx, userID, schema.DeleteTaskInput{ID: id})

	case "setDueDate":
		var due *string
		if v := r.PostFormValue("due_date"); v != "" {
			due = &v
		}
		_, err = h.service.SetDueDate(ctx, userID, schema.SetDueDateInput{ID: id, DueDate: due, DueDateSet: true})

	case "setPriority":
		priority, ok := formPriority(r.PostFormValue("priority"))
		if !ok {
			respond.Error(w, r, http.StatusBadRequest, MsgInvalidPriority)
			return
		}
		err = h.service.SetPriority(ctx, userID, schema.SetPriorityInput{ID: id, Priority: &priority})
		if errors.Is(err, schema.ErrValidation) {
			respond.Error(w, r, http.StatusBadRequest, MsgInvalidPriority)
			return
		}

	default:
		respond.Error(w, r, http.StatusBadRequest, MsgUnknownAction)
		return
	}

	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignOut drops the session cookie. It does not need a valid session.
func (h *TaskHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// formPriority reads a priority field. A blank field counts as zero.
func formPriority(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, true
	}
	p, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return p, true
}
