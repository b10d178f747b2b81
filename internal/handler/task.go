package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/life-command/internal/auth"
	"github.com/BuzzLyutic/life-command/internal/schema"
	"github.com/BuzzLyutic/life-command/internal/service"
	"github.com/BuzzLyutic/life-command/pkg/respond"
)

const (
	MsgUnknownAction  = "Unknown action"
	MsgInternalError  = "Internal server error"
	MsgInvalidPayload = "Invalid payload"
)

// SessionClearer expires the caller's session cookie.
type SessionClearer interface {
	ClearSession(w http.ResponseWriter)
}

type TaskHandler struct {
	service  *service.TaskService
	sessions SessionClearer
	logger   *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, sessions SessionClearer, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service:  srv,
		sessions: sessions,
		logger:   logger,
	}
}

type commandRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// Command runs one task command for the caller resolved by the auth
// middleware.
func (h *TaskHandler) Command(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	ctx := r.Context()
	switch req.Action {
	case "createTask":
		var in schema.CreateTaskInput
		if err := schema.Decode(req.Payload, &in); err != nil {
			h.handleErrors(w, r, err)
			return
		}
		task, err := h.service.CreateTask(ctx, userID, in)
		if err != nil {
			h.handleErrors(w, r, err)
			return
		}
		respond.Success(w, r, "Task created", map[string]interface{}{"task": task})

	case "deleteTask":
		var in schema.DeleteTaskInput
		if err := schema.Decode(req.Payload, &in); err != nil {
			h.handleErrors(w, r, err)
			return
		}
		if err := h.service.DeleteTask(ctx, userID, in); err != nil {
			h.handleErrors(w, r, err)
			return
		}
		respond.Success(w, r, "Task deleted", nil)

	case "updateTaskCompletion":
		var in schema.UpdateTaskCompletionInput
		if err := schema.Decode(req.Payload, &in); err != nil {
			h.handleErrors(w, r, err)
			return
		}
		if err := h.service.UpdateTaskCompletion(ctx, userID, in); err != nil {
			h.handleErrors(w, r, err)
			return
		}
		respond.Success(w, r, "Task completion updated", nil)

	case "updateTaskTitle":
		var in schema.UpdateTaskTitleInput
		if err := schema.Decode(req.Payload, &in); err != nil {
			h.handleErrors(w, r, err)
			return
		}
		if err := h.service.UpdateTaskTitle(ctx, userID, in); err != nil {
			h.handleErrors(w, r, err)
			return
		}
		respond.Success(w, r, "Task title updated", nil)

	case "setDueDate":
		var in schema.SetDueDateInput
		if err := schema.Decode(req.Payload, &in); err != nil {
			h.handleErrors(w, r, err)
			return
		}
		task, err := h.service.SetDueDate(ctx, userID, in)
		if err != nil {
			h.handleErrors(w, r, err)
			return
		}
		respond.Success(w, r, "Due date set", map[string]interface{}{"task": task})

	case "setPriority":
		var in schema.SetPriorityInput
		if err := schema.Decode(req.Payload, &in); err != nil {
			h.handleErrors(w, r, err)
			return
		}
		if err := h.service.SetPriority(ctx, userID, in); err != nil {
			h.handleErrors(w, r, err)
			return
		}
		respond.Success(w, r, "Priority set", nil)

	case "getTasks":
		// The payload is optional here; without one every task is returned.
		var in schema.ListTasksInput
		if !emptyPayload(req.Payload) {
			if err := schema.Decode(req.Payload, &in); err != nil {
				h.handleErrors(w, r, err)
				return
			}
		}
		tasks, err := h.service.ListTasks(ctx, userID, in)
		if err != nil {
			h.handleErrors(w, r, err)
			return
		}
		respond.Success(w, r, "Tasks fetched", map[string]interface{}{"tasks": tasks})

	default:
		respond.Error(w, r, http.StatusBadRequest, MsgUnknownAction)
	}
}

// List serves GET /tasks and GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	in := schema.ListTasksInput{
		Status: r.URL.Query().Get("status"),
		Sort:   r.URL.Query().Get("sort"),
	}

	tasks, err := h.service.ListTasks(r.Context(), userID, in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.Success(w, r, "Tasks fetched", map[string]interface{}{"tasks": tasks})
}

func emptyPayload(p json.RawMessage) bool {
	trimmed := bytes.TrimSpace(p)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var verr *schema.Error
	switch {
	case errors.As(err, &verr):
		msg := verr.Message
		if msg == "" {
			msg = MsgInvalidPayload
		}
		respond.Error(w, r, http.StatusBadRequest, msg)
	case errors.Is(err, service.ErrUnauthenticated):
		respond.Error(w, r, http.StatusUnauthorized, auth.MsgNotAuthenticated)
	case errors.Is(err, service.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "Task not found")
	case errors.Is(err, service.ErrPersistence):
		respond.Error(w, r, http.StatusInternalServerError, err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, MsgInternalError)
	}
}
