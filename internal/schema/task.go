package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/life-command/internal/model"
)

const MaxTitleLength = 255

type CreateTaskInput struct {
	Title string `json:"title" validate:"min=1,max=255"`
}

type CreateTaskParams struct {
	Title string
}

var createTaskMessages = map[string]string{
	"title.min": "Title is required",
	"title.max": "Title too long",
}

func CreateTask(in CreateTaskInput) (CreateTaskParams, error) {
	if err := check(in, createTaskMessages); err != nil {
		return CreateTaskParams{}, err
	}
	return CreateTaskParams{Title: in.Title}, nil
}

type UpdateTaskCompletionInput struct {
	ID        string `json:"id" validate:"required,taskid"`
	Completed *bool  `json:"completed" validate:"required"`
}

// UpdateTaskStatusInput is the form surface's name for the same payload.
type UpdateTaskStatusInput = UpdateTaskCompletionInput

type CompletionParams struct {
	ID        uuid.UUID
	Completed bool
}

func UpdateTaskCompletion(in UpdateTaskCompletionInput) (CompletionParams, error) {
	if err := check(in, nil); err != nil {
		return CompletionParams{}, err
	}
	return CompletionParams{ID: uuid.MustParse(in.ID), Completed: *in.Completed}, nil
}

func UpdateTaskStatus(in UpdateTaskStatusInput) (CompletionParams, error) {
	return UpdateTaskCompletion(in)
}

type UpdateTaskTitleInput struct {
	ID    string `json:"id" validate:"required,taskid"`
	Title string `json:"title" validate:"min=1,max=255"`
}

type TitleParams struct {
	ID    uuid.UUID
	Title string
}

func UpdateTaskTitle(in UpdateTaskTitleInput) (TitleParams, error) {
	if err := check(in, nil); err != nil {
		return TitleParams{}, err
	}
	return TitleParams{ID: uuid.MustParse(in.ID), Title: in.Title}, nil
}

type DeleteTaskInput struct {
	ID string `json:"id" validate:"required,taskid"`
}

type DeleteParams struct {
	ID uuid.UUID
}

func DeleteTask(in DeleteTaskInput) (DeleteParams, error) {
	if err := check(in, nil); err != nil {
		return DeleteParams{}, err
	}
	return DeleteParams{ID: uuid.MustParse(in.ID)}, nil
}

// SetDueDateInput needs due_date to be present. An explicit null clears the
// date; Go callers clearing it set DueDateSet, which Decode fills in from the
// payload's keys.
type SetDueDateInput struct {
	ID         string  `json:"id" validate:"required,taskid"`
	DueDate    *string `json:"due_date" validate:"omitempty,duedate"`
	DueDateSet bool    `json:"-"`
}

func (in *SetDueDateInput) UnmarshalJSON(data []byte) error {
	type plain SetDueDateInput
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	in.DueDateSet = hasKey(data, "due_date")
	return nil
}

type DueDateParams struct {
	ID      uuid.UUID
	DueDate *string
}

func SetDueDate(in SetDueDateInput) (DueDateParams, error) {
	if err := check(in, nil); err != nil {
		return DueDateParams{}, err
	}
	if in.DueDate == nil && !in.DueDateSet {
		return DueDateParams{}, &Error{Field: "due_date", Message: "due_date is required"}
	}
	return DueDateParams{ID: uuid.MustParse(in.ID), DueDate: in.DueDate}, nil
}

type SetPriorityInput struct {
	ID       string `json:"id" validate:"required,taskid"`
	Priority *int   `json:"priority" validate:"required,min=0,max=4"`
}

// UnmarshalJSON takes any JSON number with no fractional part, so 2.0 is 2.
func (in *SetPriorityInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Priority json.RawMessage `json:"priority"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	in.ID = raw.ID
	in.Priority = nil

	p := bytes.TrimSpace(raw.Priority)
	if len(p) == 0 || bytes.Equal(p, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(p, &f); err != nil || f != math.Trunc(f) {
		return &Error{Field: "priority", Message: "priority must be an integer"}
	}
	// Far outside the range either way; keeps the int conversion defined.
	f = math.Max(math.Min(f, math.MaxInt32), math.MinInt32)
	v := int(f)
	in.Priority = &v
	return nil
}

type PriorityParams struct {
	ID       uuid.UUID
	Priority int
}

func SetPriority(in SetPriorityInput) (PriorityParams, error) {
	if err := check(in, nil); err != nil {
		return PriorityParams{}, err
	}
	return PriorityParams{ID: uuid.MustParse(in.ID), Priority: *in.Priority}, nil
}

type ListTasksInput struct {
	Status string `json:"status" validate:"omitempty,oneof=all active completed"`
	Sort   string `json:"sort" validate:"omitempty,oneof=newest oldest"`
}

func ListTasks(in ListTasksInput) (model.TaskFilter, error) {
	if err := check(in, nil); err != nil {
		return model.TaskFilter{}, err
	}

	var filter model.TaskFilter
	switch in.Status {
	case "active":
		done := false
		filter.Completed = &done
	case "completed":
		done := true
		filter.Completed = &done
	}
	if in.Sort != "" {
		filter.Sort = model.SortOrder(in.Sort)
	}
	return filter, nil
}

// hasKey reports whether the JSON object has the key, matched the same
// case-insensitive way encoding/json matches struct fields.
func hasKey(data []byte, key string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return false
	}
	for k := range fields {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
