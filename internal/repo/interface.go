package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/life-command/internal/model"
)

// TaskRepository is the task store. Owner-scoped mutations report the number
// of matched rows and leave the "no match" policy to the caller. A nil owner
// on the schedule updates means the row is matched by id alone.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	List(ctx context.Context, userID string, filter model.TaskFilter) ([]model.Task, error)
	UpdateCompleted(ctx context.Context, id uuid.UUID, userID string, completed bool) (int64, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, userID string, title string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) (int64, error)
	UpdateDueDate(ctx context.Context, id uuid.UUID, owner *string, dueDate *string) (model.Task, error)
	UpdatePriority(ctx context.Context, id uuid.UUID, owner *string, priority int) (model.Task, error)
	Ping(ctx context.Context) error
}
