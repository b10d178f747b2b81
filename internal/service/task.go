package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/life-command/internal/model"
	"github.com/BuzzLyutic/life-command/internal/repo"
	"github.com/BuzzLyutic/life-command/internal/schema"
)

// TaskCache is the optional per-user task list cache. Set only stores a list
// if no Invalidate for that user happened since Version was read.
type TaskCache interface {
	Get(ctx context.Context, userID string) ([]model.Task, bool, error)
	Version(ctx context.Context, userID string) (int64, error)
	Set(ctx context.Context, userID string, version int64, tasks []model.Task) (bool, error)
	Invalidate(ctx context.Context, userIDs ...string) error
}

type Option func(*TaskService)

func WithCache(c TaskCache) Option {
	return func(s *TaskService) { s.cache = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *TaskService) { s.logger = l }
}

// WithStrictOwnership makes an owner-scoped mutation that matches no row
// fail with ErrNotFound instead of succeeding silently.
func WithStrictOwnership(strict bool) Option {
	return func(s *TaskService) { s.strictOwnership = strict }
}

// WithOwnerScopedSchedule adds the caller's user_id to the SetDueDate and
// SetPriority predicates, which by default match on id alone.
func WithOwnerScopedSchedule(scoped bool) Option {
	return func(s *TaskService) { s.ownerScopedSchedule = scoped }
}

// TaskService validates each command and then issues exactly one store call
// scoped to the caller.
type TaskService struct {
	repo                repo.TaskRepository
	cache               TaskCache
	logger              *zap.Logger
	strictOwnership     bool
	ownerScopedSchedule bool
}

func NewTaskService(repo repo.TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		repo:   repo,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) CreateTask(ctx context.Context, callerID string, in schema.CreateTaskInput) (model.Task, error) {
	if callerID == "" {
		return model.Task{}, ErrUnauthenticated
	}
	params, err := schema.CreateTask(in)
	if err != nil {
		return model.Task{}, err
	}

	task, err := s.repo.Create(ctx, model.Task{UserID: callerID, Title: params.Title})
	if err != nil {
		return model.Task{}, s.persistenceError("create task", err)
	}

	s.invalidate(ctx, callerID)
	return task, nil
}

func (s *TaskService) UpdateTaskStatus(ctx context.Context, callerID string, in schema.UpdateTaskStatusInput) error {
	if callerID == "" {
		return ErrUnauthenticated
	}
	params, err := schema.UpdateTaskStatus(in)
	if err != nil {
		return err
	}
	return s.updateCompleted(ctx, callerID, params)
}

// UpdateTaskCompletion is UpdateTaskStatus under the command endpoint's name.
func (s *TaskService) UpdateTaskCompletion(ctx context.Context, callerID string, in schema.UpdateTaskCompletionInput) error {
	if callerID == "" {
		return ErrUnauthenticated
	}
	params, err := schema.UpdateTaskCompletion(in)
	if err != nil {
		return err
	}
	return s.updateCompleted(ctx, callerID, params)
}

func (s *TaskService) updateCompleted(ctx context.Context, callerID string, params schema.CompletionParams) error {
	n, err := s.repo.UpdateCompleted(ctx, params.ID, callerID, params.Completed)
	if err != nil {
		return s.persistenceError("update task status", err)
	}
	return s.afterOwnedMutation(ctx, "update task status", callerID, n)
}

func (s *TaskService) UpdateTaskTitle(ctx context.Context, callerID string, in schema.UpdateTaskTitleInput) error {
	if callerID == "" {
		return ErrUnauthenticated
	}
	params, err := schema.UpdateTaskTitle(in)
	if err != nil {
		return err
	}

	n, err := s.repo.UpdateTitle(ctx, params.ID, callerID, params.Title)
	if err != nil {
		return s.persistenceError("update task title", err)
	}
	return s.afterOwnedMutation(ctx, "update task title", callerID, n)
}

func (s *TaskService) DeleteTask(ctx context.Context, callerID string, in schema.DeleteTaskInput) error {
	if callerID == "" {
		return ErrUnauthenticated
	}
	params, err := schema.DeleteTask(in)
	if err != nil {
		return err
	}

	n, err := s.repo.Delete(ctx, params.ID, callerID)
	if err != nil {
		return s.persistenceError("delete task", err)
	}
	return s.afterOwnedMutation(ctx, "delete task", callerID, n)
}

// SetDueDate updates the due date and returns the updated row. Unless the
// service was built WithOwnerScopedSchedule the row is matched by id alone,
// so any authenticated caller can reschedule any task.
func (s *TaskService) SetDueDate(ctx context.Context, callerID string, in schema.SetDueDateInput) (model.Task, error) {
	if callerID == "" {
		return model.Task{}, ErrUnauthenticated
	}
	params, err := schema.SetDueDate(in)
	if err != nil {
		return model.Task{}, err
	}

	task, err := s.repo.UpdateDueDate(ctx, params.ID, s.scheduleOwner(callerID), params.DueDate)
	if err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, s.persistenceError("set due date", err)
	}

	s.invalidate(ctx, task.UserID)
	return task, nil
}

// SetPriority has the same id-only matching as SetDueDate. A missing row is a
// silent success unless strict ownership is on.
func (s *TaskService) SetPriority(ctx context.Context, callerID string, in schema.SetPriorityInput) error {
	if callerID == "" {
		return ErrUnauthenticated
	}
	params, err := schema.SetPriority(in)
	if err != nil {
		return err
	}

	task, err := s.repo.UpdatePriority(ctx, params.ID, s.scheduleOwner(callerID), params.Priority)
	if err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			return s.afterOwnedMutation(ctx, "set priority", callerID, 0)
		}
		return s.persistenceError("set priority", err)
	}

	s.invalidate(ctx, task.UserID)
	return nil
}

// GetTasks returns every task owned by the caller, newest first.
func (s *TaskService) GetTasks(ctx context.Context, callerID string) ([]model.Task, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}

	// The version is read before the store so a list loaded ahead of a
	// concurrent mutation is never written back over its invalidation.
	var version int64
	cacheable := false
	if s.cache != nil {
		tasks, ok, err := s.cache.Get(ctx, callerID)
		switch {
		case err != nil:
			s.logger.Warn("task cache read failed", zap.String("user_id", callerID), zap.Error(err))
		case ok:
			return tasks, nil
		default:
			version, err = s.cache.Version(ctx, callerID)
			if err != nil {
				s.logger.Warn("task cache version read failed", zap.String("user_id", callerID), zap.Error(err))
			} else {
				cacheable = true
			}
		}
	}

	tasks, err := s.repo.List(ctx, callerID, model.TaskFilter{})
	if err != nil {
		return nil, s.persistenceError("get tasks", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	if cacheable {
		stored, err := s.cache.Set(ctx, callerID, version, tasks)
		if err != nil {
			s.logger.Warn("task cache write failed", zap.String("user_id", callerID), zap.Error(err))
		} else if !stored {
			s.logger.Debug("task list changed while loading, not cached", zap.String("user_id", callerID))
		}
	}
	return tasks, nil
}

// ListTasks is GetTasks with an optional completion filter and sort order.
func (s *TaskService) ListTasks(ctx context.Context, callerID string, in schema.ListTasksInput) ([]model.Task, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	filter, err := schema.ListTasks(in)
	if err != nil {
		return nil, err
	}
	if filter.IsZero() {
		return s.GetTasks(ctx, callerID)
	}

	tasks, err := s.repo.List(ctx, callerID, filter)
	if err != nil {
		return nil, s.persistenceError("list tasks", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *TaskService) scheduleOwner(callerID string) *string {
	if !s.ownerScopedSchedule {
		return nil
	}
	return &callerID
}

// afterOwnedMutation applies the zero-rows policy and drops the caller's
// cached list.
func (s *TaskService) afterOwnedMutation(ctx context.Context, op, callerID string, affected int64) error {
	if affected == 0 {
		if s.strictOwnership {
			return ErrNotFound
		}
		s.logger.Debug("mutation matched no rows", zap.String("op", op), zap.String("user_id", callerID))
		return nil
	}

	s.invalidate(ctx, callerID)
	return nil
}

func (s *TaskService) invalidate(ctx context.Context, userIDs ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		s.logger.Warn("task cache invalidation failed", zap.Strings("user_ids", userIDs), zap.Error(err))
	}
}

func (s *TaskService) persistenceError(op string, err error) error {
	s.logger.Error("store call failed", zap.String("op", op), zap.Error(err))
	return &PersistenceError{Op: op, Err: err}
}
