// Package mocks holds testify mocks of the repo interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/BuzzLyutic/life-command/internal/model"
)

type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *TaskRepository) List(ctx context.Context, userID string, filter model.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, userID, filter)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *TaskRepository) UpdateCompleted(ctx context.Context, id uuid.UUID, userID string, completed bool) (int64, error) {
	args := m.Called(ctx, id, userID, completed)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TaskRepository) UpdateTitle(ctx context.Context, id uuid.UUID, userID string, title string) (int64, error) {
	args := m.Called(ctx, id, userID, title)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TaskRepository) Delete(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TaskRepository) UpdateDueDate(ctx context.Context, id uuid.UUID, owner *string, dueDate *string) (model.Task, error) {
	args := m.Called(ctx, id, owner, dueDate)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *TaskRepository) UpdatePriority(ctx context.Context, id uuid.UUID, owner *string, priority int) (model.Task, error) {
	args := m.Called(ctx, id, owner, priority)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *TaskRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
