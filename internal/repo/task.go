package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/life-command/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
)

const taskColumns = `id, user_id, title, description, completed, due_date, priority, created_at`

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title)
		VALUES ($1, $2)
		RETURNING `+taskColumns,
		t.UserID, t.Title)

	created, err := scanTask(row)
	return created, r.mapError(err)
}

func (r *TaskRepo) List(ctx context.Context, userID string, filter model.TaskFilter) ([]model.Task, error) {
	order := "DESC"
	if filter.Sort == model.SortOldest {
		order = "ASC"
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND ($2::boolean IS NULL OR completed = $2)
		ORDER BY created_at ` + order

	rows, err := r.pool.Query(ctx, query, userID, filter.Completed)
	if err != nil {
		return nil, r.mapError(err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, r.mapError(err)
		}
		tasks = append(tasks, t)
	}
	return tasks, r.mapError(rows.Err())
}

func (r *TaskRepo) UpdateCompleted(ctx context.Context, id uuid.UUID, userID string, completed bool) (int64, error) {
	return r.exec(ctx, `UPDATE tasks SET completed = $3 WHERE id = $1 AND user_id = $2`, id, userID, completed)
}

func (r *TaskRepo) UpdateTitle(ctx context.Context, id uuid.UUID, userID string, title string) (int64, error) {
	return r.exec(ctx, `UPDATE tasks SET title = $3 WHERE id = $1 AND user_id = $2`, id, userID, title)
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *TaskRepo) UpdateDueDate(ctx context.Context, id uuid.UUID, owner *string, dueDate *string) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET due_date = $3::text::timestamptz
		WHERE id = $1 AND ($2::text IS NULL OR user_id = $2)
		RETURNING `+taskColumns,
		id, owner, dueDate)

	t, err := scanTask(row)
	return t, r.mapError(err)
}

func (r *TaskRepo) UpdatePriority(ctx context.Context, id uuid.UUID, owner *string, priority int) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET priority = $3
		WHERE id = $1 AND ($2::text IS NULL OR user_id = $2)
		RETURNING `+taskColumns,
		id, owner, priority)

	t, err := scanTask(row)
	return t, r.mapError(err)
}

func (r *TaskRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *TaskRepo) exec(ctx context.Context, sql string, args ...any) (int64, error) {
	cmd, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, r.mapError(err)
	}
	return cmd.RowsAffected(), nil
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.DueDate, &t.Priority, &t.CreatedAt,
	)
	return t, err
}

// mapError keeps the backend message of Postgres errors and turns a missing
// row into ErrorNotFound.
func (r *TaskRepo) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}
	return err
}

// StoreError is a failure reported by Postgres itself.
type StoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
