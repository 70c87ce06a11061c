package repository

import (
	"context"
	"fmt"

	"github.com/set-night/tickpiar/internal/domain"
)

func scanTask(row interface{ Scan(...any) error }) (domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.CreatorID, &t.Channel, &t.Title, &t.Reward, &t.Description,
		&t.IsActive, &t.CompletedCount, &t.MaxCompletions, &t.CreatedAt)
	return t, err
}

type CreateTaskParams struct {
	CreatorID      int64
	Channel        string
	Title          string
	Reward         int
	Description    string
	MaxCompletions int
}

const createTask = `
INSERT INTO tasks (creator_id, channel, title, reward, description, max_completions)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING task_id, creator_id, channel, title, reward, description, is_active, completed_count, max_completions, created_at`

func (q *Queries) CreateTask(ctx context.Context, arg CreateTaskParams) (domain.Task, error) {
	return scanTask(q.db.QueryRow(ctx, createTask,
		arg.CreatorID, arg.Channel, arg.Title, arg.Reward, arg.Description, arg.MaxCompletions))
}

const getTask = `
SELECT task_id, creator_id, channel, title, reward, description, is_active, completed_count, max_completions, created_at
FROM tasks WHERE task_id = $1`

func (q *Queries) GetTask(ctx context.Context, taskID int64) (domain.Task, error) {
	return scanTask(q.db.QueryRow(ctx, getTask, taskID))
}

const getTaskForUpdate = `
SELECT task_id, creator_id, channel, title, reward, description, is_active, completed_count, max_completions, created_at
FROM tasks WHERE task_id = $1 FOR UPDATE`

// GetTaskForUpdate locks the task row for the remainder of the transaction.
func (q *Queries) GetTaskForUpdate(ctx context.Context, taskID int64) (domain.Task, error) {
	return scanTask(q.db.QueryRow(ctx, getTaskForUpdate, taskID))
}

const listAvailableTasks = `
SELECT t.task_id, t.creator_id, t.channel, t.title, t.reward, t.description, t.is_active, t.completed_count, t.max_completions, t.created_at
FROM tasks t
WHERE t.is_active = TRUE
  AND t.creator_id != $1
  AND t.completed_count < t.max_completions
  AND NOT EXISTS (
    SELECT 1 FROM task_completions tc
    WHERE tc.task_id = t.task_id AND tc.user_id = $1
  )
ORDER BY t.reward DESC, t.created_at DESC
LIMIT $2`

func (q *Queries) ListAvailableTasks(ctx context.Context, userID int64, limit int) ([]domain.Task, error) {
	rows, err := q.db.Query(ctx, listAvailableTasks, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list available tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

const listTasksByCreator = `
SELECT t.task_id, t.creator_id, t.channel, t.title, t.reward, t.description, t.is_active, t.completed_count, t.max_completions, t.created_at
FROM tasks t
WHERE t.creator_id = $1
ORDER BY t.created_at DESC`

func (q *Queries) ListTasksByCreator(ctx context.Context, creatorID int64) ([]domain.Task, error) {
	rows, err := q.db.Query(ctx, listTasksByCreator, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by creator: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

const createTaskCompletion = `
INSERT INTO task_completions (task_id, user_id, is_verified)
VALUES ($1, $2, $3)
ON CONFLICT (task_id, user_id) DO NOTHING`

// CreateTaskCompletion records a completion. The unique (task_id, user_id)
// pair is the double-completion guard: the second insert affects zero rows.
func (q *Queries) CreateTaskCompletion(ctx context.Context, taskID, userID int64, verified bool) (bool, error) {
	tag, err := q.db.Exec(ctx, createTaskCompletion, taskID, userID, verified)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const incrementTaskCompleted = `
UPDATE tasks SET completed_count = completed_count + 1
WHERE task_id = $1 AND completed_count < max_completions`

// IncrementTaskCompleted bumps the completion counter only while the quota
// allows it; false means the task is exhausted.
func (q *Queries) IncrementTaskCompleted(ctx context.Context, taskID int64) (bool, error) {
	tag, err := q.db.Exec(ctx, incrementTaskCompleted, taskID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
