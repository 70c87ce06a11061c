package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/set-night/tickpiar/internal/config"
	"github.com/set-night/tickpiar/internal/domain"
	"github.com/set-night/tickpiar/internal/repository"
)

// TaskService owns task definitions and the completion set. It enforces
// one-completion-per-user-per-task and the quota ceiling, and keeps every
// multi-table mutation inside a single transaction.
type TaskService struct {
	db      repository.DB
	queries *repository.Queries
	cfg     *config.Config
}

func NewTaskService(db repository.DB, queries *repository.Queries, cfg *config.Config) *TaskService {
	return &TaskService{db: db, queries: queries, cfg: cfg}
}

// Create validates the reward, debits the creator and inserts the task as
// one atomic unit. A creator with insufficient balance gets
// domain.ErrInsufficientBalance and no task is created.
func (s *TaskService) Create(ctx context.Context, creatorID int64, channel, title string, reward int, description string) (*domain.Task, error) {
	if reward < s.cfg.MinTaskReward || reward > s.cfg.MaxTaskReward {
		return nil, domain.ErrInvalidReward
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	if _, err := adjustBalance(ctx, qtx, creatorID, -int64(reward), fmt.Sprintf("Создание задания: %s", channel)); err != nil {
		return nil, err
	}

	task, err := qtx.CreateTask(ctx, repository.CreateTaskParams{
		CreatorID:      creatorID,
		Channel:        channel,
		Title:          title,
		Reward:         reward,
		Description:    description,
		MaxCompletions: config.DefaultMaxCompletions,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &task, nil
}

// GetByID fetches a single task.
func (s *TaskService) GetByID(ctx context.Context, taskID int64) (*domain.Task, error) {
	task, err := s.queries.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// ListAvailable returns up to limit tasks the user can still complete:
// active, not their own, quota not reached and no prior completion by them.
// Ordered by reward descending, then recency descending.
func (s *TaskService) ListAvailable(ctx context.Context, userID int64, limit int) ([]domain.Task, error) {
	return s.queries.ListAvailableTasks(ctx, userID, limit)
}

// ListByCreator returns the user's own tasks, newest first.
func (s *TaskService) ListByCreator(ctx context.Context, creatorID int64) ([]domain.Task, error) {
	return s.queries.ListTasksByCreator(ctx, creatorID)
}

// Complete records that the user redeemed the task and credits the reward.
// The completion insert, the quota bump and the credit commit together or
// not at all: a recorded-but-not-credited completion cannot exist.
func (s *TaskService) Complete(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	task, err := qtx.GetTaskForUpdate(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("lock task: %w", err)
	}
	if !task.IsActive {
		return nil, domain.ErrTaskInactive
	}
	if task.CreatorID == userID {
		return nil, domain.ErrOwnTask
	}

	inserted, err := qtx.CreateTaskCompletion(ctx, taskID, userID, true)
	if err != nil {
		return nil, fmt.Errorf("create completion: %w", err)
	}
	if !inserted {
		return nil, domain.ErrTaskAlreadyDone
	}

	bumped, err := qtx.IncrementTaskCompleted(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("increment completed count: %w", err)
	}
	if !bumped {
		return nil, domain.ErrTaskExhausted
	}

	if _, err := adjustBalance(ctx, qtx, userID, int64(task.Reward), fmt.Sprintf("Награда за задание #%d", taskID)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	task.CompletedCount++
	return &task, nil
}
