package domain

import "time"

// Task is a promotional offer: subscribe to Channel, earn Reward coins.
// A task becomes unavailable once CompletedCount reaches MaxCompletions or
// IsActive is cleared; rows are never deleted.
type Task struct {
	ID             int64
	CreatorID      int64
	Channel        string
	Title          string
	Reward         int
	Description    string
	IsActive       bool
	CompletedCount int
	MaxCompletions int
	CreatedAt      time.Time
}

// Available reports whether the task can still be completed.
func (t *Task) Available() bool {
	return t.IsActive && t.CompletedCount < t.MaxCompletions
}

// TaskCompletion records that a user redeemed a task exactly once.
// Unique on (TaskID, UserID); immutable after insert.
type TaskCompletion struct {
	ID          int64
	TaskID      int64
	UserID      int64
	CompletedAt time.Time
	IsVerified  bool
}
