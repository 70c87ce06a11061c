package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskInactive        = errors.New("task is not active")
	ErrTaskAlreadyDone     = errors.New("task already completed by this user")
	ErrTaskExhausted       = errors.New("task completion quota reached")
	ErrOwnTask             = errors.New("task was created by this user")
	ErrInvalidReward       = errors.New("reward outside allowed range")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfReferral        = errors.New("self referral is not allowed")
	ErrSponsorNotFound     = errors.New("sponsor channel not found")
)
