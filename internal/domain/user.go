package domain

import "time"

// User is created on the first interaction with the bot and never deleted.
// The primary key is the Telegram-assigned id; Balance is mutated only
// through the balance service.
type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Balance      int64
	ReferralCode string
	ReferredByID *int64
	IsBanned     bool
	CreatedAt    time.Time
}

// UserStats is the cabinet summary.
type UserStats struct {
	Balance        int64
	CompletedTasks int64
	CreatedTasks   int64
	Referrals      int64
}
