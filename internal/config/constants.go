package config

import "time"

const (
	// Task defaults
	DefaultMaxCompletions = 1000
	TasksPerPage          = 10

	// Creation dialog
	DraftTTL           = 10 * time.Minute
	DraftSweepInterval = time.Minute
	SkipSentinel       = "пропустить"

	// Membership checks
	MembershipCacheTTL = 2 * time.Minute
	TransportTimeout   = 5 * time.Second

	// Sponsor gate
	GateWarningLifetime = 10 * time.Second

	// Rate limit (messages per minute per chat)
	RateLimitPerMinute = 20

	// Telegram limits
	MaxTelegramMessageLen = 4096
)
