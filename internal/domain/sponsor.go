package domain

import "time"

// SponsorChannel is one entry of a chat's mandatory-subscription gate.
// A chat may have several active rows; a member is compliant only when
// subscribed to every one of them.
type SponsorChannel struct {
	ID        int64
	ChatID    int64
	Channel   string
	AddedBy   *int64
	IsActive  bool
	CreatedAt time.Time
}
