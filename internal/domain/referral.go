package domain

import "time"

// Referral is the one-time referrer→referred edge. At most one row exists
// per (ReferrerID, ReferredID) pair, enforced by a unique constraint.
type Referral struct {
	ID         int64
	ReferrerID int64
	ReferredID int64
	BonusPaid  bool
	CreatedAt  time.Time
}
