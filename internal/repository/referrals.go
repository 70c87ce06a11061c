package repository

import "context"

const createReferral = `
INSERT INTO referrals (referrer_id, referred_id, bonus_paid)
VALUES ($1, $2, TRUE)
ON CONFLICT (referrer_id, referred_id) DO NOTHING`

// CreateReferral inserts the one-time referrer→referred edge. The unique
// pair constraint makes the insert conditional: false means the edge already
// existed and no bonus is due.
func (q *Queries) CreateReferral(ctx context.Context, referrerID, referredID int64) (bool, error) {
	tag, err := q.db.Exec(ctx, createReferral, referrerID, referredID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
