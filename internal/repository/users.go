package repository

import (
	"context"

	"github.com/set-night/tickpiar/internal/domain"
)

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Balance, &u.ReferralCode, &u.ReferredByID, &u.IsBanned, &u.CreatedAt)
	return u, err
}

const getUser = `
SELECT user_id, username, first_name, last_name, balance, referral_code, referred_by, is_banned, created_at
FROM users WHERE user_id = $1`

func (q *Queries) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	return scanUser(q.db.QueryRow(ctx, getUser, userID))
}

const getUserByReferralCode = `
SELECT user_id, username, first_name, last_name, balance, referral_code, referred_by, is_banned, created_at
FROM users WHERE referral_code = $1`

func (q *Queries) GetUserByReferralCode(ctx context.Context, code string) (domain.User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByReferralCode, code))
}

const userExists = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`

func (q *Queries) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, userExists, userID).Scan(&exists)
	return exists, err
}

type CreateUserParams struct {
	UserID       int64
	Username     string
	FirstName    string
	LastName     string
	ReferralCode string
	ReferredByID *int64
}

const createUser = `
INSERT INTO users (user_id, username, first_name, last_name, referral_code, referred_by)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO NOTHING
RETURNING user_id, username, first_name, last_name, balance, referral_code, referred_by, is_banned, created_at`

// CreateUser inserts a user row. When the user already exists the insert is
// a no-op and pgx.ErrNoRows is returned; callers treat that as "not new".
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (domain.User, error) {
	return scanUser(q.db.QueryRow(ctx, createUser,
		arg.UserID, arg.Username, arg.FirstName, arg.LastName, arg.ReferralCode, arg.ReferredByID))
}

const updateUserInfo = `
UPDATE users SET username = $2, first_name = $3, last_name = $4 WHERE user_id = $1`

func (q *Queries) UpdateUserInfo(ctx context.Context, userID int64, username, firstName, lastName string) error {
	_, err := q.db.Exec(ctx, updateUserInfo, userID, username, firstName, lastName)
	return err
}

const setUserBanned = `UPDATE users SET is_banned = $2 WHERE user_id = $1`

func (q *Queries) SetUserBanned(ctx context.Context, userID int64, banned bool) (bool, error) {
	tag, err := q.db.Exec(ctx, setUserBanned, userID, banned)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const adjustUserBalance = `
UPDATE users SET balance = balance + $2
WHERE user_id = $1 AND balance + $2 >= 0
RETURNING balance`

// AdjustUserBalance applies a signed delta as one conditional statement.
// The WHERE guard keeps the balance non-negative: when the row is missing or
// the delta would overdraw, no row comes back (pgx.ErrNoRows).
func (q *Queries) AdjustUserBalance(ctx context.Context, userID, delta int64) (int64, error) {
	var balance int64
	err := q.db.QueryRow(ctx, adjustUserBalance, userID, delta).Scan(&balance)
	return balance, err
}

const getUserStats = `
SELECT
    u.balance,
    (SELECT COUNT(*) FROM task_completions tc WHERE tc.user_id = u.user_id),
    (SELECT COUNT(*) FROM tasks t WHERE t.creator_id = u.user_id),
    (SELECT COUNT(*) FROM referrals r WHERE r.referrer_id = u.user_id)
FROM users u WHERE u.user_id = $1`

func (q *Queries) GetUserStats(ctx context.Context, userID int64) (domain.UserStats, error) {
	var s domain.UserStats
	err := q.db.QueryRow(ctx, getUserStats, userID).Scan(&s.Balance, &s.CompletedTasks, &s.CreatedTasks, &s.Referrals)
	return s, err
}
