// Package repository holds the connection pool setup and the query layer.
// Queries keeps one method per SQL statement; services that need atomicity
// run several statements against a single transaction via WithTx.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/set-night/tickpiar/internal/domain"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx alike.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB adds transaction support on top of DBTX. *pgxpool.Pool satisfies it,
// as do the pgx mocks used in tests.
type DB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const createTransaction = `
INSERT INTO transactions (user_id, amount, tx_type, description)
VALUES ($1, $2, $3, $4)
RETURNING tx_id`

// CreateTransaction writes a balance audit row and returns its id.
func (q *Queries) CreateTransaction(ctx context.Context, userID, amount int64, txType domain.TxType, description string) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createTransaction, userID, amount, string(txType), description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	return id, nil
}

const checkAndIncrementRateLimit = `
INSERT INTO rate_limits (chat_id, window_start, count)
VALUES ($1, NOW(), 1)
ON CONFLICT (chat_id) DO UPDATE SET
    count = CASE WHEN rate_limits.window_start < NOW() - INTERVAL '1 minute' THEN 1 ELSE rate_limits.count + 1 END,
    window_start = CASE WHEN rate_limits.window_start < NOW() - INTERVAL '1 minute' THEN NOW() ELSE rate_limits.window_start END
RETURNING count`

// CheckAndIncrementRateLimit bumps the per-chat minute window counter and
// returns the new count.
func (q *Queries) CheckAndIncrementRateLimit(ctx context.Context, chatID int64) (int, error) {
	var count int
	if err := q.db.QueryRow(ctx, checkAndIncrementRateLimit, chatID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

const cleanupStaleRateLimits = `
DELETE FROM rate_limits WHERE window_start < NOW() - INTERVAL '10 minutes'`

func (q *Queries) CleanupStaleRateLimits(ctx context.Context) error {
	_, err := q.db.Exec(ctx, cleanupStaleRateLimits)
	return err
}
