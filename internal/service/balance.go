package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/set-night/tickpiar/internal/domain"
	"github.com/set-night/tickpiar/internal/repository"
)

// BalanceService owns the invariant that a user's balance equals the sum of
// all signed adjustments ever applied to it. Every adjustment is a single
// conditional UPDATE plus an audit transactions row, committed together.
type BalanceService struct {
	db      repository.DB
	queries *repository.Queries
}

func NewBalanceService(db repository.DB, queries *repository.Queries) *BalanceService {
	return &BalanceService{db: db, queries: queries}
}

// Adjust applies a signed delta to the user's balance and returns the new
// balance. The store enforces that the balance never goes negative; an
// overdrawing debit fails with domain.ErrInsufficientBalance and leaves the
// balance untouched.
func (s *BalanceService) Adjust(ctx context.Context, userID, delta int64, description string) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	newBalance, err := adjustBalance(ctx, qtx, userID, delta, description)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return newBalance, nil
}

// Credit adds amount coins to the user's balance.
func (s *BalanceService) Credit(ctx context.Context, userID, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	return s.Adjust(ctx, userID, amount, description)
}

// Debit removes amount coins from the user's balance.
func (s *BalanceService) Debit(ctx context.Context, userID, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	return s.Adjust(ctx, userID, -amount, description)
}

// adjustBalance runs the conditional balance update and its audit row against
// qtx. It is shared with the task and referral services so that their multi-
// table operations stay inside one transaction.
func adjustBalance(ctx context.Context, qtx *repository.Queries, userID, delta int64, description string) (int64, error) {
	newBalance, err := qtx.AdjustUserBalance(ctx, userID, delta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The guard rejected the update: either the user is missing
			// or the debit would overdraw.
			exists, exErr := qtx.UserExists(ctx, userID)
			if exErr != nil {
				return 0, fmt.Errorf("check user: %w", exErr)
			}
			if !exists {
				return 0, domain.ErrUserNotFound
			}
			return 0, domain.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("adjust balance: %w", err)
	}

	txType := domain.TxTypeCredit
	if delta < 0 {
		txType = domain.TxTypeDebit
	}
	if _, err := qtx.CreateTransaction(ctx, userID, delta, txType, description); err != nil {
		return 0, fmt.Errorf("audit transaction: %w", err)
	}
	return newBalance, nil
}
