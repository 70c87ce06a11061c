package service

import (
	"context"
	"fmt"

	"github.com/set-night/tickpiar/internal/domain"
	"github.com/set-night/tickpiar/internal/repository"
)

// ReferralService owns the one-time referrer→referred edge and its bonus.
// The edge is a conditional insert backed by a unique constraint, so the
// bonus is paid at most once per pair no matter how Record is raced.
type ReferralService struct {
	db      repository.DB
	queries *repository.Queries
	bonus   int64
}

func NewReferralService(db repository.DB, queries *repository.Queries, bonus int64) *ReferralService {
	return &ReferralService{db: db, queries: queries, bonus: bonus}
}

// Record registers the referral edge and credits the referrer the configured
// bonus. It returns false without error when the pair was already recorded.
func (s *ReferralService) Record(ctx context.Context, referrerID, referredID int64) (bool, error) {
	if referrerID == referredID {
		return false, domain.ErrSelfReferral
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	inserted, err := qtx.CreateReferral(ctx, referrerID, referredID)
	if err != nil {
		return false, fmt.Errorf("create referral: %w", err)
	}
	if !inserted {
		return false, nil
	}

	if _, err := adjustBalance(ctx, qtx, referrerID, s.bonus, fmt.Sprintf("Реферальный бонус за пользователя %d", referredID)); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
