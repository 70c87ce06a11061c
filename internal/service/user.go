package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/set-night/tickpiar/internal/domain"
	"github.com/set-night/tickpiar/internal/repository"
)

const (
	referralCodeLength  = 8
	referralCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type UserService struct {
	db        repository.DB
	queries   *repository.Queries
	referrals *ReferralService
}

func NewUserService(db repository.DB, queries *repository.Queries, referrals *ReferralService) *UserService {
	return &UserService{db: db, queries: queries, referrals: referrals}
}

// FindOrCreate loads the user, creating the row on first interaction. When a
// brand-new user arrived through a referral deep link, the referral edge is
// recorded and the referrer credited. Unknown codes and self-referrals are
// ignored silently.
func (s *UserService) FindOrCreate(ctx context.Context, userID int64, username, firstName, lastName, referralPayload string) (*domain.User, bool, error) {
	row, err := s.queries.GetUser(ctx, userID)
	if err == nil {
		return &row, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	refCode, err := s.generateUniqueReferralCode(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("generate referral code: %w", err)
	}

	var referrerID *int64
	if referralPayload != "" {
		referrer, err := s.queries.GetUserByReferralCode(ctx, referralPayload)
		if err == nil && referrer.ID != userID {
			referrerID = &referrer.ID
		}
	}

	row, err = s.queries.CreateUser(ctx, repository.CreateUserParams{
		UserID:       userID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		ReferralCode: refCode,
		ReferredByID: referrerID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a create race; the row exists now.
			row, err = s.queries.GetUser(ctx, userID)
			if err != nil {
				return nil, false, fmt.Errorf("get user after conflict: %w", err)
			}
			return &row, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	if referrerID != nil {
		accepted, err := s.referrals.Record(ctx, *referrerID, userID)
		if err != nil {
			slog.Error("record referral", "error", err, "referrer_id", *referrerID, "referred_id", userID)
		} else if accepted {
			slog.Info("referral bonus paid", "referrer_id", *referrerID, "referred_id", userID)
		}
	}

	return &row, true, nil
}

// GetByID returns the user or domain.ErrUserNotFound.
func (s *UserService) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	row, err := s.queries.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &row, nil
}

func (s *UserService) UpdateInfo(ctx context.Context, userID int64, username, firstName, lastName string) error {
	return s.queries.UpdateUserInfo(ctx, userID, username, firstName, lastName)
}

// SetBanned flips the ban flag; false means the user row does not exist.
func (s *UserService) SetBanned(ctx context.Context, userID int64, banned bool) error {
	updated, err := s.queries.SetUserBanned(ctx, userID, banned)
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}
	if !updated {
		return domain.ErrUserNotFound
	}
	return nil
}

// Stats returns the cabinet summary for the user.
func (s *UserService) Stats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	stats, err := s.queries.GetUserStats(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return &stats, nil
}

func generateReferralCode() (string, error) {
	code := make([]byte, referralCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralCodeCharset))))
		if err != nil {
			return "", fmt.Errorf("random int: %w", err)
		}
		code[i] = referralCodeCharset[n.Int64()]
	}
	return string(code), nil
}

func (s *UserService) generateUniqueReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return "", err
		}
		_, err = s.queries.GetUserByReferralCode(ctx, code)
		if errors.Is(err, pgx.ErrNoRows) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("check referral code: %w", err)
		}
	}
	return "", fmt.Errorf("failed to generate unique referral code after 10 attempts")
}
