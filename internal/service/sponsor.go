package service

import (
	"context"
	"fmt"

	"github.com/set-night/tickpiar/internal/domain"
	"github.com/set-night/tickpiar/internal/repository"
)

// SponsorService owns the per-chat list of channels a member must belong to.
// Enforcement (membership checks, restrictions, deletions) lives in the
// handlers; this registry is plain storage.
type SponsorService struct {
	queries *repository.Queries
}

func NewSponsorService(queries *repository.Queries) *SponsorService {
	return &SponsorService{queries: queries}
}

// ListActive returns the chat's gate: all active sponsor channels.
func (s *SponsorService) ListActive(ctx context.Context, chatID int64) ([]domain.SponsorChannel, error) {
	return s.queries.ListActiveSponsorChannels(ctx, chatID)
}

// Add registers (or reactivates) a sponsor channel for the chat.
func (s *SponsorService) Add(ctx context.Context, chatID int64, channel string, addedBy *int64) (*domain.SponsorChannel, error) {
	row, err := s.queries.UpsertSponsorChannel(ctx, chatID, channel, addedBy)
	if err != nil {
		return nil, fmt.Errorf("upsert sponsor channel: %w", err)
	}
	return &row, nil
}

// Remove deactivates a sponsor channel; the row is kept for history.
func (s *SponsorService) Remove(ctx context.Context, chatID int64, channel string) error {
	removed, err := s.queries.DeactivateSponsorChannel(ctx, chatID, channel)
	if err != nil {
		return fmt.Errorf("deactivate sponsor channel: %w", err)
	}
	if !removed {
		return domain.ErrSponsorNotFound
	}
	return nil
}
