package repository

import (
	"context"
	"fmt"

	"github.com/set-night/tickpiar/internal/domain"
)

const upsertSponsorChannel = `
INSERT INTO sponsor_channels (chat_id, channel, added_by)
VALUES ($1, $2, $3)
ON CONFLICT (chat_id, channel) DO UPDATE SET is_active = TRUE, added_by = EXCLUDED.added_by
RETURNING sponsor_id, chat_id, channel, added_by, is_active, created_at`

func (q *Queries) UpsertSponsorChannel(ctx context.Context, chatID int64, channel string, addedBy *int64) (domain.SponsorChannel, error) {
	var s domain.SponsorChannel
	err := q.db.QueryRow(ctx, upsertSponsorChannel, chatID, channel, addedBy).
		Scan(&s.ID, &s.ChatID, &s.Channel, &s.AddedBy, &s.IsActive, &s.CreatedAt)
	return s, err
}

const listActiveSponsorChannels = `
SELECT sponsor_id, chat_id, channel, added_by, is_active, created_at
FROM sponsor_channels
WHERE chat_id = $1 AND is_active = TRUE
ORDER BY created_at`

func (q *Queries) ListActiveSponsorChannels(ctx context.Context, chatID int64) ([]domain.SponsorChannel, error) {
	rows, err := q.db.Query(ctx, listActiveSponsorChannels, chatID)
	if err != nil {
		return nil, fmt.Errorf("list sponsor channels: %w", err)
	}
	defer rows.Close()

	var channels []domain.SponsorChannel
	for rows.Next() {
		var s domain.SponsorChannel
		if err := rows.Scan(&s.ID, &s.ChatID, &s.Channel, &s.AddedBy, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sponsor channel: %w", err)
		}
		channels = append(channels, s)
	}
	return channels, rows.Err()
}

const deactivateSponsorChannel = `
UPDATE sponsor_channels SET is_active = FALSE
WHERE chat_id = $1 AND channel = $2 AND is_active = TRUE`

func (q *Queries) DeactivateSponsorChannel(ctx context.Context, chatID int64, channel string) (bool, error) {
	tag, err := q.db.Exec(ctx, deactivateSponsorChannel, chatID, channel)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
