package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ChatMemberAPI is the slice of the bot client the verifier needs.
type ChatMemberAPI interface {
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
}

// MembershipService answers "is this user subscribed to that channel" with a
// short per-call timeout and a per-entry TTL cache. A timeout or transport
// error is always reported as not subscribed, never as a hang.
type MembershipService struct {
	api     ChatMemberAPI
	botID   int64
	timeout time.Duration

	mu      sync.Mutex
	cache   map[membershipKey]membershipEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

type membershipKey struct {
	channel string
	userID  int64
}

type membershipEntry struct {
	ok        bool
	expiresAt time.Time
}

func NewMembershipService(api ChatMemberAPI, botID int64, timeout, ttl time.Duration) *MembershipService {
	return &MembershipService{
		api:     api,
		botID:   botID,
		timeout: timeout,
		cache:   make(map[membershipKey]membershipEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// IsMember reports whether the user belongs to the channel. Positive and
// negative answers are both cached until their entry expires.
func (s *MembershipService) IsMember(ctx context.Context, channel string, userID int64) bool {
	key := membershipKey{channel: channel, userID: userID}
	now := s.nowFunc()

	s.mu.Lock()
	if entry, found := s.cache[key]; found && now.Before(entry.expiresAt) {
		s.mu.Unlock()
		return entry.ok
	}
	s.mu.Unlock()

	ok := s.check(ctx, channel, userID)

	s.mu.Lock()
	s.cache[key] = membershipEntry{ok: ok, expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()
	return ok
}

// BotIsAdmin reports whether the bot itself administers the channel. Used by
// the task creation dialog; not cached, the answer must be fresh.
func (s *MembershipService) BotIsAdmin(ctx context.Context, channel string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	member, err := s.api.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: channel,
		UserID: s.botID,
	})
	if err != nil || member == nil {
		return false
	}
	return member.Type == models.ChatMemberTypeOwner || member.Type == models.ChatMemberTypeAdministrator
}

// Invalidate drops the cached answer for one (channel, user) pair.
func (s *MembershipService) Invalidate(channel string, userID int64) {
	s.mu.Lock()
	delete(s.cache, membershipKey{channel: channel, userID: userID})
	s.mu.Unlock()
}

func (s *MembershipService) check(ctx context.Context, channel string, userID int64) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	member, err := s.api.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: channel,
		UserID: userID,
	})
	if err != nil || member == nil {
		return false
	}

	switch member.Type {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator, models.ChatMemberTypeMember:
		return true
	default:
		return false
	}
}
