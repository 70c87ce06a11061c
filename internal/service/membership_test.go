package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memberAPIStub struct {
	mu    sync.Mutex
	calls int
	resp  *models.ChatMember
	err   error
}

func (s *memberAPIStub) GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.resp, s.err
}

func (s *memberAPIStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestMembershipStatuses(t *testing.T) {
	cases := []struct {
		name   string
		member models.ChatMemberType
		want   bool
	}{
		{"member", models.ChatMemberTypeMember, true},
		{"administrator", models.ChatMemberTypeAdministrator, true},
		{"owner", models.ChatMemberTypeOwner, true},
		{"left", models.ChatMemberTypeLeft, false},
		{"banned", models.ChatMemberTypeBanned, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &memberAPIStub{resp: &models.ChatMember{Type: tc.member}}
			svc := NewMembershipService(api, 1, time.Second, time.Minute)
			assert.Equal(t, tc.want, svc.IsMember(context.Background(), "@ch", 42))
		})
	}
}

func TestMembershipTransportErrorMeansNotSubscribed(t *testing.T) {
	api := &memberAPIStub{err: errors.New("timeout")}
	svc := NewMembershipService(api, 1, time.Second, time.Minute)
	assert.False(t, svc.IsMember(context.Background(), "@ch", 42))
}

func TestMembershipCachesBothAnswers(t *testing.T) {
	api := &memberAPIStub{resp: &models.ChatMember{Type: models.ChatMemberTypeLeft}}
	svc := NewMembershipService(api, 1, time.Second, time.Minute)

	assert.False(t, svc.IsMember(context.Background(), "@ch", 42))
	assert.False(t, svc.IsMember(context.Background(), "@ch", 42))
	require.Equal(t, 1, api.callCount(), "negative answer must be served from cache")

	// A different pair gets its own entry.
	svc.IsMember(context.Background(), "@ch", 43)
	assert.Equal(t, 2, api.callCount())
}

func TestMembershipCacheExpires(t *testing.T) {
	api := &memberAPIStub{resp: &models.ChatMember{Type: models.ChatMemberTypeMember}}
	svc := NewMembershipService(api, 1, time.Second, time.Minute)

	now := time.Now()
	svc.nowFunc = func() time.Time { return now }

	assert.True(t, svc.IsMember(context.Background(), "@ch", 42))
	now = now.Add(2 * time.Minute)
	assert.True(t, svc.IsMember(context.Background(), "@ch", 42))
	assert.Equal(t, 2, api.callCount(), "expired entry must be re-checked")
}

func TestMembershipInvalidateForcesRecheck(t *testing.T) {
	api := &memberAPIStub{resp: &models.ChatMember{Type: models.ChatMemberTypeLeft}}
	svc := NewMembershipService(api, 1, time.Second, time.Minute)

	assert.False(t, svc.IsMember(context.Background(), "@ch", 42))

	// The user subscribed; the stale negative answer must not stick.
	api.mu.Lock()
	api.resp = &models.ChatMember{Type: models.ChatMemberTypeMember}
	api.mu.Unlock()

	svc.Invalidate("@ch", 42)
	assert.True(t, svc.IsMember(context.Background(), "@ch", 42))
	assert.Equal(t, 2, api.callCount())
}

func TestBotIsAdmin(t *testing.T) {
	api := &memberAPIStub{resp: &models.ChatMember{Type: models.ChatMemberTypeAdministrator}}
	svc := NewMembershipService(api, 1, time.Second, time.Minute)
	assert.True(t, svc.BotIsAdmin(context.Background(), "@ch"))

	api.mu.Lock()
	api.resp = &models.ChatMember{Type: models.ChatMemberTypeMember}
	api.mu.Unlock()

	// Plain membership is not enough, and the answer is never cached.
	assert.False(t, svc.BotIsAdmin(context.Background(), "@ch"))
	assert.Equal(t, 2, api.callCount())
}
