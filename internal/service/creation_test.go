package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreationDialogHappyPath(t *testing.T) {
	s := NewCreationService(10 * time.Minute)

	draft := s.Begin(42)
	require.NotEmpty(t, draft.ID)
	assert.Equal(t, StateAwaitingChannel, draft.State)

	draft, ok := s.SetChannel(42, "@mychannel", "My Channel")
	require.True(t, ok)
	assert.Equal(t, StateAwaitingReward, draft.State)
	assert.Equal(t, "@mychannel", draft.Channel)
	assert.Equal(t, "My Channel", draft.Title)

	draft, ok = s.SetReward(42, 25)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingDescription, draft.State)
	assert.Equal(t, 25, draft.Reward)

	final, ok := s.Finish(42, "Подпишитесь на наш канал")
	require.True(t, ok)
	assert.Equal(t, "Подпишитесь на наш канал", final.Description)

	// Finish consumed the draft.
	_, ok = s.Get(42)
	assert.False(t, ok)
}

func TestCreationDialogStepOrderEnforced(t *testing.T) {
	s := NewCreationService(10 * time.Minute)
	s.Begin(42)

	_, ok := s.SetReward(42, 25)
	assert.False(t, ok, "reward before channel must be rejected")

	_, ok = s.Finish(42, "text")
	assert.False(t, ok, "finish before reward must be rejected")

	_, ok = s.SetChannel(42, "@ch", "Ch")
	require.True(t, ok)

	_, ok = s.SetChannel(42, "@other", "Other")
	assert.False(t, ok, "channel step cannot repeat")
}

func TestCreationDialogCancel(t *testing.T) {
	s := NewCreationService(10 * time.Minute)

	assert.False(t, s.Cancel(42), "cancel without draft")

	s.Begin(42)
	assert.True(t, s.Cancel(42))

	_, ok := s.Get(42)
	assert.False(t, ok)
}

func TestCreationDialogBeginReplacesDraft(t *testing.T) {
	s := NewCreationService(10 * time.Minute)

	first := s.Begin(42)
	s.SetChannel(42, "@ch", "Ch")

	second := s.Begin(42)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, StateAwaitingChannel, second.State)
	assert.Empty(t, second.Channel)
}

func TestCreationDialogDraftsAreIsolatedPerUser(t *testing.T) {
	s := NewCreationService(10 * time.Minute)

	s.Begin(1)
	s.Begin(2)
	s.SetChannel(1, "@one", "One")

	draft, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingChannel, draft.State)
}

func TestCreationDialogTTL(t *testing.T) {
	s := NewCreationService(10 * time.Minute)

	now := time.Now()
	s.nowFunc = func() time.Time { return now }

	s.Begin(42)

	// Lazy eviction on access past the TTL.
	now = now.Add(11 * time.Minute)
	_, ok := s.Get(42)
	assert.False(t, ok)

	// The sweep drops idle drafts and leaves live ones.
	now = now.Add(time.Minute)
	s.Begin(1)
	now = now.Add(11 * time.Minute)
	s.Begin(2)

	assert.Equal(t, 1, s.SweepExpired())
	_, ok = s.Get(2)
	assert.True(t, ok)
}
