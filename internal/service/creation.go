package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DraftState tags the step of the task creation dialog a user is on.
type DraftState int

const (
	StateAwaitingChannel DraftState = iota
	StateAwaitingReward
	StateAwaitingDescription
)

// Draft is the in-flight task creation dialog of one user. Drafts live only
// in process memory; nothing is written to the store until the final step.
type Draft struct {
	ID          string
	UserID      int64
	State       DraftState
	Channel     string
	Title       string
	Reward      int
	Description string
	UpdatedAt   time.Time
}

// CreationService keys drafts by user id. Every mutation refreshes the
// draft's clock; drafts idle past the TTL are evicted lazily on access and
// by the periodic sweep.
type CreationService struct {
	mu      sync.Mutex
	drafts  map[int64]*Draft
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewCreationService(ttl time.Duration) *CreationService {
	return &CreationService{
		drafts:  make(map[int64]*Draft),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Begin starts a fresh dialog for the user, replacing any abandoned one.
func (s *CreationService) Begin(userID int64) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := &Draft{
		ID:        uuid.NewString(),
		UserID:    userID,
		State:     StateAwaitingChannel,
		UpdatedAt: s.nowFunc(),
	}
	s.drafts[userID] = draft
	return *draft
}

// Get returns the user's live draft, if any.
func (s *CreationService) Get(userID int64) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.live(userID)
	if draft == nil {
		return Draft{}, false
	}
	return *draft, true
}

// SetChannel records the validated channel and advances to the reward step.
func (s *CreationService) SetChannel(userID int64, channel, title string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.live(userID)
	if draft == nil || draft.State != StateAwaitingChannel {
		return Draft{}, false
	}
	draft.Channel = channel
	draft.Title = title
	draft.State = StateAwaitingReward
	draft.UpdatedAt = s.nowFunc()
	return *draft, true
}

// SetReward records the validated reward and advances to the description step.
func (s *CreationService) SetReward(userID int64, reward int) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.live(userID)
	if draft == nil || draft.State != StateAwaitingReward {
		return Draft{}, false
	}
	draft.Reward = reward
	draft.State = StateAwaitingDescription
	draft.UpdatedAt = s.nowFunc()
	return *draft, true
}

// Finish attaches the description, removes the draft and hands it back for
// the commit. The draft is gone regardless of whether the commit succeeds;
// a failed commit means the user starts over.
func (s *CreationService) Finish(userID int64, description string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.live(userID)
	if draft == nil || draft.State != StateAwaitingDescription {
		return Draft{}, false
	}
	draft.Description = description
	delete(s.drafts, userID)
	return *draft, true
}

// Cancel discards the user's draft with no side effects.
func (s *CreationService) Cancel(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.drafts[userID]
	delete(s.drafts, userID)
	return found
}

// SweepExpired evicts idle drafts and returns how many were dropped.
func (s *CreationService) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.nowFunc().Add(-s.ttl)
	dropped := 0
	for userID, draft := range s.drafts {
		if draft.UpdatedAt.Before(cutoff) {
			delete(s.drafts, userID)
			dropped++
		}
	}
	return dropped
}

// live returns the non-expired draft for userID, evicting a stale one.
// Callers must hold the mutex.
func (s *CreationService) live(userID int64) *Draft {
	draft, found := s.drafts[userID]
	if !found {
		return nil
	}
	if s.nowFunc().Sub(draft.UpdatedAt) > s.ttl {
		delete(s.drafts, userID)
		return nil
	}
	return draft
}
