package handler

import (
	"sync"
	"time"

	"QuizBot/callback"
	"QuizBot/model"
)

// Session is the dialogue state of one user. It is only touched while its
// lock is held, see Sessions.Do.
type Session struct {
	State   model.State
	Choices *callback.Registry
	// Expired is set by Sessions.Do when the session was reset for
	// inactivity right before the current call.
	Expired bool

	mu       sync.Mutex
	lastSeen time.Time
	removed  bool
}

// Reset returns the session to idle and discards the choice registry.
func (s *Session) Reset() {
	s.State = model.Idle
	s.Choices = nil
}

// Sessions holds one Session per user. Sessions are ephemeral and created on
// first use.
type Sessions struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessions creates an empty session map. A ttl above zero makes a session
// idle again once it has seen no activity for that long.
func NewSessions(ttl time.Duration, now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      now,
	}
}

func (ss *Sessions) get(userID int64) *Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s, ok := ss.sessions[userID]
	if !ok {
		s = &Session{lastSeen: ss.now()}
		ss.sessions[userID] = s
	}
	return s
}

// Do runs fn with the user's session locked, so reading the state, acting on
// it and writing it back is one step for that user. It reports whether the
// session had expired and was reset before fn ran.
func (ss *Sessions) Do(userID int64, fn func(*Session)) (expired bool) {
	for {
		s := ss.get(userID)
		s.mu.Lock()
		if s.removed {
			// swept between lookup and lock
			s.mu.Unlock()
			continue
		}

		now := ss.now()
		expired = ss.ttl > 0 && s.State.Stage != model.StageIdle && now.Sub(s.lastSeen) > ss.ttl
		if expired {
			s.Reset()
		}
		s.Expired = expired
		fn(s)
		s.lastSeen = ss.now()
		s.mu.Unlock()
		return expired
	}
}

// Peek returns a copy of the user's current state without creating a session.
func (ss *Sessions) Peek(userID int64) model.State {
	ss.mu.Lock()
	s, ok := ss.sessions[userID]
	ss.mu.Unlock()
	if !ok {
		return model.Idle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State
}

// Sweep drops idle sessions and, when a ttl is set, sessions inactive for
// longer than it. Sessions in use are skipped. It returns how many were
// dropped.
func (ss *Sessions) Sweep() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.now()
	dropped := 0
	for id, s := range ss.sessions {
		if !s.mu.TryLock() {
			continue
		}
		stale := ss.ttl > 0 && now.Sub(s.lastSeen) > ss.ttl
		if s.State.Stage == model.StageIdle || stale {
			s.removed = true
			delete(ss.sessions, id)
			dropped++
		}
		s.mu.Unlock()
	}
	return dropped
}

// Len returns the number of live sessions.
func (ss *Sessions) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}
