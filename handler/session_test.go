package handler

import (
	"sync"
	"testing"
	"time"

	"QuizBot/callback"
	"QuizBot/model"
)

func TestSessionsDo(t *testing.T) {
	ss := NewSessions(0, nil)
	if ss.Peek(1) != model.Idle {
		t.Fatal("unknown user should be idle")
	}

	ss.Do(1, func(s *Session) {
		s.State = model.AwaitingChoice(model.DimensionVenue)
		s.Choices = callback.Register("loc", []string{"Бар"})
	})
	if want := model.AwaitingChoice(model.DimensionVenue); ss.Peek(1) != want {
		t.Errorf("state = %+v; expected %+v", ss.Peek(1), want)
	}
	if ss.Peek(2) != model.Idle {
		t.Error("sessions leaked between users")
	}

	ss.Do(1, func(s *Session) { s.Reset() })
	ss.Do(1, func(s *Session) {
		if s.Choices != nil {
			t.Error("reset kept the registry")
		}
	})
}

func TestSessionsDoIsAtomicPerUser(t *testing.T) {
	ss := NewSessions(0, nil)
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ss.Do(1, func(*Session) { counter++ })
		}()
	}
	wg.Wait()
	if counter != 100 {
		t.Errorf("counter = %d; expected 100", counter)
	}
}

func TestSessionsExpiry(t *testing.T) {
	now := time.Date(2025, 5, 17, 12, 0, 0, 0, time.UTC)
	ss := NewSessions(time.Minute, func() time.Time { return now })

	ss.Do(1, func(s *Session) { s.State = model.AwaitingChoice(model.DimensionCategory) })

	now = now.Add(30 * time.Second)
	if ss.Do(1, func(*Session) {}) {
		t.Error("session expired before its ttl")
	}

	now = now.Add(2 * time.Minute)
	expired := ss.Do(1, func(s *Session) {
		if s.State != model.Idle || !s.Expired {
			t.Errorf("fn saw %+v, expired=%v", s.State, s.Expired)
		}
	})
	if !expired {
		t.Error("session did not expire")
	}
}

func TestSessionsSweep(t *testing.T) {
	now := time.Date(2025, 5, 17, 12, 0, 0, 0, time.UTC)
	ss := NewSessions(time.Minute, func() time.Time { return now })

	ss.Do(1, func(*Session) {})
	ss.Do(2, func(s *Session) { s.State = model.AwaitingChoice(model.DimensionOrganizer) })
	ss.Do(3, func(s *Session) { s.State = model.AwaitingChoice(model.DimensionVenue) })

	now = now.Add(2 * time.Minute)
	ss.Do(3, func(*Session) {})
	ss.Do(3, func(s *Session) { s.State = model.AwaitingChoice(model.DimensionVenue) })

	if n := ss.Sweep(); n != 2 {
		t.Errorf("swept %d; expected 2", n)
	}
	if ss.Len() != 1 {
		t.Errorf("%d sessions left; expected 1", ss.Len())
	}
	if want := model.AwaitingChoice(model.DimensionVenue); ss.Peek(3) != want {
		t.Errorf("active session lost: %+v", ss.Peek(3))
	}
}

func TestSessionsSweepNoTTL(t *testing.T) {
	ss := NewSessions(0, nil)
	ss.Do(1, func(*Session) {})
	ss.Do(2, func(s *Session) { s.State = model.AwaitingDate(model.DimensionVenue, "loc_0") })

	if n := ss.Sweep(); n != 1 {
		t.Errorf("swept %d; expected 1", n)
	}
	if ss.Peek(2).Stage != model.StageAwaitingDate {
		t.Error("sweep without ttl dropped an active session")
	}
}

func TestUserQueueOrder(t *testing.T) {
	q := newUserQueue(100)
	var mu sync.Mutex
	got := map[int64][]int{}
	for i := 0; i < 50; i++ {
		for _, user := range []int64{1, 2, 3} {
			q.Submit(user, func() {
				mu.Lock()
				got[user] = append(got[user], i)
				mu.Unlock()
			})
		}
	}
	q.Wait()

	for _, user := range []int64{1, 2, 3} {
		if len(got[user]) != 50 {
			t.Fatalf("user %d ran %d tasks; expected 50", user, len(got[user]))
		}
		for i, v := range got[user] {
			if v != i {
				t.Fatalf("user %d ran task %d at position %d", user, v, i)
			}
		}
	}
}

func TestUserQueueBacklog(t *testing.T) {
	q := newUserQueue(2)
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	ran := 0
	count := func() {
		mu.Lock()
		ran++
		mu.Unlock()
	}

	q.Submit(1, func() {
		close(started)
		<-release
		count()
	})
	<-started

	if !q.Submit(1, count) || !q.Submit(1, count) {
		t.Fatal("tasks within the backlog were refused")
	}
	if q.Submit(1, count) {
		t.Error("task over the backlog was queued")
	}
	if !q.Submit(2, count) {
		t.Error("another user's task was refused")
	}

	close(release)
	q.Wait()
	if ran != 4 {
		t.Errorf("ran %d tasks; expected 4", ran)
	}

	// the backlog frees up once the queue drains
	if !q.Submit(1, count) {
		t.Error("task refused after the queue drained")
	}
	q.Wait()
}
