package wizard

import (
	"sync"
	"testing"
	"time"
)

func TestStoreCreatesIdleSession(t *testing.T) {
	st := NewStore()
	err := st.With(1, func(s *Session) error {
		if s.State != StateIdle {
			t.Errorf("new session state = %q, want idle", s.State)
		}
		if s.Data == nil || s.Registry == nil {
			t.Error("new session maps not initialized")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}

func TestStoreExpiresIdleSessions(t *testing.T) {
	st := NewStore()
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return current }

	_ = st.With(1, func(s *Session) error {
		s.State = StateEnteringAmount
		s.Data[KeyAmount] = 10.0
		return nil
	})

	current = current.Add(SessionTTL - time.Minute)
	if got := st.Peek(1); got != StateEnteringAmount {
		t.Fatalf("Peek before TTL = %q, want %q", got, StateEnteringAmount)
	}

	current = current.Add(2 * time.Minute)
	if got := st.Peek(1); got != StateIdle {
		t.Fatalf("Peek after TTL = %q, want idle", got)
	}
	_ = st.With(1, func(s *Session) error {
		if s.State != StateIdle {
			t.Errorf("expired session state = %q, want idle", s.State)
		}
		if s.Has(KeyAmount) {
			t.Error("expired session kept draft data")
		}
		return nil
	})
}

func TestStoreSweepDropsExpired(t *testing.T) {
	st := NewStore()
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return current }

	_ = st.With(1, func(*Session) error { return nil })
	_ = st.With(2, func(*Session) error { return nil })
	current = current.Add(SessionTTL)
	_ = st.With(2, func(*Session) error { return nil }) // keeps 2 fresh

	if removed := st.Sweep(); removed != 1 {
		t.Fatalf("Sweep removed %d sessions, want 1", removed)
	}
	st.mu.RLock()
	_, ok1 := st.entries[1]
	_, ok2 := st.entries[2]
	st.mu.RUnlock()
	if ok1 || !ok2 {
		t.Fatalf("after sweep: session1=%v session2=%v, want false/true", ok1, ok2)
	}
}

func TestStoreSerializesPerSession(t *testing.T) {
	st := NewStore()
	const rounds = 200

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				_ = st.With(7, func(s *Session) error {
					n, _ := s.GetInt("counter")
					s.Data["counter"] = n + 1
					return nil
				})
			}
		}()
	}
	wg.Wait()

	_ = st.With(7, func(s *Session) error {
		if n, _ := s.GetInt("counter"); n != 4*rounds {
			t.Errorf("counter = %d, want %d", n, 4*rounds)
		}
		return nil
	})
}
