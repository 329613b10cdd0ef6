package wizard

import (
	"context"
	"sync"
	"time"
)

// SessionTTL is the idle retention window after which a session is
// dropped and reads back as a fresh idle session.
const SessionTTL = 7 * 24 * time.Hour

const sweepInterval = time.Hour

type sessionEntry struct {
	mu   sync.Mutex
	sess *Session
}

// Store keeps sessions in memory, one per user, and serializes all
// mutation per session: With holds the session's lock for the whole
// callback, so two events for the same user never interleave. Distinct
// users proceed in parallel.
type Store struct {
	mu      sync.RWMutex
	entries map[int64]*sessionEntry
	now     func() time.Time
}

// NewStore constructs an empty in-memory session store.
func NewStore() *Store {
	return &Store{
		entries: make(map[int64]*sessionEntry),
		now:     time.Now,
	}
}

func (st *Store) entry(userID int64) *sessionEntry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.entries[userID]
	if !ok {
		e = &sessionEntry{sess: newSession(userID)}
		st.entries[userID] = e
	}
	return e
}

// With runs fn with exclusive access to the user's session. The session
// is created on first use and reset to idle when the retention window
// has elapsed since its last activity.
func (st *Store) With(userID int64, fn func(s *Session) error) error {
	e := st.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := st.now()
	if !e.sess.LastActivity.IsZero() && now.Sub(e.sess.LastActivity) >= SessionTTL {
		e.sess.Reset()
	}
	e.sess.LastActivity = now
	return fn(e.sess)
}

// Peek returns a snapshot of the user's current state without creating
// a session. Used by routers to decide whether a dialogue is active.
func (st *Store) Peek(userID int64) State {
	st.mu.RLock()
	e, ok := st.entries[userID]
	st.mu.RUnlock()
	if !ok {
		return StateIdle
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.sess.LastActivity.IsZero() && st.now().Sub(e.sess.LastActivity) >= SessionTTL {
		return StateIdle
	}
	return e.sess.State
}

// Sweep drops sessions idle past the retention window. Run periodically
// from RunSweeper; exposed for tests.
func (st *Store) Sweep() int {
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, e := range st.entries {
		if e.mu.TryLock() {
			expired := !e.sess.LastActivity.IsZero() && now.Sub(e.sess.LastActivity) >= SessionTTL
			e.mu.Unlock()
			if expired {
				delete(st.entries, id)
				removed++
			}
		}
	}
	return removed
}

// RunSweeper evicts expired sessions until ctx is cancelled.
func (st *Store) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}
