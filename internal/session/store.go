package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"edadash/internal/metrics"
)

// DefaultTTL is how long an idle session is kept
const DefaultTTL = 2 * time.Hour

// Store maps session IDs to sessions. Handlers run on separate goroutines,
// so the map is guarded; each session guards its own fields.
type Store struct {
	ttl      time.Duration
	sessions map[string]*Session
	mu       sync.Mutex
	now      func() time.Time
}

// NewStore creates a store; a non-positive ttl falls back to DefaultTTL
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Get returns the session for id if it exists and refreshes its idle timer
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if ok {
		s.touch(st.now())
	}
	return s, ok
}

// GetOrCreate returns the session for id, or a new session with a fresh
// uuid when id is unknown or malformed. created reports the latter.
func (st *Store) GetOrCreate(id string) (s *Session, created bool) {
	if _, err := uuid.Parse(id); err == nil {
		if s, ok := st.Get(id); ok {
			return s, false
		}
	}

	s = New(uuid.New().String())
	s.LastSeen = st.now()

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s, true
}

// Delete drops a session
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps every interval until ctx is cancelled
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				log.Printf("[Session] Evicted %d idle sessions (%d live)", n, st.Len())
			}
			metrics.ActiveSessions.Set(float64(st.Len()))
		}
	}
}
