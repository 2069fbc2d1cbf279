package editor

import (
	"context"
	"sync"
	"time"

	"github.com/mapscript/mapscript/pkg/errors"
)

// DefaultSessionTTL is how long an idle session survives before cleanup.
const DefaultSessionTTL = 4 * time.Hour

// Store holds live sessions in memory. Sessions idle past the TTL are
// removed by Cleanup.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a session store. A non-positive ttl uses
// [DefaultSessionTTL].
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{
		sessions: map[string]*Session{},
		ttl:      ttl,
	}
}

// Create starts a new session seeded with source.
func (st *Store) Create(source string) *Session {
	s := NewSession(source)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns a session by id, touching its activity timestamp.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s := st.sessions[id]
	st.mu.RUnlock()
	if s == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	s.Touch()
	return s, nil
}

// Delete removes a session. Removing an absent session is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Cleanup removes sessions idle past the TTL and reports how many were
// removed.
func (st *Store) Cleanup() int {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup at the given interval until ctx is cancelled.
func (st *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.Cleanup()
			}
		}
	}()
}
