package calculator

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session binds one Store to one visitor. HTTP handlers run concurrently,
// so the session carries the lock that serializes access to its store.
type Session struct {
	ID        string
	mu        sync.Mutex
	store     *Store
	lastUsed  time.Time
	createdAt time.Time
}

// Do runs fn with exclusive access to the session's store
func (s *Session) Do(fn func(store *Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	fn(s.store)
}

// Registry owns all live calculator sessions. One session per visitor tab;
// sessions are independent and never share selection state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewRegistry creates a registry whose sessions expire after ttl of
// inactivity
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create opens a new session over the given snapshot and returns it
func (r *Registry) Create(snapshot *Snapshot) *Session {
	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		store:     NewStore(snapshot),
		lastUsed:  now,
		createdAt: now,
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return session
}

// Get returns the session with the given id, if it exists
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	return session, ok
}

// Discard removes a session. Safe to call for unknown ids.
func (r *Registry) Discard(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle longer than the registry TTL and returns how
// many were removed
func (r *Registry) Sweep() int {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		session.mu.Lock()
		idle := session.lastUsed.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps on the given interval until stop is closed
func (r *Registry) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-stop:
				return
			}
		}
	}()
}
