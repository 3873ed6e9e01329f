package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	dashboard *Dashboard
	lastSeen  time.Time
}

// Store keeps dashboards by id and forgets those idle for longer than ttl.
type Store struct {
	deps Deps
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore returns an empty store. A non-positive ttl disables expiry.
func NewStore(deps Deps, ttl time.Duration) *Store {
	return &Store{
		deps:    deps,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Create starts a dashboard on the first registry location.
func (s *Store) Create() *Dashboard {
	d := newDashboard(uuid.NewString(), s.deps)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	s.entries[d.id] = &entry{dashboard: d, lastSeen: now}
	return d
}

// Get returns a live dashboard and marks it active.
func (s *Store) Get(id string) (*Dashboard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.dashboard, true
}

// Delete ends a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	return len(s.entries)
}

func (s *Store) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, id)
		}
	}
}
