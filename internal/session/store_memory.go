package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	rec     *Record
	expires time.Time
}

// MemoryStore is the in-process Store used when no REDIS_URL is configured.
// A single mutex serialises updates.
type MemoryStore struct {
	mu    sync.Mutex
	games map[string]memEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{games: make(map[string]memEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Close() error { return nil }

// lookup returns the live entry for id, dropping it if expired. Caller holds mu.
func (s *MemoryStore) lookup(id string) (*Record, bool) {
	e, ok := s.games[id]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.games, id)
		return nil, false
	}
	return e.rec, true
}

func (s *MemoryStore) put(r *Record) {
	s.games[r.ID] = memEntry{rec: r.clone(), expires: s.now().Add(s.ttl)}
}

func (s *MemoryStore) Create(_ context.Context, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(r.ID); ok {
		return ErrGameExists
	}
	s.put(r)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.lookup(id)
	if !ok {
		return nil, ErrGameNotFound
	}
	return r.clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*Record) error) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.lookup(id)
	if !ok {
		return nil, ErrGameNotFound
	}
	cur := r.clone()
	if err := fn(cur); err != nil {
		return nil, err
	}
	cur.Version++
	s.put(cur)
	return cur.clone(), nil
}
