package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Sessions keeps per-client state containers keyed by a random id.
// Entries expire after ttl without access; every Get extends the expiry.
type Sessions[T any] struct {
	mu    sync.Mutex
	store *gocache.Cache
}

// NewSessions creates a session store. A cleanupInterval of 0 disables the
// background janitor, expired entries are then only dropped on access.
// onRemoved, when not nil, is called for every expired or deleted session.
func NewSessions[T any](ttl, cleanupInterval time.Duration, onRemoved func(id string, session T)) *Sessions[T] {
	store := gocache.New(ttl, cleanupInterval)
	if onRemoved != nil {
		store.OnEvicted(func(id string, v interface{}) {
			if session, ok := v.(T); ok {
				onRemoved(id, session)
			}
		})
	}
	return &Sessions[T]{store: store}
}

func (s *Sessions[T]) Add(session T) string {
	id := uuid.NewString()
	s.store.SetDefault(id, session)
	return id
}

func (s *Sessions[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	v, found := s.store.Get(id)
	if !found {
		return zero, false
	}
	session, ok := v.(T)
	if !ok {
		return zero, false
	}
	// sliding expiry
	s.store.SetDefault(id, session)
	return session, true
}

func (s *Sessions[T]) Delete(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	v, found := s.store.Get(id)
	if !found {
		return zero, false
	}
	s.store.Delete(id)
	session, ok := v.(T)
	return session, ok
}

func (s *Sessions[T]) Count() int {
	return s.store.ItemCount()
}
