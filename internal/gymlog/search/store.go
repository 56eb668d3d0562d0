package search

import (
	"time"

	"github.com/2beens/gymlog/internal/cache"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
)

// Store keeps the open search sessions; idle sessions expire after the ttl.
type Store struct {
	sessions  *cache.Sessions[*Session]
	catalog   catalogSearcher
	annotator annotator
	metrics   *metrics.Manager
}

func NewStore(
	ttl, cleanupInterval time.Duration,
	catalog catalogSearcher,
	annotator annotator,
	metricsManager *metrics.Manager,
) *Store {
	onRemoved := func(string, *Session) {
		metricsManager.GaugeSearchSessions.Dec()
	}
	return &Store{
		sessions:  cache.NewSessions[*Session](ttl, cleanupInterval, onRemoved),
		catalog:   catalog,
		annotator: annotator,
		metrics:   metricsManager,
	}
}

func (s *Store) Create() (string, *Session) {
	session := NewSession(s.catalog, s.annotator)
	id := s.sessions.Add(session)
	s.metrics.GaugeSearchSessions.Inc()
	return id, session
}

func (s *Store) Get(id string) (*Session, bool) {
	return s.sessions.Get(id)
}

func (s *Store) Drop(id string) bool {
	_, found := s.sessions.Delete(id)
	return found
}

func (s *Store) Count() int {
	return s.sessions.Count()
}

// MarkFavorite flips the favorite flag in one session's results. It reports
// false when the session is gone.
func (s *Store) MarkFavorite(sessionID, exerciseID string, isFavorite bool) bool {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return false
	}
	session.MarkFavorite(exerciseID, isFavorite)
	return true
}
