package logsession

import (
	"context"
	"time"

	"github.com/2beens/gymlog/internal/cache"
	"github.com/2beens/gymlog/internal/geocode"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
)

// Store keeps the open logging sessions. A session that expires is gone, the
// same as a closed one.
type Store struct {
	sessions *cache.Sessions[*Session]
	locator  locator
	sets     setLogger
	metrics  *metrics.Manager
	now      func() time.Time
}

func NewStore(
	ttl, cleanupInterval time.Duration,
	locator locator,
	setLogger setLogger,
	metricsManager *metrics.Manager,
) *Store {
	onRemoved := func(string, *Session) {
		metricsManager.GaugeLogSessions.Dec()
	}
	return &Store{
		sessions: cache.NewSessions[*Session](ttl, cleanupInterval, onRemoved),
		locator:  locator,
		sets:     setLogger,
		metrics:  metricsManager,
		now:      time.Now,
	}
}

// Open starts a session dated on now's calendar day.
func (s *Store) Open(ctx context.Context, exercise Exercise, now time.Time, coords *geocode.Coordinates, clientIP string) (string, *Session) {
	session := Open(ctx, exercise, now, coords, clientIP, s.locator, s.sets)
	id := s.sessions.Add(session)
	s.metrics.GaugeLogSessions.Inc()
	return id, session
}

func (s *Store) Get(id string) (*Session, bool) {
	return s.sessions.Get(id)
}

// Close ends and forgets the session.
func (s *Store) Close(id string) (Snapshot, bool) {
	session, found := s.sessions.Delete(id)
	if !found {
		return Snapshot{}, false
	}
	return session.Close(), true
}

func (s *Store) Count() int {
	return s.sessions.Count()
}
