package logsession

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/gymlog/internal/geocode"
	"github.com/2beens/gymlog/internal/gymlog/sets"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrValidation    = errors.New("invalid set")
	ErrSessionClosed = errors.New("logging session closed")
)

type State string

const (
	StateOpened    State = "opened"
	StateEditing   State = "editing"
	StateSaved     State = "saved"
	StateCancelled State = "cancelled"
)

type locator interface {
	Locate(ctx context.Context, coords *geocode.Coordinates, clientIP string) (string, error)
}

type setLogger interface {
	LogSet(ctx context.Context, params sets.LogSetParams) (*sets.LoggedSet, bool, error)
	Find(ctx context.Context, name, date, location string) (*sets.LoggedSet, error)
}

type Exercise struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Fields struct {
	Date    string `json:"date"`
	Weight  string `json:"weight"`
	Reps    string `json:"reps"`
	Address string `json:"address"`
}

// FieldsUpdate changes only the fields that are set.
type FieldsUpdate struct {
	Date    *string `json:"date"`
	Weight  *string `json:"weight"`
	Reps    *string `json:"reps"`
	Address *string `json:"address"`
}

type Snapshot struct {
	State    State           `json:"state"`
	Exercise Exercise        `json:"exercise"`
	Fields   Fields          `json:"fields"`
	Saves    int             `json:"saves"`
	Logged   *sets.LoggedSet `json:"logged"`
}

// Session is one invocation of the set logging form for an exercise.
type Session struct {
	mu       sync.Mutex
	state    State
	exercise Exercise
	fields   Fields
	saves    int
	logged   *sets.LoggedSet
	sets     setLogger
}

// Open starts a session with today's date and, when it can be resolved, the
// current address. Location failures leave the address empty.
func Open(
	ctx context.Context,
	exercise Exercise,
	now time.Time,
	coords *geocode.Coordinates,
	clientIP string,
	locator locator,
	setLogger setLogger,
) *Session {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsession.open")
	defer span.End()

	s := &Session{
		state:    StateOpened,
		exercise: exercise,
		fields: Fields{
			Date: sets.CanonicalDate(now),
		},
		sets: setLogger,
	}

	address, err := locator.Locate(ctx, coords, clientIP)
	if err != nil {
		log.Debugf("logging session for [%s], location not resolved: %s", exercise.Name, err)
	} else {
		s.fields.Address = address
	}
	span.SetAttributes(attribute.Bool("location.resolved", s.fields.Address != ""))

	s.refreshLogged(ctx)
	s.state = StateEditing

	return s
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	var logged *sets.LoggedSet
	if s.logged != nil {
		l := *s.logged
		logged = &l
	}
	return Snapshot{
		State:    s.state,
		Exercise: s.exercise,
		Fields:   s.fields,
		Saves:    s.saves,
		Logged:   logged,
	}
}

func (s *Session) SetFields(ctx context.Context, update FieldsUpdate) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing {
		return s.snapshotLocked(), ErrSessionClosed
	}

	keyChanged := false
	if update.Date != nil {
		keyChanged = keyChanged || *update.Date != s.fields.Date
		s.fields.Date = *update.Date
	}
	if update.Address != nil {
		keyChanged = keyChanged || *update.Address != s.fields.Address
		s.fields.Address = *update.Address
	}
	if update.Weight != nil {
		s.fields.Weight = *update.Weight
	}
	if update.Reps != nil {
		s.fields.Reps = *update.Reps
	}

	if keyChanged {
		s.refreshLogged(ctx)
	}
	return s.snapshotLocked(), nil
}

// Save logs the current weight and reps. Invalid fields are reported as
// ErrValidation and nothing is written; the session stays open either way.
func (s *Session) Save(ctx context.Context) (_ Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsession.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing {
		return s.snapshotLocked(), ErrSessionClosed
	}
	if err := s.fields.validate(); err != nil {
		return s.snapshotLocked(), err
	}

	stored, _, err := s.sets.LogSet(ctx, sets.LogSetParams{
		Name:        s.exercise.Name,
		Description: s.exercise.Description,
		Date:        s.fields.Date,
		Location:    s.fields.Address,
		Weight:      s.fields.Weight,
		Reps:        s.fields.Reps,
	})
	if err != nil {
		return s.snapshotLocked(), fmt.Errorf("log set: %w", err)
	}

	s.saves++
	s.logged = stored
	return s.snapshotLocked(), nil
}

// Close ends the session; it is Saved when at least one set was logged.
func (s *Session) Close() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEditing || s.state == StateOpened {
		if s.saves > 0 {
			s.state = StateSaved
		} else {
			s.state = StateCancelled
		}
	}
	return s.snapshotLocked()
}

func (s *Session) refreshLogged(ctx context.Context) {
	s.logged = nil
	if s.fields.Address == "" || s.fields.Date == "" {
		return
	}
	logged, err := s.sets.Find(ctx, s.exercise.Name, s.fields.Date, s.fields.Address)
	if err != nil {
		if !errors.Is(err, sets.ErrLoggedSetNotFound) {
			log.Debugf("find logged set for [%s]: %s", s.exercise.Name, err)
		}
		return
	}
	s.logged = logged
}

func (f Fields) validate() error {
	var missing []string
	if strings.TrimSpace(f.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(f.Weight) == "" {
		missing = append(missing, "weight")
	}
	if strings.TrimSpace(f.Reps) == "" {
		missing = append(missing, "reps")
	}
	if strings.TrimSpace(f.Address) == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	if _, err := sets.NormalizeDate(f.Date); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := sets.ValidateWeightAndReps(strings.TrimSpace(f.Weight), strings.TrimSpace(f.Reps)); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}
