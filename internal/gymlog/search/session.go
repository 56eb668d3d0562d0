package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/2beens/gymlog/internal/catalog"
	"github.com/2beens/gymlog/internal/gymlog/favorites"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrFetchInFlight = errors.New("a search fetch is already in flight")
	ErrNoMorePages   = errors.New("no more result pages")
)

type catalogSearcher interface {
	Search(ctx context.Context, params catalog.SearchParams) (*catalog.Page, error)
	Next(ctx context.Context, nextURL string) (*catalog.Page, error)
}

type annotator interface {
	Annotate(ctx context.Context, results []catalog.Exercise) ([]favorites.AnnotatedExercise, error)
}

// Session holds the results of one client's exercise search. State changes go
// through reduce under mu; catalog calls run without holding it.
type Session struct {
	mu        sync.Mutex
	state     state
	catalog   catalogSearcher
	annotator annotator
}

func NewSession(catalog catalogSearcher, annotator annotator) *Session {
	return &Session{
		state:     initialState(),
		catalog:   catalog,
		annotator: annotator,
	}
}

func (s *Session) dispatch(a action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, a)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state.Snapshot
	snapshot.Results = append([]favorites.AnnotatedExercise{}, s.state.Results...)
	return snapshot
}

// Search replaces the results with the first page for params. On failure the
// previous results stay in place.
func (s *Session) Search(ctx context.Context, params catalog.SearchParams) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "search.session.search")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("search.name", params.Name),
		attribute.String("search.category", params.Category),
		attribute.String("search.equipment", params.Equipment),
	)

	s.mu.Lock()
	if s.state.Loading || s.state.LoadingMore {
		s.mu.Unlock()
		return ErrFetchInFlight
	}
	s.state = reduce(s.state, searchStarted{})
	generation := s.state.generation
	s.mu.Unlock()

	defer s.dispatch(searchFinished{})

	page, err := s.catalog.Search(ctx, params)
	if err != nil {
		log.Errorf("search exercises [%+v]: %s", params, err)
		return err
	}

	annotated, err := s.annotator.Annotate(ctx, page.Results)
	if err != nil {
		log.Errorf("annotate search results: %s", err)
		return fmt.Errorf("annotate results: %w", err)
	}

	s.dispatch(searchSucceeded{
		generation: generation,
		params:     params,
		count:      page.Count,
		next:       page.Next,
		results:    annotated,
	})
	span.SetAttributes(attribute.Int("search.count", page.Count))

	return nil
}

// More appends the next page. It does nothing while another fetch is in
// flight or when there is no next page.
func (s *Session) More(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "search.session.more")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	if s.state.Loading || s.state.LoadingMore {
		s.mu.Unlock()
		return ErrFetchInFlight
	}
	if s.state.Next == nil {
		s.mu.Unlock()
		return ErrNoMorePages
	}
	nextURL := *s.state.Next
	s.state = reduce(s.state, moreStarted{})
	generation := s.state.generation
	s.mu.Unlock()

	defer s.dispatch(moreFinished{})

	page, err := s.catalog.Next(ctx, nextURL)
	if err != nil {
		log.Errorf("search more exercises [%s]: %s", nextURL, err)
		return err
	}

	annotated, err := s.annotator.Annotate(ctx, page.Results)
	if err != nil {
		log.Errorf("annotate more search results: %s", err)
		return fmt.Errorf("annotate results: %w", err)
	}

	s.dispatch(moreSucceeded{
		generation: generation,
		count:      page.Count,
		next:       page.Next,
		results:    annotated,
	})

	return nil
}

func (s *Session) Clear() {
	s.dispatch(cleared{})
}

func (s *Session) MarkFavorite(exerciseID string, isFavorite bool) {
	s.dispatch(favoriteMarked{
		exerciseID: exerciseID,
		isFavorite: isFavorite,
	})
}
