package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymlog/internal/catalog"
	"github.com/2beens/gymlog/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=favorites_test

type favoritesRepo interface {
	Add(ctx context.Context, favorite Favorite) (*Favorite, error)
	DeleteByExerciseID(ctx context.Context, exerciseID string) (int64, error)
	ExerciseIDs(ctx context.Context) ([]string, error)
	List(ctx context.Context) ([]Favorite, error)
}

type Service struct {
	repo    favoritesRepo
	metrics *metrics.Manager
}

func NewService(repo favoritesRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (s *Service) Add(ctx context.Context, exercise catalog.Exercise) (*Favorite, error) {
	if exercise.ID <= 0 {
		return nil, fmt.Errorf("invalid exercise id: %d", exercise.ID)
	}

	added, err := s.repo.Add(ctx, FromExercise(exercise))
	if err != nil {
		if errors.Is(err, ErrFavoriteExists) {
			s.metrics.CounterFavorites.WithLabelValues("exists").Inc()
		} else {
			s.metrics.CounterFavorites.WithLabelValues("failed").Inc()
		}
		return nil, err
	}

	s.metrics.CounterFavorites.WithLabelValues("added").Inc()
	log.Debugf("favorite added: [%s] %s", added.ExerciseID, added.Name)
	return added, nil
}

// Remove deletes the favorite of a catalog exercise. Removing an exercise that
// is not a favorite is not an error; the result reports whether a row went away.
func (s *Service) Remove(ctx context.Context, exerciseID string) (bool, error) {
	deleted, err := s.repo.DeleteByExerciseID(ctx, exerciseID)
	if err != nil {
		s.metrics.CounterFavorites.WithLabelValues("failed").Inc()
		return false, err
	}

	if deleted == 0 {
		s.metrics.CounterFavorites.WithLabelValues("absent").Inc()
		return false, nil
	}
	s.metrics.CounterFavorites.WithLabelValues("removed").Inc()
	return true, nil
}

func (s *Service) List(ctx context.Context) ([]Favorite, error) {
	return s.repo.List(ctx)
}

// Annotate flags the favorites among a page of search results, reading the
// current favorite ids on every call.
func (s *Service) Annotate(ctx context.Context, results []catalog.Exercise) ([]AnnotatedExercise, error) {
	if len(results) == 0 {
		return []AnnotatedExercise{}, nil
	}

	ids, err := s.repo.ExerciseIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("favorite ids: %w", err)
	}
	return Annotate(results, ids), nil
}
