package sets

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=sets_test

type setsRepo interface {
	Add(ctx context.Context, set LoggedSet) (*LoggedSet, error)
	UpdateWeightLog(ctx context.Context, id int, weightLog string) error
	FindByKey(ctx context.Context, name, date, location string) (*LoggedSet, error)
	Upsert(ctx context.Context, set LoggedSet) (_ *LoggedSet, appended bool, err error)
	List(ctx context.Context, filter Filter) ([]LoggedSet, error)
}

// LogSetParams carries one saved set of the logging modal.
type LogSetParams struct {
	Name        string
	Description string
	Date        string
	Location    string
	Weight      string
	Reps        string
}

type Service struct {
	repo    setsRepo
	metrics *metrics.Manager
}

func NewService(repo setsRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		metrics: metricsManager,
	}
}

// LogSet appends "<weight> kg x <reps>" to the logged set of the same exercise,
// date and location, or creates it.
func (s *Service) LogSet(ctx context.Context, params LogSetParams) (_ *LoggedSet, appended bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sets.logSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	date, err := NormalizeDate(params.Date)
	if err != nil {
		return nil, false, err
	}

	set := LoggedSet{
		Name:        params.Name,
		Description: params.Description,
		Date:        date,
		Location:    strings.TrimSpace(params.Location),
		WeightLog:   WeightEntry(strings.TrimSpace(params.Weight), strings.TrimSpace(params.Reps)),
	}
	span.SetAttributes(
		attribute.String("set.name", set.Name),
		attribute.String("set.date", set.Date),
	)

	stored, appended, err := s.repo.Upsert(ctx, set)
	if err != nil {
		s.metrics.CounterLoggedSets.WithLabelValues("failed").Inc()
		return nil, false, err
	}

	if appended {
		s.metrics.CounterLoggedSets.WithLabelValues("appended").Inc()
	} else {
		s.metrics.CounterLoggedSets.WithLabelValues("inserted").Inc()
	}
	log.Debugf("logged set [%s] [%s] [%s]: %d, appended: %t", stored.Name, stored.Date, stored.Location, stored.ID, appended)

	return stored, appended, nil
}

// Import stores a complete logged set as is, e.g. one restored from an export.
func (s *Service) Import(ctx context.Context, set LoggedSet) (*LoggedSet, error) {
	date, err := NormalizeDate(set.Date)
	if err != nil {
		return nil, err
	}
	set.Date = date
	set.ID = 0
	return s.repo.Add(ctx, set)
}

// CorrectWeightLog replaces the whole weight log of a stored set.
func (s *Service) CorrectWeightLog(ctx context.Context, id int, weightLog string) error {
	weightLog = strings.TrimSpace(weightLog)
	if weightLog == "" {
		return fmt.Errorf("weight log for set %d is empty", id)
	}
	return s.repo.UpdateWeightLog(ctx, id, weightLog)
}

// Find returns the logged set for an exercise on a date at a location.
func (s *Service) Find(ctx context.Context, name, date, location string) (*LoggedSet, error) {
	canonical, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByKey(ctx, name, canonical, location)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]LoggedSet, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}
