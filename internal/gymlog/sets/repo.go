package sets

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// byte order collation keeps location/name ordering independent of the db locale
const listOrderBy = `ORDER BY date DESC, location COLLATE "C" ASC, name COLLATE "C" ASC`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, set LoggedSet) (_ *LoggedSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercises (name, description, date, location, weight)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		set.Name, set.Description, set.Date, set.Location, set.WeightLog,
	).Scan(&id)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrLoggedSetExists
		}
		return nil, fmt.Errorf("insert logged set: %w", err)
	}

	span.SetAttributes(attribute.Int("set.id", id))
	set.ID = id
	return &set, nil
}

func (r *Repo) UpdateWeightLog(ctx context.Context, id int, weightLog string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.updateWeightLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("set.id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercises SET weight = $1 WHERE id = $2;`,
		weightLog, id,
	)
	if err != nil {
		return fmt.Errorf("update weight log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLoggedSetNotFound
	}
	return nil
}

func (r *Repo) FindByKey(ctx context.Context, name, date, location string) (_ *LoggedSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.findByKey")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var set LoggedSet
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, description, date, location, weight
			FROM exercises
			WHERE location = $1 AND date = $2 AND name = $3;`,
		location, date, name,
	).Scan(&set.ID, &set.Name, &set.Description, &set.Date, &set.Location, &set.WeightLog)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoggedSetNotFound
		}
		return nil, fmt.Errorf("find logged set: %w", err)
	}

	return &set, nil
}

// Upsert inserts the set, or appends its weight log to the existing row with the
// same (name, date, location), in a single statement.
func (r *Repo) Upsert(ctx context.Context, set LoggedSet) (_ *LoggedSet, appended bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var stored LoggedSet
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercises (name, description, date, location, weight)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT ON CONSTRAINT uq_exercises_name_date_location
			DO UPDATE SET weight = exercises.weight || E'\n' || EXCLUDED.weight
			RETURNING id, name, description, date, location, weight, (xmax <> 0) AS appended;`,
		set.Name, set.Description, set.Date, set.Location, set.WeightLog,
	).Scan(&stored.ID, &stored.Name, &stored.Description, &stored.Date, &stored.Location, &stored.WeightLog, &appended)
	if err != nil {
		return nil, false, fmt.Errorf("upsert logged set: %w", err)
	}

	span.SetAttributes(
		attribute.Int("set.id", stored.ID),
		attribute.Bool("set.appended", appended),
	)
	return &stored, appended, nil
}

func (r *Repo) List(ctx context.Context, filter Filter) (_ []LoggedSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Bool("filter.set", filter.IsSet()))

	query, args := listQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logged sets: %w", err)
	}
	defer rows.Close()

	loggedSets := make([]LoggedSet, 0)
	for rows.Next() {
		var set LoggedSet
		if err := rows.Scan(&set.ID, &set.Name, &set.Description, &set.Date, &set.Location, &set.WeightLog); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		loggedSets = append(loggedSets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return loggedSets, nil
}

func listQuery(filter Filter) (string, []any) {
	query := `SELECT id, name, description, date, location, weight FROM exercises `
	if !filter.IsSet() {
		return query + listOrderBy, nil
	}
	return query + `WHERE date >= $1 AND date <= $2 ` + listOrderBy,
		[]any{CanonicalDate(*filter.From), CanonicalDate(*filter.Until)}
}
