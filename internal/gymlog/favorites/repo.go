package favorites

import (
	"context"
	"fmt"

	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add stores the favorite and its equipment rows in one transaction.
func (r *Repo) Add(ctx context.Context, favorite Favorite) (_ *Favorite, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("favorite.exerciseId", favorite.ExerciseID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(
		ctx,
		`INSERT INTO favorites (name, description, exerciseid, category)
			VALUES ($1, $2, $3, $4)
			RETURNING id;`,
		favorite.Name, favorite.Description, favorite.ExerciseID, favorite.Category,
	).Scan(&favorite.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrFavoriteExists
		}
		return nil, fmt.Errorf("insert favorite: %w", err)
	}

	for position, equipmentID := range favorite.Equipment {
		if _, err = tx.Exec(
			ctx,
			`INSERT INTO favorite_equipment (favorite_id, position, equipment_id) VALUES ($1, $2, $3);`,
			favorite.ID, position, equipmentID,
		); err != nil {
			return nil, fmt.Errorf("insert favorite equipment: %w", err)
		}
	}

	if favorite.Equipment == nil {
		favorite.Equipment = []string{}
	}
	return &favorite, nil
}

// DeleteByExerciseID removes the favorite of a catalog exercise, if any.
// Equipment rows go with it through the cascading foreign key.
func (r *Repo) DeleteByExerciseID(ctx context.Context, exerciseID string) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("favorite.exerciseId", exerciseID))

	tag, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE exerciseid = $1;`, exerciseID)
	if err != nil {
		return 0, fmt.Errorf("delete favorite: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) ExerciseIDs(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.exerciseIds")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT exerciseid FROM favorites;`)
	if err != nil {
		return nil, fmt.Errorf("list favorite ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return ids, nil
}

func (r *Repo) List(ctx context.Context) (_ []Favorite, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT f.id, f.name, f.description, f.exerciseid, f.category,
			COALESCE(array_agg(fe.equipment_id ORDER BY fe.position)
				FILTER (WHERE fe.equipment_id IS NOT NULL), '{}') AS equipment
		FROM favorites f
		LEFT JOIN favorite_equipment fe ON fe.favorite_id = f.id
		GROUP BY f.id
		ORDER BY f.name ASC;
	`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]Favorite, 0)
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.ExerciseID, &f.Category, &f.Equipment); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return favorites, nil
}
