package db

import (
	"context"
	"fmt"

	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgconn"
)

// Schema creates the store tables if they are absent; running it against an
// existing database is a no-op.
//
// exercises holds one row per (name, date, location); date is the canonical
// YYYY-MM-DD text, weight the newline separated "<w> kg x <r>" log.
const Schema = `
CREATE TABLE IF NOT EXISTS exercises
(
    id          SERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    date        TEXT NOT NULL,
    location    TEXT NOT NULL,
    weight      TEXT NOT NULL,
    CONSTRAINT uq_exercises_name_date_location UNIQUE (name, date, location)
);

CREATE INDEX IF NOT EXISTS ix_exercises_date ON exercises (date);

CREATE TABLE IF NOT EXISTS favorites
(
    id          SERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    exerciseid  TEXT NOT NULL,
    category    TEXT NOT NULL DEFAULT '',
    CONSTRAINT uq_favorites_exerciseid UNIQUE (exerciseid)
);

CREATE INDEX IF NOT EXISTS ix_favorites_name ON favorites (name);

CREATE TABLE IF NOT EXISTS favorite_equipment
(
    favorite_id  INTEGER NOT NULL REFERENCES favorites (id) ON DELETE CASCADE,
    position     INTEGER NOT NULL,
    equipment_id TEXT    NOT NULL,
    PRIMARY KEY (favorite_id, position)
);
`

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func Migrate(ctx context.Context, db execer) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "db.migrate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
