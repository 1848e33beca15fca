package services

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// schema is applied on startup, all statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS finished_games (
	id          UUID PRIMARY KEY,
	size        SMALLINT NOT NULL,
	automated   TEXT NOT NULL,
	policy      TEXT NOT NULL,
	black       SMALLINT NOT NULL,
	white       SMALLINT NOT NULL,
	winner      TEXT NOT NULL,
	moves       TEXT[] NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS finished_games_finished_at_idx ON finished_games (finished_at DESC);
`

// InitPostgres initializes the database connection and creates missing tables.
func InitPostgres(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return db, nil
}
