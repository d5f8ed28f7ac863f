package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func ConnectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// schema executado no boot de cada serviço; idempotente via IF NOT EXISTS.
// Tabelas de catálogo (teams, drivers, rounds, users) são alimentadas por
// colaboradores externos; aqui só garantimos a existência.
const schema = `
CREATE TABLE IF NOT EXISTS teams (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS drivers (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	team_id TEXT NOT NULL REFERENCES teams(id)
);

CREATE TABLE IF NOT EXISTS rounds (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	round_number INT  NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id       TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	balance  BIGINT NOT NULL DEFAULT 100,
	points   BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS events (
	id           TEXT PRIMARY KEY,
	round_id     TEXT NOT NULL REFERENCES rounds(id),
	type         TEXT NOT NULL,
	scheduled_at TIMESTAMPTZ NOT NULL,
	status       TEXT NOT NULL DEFAULT 'Upcoming',
	bet_value    BIGINT NOT NULL,
	pool_prize   BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS bets (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL REFERENCES users(id),
	event_id           TEXT NOT NULL REFERENCES events(id),
	driver_predictions TEXT[] NOT NULL DEFAULT '{}',
	team_predictions   TEXT[] NOT NULL DEFAULT '{}',
	stake              BIGINT NOT NULL,
	locked_multiplier  DOUBLE PRECISION NOT NULL,
	status             TEXT NOT NULL DEFAULT 'Active',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_bets_event_status ON bets(event_id, status);
CREATE INDEX IF NOT EXISTS idx_bets_user_event ON bets(user_id, event_id);

CREATE TABLE IF NOT EXISTS results (
	event_id         TEXT PRIMARY KEY REFERENCES events(id),
	positions        TEXT[] NOT NULL,
	position_teams   TEXT[] NOT NULL,
	total_prize_pool BIGINT NOT NULL,
	perfect_matches  INT NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS result_winners (
	event_id      TEXT NOT NULL REFERENCES results(event_id),
	user_id       TEXT NOT NULL REFERENCES users(id),
	username      TEXT NOT NULL,
	prize_amount  BIGINT NOT NULL,
	points_earned BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	message    TEXT NOT NULL,
	sender     TEXT NOT NULL DEFAULT 'System',
	read       BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema cria as tabelas se ainda não existirem
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
