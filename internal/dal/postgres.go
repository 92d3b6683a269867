package dal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS drafts (
	draft_id TEXT PRIMARY KEY,
	league_id TEXT NOT NULL,
	status TEXT NOT NULL,
	current_pick INTEGER NOT NULL,
	state JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS players (
	league_id TEXT NOT NULL,
	id TEXT NOT NULL,
	name TEXT NOT NULL,
	position TEXT NOT NULL,
	nfl_team TEXT NOT NULL,
	projected_points DOUBLE PRECISION NOT NULL,
	adp DOUBLE PRECISION NOT NULL,
	injury_status TEXT NOT NULL DEFAULT '',
	years_experience INTEGER NOT NULL DEFAULT 0,
	bye_week INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (league_id, id)
);

CREATE TABLE IF NOT EXISTS league_teams (
	league_id TEXT NOT NULL,
	team_id TEXT NOT NULL,
	name TEXT NOT NULL,
	owner_user_id TEXT,
	seat INTEGER NOT NULL,
	PRIMARY KEY (league_id, team_id)
);

CREATE TABLE IF NOT EXISTS roster_players (
	draft_id TEXT NOT NULL REFERENCES drafts(draft_id) ON DELETE CASCADE,
	team_id TEXT NOT NULL,
	player_id TEXT NOT NULL,
	pick_number INTEGER NOT NULL,
	created_at TIMESTAMPTZ DEFAULT now(),
	PRIMARY KEY (draft_id, player_id)
);

CREATE TABLE IF NOT EXISTS league_compositions (
	league_id TEXT PRIMARY KEY,
	generation INTEGER NOT NULL,
	composition JSONB NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_drafts_status ON drafts(status);
CREATE INDEX IF NOT EXISTS idx_roster_players_team ON roster_players(draft_id, team_id);
CREATE INDEX IF NOT EXISTS idx_players_adp ON players(league_id, adp);
`

// PostgresStore implements Store on PostgreSQL (CloudNativePG in cluster)
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore connects with retries, applies the schema and seeds the
// default league when empty
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// CloudNativePG defaults to max_connections=100; recycle connections so
	// failovers are picked up
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := pingWithRetry(ctx, db, 5, 5*time.Second); err != nil {
		db.Close()
		return nil, err
	}

	s := newPostgresStore(db)
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply postgres schema: %w", err)
	}
	if err := seedDefaults(ctx, s); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{sqlStore{db: db, numbered: true}}
}

// pingWithRetry waits out Kubernetes DNS propagation on cold start
func pingWithRetry(ctx context.Context, db *sql.DB, attempts int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, 60*time.Second)
		lastErr = db.PingContext(pctx)
		cancel()
		if lastErr == nil {
			return nil
		}

		logger.Warn("Postgres not reachable yet", "attempt", i+1, "error", lastErr)
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("failed to ping postgres after %d attempts: %w", attempts, lastErr)
}
