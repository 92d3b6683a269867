package dal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS drafts (
	draft_id TEXT PRIMARY KEY,
	league_id TEXT NOT NULL,
	status TEXT NOT NULL,
	current_pick INTEGER NOT NULL,
	state TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
	league_id TEXT NOT NULL,
	id TEXT NOT NULL,
	name TEXT NOT NULL,
	position TEXT NOT NULL,
	nfl_team TEXT NOT NULL,
	projected_points REAL NOT NULL,
	adp REAL NOT NULL,
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
	draft_id TEXT NOT NULL,
	team_id TEXT NOT NULL,
	player_id TEXT NOT NULL,
	pick_number INTEGER NOT NULL,
	PRIMARY KEY (draft_id, player_id)
);

CREATE TABLE IF NOT EXISTS league_compositions (
	league_id TEXT PRIMARY KEY,
	generation INTEGER NOT NULL,
	composition TEXT NOT NULL,
	generated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_drafts_status ON drafts(status);
`

// SQLiteStore implements Store on a local SQLite file
type SQLiteStore struct {
	sqlStore
}

// NewSQLiteStore opens (or creates) the database at path, applies the schema
// and seeds the default league when empty
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// a single writer avoids SQLITE_BUSY under concurrent ticks
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{sqlStore{db: db}}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	if err := seedDefaults(ctx, s); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
