package dal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// sqlStore is the Store implementation shared by the SQLite and Postgres
// backends. Queries are written with ? placeholders and rebound per dialect.
type sqlStore struct {
	db       *sql.DB
	numbered bool
}

// q rebinds ? placeholders to $n for Postgres
func (s *sqlStore) q(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) LoadDraftState(ctx context.Context, draftID string) (*models.DraftState, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, s.q(`SELECT state FROM drafts WHERE draft_id = ?`), draftID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("draft %s not found", draftID)
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", draftID, err)
	}

	var state models.DraftState
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStateCorruption, "decode draft state")
	}
	return &state, nil
}

func (s *sqlStore) SaveDraftState(ctx context.Context, state *models.DraftState) error {
	if state == nil || state.DraftID == "" {
		return apperrors.Validationf("draft id is required")
	}
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode draft state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO drafts (draft_id, league_id, status, current_pick, state, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (draft_id) DO UPDATE SET
			status = excluded.status,
			current_pick = excluded.current_pick,
			state = excluded.state,
			updated_at = excluded.updated_at
	`), state.DraftID, state.LeagueID, string(state.Status), state.CurrentPick, string(blob), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save draft %s: %w", state.DraftID, err)
	}
	return nil
}

func (s *sqlStore) ListDraftIDs(ctx context.Context, status models.DraftStatus) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT draft_id FROM drafts WHERE status = ? ORDER BY draft_id`), string(status))
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *sqlStore) LoadPlayerPool(ctx context.Context, leagueID string) ([]models.PlayerProfile, error) {
	players, err := s.players(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 && leagueID != DefaultLeagueID {
		return s.players(ctx, DefaultLeagueID)
	}
	return players, nil
}

func (s *sqlStore) players(ctx context.Context, leagueID string) ([]models.PlayerProfile, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, name, position, nfl_team, projected_points, adp, injury_status, years_experience, bye_week
		FROM players
		WHERE league_id = ?
		ORDER BY id
	`), leagueID)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	defer rows.Close()

	var players []models.PlayerProfile
	for rows.Next() {
		var p models.PlayerProfile
		var pos, injury string
		if err := rows.Scan(&p.ID, &p.Name, &pos, &p.NFLTeam, &p.ProjectedPoints, &p.ADP, &injury, &p.YearsExperience, &p.ByeWeek); err != nil {
			return nil, err
		}
		p.Position = models.Position(pos)
		p.InjuryStatus = models.InjuryStatus(injury)
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *sqlStore) UpsertPlayers(ctx context.Context, leagueID string, players []models.PlayerProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.q(`
		INSERT INTO players (league_id, id, name, position, nfl_team, projected_points, adp, injury_status, years_experience, bye_week)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (league_id, id) DO UPDATE SET
			name = excluded.name,
			position = excluded.position,
			nfl_team = excluded.nfl_team,
			projected_points = excluded.projected_points,
			adp = excluded.adp,
			injury_status = excluded.injury_status,
			years_experience = excluded.years_experience,
			bye_week = excluded.bye_week
	`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.ExecContext(ctx, leagueID, p.ID, p.Name, string(p.Position), p.NFLTeam,
			p.ProjectedPoints, p.ADP, string(p.InjuryStatus), p.YearsExperience, p.ByeWeek); err != nil {
			return fmt.Errorf("upsert player %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *sqlStore) LoadLeagueTeams(ctx context.Context, leagueID string) ([]models.TeamSeat, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT team_id, name, owner_user_id
		FROM league_teams
		WHERE league_id = ?
		ORDER BY seat
	`), leagueID)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	defer rows.Close()

	var teams []models.TeamSeat
	for rows.Next() {
		var t models.TeamSeat
		var owner sql.NullString
		if err := rows.Scan(&t.TeamID, &t.Name, &owner); err != nil {
			return nil, err
		}
		t.OwnerUserID = owner.String
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, apperrors.NotFoundf("league %s has no teams", leagueID)
	}
	return teams, nil
}

func (s *sqlStore) SaveLeagueTeams(ctx context.Context, leagueID string, teams []models.TeamSeat) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM league_teams WHERE league_id = ?`), leagueID); err != nil {
		return fmt.Errorf("clear teams: %w", err)
	}
	for seat, t := range teams {
		if _, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO league_teams (league_id, team_id, name, owner_user_id, seat)
			VALUES (?, ?, ?, ?, ?)
		`), leagueID, t.TeamID, t.Name, t.OwnerUserID, seat); err != nil {
			return fmt.Errorf("insert team %s: %w", t.TeamID, err)
		}
	}
	return tx.Commit()
}

func (s *sqlStore) MaterializeRosterPlayer(ctx context.Context, rp RosterPlayer) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO roster_players (draft_id, team_id, player_id, pick_number)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (draft_id, player_id) DO NOTHING
	`), rp.DraftID, rp.TeamID, rp.PlayerID, rp.PickNumber)
	if err != nil {
		return fmt.Errorf("materialize %s/%s: %w", rp.TeamID, rp.PlayerID, err)
	}
	return nil
}

func (s *sqlStore) RosterPlayers(ctx context.Context, draftID string) ([]RosterPlayer, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT draft_id, team_id, player_id, pick_number
		FROM roster_players
		WHERE draft_id = ?
		ORDER BY pick_number
	`), draftID)
	if err != nil {
		return nil, fmt.Errorf("load roster players: %w", err)
	}
	defer rows.Close()

	var out []RosterPlayer
	for rows.Next() {
		var rp RosterPlayer
		if err := rows.Scan(&rp.DraftID, &rp.TeamID, &rp.PlayerID, &rp.PickNumber); err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}

func (s *sqlStore) LoadLeagueComposition(ctx context.Context, leagueID string) (*models.LeagueComposition, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, s.q(`SELECT composition FROM league_compositions WHERE league_id = ?`), leagueID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("league %s has no composition", leagueID)
	}
	if err != nil {
		return nil, fmt.Errorf("load composition %s: %w", leagueID, err)
	}

	var comp models.LeagueComposition
	if err := json.Unmarshal(blob, &comp); err != nil {
		return nil, fmt.Errorf("decode league composition: %w", err)
	}
	return &comp, nil
}

func (s *sqlStore) SaveLeagueComposition(ctx context.Context, comp *models.LeagueComposition) error {
	if comp == nil || comp.LeagueID == "" {
		return apperrors.Validationf("league id is required")
	}
	blob, err := json.Marshal(comp)
	if err != nil {
		return fmt.Errorf("encode league composition: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO league_compositions (league_id, generation, composition, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (league_id) DO UPDATE SET
			generation = excluded.generation,
			composition = excluded.composition,
			generated_at = excluded.generated_at
	`), comp.LeagueID, comp.Generation, string(blob), comp.GeneratedAt.UTC())
	if err != nil {
		return fmt.Errorf("save composition %s: %w", comp.LeagueID, err)
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
