package dal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "draftsim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func sampleState(id string, status models.DraftStatus) *models.DraftState {
	at := time.Date(2025, 8, 30, 19, 0, 0, 0, time.UTC)
	return &models.DraftState{
		DraftID:  id,
		LeagueID: DefaultLeagueID,
		Config: models.DraftConfig{
			LeagueID:       DefaultLeagueID,
			Rounds:         15,
			PickTimeLimit:  90 * time.Second,
			DraftType:      models.DraftSnake,
			RosterTemplate: models.DefaultRosterTemplate(),
		},
		Personalities: []models.TeamPersonalityProfile{
			{TeamID: "team-01", TeamName: "Gridiron Gurus", Strategy: models.StrategySafe, RiskTolerance: 0.3,
				PositionPreferences: map[models.Position]float64{models.PositionRB: 1.2}},
		},
		DraftOrder:  []string{"team-01"},
		CurrentPick: 2,
		Picks: []models.DraftPick{
			{PickNumber: 1, Round: 1, TeamID: "team-01", PlayerID: "RB-001", PlayerName: "Marcus Reed",
				Position: models.PositionRB, Confidence: 0.85, Alternatives: []string{"WR-001"}, Reasoning: "Safe floor."},
		},
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestStoreSeedsDefaultLeague(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			teams, err := s.LoadLeagueTeams(ctx, DefaultLeagueID)
			require.NoError(t, err)
			assert.Equal(t, DefaultTeams(), teams)

			pool, err := s.LoadPlayerPool(ctx, DefaultLeagueID)
			require.NoError(t, err)
			assert.Len(t, pool, len(DefaultPlayers()))

			other, err := s.LoadPlayerPool(ctx, "no-feed-league")
			require.NoError(t, err)
			assert.Equal(t, pool, other)

			_, err = s.LoadLeagueTeams(ctx, "no-such-league")
			assert.True(t, apperrors.IsNotFound(err))
		})
	}
}

func TestStoreDraftStateRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.LoadDraftState(ctx, "missing")
			assert.True(t, apperrors.IsNotFound(err))

			state := sampleState("d-1", models.StatusActive)
			require.NoError(t, s.SaveDraftState(ctx, state))
			require.NoError(t, s.SaveDraftState(ctx, state), "duplicate save of identical state")

			loaded, err := s.LoadDraftState(ctx, "d-1")
			require.NoError(t, err)
			assert.Equal(t, state, loaded)

			loaded.Picks[0].PlayerID = "mutated"
			again, err := s.LoadDraftState(ctx, "d-1")
			require.NoError(t, err)
			assert.Equal(t, "RB-001", again.Picks[0].PlayerID)

			require.NoError(t, s.SaveDraftState(ctx, sampleState("d-2", models.StatusPaused)))
			require.NoError(t, s.SaveDraftState(ctx, sampleState("d-0", models.StatusActive)))

			active, err := s.ListDraftIDs(ctx, models.StatusActive)
			require.NoError(t, err)
			assert.Equal(t, []string{"d-0", "d-1"}, active)

			state.Status = models.StatusCompleted
			require.NoError(t, s.SaveDraftState(ctx, state))
			active, err = s.ListDraftIDs(ctx, models.StatusActive)
			require.NoError(t, err)
			assert.Equal(t, []string{"d-0"}, active)

			assert.True(t, apperrors.Is(s.SaveDraftState(ctx, &models.DraftState{}), apperrors.ErrValidation))
		})
	}
}

func TestStorePlayersAndTeams(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			players := []models.PlayerProfile{
				{ID: "p2", Name: "B", Position: models.PositionWR, NFLTeam: "KC", ProjectedPoints: 200, ADP: 12, InjuryStatus: models.InjuryHealthy, YearsExperience: 3, ByeWeek: 6},
				{ID: "p1", Name: "A", Position: models.PositionQB, NFLTeam: "BUF", ProjectedPoints: 350, ADP: 20, InjuryStatus: models.InjuryQuestionable, YearsExperience: 7, ByeWeek: 7},
			}
			require.NoError(t, s.UpsertPlayers(ctx, "dynasty", players))

			players[0].ADP = 9
			require.NoError(t, s.UpsertPlayers(ctx, "dynasty", players[:1]))

			pool, err := s.LoadPlayerPool(ctx, "dynasty")
			require.NoError(t, err)
			require.Len(t, pool, 2)
			assert.Equal(t, "p1", pool[0].ID)
			assert.Equal(t, 9.0, pool[1].ADP)
			assert.Equal(t, models.InjuryQuestionable, pool[0].InjuryStatus)

			teams := []models.TeamSeat{{TeamID: "b", Name: "Bravo"}, {TeamID: "a", Name: "Alpha", OwnerUserID: "u1"}}
			require.NoError(t, s.SaveLeagueTeams(ctx, "dynasty", teams))
			require.NoError(t, s.SaveLeagueTeams(ctx, "dynasty", teams[1:]))

			got, err := s.LoadLeagueTeams(ctx, "dynasty")
			require.NoError(t, err)
			assert.Equal(t, teams[1:], got)
		})
	}
}

func TestStoreMaterializeIsIdempotent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.SaveDraftState(ctx, sampleState("d-1", models.StatusCompleted)))

			rows := []RosterPlayer{
				{DraftID: "d-1", TeamID: "team-02", PlayerID: "WR-001", PickNumber: 2},
				{DraftID: "d-1", TeamID: "team-01", PlayerID: "RB-001", PickNumber: 1},
			}
			for i := 0; i < 2; i++ {
				for _, rp := range rows {
					require.NoError(t, s.MaterializeRosterPlayer(ctx, rp))
				}
			}

			got, err := s.RosterPlayers(ctx, "d-1")
			require.NoError(t, err)
			assert.Equal(t, []RosterPlayer{rows[1], rows[0]}, got)

			none, err := s.RosterPlayers(ctx, "d-2")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStoreLeagueComposition(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.LoadLeagueComposition(ctx, DefaultLeagueID)
			assert.True(t, apperrors.IsNotFound(err))

			comp := &models.LeagueComposition{
				LeagueID:           DefaultLeagueID,
				Generation:         1,
				CompetitiveBalance: 0.91,
				ParityScore:        0.8,
				Storylines:         []string{"The title race runs through A and B."},
				PlayoffTiers:       models.PlayoffTiers{Favorites: []string{"a"}},
				GeneratedAt:        time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			}
			require.NoError(t, s.SaveLeagueComposition(ctx, comp))

			comp.Generation = 2
			require.NoError(t, s.SaveLeagueComposition(ctx, comp))

			got, err := s.LoadLeagueComposition(ctx, DefaultLeagueID)
			require.NoError(t, err)
			assert.Equal(t, comp, got)
		})
	}
}

func TestDefaultPlayersAreDeterministic(t *testing.T) {
	a, b := DefaultPlayers(), DefaultPlayers()
	assert.Equal(t, a, b)

	counts := map[models.Position]int{}
	adps := map[float64]bool{}
	for _, p := range a {
		counts[p.Position]++
		assert.True(t, p.Position.Valid())
		assert.Greater(t, p.ProjectedPoints, 0.0)
		assert.False(t, adps[p.ADP], "adp %v repeated", p.ADP)
		adps[p.ADP] = true
		assert.GreaterOrEqual(t, p.ByeWeek, 5)
		assert.LessOrEqual(t, p.ByeWeek, 14)
	}
	for _, c := range curves {
		assert.Equal(t, c.count, counts[c.pos])
	}
}
