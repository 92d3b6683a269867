package narrative

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/mocks"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/rng"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/textgen"
)

func league(n int) []models.RosterConstruction {
	out := make([]models.RosterConstruction, n)
	for i := range out {
		out[i] = models.RosterConstruction{
			TeamID:          fmt.Sprintf("team-%02d", i+1),
			TeamName:        fmt.Sprintf("Team %d", i+1),
			Personality:     models.TeamPersonalityProfile{Strategy: models.AllStrategies[i%len(models.AllStrategies)]},
			Competitiveness: 0.55 + 0.03*float64(i),
			PositionBalance: 0.8,
			Uniqueness:      0.9,
			RiskProfile:     models.RiskModerate,
			RookieCount:     i % 4,
			StartingLineup: []models.RosterSlot{
				{Kind: models.SlotQB, Filled: true, PlayerID: fmt.Sprintf("qb-%d", i)},
			},
		}
	}
	return out
}

func TestProjectWins(t *testing.T) {
	rosters := league(10)
	ProjectWins(rosters)
	assert.Equal(t, 3.0, rosters[0].ProjectedWins)
	assert.Equal(t, 11.0, rosters[9].ProjectedWins)
	for _, r := range rosters {
		assert.GreaterOrEqual(t, r.ProjectedWins, 3.0)
		assert.LessOrEqual(t, r.ProjectedWins, 11.0)
	}

	flat := league(4)
	for i := range flat {
		flat[i].Competitiveness = 0.7
	}
	ProjectWins(flat)
	for _, r := range flat {
		assert.Equal(t, float64(flatWins), r.ProjectedWins)
	}
}

func TestTiers(t *testing.T) {
	rosters := league(10)
	ProjectWins(rosters)
	tiers := Tiers(rosters)

	assert.Equal(t, []string{"team-10", "team-09", "team-08"}, tiers.Favorites)
	assert.Equal(t, []string{"team-07", "team-06", "team-05"}, tiers.Wildcards)
	assert.Equal(t, []string{"team-03", "team-02", "team-01"}, tiers.Sleepers)

	small := league(4)
	ProjectWins(small)
	tiers = Tiers(small)
	assert.Len(t, tiers.Favorites, 3)
	assert.Len(t, tiers.Wildcards, 1)
	assert.Empty(t, tiers.Sleepers)
}

func TestUniqueFactors(t *testing.T) {
	r := league(1)[0]
	r.Personality.Strategy = models.StrategyBalanced
	assert.Equal(t, []string{"balanced builder approach"}, UniqueFactors(r))

	r.RiskProfile = models.RiskAggressive
	r.RookieCount = 5
	r.Personality.Traits = models.PersonalityTraits{SleeperHunter: true, UpsideChaser: true}
	f := UniqueFactors(r)
	assert.Len(t, f, 3)
	assert.Equal(t, "high-ceiling build", f[0])
	assert.Equal(t, "youth movement", f[1])
}

func TestRivalriesCappedPerTeam(t *testing.T) {
	rosters := league(10)
	for i := range rosters {
		rosters[i].Competitiveness = 0.7 + 0.001*float64(i)
	}
	ProjectWins(rosters)
	for i := range rosters {
		rosters[i].ProjectedWins = 7
	}

	rivalries := Rivalries(rosters, rng.For("league-1", 1))
	require.NotEmpty(t, rivalries)

	count := map[string]int{}
	for _, rv := range rivalries {
		assert.GreaterOrEqual(t, rv.Score, rivalryThreshold)
		assert.NotEqual(t, rv.TeamA, rv.TeamB)
		assert.NotEmpty(t, rv.Reason)
		count[rv.TeamA]++
		count[rv.TeamB]++
	}
	for team, n := range count {
		assert.LessOrEqual(t, n, maxRivalsPerTeam, team)
	}

	again := Rivalries(rosters, rng.For("league-1", 1))
	assert.Equal(t, rivalries, again)
}

func TestRivalriesRequireThreshold(t *testing.T) {
	rosters := []models.RosterConstruction{
		{TeamID: "a", Personality: models.TeamPersonalityProfile{Strategy: models.StrategySafe}, Competitiveness: 0.2, ProjectedWins: 3},
		{TeamID: "b", Personality: models.TeamPersonalityProfile{Strategy: models.StrategySafe}, Competitiveness: 0.9, ProjectedWins: 11},
	}
	assert.Empty(t, Rivalries(rosters, nil))

	rosters[1].Personality.Strategy = models.StrategyAggressive
	rosters[1].Competitiveness = 0.22
	rivalries := Rivalries(rosters, nil)
	require.Len(t, rivalries, 1)
	assert.Equal(t, 4, rivalries[0].Score)
	assert.Contains(t, rivalries[0].Reason, "opposing draft philosophies")
}

func TestAttachRivals(t *testing.T) {
	rosters := league(3)
	attachRivals(rosters, []models.Rivalry{{TeamA: "team-01", TeamB: "team-03", Score: 3}})
	assert.Equal(t, []string{"Team 3"}, rosters[0].Rivals)
	assert.Empty(t, rosters[1].Rivals)
	assert.Equal(t, []string{"Team 1"}, rosters[2].Rivals)
}

func TestKeyMatchups(t *testing.T) {
	rosters := league(10)
	ProjectWins(rosters)
	rivalries := Rivalries(rosters, rng.For("seed", 1))
	matchups := KeyMatchups(rosters, rivalries, rng.For("seed", 1))

	require.NotEmpty(t, matchups)
	assert.LessOrEqual(t, len(matchups), maxMatchups)

	seen := map[string]bool{}
	for i, m := range matchups {
		assert.GreaterOrEqual(t, m.Week, 1)
		assert.LessOrEqual(t, m.Week, seasonWeeks)
		assert.Contains(t, []string{"rivalry", "contender"}, m.Kind)
		pair := m.TeamA + m.TeamB
		if m.TeamA > m.TeamB {
			pair = m.TeamB + m.TeamA
		}
		assert.False(t, seen[pair], "duplicate pair %s", pair)
		seen[pair] = true
		if i > 0 {
			assert.GreaterOrEqual(t, matchups[i-1].Hype, m.Hype)
		}
	}
}

func TestCompetitiveBalanceAndParity(t *testing.T) {
	even := league(4)
	for i := range even {
		even[i].Competitiveness = 0.8
	}
	assert.InDelta(t, 1.0, CompetitiveBalance(even), 1e-9)
	assert.InDelta(t, 1.0, Parity(even), 1e-9)

	spread := league(2)
	spread[0].Competitiveness = 0.4
	spread[1].Competitiveness = 0.8
	assert.InDelta(t, 0.5, Parity(spread), 1e-9)
	assert.InDelta(t, 1-0.2/0.6, CompetitiveBalance(spread), 1e-9)

	assert.Zero(t, Parity(nil))
	assert.Zero(t, CompetitiveBalance(nil))
}

func TestAssignTemplateOnly(t *testing.T) {
	a := NewAssigner(nil)
	fixed := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	comp, err := a.Assign(context.Background(), "league-1", 2, league(10), "league-1/2")
	require.NoError(t, err)

	assert.Equal(t, "league-1", comp.LeagueID)
	assert.Equal(t, 2, comp.Generation)
	assert.Equal(t, fixed, comp.GeneratedAt)
	assert.Len(t, comp.Rosters, 10)
	assert.NotEmpty(t, comp.Storylines)
	for _, s := range comp.Storylines {
		assert.NotEmpty(t, s)
	}
	for _, r := range comp.Rosters {
		assert.NotEmpty(t, r.Storyline)
		assert.NotEmpty(t, r.UniqueFactors)
		assert.LessOrEqual(t, len(r.UniqueFactors), 3)
		assert.NotZero(t, r.ProjectedWins)
	}
	assert.Len(t, comp.PlayoffTiers.Favorites, 3)
	assert.LessOrEqual(t, len(comp.KeyMatchups), maxMatchups)

	again, err := NewAssigner(nil).Assign(context.Background(), "league-1", 2, league(10), "league-1/2")
	require.NoError(t, err)
	assert.Equal(t, comp.Rivalries, again.Rivalries)
	assert.Equal(t, comp.KeyMatchups, again.KeyMatchups)
}

func TestAssignUsesGeneratedText(t *testing.T) {
	gen := &mocks.MockTextGenerator{Text: "A season to remember."}
	a := NewAssigner(textgen.NewWriter(gen, time.Second))

	comp, err := a.Assign(context.Background(), "league-1", 1, league(6), "league-1/1")
	require.NoError(t, err)
	for _, r := range comp.Rosters {
		assert.Equal(t, "A season to remember.", r.Storyline)
	}
	for _, s := range comp.Storylines {
		assert.Equal(t, "A season to remember.", s)
	}
	assert.Equal(t, 6+len(comp.Storylines), gen.Calls())
}

func TestAssignFallsBackOnGeneratorError(t *testing.T) {
	gen := &mocks.MockTextGenerator{Err: errors.New("rate limited")}
	a := NewAssigner(textgen.NewWriter(gen, time.Second))

	comp, err := a.Assign(context.Background(), "league-1", 1, league(6), "league-1/1")
	require.NoError(t, err)
	for _, r := range comp.Rosters {
		assert.Equal(t, textgen.TeamStoryline(r), r.Storyline)
	}
}

func TestAssignCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAssigner(nil).Assign(ctx, "league-1", 1, league(4), "seed")
	assert.ErrorIs(t, err, context.Canceled)
}
