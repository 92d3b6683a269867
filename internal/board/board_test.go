package board

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

func eval(id string, pos models.Position, overall, positional float64) models.PlayerEvaluation {
	return models.PlayerEvaluation{
		Player:          models.PlayerProfile{ID: id, Name: id, Position: pos, YearsExperience: 3},
		OverallValue:    overall,
		PositionalValue: positional,
		InjuryRisk:      0.1,
		Upside:          0.5,
		Consistency:     0.5,
	}
}

func TestTiersChunkByPositionalValue(t *testing.T) {
	var evals []models.PlayerEvaluation
	for i := 0; i < 30; i++ {
		evals = append(evals, eval(fmt.Sprintf("wr%02d", i), models.PositionWR, 0.5, float64(i)/30))
	}
	evals = append(evals, eval("qb1", models.PositionQB, 0.9, 1))

	tiers := Tiers(evals, 12)
	require.Len(t, tiers[models.PositionWR], 3)
	assert.Len(t, tiers[models.PositionWR][0].PlayerIDs, 12)
	assert.Len(t, tiers[models.PositionWR][2].PlayerIDs, 6)
	assert.Equal(t, "wr29", tiers[models.PositionWR][0].PlayerIDs[0])
	assert.Equal(t, 1, tiers[models.PositionWR][0].Number)
	assert.Equal(t, 3, tiers[models.PositionWR][2].Number)
	assert.Len(t, tiers[models.PositionQB], 1)
}

func TestPersonalizeAppliesTraits(t *testing.T) {
	rookie := eval("rookie", models.PositionWR, 0.60, 0.5)
	rookie.Player.YearsExperience = 0
	vet := eval("vet", models.PositionWR, 0.62, 0.5)
	vet.Player.YearsExperience = 8

	youth := models.TeamPersonalityProfile{TeamID: "a", Traits: models.PersonalityTraits{RookieFocused: true}}
	ranked := Personalize([]models.PlayerEvaluation{vet, rookie}, youth)
	assert.Equal(t, "rookie", ranked[0].PlayerID)

	old := models.TeamPersonalityProfile{TeamID: "b", Traits: models.PersonalityTraits{VeteranBias: true}}
	ranked = Personalize([]models.PlayerEvaluation{rookie, vet}, old)
	assert.Equal(t, "vet", ranked[0].PlayerID)
	assert.InDelta(t, 0.67, ranked[0].Score, 1e-9)
}

func TestInjuryAversePenalty(t *testing.T) {
	hurt := eval("hurt", models.PositionRB, 0.7, 0.5)
	hurt.InjuryRisk = 0.9
	p := models.TeamPersonalityProfile{Traits: models.PersonalityTraits{InjuryAverse: true}}
	assert.InDelta(t, -0.18, TraitAdjustment(p, hurt), 1e-9)
	assert.Zero(t, TraitAdjustment(p, eval("fine", models.PositionRB, 0.7, 0.5)))
}

func TestWatchlists(t *testing.T) {
	sleeper := eval("sleeper", models.PositionWR, 0.5, 0.5)
	sleeper.ADPDifferential = 35
	sleeper.Upside = 0.75

	bust := eval("bust", models.PositionRB, 0.5, 0.5)
	bust.ADPDifferential = -30
	bust.InjuryRisk = 0.7

	breakout := eval("breakout", models.PositionTE, 0.5, 0.5)
	breakout.Upside = 0.85
	breakout.Player.YearsExperience = 2

	notBreakout := eval("old", models.PositionTE, 0.5, 0.5)
	notBreakout.Upside = 0.9
	notBreakout.Player.YearsExperience = 9

	evals := []models.PlayerEvaluation{sleeper, bust, breakout, notBreakout}
	assert.Equal(t, []string{"sleeper"}, Sleepers(evals, 10))
	assert.Equal(t, []string{"bust"}, Busts(evals, 10))
	assert.Equal(t, []string{"breakout"}, Breakouts(evals, 10))
}

func TestWatchlistCap(t *testing.T) {
	var evals []models.PlayerEvaluation
	for i := 0; i < 20; i++ {
		e := eval(fmt.Sprintf("s%02d", i), models.PositionWR, 0.5, 0.5)
		e.ADPDifferential = float64(21 + i)
		e.Upside = 0.8
		evals = append(evals, e)
	}
	got := Sleepers(evals, 5)
	assert.Len(t, got, 5)
	assert.Equal(t, "s19", got[0])
}

func TestBuildRanksEveryTeam(t *testing.T) {
	evals := []models.PlayerEvaluation{
		eval("a", models.PositionQB, 0.9, 1),
		eval("b", models.PositionRB, 0.8, 1),
		eval("c", models.PositionWR, 0.7, 1),
	}
	personalities := []models.TeamPersonalityProfile{{TeamID: "t1"}, {TeamID: "t2"}, {TeamID: "t3"}}

	b, err := Build(context.Background(), evals, personalities)
	require.NoError(t, err)
	assert.Len(t, b.PersonalizedRankings, 3)
	for _, p := range personalities {
		assert.Len(t, b.PersonalizedRankings[p.TeamID], 3)
	}
	assert.Len(t, b.Tiers, 3)
}

func TestBuildHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, []models.PlayerEvaluation{eval("a", models.PositionQB, 0.9, 1)}, []models.TeamPersonalityProfile{{TeamID: "t1"}})
	assert.ErrorIs(t, err, context.Canceled)
}
