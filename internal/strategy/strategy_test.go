package strategy

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

type opt func(*models.PlayerEvaluation)

func withRisk(r float64) opt        { return func(e *models.PlayerEvaluation) { e.InjuryRisk = r } }
func withUpside(u float64) opt      { return func(e *models.PlayerEvaluation) { e.Upside = u } }
func withYears(y int) opt           { return func(e *models.PlayerEvaluation) { e.Player.YearsExperience = y } }
func withADPDiff(d float64) opt     { return func(e *models.PlayerEvaluation) { e.ADPDifferential = d } }
func withConsistency(c float64) opt { return func(e *models.PlayerEvaluation) { e.Consistency = c } }

func player(id string, pos models.Position, value float64, opts ...opt) models.PlayerEvaluation {
	e := models.PlayerEvaluation{
		Player:          models.PlayerProfile{ID: id, Name: id, Position: pos, YearsExperience: 4},
		OverallValue:    value,
		PositionalValue: value,
		InjuryRisk:      0.15,
		Upside:          0.5,
		Floor:           0.5,
		Consistency:     0.6,
	}
	for _, o := range opts {
		o(&e)
	}
	return e
}

func allNeeds(v float64) map[models.Position]float64 {
	n := make(map[models.Position]float64)
	for _, p := range models.AllPositions {
		n[p] = v
	}
	return n
}

func ctxFor(round int, avail []models.PlayerEvaluation, needs map[models.Position]float64) DraftContext {
	return DraftContext{
		Round:       round,
		PickNumber:  round,
		TotalRounds: 15,
		Available:   avail,
		Needs:       needs,
		Personality: models.TeamPersonalityProfile{RiskTolerance: 0.5},
	}
}

// recommend ranks and takes the top candidate, the choice a draw without a
// random source makes
func recommend(tag models.Strategy, dc DraftContext) (PickRecommendation, error) {
	cands, fallback, err := Rank(tag, dc)
	if err != nil {
		return PickRecommendation{}, err
	}
	return Choose(tag, dc, cands, 0, fallback), nil
}

func TestEveryArchetypeReturnsAPick(t *testing.T) {
	avail := []models.PlayerEvaluation{
		player("qb", models.PositionQB, 0.8),
		player("rb", models.PositionRB, 0.9),
		player("wr", models.PositionWR, 0.7, withUpside(0.9), withYears(1)),
		player("te", models.PositionTE, 0.5),
	}
	for _, s := range models.AllStrategies {
		t.Run(string(s), func(t *testing.T) {
			rec, err := recommend(s, ctxFor(2, avail, allNeeds(1)))
			require.NoError(t, err)
			assert.NotEmpty(t, rec.Player.ID())
			assert.NotEmpty(t, rec.Reasoning)
			assert.LessOrEqual(t, len(rec.Alternatives), 3)
			assert.NotContains(t, rec.Alternatives, rec.Player.ID())
			assert.GreaterOrEqual(t, rec.Confidence, 0.5)
			assert.LessOrEqual(t, rec.Confidence, 0.95)
		})
	}
}

func TestEmptyFilterFallsBackToBestAvailable(t *testing.T) {
	// nobody here satisfies the safe filter
	avail := []models.PlayerEvaluation{
		player("rookie-a", models.PositionWR, 0.6, withYears(0)),
		player("rookie-b", models.PositionRB, 0.8, withYears(0)),
	}
	rec, err := recommend(models.StrategySafe, ctxFor(3, avail, allNeeds(1)))
	require.NoError(t, err)
	assert.True(t, rec.Fallback)
	assert.Equal(t, "rookie-b", rec.Player.ID())
}

func TestEmptyPoolIsCandidateExhaustion(t *testing.T) {
	_, err := recommend(models.StrategyBalanced, ctxFor(1, nil, allNeeds(1)))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCandidateExhaustion, apperrors.KindOf(err))
}

func TestUnknownStrategy(t *testing.T) {
	_, err := recommend("yolo", ctxFor(1, []models.PlayerEvaluation{player("a", models.PositionQB, 1)}, nil))
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestValueBasedRespectsNeeds(t *testing.T) {
	avail := []models.PlayerEvaluation{
		player("qb", models.PositionQB, 0.95),
		player("wr", models.PositionWR, 0.70),
	}
	needs := map[models.Position]float64{models.PositionWR: 1}
	rec, err := recommend(models.StrategyValueBased, ctxFor(5, avail, needs))
	require.NoError(t, err)
	assert.Equal(t, "wr", rec.Player.ID())

	// all needs met: any position goes
	rec, err = recommend(models.StrategyValueBased, ctxFor(5, avail, map[models.Position]float64{}))
	require.NoError(t, err)
	assert.Equal(t, "qb", rec.Player.ID())
}

func TestPositionalFollowsRoundPriority(t *testing.T) {
	avail := []models.PlayerEvaluation{
		player("wr", models.PositionWR, 0.95),
		player("rb", models.PositionRB, 0.70),
		player("dst", models.PositionDST, 0.20),
		player("k", models.PositionK, 0.25),
	}

	rec, err := recommend(models.StrategyPositional, ctxFor(1, avail, allNeeds(1)))
	require.NoError(t, err)
	assert.Equal(t, "rb", rec.Player.ID(), "RB leads rounds 1-3")

	rec, err = recommend(models.StrategyPositional, ctxFor(8, avail, allNeeds(1)))
	require.NoError(t, err)
	assert.Equal(t, "wr", rec.Player.ID(), "WR leads rounds 7-10")

	rec, err = recommend(models.StrategyPositional, ctxFor(14, avail, allNeeds(1)))
	require.NoError(t, err)
	assert.Equal(t, "dst", rec.Player.ID(), "DST leads round 14+")
}

func TestContrarianArbitrageRate(t *testing.T) {
	avail := []models.PlayerEvaluation{
		player("wr", models.PositionWR, 0.9, withUpside(0.9)),
		player("te", models.PositionTE, 0.5, withADPDiff(25)),
	}
	needs := map[models.Position]float64{models.PositionWR: 1, models.PositionTE: 1}

	const trials = 200
	arbitrage := 0
	for seed := uint64(0); seed < trials; seed++ {
		dc := ctxFor(7, avail, needs)
		dc.Rand = rand.New(rand.NewPCG(seed, 99))
		rec, err := recommend(models.StrategyContrarian, dc)
		require.NoError(t, err)
		if rec.Player.ID() == "te" {
			arbitrage++
		}
	}
	rate := float64(arbitrage) / trials
	assert.Greater(t, rate, 0.55)
	assert.Less(t, rate, 0.85)
}

func TestContrarianNoArbitrageOutsideWindow(t *testing.T) {
	avail := []models.PlayerEvaluation{
		player("wr", models.PositionWR, 0.9, withUpside(0.9)),
		player("te", models.PositionTE, 0.5, withADPDiff(25)),
	}
	needs := map[models.Position]float64{models.PositionWR: 1, models.PositionTE: 1}
	for seed := uint64(0); seed < 20; seed++ {
		dc := ctxFor(12, avail, needs)
		dc.Rand = rand.New(rand.NewPCG(seed, 1))
		rec, err := recommend(models.StrategyContrarian, dc)
		require.NoError(t, err)
		assert.Equal(t, "wr", rec.Player.ID())
	}
}

func TestSafePrefersProvenVeterans(t *testing.T) {
	avail := []models.PlayerEvaluation{
		player("hurt", models.PositionRB, 0.95, withRisk(0.7), withYears(6)),
		player("young", models.PositionRB, 0.90, withYears(1)),
		player("vet", models.PositionRB, 0.70, withYears(7), withConsistency(0.8)),
	}
	rec, err := recommend(models.StrategySafe, ctxFor(4, avail, allNeeds(1)))
	require.NoError(t, err)
	assert.Equal(t, "vet", rec.Player.ID())
	assert.False(t, rec.Fallback)
}

func TestAggressivePrefersUpside(t *testing.T) {
	avail := []models.PlayerEvaluation{
		player("steady", models.PositionWR, 0.9, withUpside(0.4), withYears(9)),
		player("rookie", models.PositionWR, 0.6, withUpside(0.85), withYears(0)),
	}
	rec, err := recommend(models.StrategyAggressive, ctxFor(4, avail, allNeeds(1)))
	require.NoError(t, err)
	assert.Equal(t, "rookie", rec.Player.ID())
}

func TestNeedWeight(t *testing.T) {
	assert.InDelta(t, 0.2, NeedWeight(1, 15), 1e-9)
	assert.InDelta(t, 0.2, NeedWeight(4, 15), 1e-9)
	assert.InDelta(t, 0.8, NeedWeight(15, 15), 1e-9)
	mid := NeedWeight(9, 15)
	assert.Greater(t, mid, 0.2)
	assert.Less(t, mid, 0.8)
}

func TestBalancedLeansOnNeedLate(t *testing.T) {
	avail := []models.PlayerEvaluation{
		player("wr", models.PositionWR, 0.62),
		player("k", models.PositionK, 0.55),
	}
	needs := map[models.Position]float64{models.PositionK: 1}
	rec, err := recommend(models.StrategyBalanced, ctxFor(15, avail, needs))
	require.NoError(t, err)
	assert.Equal(t, "k", rec.Player.ID())
}

func TestChooseListsAlternatives(t *testing.T) {
	var avail []models.PlayerEvaluation
	for i := 0; i < 6; i++ {
		avail = append(avail, player(fmt.Sprintf("p%d", i), models.PositionWR, 0.9-float64(i)*0.1))
	}
	dc := ctxFor(1, avail, allNeeds(1))
	cands, fallback, err := Rank(models.StrategyValueBased, dc)
	require.NoError(t, err)

	rec := Choose(models.StrategyValueBased, dc, cands, 2, fallback)
	assert.Equal(t, "p2", rec.Player.ID())
	assert.Equal(t, []string{"p0", "p1", "p3"}, rec.Alternatives)
}

func TestConfidenceComponents(t *testing.T) {
	e := player("a", models.PositionQB, 0.9)
	early := ctxFor(1, nil, map[models.Position]float64{models.PositionQB: 1})
	assert.InDelta(t, 0.95, Confidence(models.StrategyBalanced, early, e, false), 1e-9)

	late := ctxFor(12, nil, map[models.Position]float64{})
	assert.InDelta(t, 0.5, Confidence(models.StrategyBalanced, late, e, true), 1e-9)
	assert.InDelta(t, 0.7, Confidence(models.StrategyBalanced, late, e, false), 1e-9)
}
