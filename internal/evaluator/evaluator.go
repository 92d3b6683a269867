// Package evaluator turns raw player records into normalized, league-relative
// evaluations. Nothing here fails on incomplete data: gaps are filled with
// documented baselines and the evaluation is flagged as imputed.
package evaluator

import (
	"math"
	"sort"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

const (
	missingADP  = 200.0
	rookieBonus = 0.15
	riskFloor   = 0.1
	riskCeiling = 0.9
)

// baselinePoints is the fallback projection when a position has no known projections
var baselinePoints = map[models.Position]float64{
	models.PositionQB:  250,
	models.PositionRB:  180,
	models.PositionWR:  175,
	models.PositionTE:  125,
	models.PositionK:   130,
	models.PositionDST: 120,
}

// stability is how week-to-week predictable a position is
var stability = map[models.Position]float64{
	models.PositionQB:  0.8,
	models.PositionK:   0.7,
	models.PositionWR:  0.5,
	models.PositionTE:  0.5,
	models.PositionDST: 0.5,
	models.PositionRB:  0.4,
}

// positionRisk is the baseline injury exposure added per position
var positionRisk = map[models.Position]float64{
	models.PositionRB: 0.10,
	models.PositionWR: 0.05,
	models.PositionTE: 0.05,
}

// positionStats summarizes projections at one position
type positionStats struct {
	min, max, mean, median float64
	count                  int
}

// LeagueContext holds pool-wide normalization constants
type LeagueContext struct {
	maxPoints float64
	positions map[models.Position]positionStats
	signals   models.Signals
}

// NewLeagueContext derives normalization constants from a player pool
func NewLeagueContext(players []models.PlayerProfile, signals models.Signals) *LeagueContext {
	byPos := make(map[models.Position][]float64)
	for _, p := range players {
		if p.ProjectedPoints > 0 {
			byPos[p.Position] = append(byPos[p.Position], p.ProjectedPoints)
		}
	}

	lc := &LeagueContext{positions: make(map[models.Position]positionStats), signals: signals}
	for pos, pts := range byPos {
		sort.Float64s(pts)
		sum := 0.0
		for _, v := range pts {
			sum += v
		}
		st := positionStats{
			min:    pts[0],
			max:    pts[len(pts)-1],
			mean:   sum / float64(len(pts)),
			median: pts[len(pts)/2],
			count:  len(pts),
		}
		lc.positions[pos] = st
		if st.max > lc.maxPoints {
			lc.maxPoints = st.max
		}
	}
	return lc
}

// projection returns the player's points, imputing a baseline when missing
func (lc *LeagueContext) projection(p models.PlayerProfile) (float64, bool) {
	if p.ProjectedPoints > 0 {
		return p.ProjectedPoints, false
	}
	if st, ok := lc.positions[p.Position]; ok && st.count > 0 {
		return st.mean, true
	}
	if b, ok := baselinePoints[p.Position]; ok {
		return b, true
	}
	return 100, true
}

// Scarcity is the drop-off from the best to the median player at a position
func (lc *LeagueContext) Scarcity(pos models.Position) float64 {
	st, ok := lc.positions[pos]
	if !ok || st.max <= 0 {
		return 0
	}
	return clip((st.max-st.median)/st.max, 0, 1)
}

func signal(m map[string]float64, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// InjuryRisk maps reported status to a risk score. Healthy players get a small
// baseline from position and career length.
func InjuryRisk(p models.PlayerProfile) float64 {
	var risk float64
	switch p.InjuryStatus {
	case models.InjuryOut, models.InjuryReserve:
		risk = 0.9
	case models.InjuryDoubtful:
		risk = 0.7
	case models.InjuryQuestionable:
		risk = 0.4
	default:
		risk = 0.1 + positionRisk[p.Position]
		if p.YearsExperience > 8 {
			risk += 0.02 * float64(p.YearsExperience-8)
		}
	}
	return clip(risk, riskFloor, riskCeiling)
}

// Evaluate scores one player against the league context
func (lc *LeagueContext) Evaluate(p models.PlayerProfile) models.PlayerEvaluation {
	points, imputed := lc.projection(p)
	if p.ADP <= 0 {
		p.ADP = missingADP
		imputed = true
	}

	yrs := p.YearsExperience
	if yrs < 0 {
		yrs = 0
	}

	offense := signal(lc.signals.TeamOffense, p.NFLTeam, 0.5)
	schedule := signal(lc.signals.ScheduleDifficulty, p.NFLTeam, 0.5)
	sentiment := clip(signal(lc.signals.MarketSentiment, p.ID, 0), -1, 1)

	pointsNorm := 0.0
	if lc.maxPoints > 0 {
		pointsNorm = clip(points/lc.maxPoints, 0, 1)
	}

	positional := 1.0
	if st, ok := lc.positions[p.Position]; ok && st.max > st.min {
		positional = clip((points-st.min)/(st.max-st.min), 0, 1)
	}

	risk := InjuryRisk(p)
	experience := math.Min(float64(yrs), 8) / 8
	youth := 1 - math.Min(float64(yrs), 10)/10

	teamFit := 0.5
	if p.Position != models.PositionK && p.Position != models.PositionDST {
		teamFit = offense
	}

	bonus := 0.0
	if yrs == 0 {
		bonus = rookieBonus
	}

	upside := clip(0.4*positional+0.3*youth+0.2*offense+0.1*(sentiment+1)/2+bonus, 0, 1)
	floor := clip(0.5*positional+0.3*experience+0.2*(1-risk)-0.1*(schedule-0.5), 0, 1)
	consistency := clip(0.4*experience+0.3*(1-risk)+0.3*stability[p.Position], 0, 1)

	availability := 1 - 0.25*math.Max(0, risk-0.2)
	overall := clip((0.8*pointsNorm+0.1*teamFit+0.1*(sentiment+1)/2)*availability, 0, 1)

	return models.PlayerEvaluation{
		Player:          p,
		OverallValue:    overall,
		PositionalValue: positional,
		TeamFit:         teamFit,
		InjuryRisk:      risk,
		Upside:          upside,
		Floor:           floor,
		Consistency:     consistency,
		Age:             yrs,
		RookieBonus:     bonus,
		Scarcity:        lc.Scarcity(p.Position),
		Imputed:         imputed,
	}
}

// EvaluatePool evaluates every player and fills ADP differentials, which
// depend on each player's value rank within the pool. The result is sorted by
// overall value, best first.
func EvaluatePool(players []models.PlayerProfile, signals models.Signals) []models.PlayerEvaluation {
	lc := NewLeagueContext(players, signals)

	evals := make([]models.PlayerEvaluation, 0, len(players))
	for _, p := range players {
		if p.ID == "" {
			continue
		}
		evals = append(evals, lc.Evaluate(p))
	}

	SortByValue(evals)
	for i := range evals {
		evals[i].ADPDifferential = evals[i].Player.ADP - float64(i+1)
	}
	return evals
}

// SortByValue orders evaluations by overall value, breaking ties on id
func SortByValue(evals []models.PlayerEvaluation) {
	sort.SliceStable(evals, func(i, j int) bool {
		if evals[i].OverallValue != evals[j].OverallValue {
			return evals[i].OverallValue > evals[j].OverallValue
		}
		return evals[i].Player.ID < evals[j].Player.ID
	})
}

func clip(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
