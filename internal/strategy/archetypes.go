package strategy

import (
	"math"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

const arbitrageChance = 0.7

func valueBased(dc DraftContext) []Candidate {
	return score(dc, neededFilter(dc), func(e models.PlayerEvaluation) float64 {
		s := e.OverallValue
		if e.ADPDifferential > 0 && e.ADPDifferential <= 15 {
			s += 0.05
		}
		if e.InjuryRisk < 0.6 || e.Consistency > 0.4 {
			s += 0.03
		}
		return s
	})
}

// positionalPriority is the position order per round bucket
func positionalPriority(round int) []models.Position {
	switch {
	case round <= 3:
		return []models.Position{models.PositionRB, models.PositionWR, models.PositionQB, models.PositionTE}
	case round <= 6:
		return []models.Position{models.PositionRB, models.PositionWR, models.PositionTE, models.PositionQB}
	case round <= 10:
		return []models.Position{models.PositionWR, models.PositionRB, models.PositionQB, models.PositionTE}
	case round <= 13:
		return []models.Position{models.PositionQB, models.PositionTE, models.PositionDST, models.PositionK}
	default:
		return []models.Position{models.PositionDST, models.PositionK, models.PositionQB, models.PositionTE}
	}
}

// positional takes the first priority position with need, then the best
// positional value among needed positions, then anyone. Each step is a
// score band so earlier steps always outrank later ones.
func positional(dc DraftContext) []Candidate {
	var target models.Position
	for _, pos := range positionalPriority(dc.Round) {
		if dc.need(pos) <= 0 {
			continue
		}
		for _, e := range dc.Available {
			if e.Position() == pos {
				target = pos
				break
			}
		}
		if target != "" {
			break
		}
	}

	return score(dc, nil, func(e models.PlayerEvaluation) float64 {
		switch {
		case target != "" && e.Position() == target:
			return 2 + e.OverallValue
		case dc.need(e.Position()) > 0:
			return 1 + e.PositionalValue
		default:
			return e.OverallValue
		}
	})
}

func contrarianFilter(e models.PlayerEvaluation) bool {
	return e.ADPDifferential < -15 || e.Upside > 0.6
}

// arbitragePositions are the positions the market tends to ignore in a round
func arbitragePositions(round int) []models.Position {
	var out []models.Position
	if round >= 3 && round <= 6 {
		out = append(out, models.PositionQB)
	}
	if round >= 4 && round <= 8 {
		out = append(out, models.PositionTE)
	}
	return out
}

func contrarian(dc DraftContext) []Candidate {
	cands := score(dc, contrarianFilter, func(e models.PlayerEvaluation) float64 {
		return e.OverallValue + 0.2*e.Upside
	})

	if dc.Rand == nil {
		return cands
	}
	best := arbitrageTarget(dc)
	if best == nil || dc.Rand.Float64() >= arbitrageChance {
		return cands
	}

	top := 1.0
	if len(cands) > 0 {
		top = cands[0].Score + 1
	}
	out := []Candidate{{Player: *best, Score: top}}
	for _, c := range cands {
		if c.Player.ID() != best.ID() {
			out = append(out, c)
		}
	}
	return out
}

// arbitrageTarget is the best player at the first open arbitrage position,
// provided the market is letting that player slide
func arbitrageTarget(dc DraftContext) *models.PlayerEvaluation {
	for _, pos := range arbitragePositions(dc.Round) {
		if dc.need(pos) <= 0 {
			continue
		}
		var best *models.PlayerEvaluation
		for i := range dc.Available {
			e := &dc.Available[i]
			if e.Position() != pos {
				continue
			}
			if best == nil || e.OverallValue > best.OverallValue {
				best = e
			}
		}
		if best != nil && best.ADPDifferential > 0 {
			return best
		}
	}
	return nil
}

func safeFilter(e models.PlayerEvaluation) bool {
	return e.InjuryRisk < 0.4 &&
		e.Consistency > 0.5 &&
		e.Player.YearsExperience >= 3 &&
		e.ADPDifferential <= 15
}

func safe(dc DraftContext) []Candidate {
	return score(dc, safeFilter, func(e models.PlayerEvaluation) float64 {
		s := e.Consistency + e.Floor
		if e.Player.YearsExperience >= 5 {
			s += 0.1
		}
		return s
	})
}

func aggressiveFilter(e models.PlayerEvaluation) bool {
	yrs := e.Player.YearsExperience
	return e.Upside > 0.7 ||
		(yrs <= 4 && e.Upside > 0.5) ||
		e.IsRookie() ||
		e.ADPDifferential < -20
}

func aggressive(dc DraftContext) []Candidate {
	return score(dc, aggressiveFilter, func(e models.PlayerEvaluation) float64 {
		s := e.Upside
		if e.Player.YearsExperience <= 2 {
			s += 0.05
		}
		return s
	})
}

// NeedWeight grows from 0.2 through round 4 to 0.8 in the final round
func NeedWeight(round, totalRounds int) float64 {
	if round <= 4 || totalRounds <= 4 {
		return 0.2
	}
	w := 0.2 + 0.6*float64(round-4)/float64(totalRounds-4)
	return math.Max(0.2, math.Min(0.8, w))
}

func balanced(dc DraftContext) []Candidate {
	w := NeedWeight(dc.Round, dc.TotalRounds)
	return score(dc, nil, func(e models.PlayerEvaluation) float64 {
		return 0.4*e.OverallValue +
			0.3*e.PositionalValue +
			0.2*w*math.Min(1, dc.need(e.Position())) +
			0.1*(1-e.InjuryRisk)
	})
}
