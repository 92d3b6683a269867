package simulator

import (
	"math"
	"math/rand/v2"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/strategy"
)

const (
	sampleTop   = 5
	sampleDecay = 0.7
	// injury-averse managers refuse players at or above this risk when they can
	injuryAverseCutoff = 0.7
)

// Selection is the input for one pick
type Selection struct {
	Personality models.TeamPersonalityProfile
	Roster      Roster
	Round       int
	PickNumber  int
	TotalRounds int
	// PicksLeft counts this team's remaining picks including this one
	PicksLeft int
	Available []models.PlayerEvaluation
	Rand      *rand.Rand
}

// Select runs the round filters, the team's strategy and a weighted draw
// over the top candidates
func Select(s Selection) (strategy.PickRecommendation, error) {
	pool := narrow(s.Available, guardFilter(s))
	pool = narrow(pool, bandFilter(s))
	if s.Personality.Traits.InjuryAverse {
		pool = narrow(pool, func(e models.PlayerEvaluation) bool { return e.InjuryRisk < injuryAverseCutoff })
	}

	dc := strategy.DraftContext{
		Round:       s.Round,
		PickNumber:  s.PickNumber,
		TotalRounds: s.TotalRounds,
		Available:   pool,
		Needs:       Needs(s.Roster),
		Personality: s.Personality,
		Rand:        s.Rand,
	}

	tag := s.Personality.Strategy
	cands, fallback, err := strategy.Rank(tag, dc)
	if err != nil {
		return strategy.PickRecommendation{}, err
	}
	return strategy.Choose(tag, dc, cands, sample(len(cands), s.Rand), fallback), nil
}

// narrow applies keep to players, returning the input unchanged if keep is
// nil or would leave nobody
func narrow(players []models.PlayerEvaluation, keep func(models.PlayerEvaluation) bool) []models.PlayerEvaluation {
	if keep == nil {
		return players
	}
	var out []models.PlayerEvaluation
	for _, e := range players {
		if keep(e) {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return players
	}
	return out
}

// guardFilter forces the remaining picks onto open starting slots once the
// team has no spare picks left
func guardFilter(s Selection) func(models.PlayerEvaluation) bool {
	if s.PicksLeft <= 0 || s.PicksLeft > s.Roster.OpenRequired() {
		return nil
	}
	return func(e models.PlayerEvaluation) bool { return s.Roster.RequiredOpenFor(e.Position()) }
}

// bandFilter limits early rounds to the top of the ADP board and steers late
// rounds to an unfilled kicker or defense
func bandFilter(s Selection) func(models.PlayerEvaluation) bool {
	switch {
	case s.Round <= 3:
		return func(e models.PlayerEvaluation) bool { return e.Player.ADP <= 36 }
	case s.Round <= 6:
		return func(e models.PlayerEvaluation) bool { return e.Player.ADP <= 72 }
	case s.Round >= 13:
		var open []models.Position
		for _, pos := range []models.Position{models.PositionK, models.PositionDST} {
			if s.Roster.RequiredOpenFor(pos) {
				open = append(open, pos)
			}
		}
		if len(open) == 0 {
			return nil
		}
		return func(e models.PlayerEvaluation) bool {
			for _, pos := range open {
				if e.Position() == pos {
					return true
				}
			}
			return false
		}
	}
	return nil
}

// sample draws an index from the top candidates with weights decay^rank.
// A nil source always takes the top candidate.
func sample(n int, r *rand.Rand) int {
	if n <= 1 || r == nil {
		return 0
	}
	n = min(n, sampleTop)

	total := 0.0
	for i := 0; i < n; i++ {
		total += math.Pow(sampleDecay, float64(i))
	}
	u := r.Float64() * total
	for i := 0; i < n; i++ {
		u -= math.Pow(sampleDecay, float64(i))
		if u < 0 {
			return i
		}
	}
	return n - 1
}
