// Package strategy scores the available player pool for one pick. Each
// archetype is a filter, rank and select pipeline; when an archetype's filter
// leaves nobody, the pipeline falls back to best available by value so a pick
// is never skipped.
package strategy

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/board"
	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/textgen"
)

const (
	maxConfidence   = 0.95
	maxAlternatives = 3
)

// DraftContext is everything a strategy sees when making one pick
type DraftContext struct {
	Round       int
	PickNumber  int
	TotalRounds int
	// Available is the undrafted pool
	Available []models.PlayerEvaluation
	// Needs is the outstanding need per position, see simulator.Needs
	Needs       map[models.Position]float64
	Personality models.TeamPersonalityProfile
	// Rand drives the contrarian arbitrage coin flip. Nil disables it.
	Rand *rand.Rand
}

func (dc DraftContext) need(pos models.Position) float64 {
	return dc.Needs[pos]
}

// Candidate is a scored player
type Candidate struct {
	Player models.PlayerEvaluation
	Score  float64
}

// PickRecommendation is the outcome of running a strategy for one pick
type PickRecommendation struct {
	Player       models.PlayerEvaluation
	Candidates   []Candidate
	Confidence   float64
	Alternatives []string
	Reasoning    string
	// Fallback is set when the archetype's own filter found nobody
	Fallback bool
}

// Rank scores candidates for a strategy, best first. The bool reports
// whether the best-available fallback was used.
func Rank(tag models.Strategy, dc DraftContext) ([]Candidate, bool, error) {
	if len(dc.Available) == 0 {
		return nil, false, &apperrors.Error{Kind: apperrors.ErrCandidateExhaustion, Message: "player pool is empty"}
	}

	var cands []Candidate
	switch tag {
	case models.StrategyValueBased:
		cands = valueBased(dc)
	case models.StrategyPositional:
		cands = positional(dc)
	case models.StrategyContrarian:
		cands = contrarian(dc)
	case models.StrategySafe:
		cands = safe(dc)
	case models.StrategyAggressive:
		cands = aggressive(dc)
	case models.StrategyBalanced:
		cands = balanced(dc)
	default:
		return nil, false, apperrors.Validationf("unknown strategy %q", tag)
	}

	if len(cands) == 0 {
		return bestAvailable(dc), true, nil
	}
	return cands, false, nil
}

// Choose builds the recommendation for the candidate at index idx, listing
// the best of the others as alternatives
func Choose(tag models.Strategy, dc DraftContext, cands []Candidate, idx int, fallback bool) PickRecommendation {
	chosen := cands[idx]

	alts := make([]string, 0, maxAlternatives)
	for i, c := range cands {
		if len(alts) == maxAlternatives {
			break
		}
		if i != idx {
			alts = append(alts, c.Player.ID())
		}
	}

	return PickRecommendation{
		Player:       chosen.Player,
		Candidates:   cands,
		Confidence:   Confidence(tag, dc, chosen.Player, fallback),
		Alternatives: alts,
		Reasoning:    textgen.Reasoning(tag, dc.Round, chosen.Player.Player),
		Fallback:     fallback,
	}
}

// Confidence is an archetype-fit bonus plus a round bonus plus a
// need-satisfaction bonus on a 0.5 base, capped at 0.95
func Confidence(tag models.Strategy, dc DraftContext, e models.PlayerEvaluation, fallback bool) float64 {
	c := 0.5
	if !fallback && fits(tag, e) {
		c += 0.2
	}
	switch {
	case dc.Round <= 3:
		c += 0.1
	case dc.Round <= 8:
		c += 0.05
	}
	if dc.need(e.Position()) >= 1 {
		c += 0.15
	} else if dc.need(e.Position()) > 0 {
		c += 0.05
	}
	return math.Min(c, maxConfidence)
}

// fits reports whether a player matches the archetype's primary filter
func fits(tag models.Strategy, e models.PlayerEvaluation) bool {
	switch tag {
	case models.StrategyContrarian:
		return contrarianFilter(e)
	case models.StrategySafe:
		return safeFilter(e)
	case models.StrategyAggressive:
		return aggressiveFilter(e)
	default:
		return true
	}
}

// adjust is the score shared by every archetype: personality traits, need
// and risk appetite
func adjust(dc DraftContext, e models.PlayerEvaluation) float64 {
	adj := board.TraitAdjustment(dc.Personality, e)

	n := dc.need(e.Position())
	if n > 0 {
		adj += 0.1 * math.Min(1, n)
	} else if dc.Needs != nil {
		adj -= 0.2
	}

	adj += 0.05 * (dc.Personality.RiskTolerance - 0.5) * (e.Upside - e.Floor)
	return adj
}

func sortCandidates(cands []Candidate) []Candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Player.ID() < cands[j].Player.ID()
	})
	return cands
}

func score(dc DraftContext, keep func(models.PlayerEvaluation) bool, base func(models.PlayerEvaluation) float64) []Candidate {
	var cands []Candidate
	for _, e := range dc.Available {
		if keep != nil && !keep(e) {
			continue
		}
		cands = append(cands, Candidate{Player: e, Score: base(e) + adjust(dc, e)})
	}
	return sortCandidates(cands)
}

// bestAvailable ranks the whole pool by overall value alone
func bestAvailable(dc DraftContext) []Candidate {
	cands := make([]Candidate, 0, len(dc.Available))
	for _, e := range dc.Available {
		cands = append(cands, Candidate{Player: e, Score: e.OverallValue})
	}
	return sortCandidates(cands)
}

func overall(e models.PlayerEvaluation) float64 { return e.OverallValue }

// neededFilter keeps positions with outstanding need, or everyone when all
// needs are met
func neededFilter(dc DraftContext) func(models.PlayerEvaluation) bool {
	anyNeed := false
	for _, n := range dc.Needs {
		if n > 0 {
			anyNeed = true
			break
		}
	}
	if !anyNeed {
		return nil
	}
	return func(e models.PlayerEvaluation) bool { return dc.need(e.Position()) > 0 }
}
