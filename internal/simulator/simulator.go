// Package simulator runs offline mock drafts: every team drafts a full roster
// against one shared, depleting pool, and the finished rosters are scored.
package simulator

import (
	"context"
	"fmt"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/rng"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/snake"
)

const DefaultRounds = 15

// Simulator drives mock drafts with a fixed round count and roster template
type Simulator struct {
	rounds   int
	template models.RosterTemplate
}

// New creates a Simulator; zero values select the defaults
func New(rounds int, template models.RosterTemplate) *Simulator {
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	if template == nil {
		template = models.DefaultRosterTemplate()
	}
	return &Simulator{rounds: rounds, template: template}
}

// Rounds is the number of picks each team makes
func (s *Simulator) Rounds() int { return s.rounds }

// Run simulates a snake draft across all teams. order is the round-one pick
// order by team id. Every weighted draw is seeded from (seed, pick number).
// previous holds rosters from an earlier run to measure uniqueness against.
func (s *Simulator) Run(ctx context.Context, personalities []models.TeamPersonalityProfile, order []string, evals []models.PlayerEvaluation, seed string, previous []models.RosterConstruction) ([]models.RosterConstruction, error) {
	byTeam := make(map[string]models.TeamPersonalityProfile, len(personalities))
	for _, p := range personalities {
		byTeam[p.TeamID] = p
	}
	if len(order) != len(byTeam) {
		return nil, apperrors.Validationf("draft order has %d teams but %d personalities", len(order), len(byTeam))
	}
	for _, id := range order {
		if _, ok := byTeam[id]; !ok {
			return nil, apperrors.Validationf("team %s has no personality", id)
		}
	}

	total := s.rounds * len(order)
	pool := NewPool(evals, nil)
	if pool.Remaining() < total {
		return nil, apperrors.CandidateExhaustionf("pool has %d players for %d picks", pool.Remaining(), total)
	}
	rosters := make(map[string]Roster, len(order))
	for _, id := range order {
		rosters[id] = NewRoster(s.template)
	}

	for pick := 1; pick <= total; pick++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		teamID, round := snake.Team(pick, order)

		rec, err := Select(Selection{
			Personality: byTeam[teamID],
			Roster:      rosters[teamID],
			Round:       round,
			PickNumber:  pick,
			TotalRounds: s.rounds,
			PicksLeft:   s.rounds - round + 1,
			Available:   pool.Snapshot(),
			Rand:        rng.For(seed, uint64(pick)),
		})
		if err != nil {
			return nil, fmt.Errorf("pick %d for %s: %w", pick, teamID, err)
		}
		if !pool.Claim(rec.Player.ID()) {
			return nil, apperrors.Conflictf("player %s already drafted", rec.Player.ID())
		}

		p := rec.Player.Player
		rosters[teamID], _ = rosters[teamID].Place(p.ID, p.Name, p.Position, round, rec.Reasoning)
	}

	out := make([]models.RosterConstruction, 0, len(order))
	for _, id := range order {
		out = append(out, Construct(byTeam[id], rosters[id], evals))
	}
	Score(out, previous)

	logger.Debug("Simulated draft", "seed", seed, "teams", len(order), "picks", total)
	return out, nil
}
