// Package board builds the shared draft board: positional tiers, per-team
// personalized rankings and the sleeper/bust/breakout watchlists.
package board

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

const (
	TierSize      = 12
	WatchlistSize = 10
)

// Build assembles a DraftBoard from evaluated players. Rankings for each
// team are computed concurrently; the evaluations are only read.
func Build(ctx context.Context, evals []models.PlayerEvaluation, personalities []models.TeamPersonalityProfile) (models.DraftBoard, error) {
	b := models.DraftBoard{
		Evaluations:          evals,
		Tiers:                Tiers(evals, TierSize),
		PersonalizedRankings: make(map[string][]models.RankedPlayer, len(personalities)),
		Sleepers:             Sleepers(evals, WatchlistSize),
		Busts:                Busts(evals, WatchlistSize),
		Breakouts:            Breakouts(evals, WatchlistSize),
	}

	rankings := make([][]models.RankedPlayer, len(personalities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, p := range personalities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rankings[i] = Personalize(evals, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.DraftBoard{}, err
	}

	for i, p := range personalities {
		b.PersonalizedRankings[p.TeamID] = rankings[i]
	}
	return b, nil
}

// Tiers groups each position's players, best positionalValue first, into
// bands of size players
func Tiers(evals []models.PlayerEvaluation, size int) map[models.Position][]models.Tier {
	if size <= 0 {
		size = TierSize
	}
	byPos := make(map[models.Position][]models.PlayerEvaluation)
	for _, e := range evals {
		byPos[e.Position()] = append(byPos[e.Position()], e)
	}

	tiers := make(map[models.Position][]models.Tier, len(byPos))
	for pos, list := range byPos {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].PositionalValue != list[j].PositionalValue {
				return list[i].PositionalValue > list[j].PositionalValue
			}
			return list[i].ID() < list[j].ID()
		})
		for start := 0; start < len(list); start += size {
			end := min(start+size, len(list))
			ids := make([]string, 0, end-start)
			for _, e := range list[start:end] {
				ids = append(ids, e.ID())
			}
			tiers[pos] = append(tiers[pos], models.Tier{Number: len(tiers[pos]) + 1, PlayerIDs: ids})
		}
	}
	return tiers
}

// Personalize re-scores every player for one team and sorts best first
func Personalize(evals []models.PlayerEvaluation, p models.TeamPersonalityProfile) []models.RankedPlayer {
	ranked := make([]models.RankedPlayer, len(evals))
	for i, e := range evals {
		ranked[i] = models.RankedPlayer{PlayerID: e.ID(), Score: e.OverallValue + TraitAdjustment(p, e)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].PlayerID < ranked[j].PlayerID
	})
	return ranked
}

// TraitAdjustment is the additive bonus or penalty a personality applies to
// a player's overall value
func TraitAdjustment(p models.TeamPersonalityProfile, e models.PlayerEvaluation) float64 {
	adj := 0.0
	t := p.Traits
	yrs := e.Player.YearsExperience

	if t.RookieFocused && e.IsRookie() {
		adj += 0.08
	}
	if t.VeteranBias {
		switch {
		case yrs >= 5:
			adj += 0.05
		case e.IsRookie():
			adj -= 0.05
		}
	}
	if t.InjuryAverse && e.InjuryRisk > 0.3 {
		adj -= 0.3 * (e.InjuryRisk - 0.3)
	}
	if t.HandcuffsLover && e.Position() == models.PositionRB {
		adj += 0.03
	}
	if t.SleeperHunter && e.ADPDifferential > 20 {
		adj += 0.06
	}
	if t.ConsistencyFocused {
		adj += 0.05 * e.Consistency
	}
	if t.UpsideChaser {
		adj += 0.05 * e.Upside
	}
	if w, ok := p.PositionPreferences[e.Position()]; ok {
		adj += 0.05 * (w - 1)
	}
	return adj
}

// Sleepers are players the market drafts more than 20 picks later than their
// value implies, with upside above 0.7
func Sleepers(evals []models.PlayerEvaluation, n int) []string {
	return watchlist(evals, n,
		func(e models.PlayerEvaluation) bool { return e.ADPDifferential > 20 && e.Upside > 0.7 },
		func(e models.PlayerEvaluation) float64 { return e.ADPDifferential })
}

// Busts are players drafted more than 20 picks ahead of their value who also
// carry injury risk above 0.6
func Busts(evals []models.PlayerEvaluation, n int) []string {
	return watchlist(evals, n,
		func(e models.PlayerEvaluation) bool { return e.ADPDifferential < -20 && e.InjuryRisk > 0.6 },
		func(e models.PlayerEvaluation) float64 { return -e.ADPDifferential })
}

// Breakouts are young players with upside above 0.8
func Breakouts(evals []models.PlayerEvaluation, n int) []string {
	return watchlist(evals, n,
		func(e models.PlayerEvaluation) bool { return e.Upside > 0.8 && e.Player.YearsExperience <= 4 },
		func(e models.PlayerEvaluation) float64 { return e.Upside })
}

func watchlist(evals []models.PlayerEvaluation, n int, keep func(models.PlayerEvaluation) bool, score func(models.PlayerEvaluation) float64) []string {
	var hits []models.PlayerEvaluation
	for _, e := range evals {
		if keep(e) {
			hits = append(hits, e)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		si, sj := score(hits[i]), score(hits[j])
		if si != sj {
			return si > sj
		}
		return hits[i].ID() < hits[j].ID()
	})
	if n > 0 && len(hits) > n {
		hits = hits[:n]
	}
	ids := make([]string, 0, len(hits))
	for _, e := range hits {
		ids = append(ids, e.ID())
	}
	return ids
}
