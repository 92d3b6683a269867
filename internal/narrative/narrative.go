// Package narrative turns a batch of balanced rosters into a league story:
// projected wins, unique factors, playoff tiers, rivalries, storylines and
// key matchups.
package narrative

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/balance"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/rng"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/textgen"
)

const (
	tierSize       = 3
	maxMatchups    = 8
	contenderCount = 4
	seasonWeeks    = 14
	flatWins       = 7
)

// Assigner runs the narrative pass
type Assigner struct {
	text *textgen.Writer
	now  func() time.Time
}

// NewAssigner creates an Assigner. text may be nil for template-only output.
func NewAssigner(text *textgen.Writer) *Assigner {
	return &Assigner{text: text, now: time.Now}
}

// Assign builds the LeagueComposition. rosters are annotated in place with
// projected wins, unique factors, storylines and rivals.
func (a *Assigner) Assign(ctx context.Context, leagueID string, generation int, rosters []models.RosterConstruction, seed string) (models.LeagueComposition, error) {
	ProjectWins(rosters)
	for i := range rosters {
		rosters[i].UniqueFactors = UniqueFactors(rosters[i])
	}

	r := rng.For(seed, 1)
	tiers := Tiers(rosters)
	rivalries := Rivalries(rosters, r)
	attachRivals(rosters, rivalries)

	league := leagueStorylines(rosters, tiers)
	storylines := make([]string, len(league))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range rosters {
		g.Go(func() error {
			text, _ := a.text.Text(gctx, textgen.Request{
				Kind:     textgen.KindStoryline,
				Prompt:   textgen.TeamStorylinePrompt(rosters[i]),
				Fallback: textgen.TeamStoryline(rosters[i]),
			})
			rosters[i].Storyline = text
			return nil
		})
	}
	for i, fallback := range league {
		g.Go(func() error {
			storylines[i], _ = a.text.Text(gctx, textgen.Request{
				Kind:     textgen.KindStoryline,
				Prompt:   textgen.LeagueStorylinePrompt(fallback),
				Fallback: fallback,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.LeagueComposition{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.LeagueComposition{}, err
	}

	return models.LeagueComposition{
		LeagueID:           leagueID,
		Generation:         generation,
		Rosters:            rosters,
		CompetitiveBalance: CompetitiveBalance(rosters),
		ParityScore:        Parity(rosters),
		Storylines:         storylines,
		PlayoffTiers:       tiers,
		Rivalries:          rivalries,
		KeyMatchups:        KeyMatchups(rosters, rivalries, r),
		GeneratedAt:        a.now().UTC(),
	}, nil
}

// ProjectWins maps competitiveness linearly onto 3 to 11 wins
func ProjectWins(rosters []models.RosterConstruction) {
	if len(rosters) == 0 {
		return
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rosters {
		lo = math.Min(lo, r.Competitiveness)
		hi = math.Max(hi, r.Competitiveness)
	}
	for i := range rosters {
		if hi-lo < 1e-9 {
			rosters[i].ProjectedWins = flatWins
			continue
		}
		w := 3 + 8*(rosters[i].Competitiveness-lo)/(hi-lo)
		rosters[i].ProjectedWins = math.Round(w*10) / 10
	}
}

// strength orders teams for playoff tiers
func strength(r models.RosterConstruction) float64 {
	return r.ProjectedWins + r.Competitiveness
}

// ranked returns roster indexes strongest first
func ranked(rosters []models.RosterConstruction) []int {
	idx := make([]int, len(rosters))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := strength(rosters[idx[a]]), strength(rosters[idx[b]])
		if sa != sb {
			return sa > sb
		}
		return rosters[idx[a]].TeamID < rosters[idx[b]].TeamID
	})
	return idx
}

// Tiers buckets teams into favorites (top 3), wildcards (next 3) and
// sleepers (bottom 3 not already placed)
func Tiers(rosters []models.RosterConstruction) models.PlayoffTiers {
	order := ranked(rosters)
	var t models.PlayoffTiers
	for pos, i := range order {
		id := rosters[i].TeamID
		switch {
		case pos < tierSize:
			t.Favorites = append(t.Favorites, id)
		case pos < 2*tierSize:
			t.Wildcards = append(t.Wildcards, id)
		case pos >= len(order)-tierSize:
			t.Sleepers = append(t.Sleepers, id)
		}
	}
	return t
}

// CompetitiveBalance is 1 − σ/mean of competitiveness, clipped to [0,1]
func CompetitiveBalance(rosters []models.RosterConstruction) float64 {
	mean, sd := balance.MeanStdDev(rosters)
	if mean <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, 1-sd/mean))
}

// Parity is 1 − (max − min)/max of competitiveness
func Parity(rosters []models.RosterConstruction) float64 {
	if len(rosters) == 0 {
		return 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rosters {
		lo = math.Min(lo, r.Competitiveness)
		hi = math.Max(hi, r.Competitiveness)
	}
	if hi <= 0 {
		return 0
	}
	return math.Max(0, 1-(hi-lo)/hi)
}
