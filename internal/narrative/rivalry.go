package narrative

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/textgen"
)

const (
	rivalryThreshold = 3
	maxRivalsPerTeam = 2
)

// opposites are archetype pairs with clashing philosophies
var opposites = map[models.Strategy]models.Strategy{
	models.StrategyValueBased: models.StrategyContrarian,
	models.StrategyContrarian: models.StrategyValueBased,
	models.StrategySafe:       models.StrategyAggressive,
	models.StrategyAggressive: models.StrategySafe,
	models.StrategyPositional: models.StrategyBalanced,
	models.StrategyBalanced:   models.StrategyPositional,
}

// UniqueFactors picks up to three traits that set a roster apart
func UniqueFactors(r models.RosterConstruction) []string {
	var f []string
	add := func(ok bool, s string) {
		if ok && len(f) < 3 {
			f = append(f, s)
		}
	}

	t := r.Personality.Traits
	add(r.RiskProfile == models.RiskAggressive, "high-ceiling build")
	add(r.RiskProfile == models.RiskConservative, "low-variance build")
	add(r.RookieCount >= 3, "youth movement")
	add(r.Uniqueness < 0.7, "familiar core")
	add(r.PositionBalance >= 0.9, "deep at every position")
	add(t.SleeperHunter, "sleeper-heavy")
	add(t.VeteranBias, "veteran leadership")
	add(t.UpsideChaser, "boom-or-bust upside")
	add(t.InjuryAverse, "clean bill of health")
	add(t.HandcuffsLover, "running back insurance")
	add(t.ConsistencyFocused, "weekly consistency")

	if len(f) == 0 {
		f = append(f, textgen.StrategyLabel(r.Personality.Strategy)+" approach")
	}
	return f
}

// rivalryScore rates how much two teams are likely to clash
func rivalryScore(a, b models.RosterConstruction) (int, string) {
	score := 0
	reason := ""
	if opposites[a.Personality.Strategy] == b.Personality.Strategy {
		score += 2
		reason = "opposing draft philosophies"
	}

	switch d := math.Abs(a.Competitiveness - b.Competitiveness); {
	case d < 0.05:
		score += 2
	case d < 0.1:
		score++
	}
	switch d := math.Abs(a.ProjectedWins - b.ProjectedWins); {
	case d <= 0.5:
		score += 2
	case d <= 1:
		score++
	}

	if reason == "" {
		reason = "nearly identical projections"
	} else if score > 2 {
		reason += " and nearly identical projections"
	}
	return score, reason
}

// Rivalries scores every pair and greedily assigns pairs scoring at least 3,
// best first with ties in random order, at most two per team
func Rivalries(rosters []models.RosterConstruction, r *rand.Rand) []models.Rivalry {
	var pairs []models.Rivalry
	for i := 0; i < len(rosters); i++ {
		for j := i + 1; j < len(rosters); j++ {
			score, reason := rivalryScore(rosters[i], rosters[j])
			if score < rivalryThreshold {
				continue
			}
			pairs = append(pairs, models.Rivalry{TeamA: rosters[i].TeamID, TeamB: rosters[j].TeamID, Score: score, Reason: reason})
		}
	}

	if r != nil {
		r.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })

	count := make(map[string]int)
	var out []models.Rivalry
	for _, p := range pairs {
		if count[p.TeamA] >= maxRivalsPerTeam || count[p.TeamB] >= maxRivalsPerTeam {
			continue
		}
		count[p.TeamA]++
		count[p.TeamB]++
		out = append(out, p)
	}
	return out
}

func attachRivals(rosters []models.RosterConstruction, rivalries []models.Rivalry) {
	names := make(map[string]string, len(rosters))
	for _, r := range rosters {
		names[r.TeamID] = r.TeamName
	}
	for i := range rosters {
		rosters[i].Rivals = nil
		for _, rv := range rivalries {
			switch rosters[i].TeamID {
			case rv.TeamA:
				rosters[i].Rivals = append(rosters[i].Rivals, names[rv.TeamB])
			case rv.TeamB:
				rosters[i].Rivals = append(rosters[i].Rivals, names[rv.TeamA])
			}
		}
	}
}

// KeyMatchups combines rivalry games with games between the top four
// contenders, placed at random regular-season weeks, capped at eight
func KeyMatchups(rosters []models.RosterConstruction, rivalries []models.Rivalry, r *rand.Rand) []models.Matchup {
	week := func() int {
		if r == nil {
			return 1
		}
		return 1 + r.IntN(seasonWeeks)
	}
	key := func(a, b string) string {
		if a > b {
			a, b = b, a
		}
		return a + "|" + b
	}

	seen := make(map[string]bool)
	var out []models.Matchup
	for _, rv := range rivalries {
		seen[key(rv.TeamA, rv.TeamB)] = true
		out = append(out, models.Matchup{Week: week(), TeamA: rv.TeamA, TeamB: rv.TeamB, Kind: "rivalry", Hype: float64(rv.Score) / 6})
	}

	order := ranked(rosters)
	top := order[:min(contenderCount, len(order))]
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			a, b := rosters[top[i]], rosters[top[j]]
			if seen[key(a.TeamID, b.TeamID)] {
				continue
			}
			seen[key(a.TeamID, b.TeamID)] = true
			hype := (a.Competitiveness + b.Competitiveness) / 2
			out = append(out, models.Matchup{Week: week(), TeamA: a.TeamID, TeamB: b.TeamID, Kind: "contender", Hype: math.Min(1, hype)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Hype != out[j].Hype {
			return out[i].Hype > out[j].Hype
		}
		return out[i].Week < out[j].Week
	})
	if len(out) > maxMatchups {
		out = out[:maxMatchups]
	}
	return out
}

// leagueStorylines are the template league storylines, in display order
func leagueStorylines(rosters []models.RosterConstruction, tiers models.PlayoffTiers) []string {
	if len(rosters) == 0 {
		return nil
	}
	names := make(map[string]string, len(rosters))
	strategies := make(map[models.Strategy]bool)
	rookieTeam, rookies := "", 0
	for _, r := range rosters {
		names[r.TeamID] = r.TeamName
		strategies[r.Personality.Strategy] = true
		if r.RookieCount > rookies {
			rookieTeam, rookies = r.TeamName, r.RookieCount
		}
	}

	var contenders []string
	for _, id := range tiers.Favorites {
		contenders = append(contenders, names[id])
	}

	out := []string{
		textgen.ChampionshipRace(contenders),
		textgen.StrategyDiversity(len(strategies), len(rosters)),
	}
	if rookies >= 3 {
		out = append(out, textgen.RookieHeavy(rookieTeam, rookies))
	}
	if len(tiers.Sleepers) > 0 {
		out = append(out, textgen.SleeperCallout(names[tiers.Sleepers[0]]))
	}
	return out
}
