package textgen

import (
	"fmt"
	"strings"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// roundPhase buckets a round into early, middle or late
func roundPhase(round int) string {
	switch {
	case round <= 3:
		return "early"
	case round <= 9:
		return "middle"
	default:
		return "late"
	}
}

var reasoningTemplates = map[models.Strategy]map[string]string{
	models.StrategyValueBased: {
		"early":  "%s is the best value left on the board, an easy call at this spot.",
		"middle": "%s offers more projected value than anything else available in round %d.",
		"late":   "Value is value: %s still outscores the remaining pool this late.",
	},
	models.StrategyPositional: {
		"early":  "Locking in %s at %s before the position dries up.",
		"middle": "%s fills the %s need the roster plan calls for in round %d.",
		"late":   "Checking off %s with %s to finish the lineup.",
	},
	models.StrategyContrarian: {
		"early":  "The room is sleeping on %s, so we zig while they zag.",
		"middle": "%s is going later than the numbers say, and we are happy to exploit it in round %d.",
		"late":   "Nobody wants %s, which is exactly why we do.",
	},
	models.StrategySafe: {
		"early":  "%s is a proven, healthy producer we can count on every week.",
		"middle": "Bankable floor from %s in round %d, no drama needed.",
		"late":   "%s is a steady veteran to shore up the depth chart.",
	},
	models.StrategyAggressive: {
		"early":  "Swinging big on %s and the league-winning ceiling.",
		"middle": "%s has breakout written all over him, worth the round %d gamble.",
		"late":   "Lottery ticket time: %s could hit big.",
	},
	models.StrategyBalanced: {
		"early":  "%s blends value and need better than anyone else here.",
		"middle": "%s balances the roster and the board in round %d.",
		"late":   "%s rounds out a well balanced build.",
	},
}

// Reasoning is the template explanation for a pick
func Reasoning(strategy models.Strategy, round int, player models.PlayerProfile) string {
	byPhase, ok := reasoningTemplates[strategy]
	if !ok {
		byPhase = reasoningTemplates[models.StrategyBalanced]
	}
	phase := roundPhase(round)
	tmpl := byPhase[phase]

	switch {
	case strategy == models.StrategyPositional && phase == "middle":
		return fmt.Sprintf(tmpl, player.Name, player.Position, round)
	case strategy == models.StrategyPositional:
		if phase == "early" {
			return fmt.Sprintf(tmpl, player.Name, player.Position)
		}
		return fmt.Sprintf(tmpl, player.Position, player.Name)
	case phase == "middle":
		return fmt.Sprintf(tmpl, player.Name, round)
	default:
		return fmt.Sprintf(tmpl, player.Name)
	}
}

// ReasoningPrompt asks for a one-line pick explanation
func ReasoningPrompt(p models.TeamPersonalityProfile, round int, player models.PlayerProfile, alternatives []string) string {
	return fmt.Sprintf(
		"Team %s drafts with a %s strategy (risk tolerance %.2f). In round %d they selected %s, %s, %s. Other options were: %s. Explain the pick in their voice.",
		p.TeamName, p.Strategy, p.RiskTolerance, round, player.Name, player.Position, player.NFLTeam, strings.Join(alternatives, ", "),
	)
}

// DraftNotesPrompt asks for a manager's draft philosophy
func DraftNotesPrompt(teamName string, strategy models.Strategy, risk float64, b models.UserBehavior) string {
	return fmt.Sprintf(
		"Write draft notes for fantasy manager %s who follows a %s strategy with risk tolerance %.2f. Their history shows risk tolerance %.2f and engagement %.2f over %d drafts.",
		teamName, strategy, risk, b.RiskTolerance, b.Engagement, b.DraftsPlayed,
	)
}

var strategyLabels = map[models.Strategy]string{
	models.StrategyValueBased: "value hunter",
	models.StrategyPositional: "roster architect",
	models.StrategyContrarian: "contrarian",
	models.StrategySafe:       "risk-averse grinder",
	models.StrategyAggressive: "boom-or-bust gambler",
	models.StrategyBalanced:   "balanced builder",
}

// StrategyLabel is a short human name for an archetype
func StrategyLabel(s models.Strategy) string {
	if l, ok := strategyLabels[s]; ok {
		return l
	}
	return string(s)
}

// TeamStoryline is the template storyline for one roster
func TeamStoryline(r models.RosterConstruction) string {
	switch r.RiskProfile {
	case models.RiskAggressive:
		return fmt.Sprintf("%s, the %s, built a high-ceiling roster that could win it all or crater by midseason.", r.TeamName, StrategyLabel(r.Personality.Strategy))
	case models.RiskConservative:
		return fmt.Sprintf("%s, the %s, will grind out wins with a dependable, low-variance lineup.", r.TeamName, StrategyLabel(r.Personality.Strategy))
	default:
		return fmt.Sprintf("%s, the %s, enters the season with a steady roster and room to surprise.", r.TeamName, StrategyLabel(r.Personality.Strategy))
	}
}

// TeamStorylinePrompt asks for a preseason blurb about one roster
func TeamStorylinePrompt(r models.RosterConstruction) string {
	return fmt.Sprintf(
		"Write a one-sentence preseason storyline for %s, a %s fantasy team with a %s risk profile, competitiveness %.2f and %d rookies.",
		r.TeamName, r.Personality.Strategy, r.RiskProfile, r.Competitiveness, r.RookieCount,
	)
}

// ChampionshipRace is the league storyline about the top contenders
func ChampionshipRace(teams []string) string {
	switch len(teams) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s enters the season as the clear team to beat.", teams[0])
	default:
		return fmt.Sprintf("The title race runs through %s and %s.", strings.Join(teams[:len(teams)-1], ", "), teams[len(teams)-1])
	}
}

// StrategyDiversity calls out how many philosophies are in the league
func StrategyDiversity(distinct, teams int) string {
	if distinct >= teams {
		return fmt.Sprintf("All %d managers drafted with a different philosophy, so no two rosters look alike.", teams)
	}
	return fmt.Sprintf("%d distinct draft philosophies are competing across %d teams.", distinct, teams)
}

// RookieHeavy calls out the team leaning hardest on rookies
func RookieHeavy(team string, rookies int) string {
	return fmt.Sprintf("%s is betting on youth with %d rookies on the roster.", team, rookies)
}

// SleeperCallout calls out a low-ranked team with upside
func SleeperCallout(team string) string {
	return fmt.Sprintf("Do not sleep on %s: the roster has more upside than the projections admit.", team)
}

// LeagueStorylinePrompt asks for one league-wide storyline
func LeagueStorylinePrompt(fallback string) string {
	return "Rewrite this fantasy league storyline with more flair, keeping every fact: " + fallback
}
