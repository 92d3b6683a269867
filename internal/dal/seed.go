package dal

import (
	"context"
	"fmt"
	"math"
	"sort"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/rng"
)

var nflTeams = []string{
	"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "CLE",
	"DAL", "DEN", "DET", "GB", "HOU", "IND", "JAX", "KC",
	"LV", "LAC", "LAR", "MIA", "MIN", "NE", "NO", "NYG",
	"NYJ", "PHI", "PIT", "SF", "SEA", "TB", "TEN", "WAS",
}

var firstNames = []string{
	"Marcus", "Tyler", "Jalen", "Devin", "Chris", "Andre", "Malik", "Brandon",
	"Josh", "Darius", "Kyle", "Trey", "Isaiah", "Cole", "Jordan", "Xavier",
	"Nate", "Elijah", "Caleb", "Dante",
}

var lastNames = []string{
	"Reed", "Carter", "Hayes", "Brooks", "Mitchell", "Coleman", "Foster", "Wallace",
	"Jenkins", "Porter", "Griffin", "Hughes", "Sanders", "Bryant", "Ellis", "Barnes",
	"Howard", "Fields", "Warren", "Lawson", "Dixon", "Harper", "Tucker", "Graham",
}

// positionCurve shapes the seeded projections per position
type positionCurve struct {
	pos    models.Position
	count  int
	top    float64
	bottom float64
	// market scales projections into draft-day demand before ranking ADP
	market float64
}

var curves = []positionCurve{
	{models.PositionQB, 32, 390, 210, 0.72},
	{models.PositionRB, 60, 310, 60, 1.0},
	{models.PositionWR, 72, 300, 70, 0.98},
	{models.PositionTE, 30, 230, 55, 0.85},
	{models.PositionK, 20, 155, 105, 0.35},
	{models.PositionDST, 32, 150, 70, 0.38},
}

// DefaultPlayers is a deterministic, realistically shaped player pool
func DefaultPlayers() []models.PlayerProfile {
	r := rng.For("default-player-pool", 0)
	bye := make(map[string]int, len(nflTeams))
	for i, t := range nflTeams {
		bye[t] = 5 + (i*7)%10
	}

	var players []models.PlayerProfile
	var demand []float64
	for _, c := range curves {
		for i := 0; i < c.count; i++ {
			// concave decay keeps the elite tier thin
			frac := math.Pow(float64(i)/float64(c.count-1), 0.8)
			proj := c.top - (c.top-c.bottom)*frac + r.NormFloat64()*6

			team := nflTeams[r.IntN(len(nflTeams))]
			name := fmt.Sprintf("%s %s", firstNames[r.IntN(len(firstNames))], lastNames[r.IntN(len(lastNames))])
			if c.pos == models.PositionDST {
				team = nflTeams[i]
				name = team + " Defense"
			}

			p := models.PlayerProfile{
				ID:              fmt.Sprintf("%s-%03d", c.pos, i+1),
				Name:            name,
				Position:        c.pos,
				NFLTeam:         team,
				ProjectedPoints: math.Round(math.Max(proj, c.bottom/2)*10) / 10,
				InjuryStatus:    seedInjury(r.Float64()),
				ByeWeek:         bye[team],
			}
			if c.pos != models.PositionDST {
				p.YearsExperience = seedExperience(r.Float64())
			}
			players = append(players, p)
			demand = append(demand, p.ProjectedPoints*c.market*(0.9+0.2*r.Float64()))
		}
	}

	idx := make([]int, len(players))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return demand[idx[a]] > demand[idx[b]] })
	for rank, i := range idx {
		players[i].ADP = float64(rank + 1)
	}
	return players
}

func seedInjury(x float64) models.InjuryStatus {
	switch {
	case x < 0.01:
		return models.InjuryReserve
	case x < 0.04:
		return models.InjuryOut
	case x < 0.06:
		return models.InjuryDoubtful
	case x < 0.14:
		return models.InjuryQuestionable
	default:
		return models.InjuryHealthy
	}
}

func seedExperience(x float64) int {
	if x < 0.15 {
		return 0
	}
	return 1 + int((x-0.15)/0.85*12)
}

var defaultTeamNames = []string{
	"Gridiron Gurus", "Blitz Brigade", "End Zone Elite", "Red Zone Raiders",
	"Hail Mary Heroes", "Fourth Down Fanatics", "Pocket Passers", "Sideline Sharks",
	"Two-Point Titans", "Waiver Wire Wolves",
}

// defaultOwners link the first seats to users with behavior history
var defaultOwners = []string{"commissioner", "gambler", "grinder"}

// DefaultTeams is the default league's team list in seat order
func DefaultTeams() []models.TeamSeat {
	teams := make([]models.TeamSeat, len(defaultTeamNames))
	for i, name := range defaultTeamNames {
		teams[i] = models.TeamSeat{TeamID: fmt.Sprintf("team-%02d", i+1), Name: name}
		if i < len(defaultOwners) {
			teams[i].OwnerUserID = defaultOwners[i]
		}
	}
	return teams
}

// seedDefaults populates the default league on an empty store
func seedDefaults(ctx context.Context, s Store) error {
	_, err := s.LoadLeagueTeams(ctx, DefaultLeagueID)
	if err == nil {
		return nil
	}
	if !apperrors.IsNotFound(err) {
		return err
	}

	players := DefaultPlayers()
	if err := s.UpsertPlayers(ctx, DefaultLeagueID, players); err != nil {
		return fmt.Errorf("seed players: %w", err)
	}
	if err := s.SaveLeagueTeams(ctx, DefaultLeagueID, DefaultTeams()); err != nil {
		return fmt.Errorf("seed teams: %w", err)
	}
	logger.Info("Seeded default league", "players", len(players), "teams", len(defaultTeamNames))
	return nil
}
