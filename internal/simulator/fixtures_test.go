package simulator

import (
	"fmt"
	"sort"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/evaluator"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// testPool builds a deterministic pool shaped like a real draft board
func testPool() []models.PlayerEvaluation {
	rows := []struct {
		pos    models.Position
		count  int
		top    float64
		step   float64
		market float64
	}{
		{models.PositionQB, 32, 380, 6, 0.7},
		{models.PositionRB, 60, 300, 3.5, 1},
		{models.PositionWR, 72, 290, 3, 1},
		{models.PositionTE, 30, 220, 5, 0.9},
		{models.PositionK, 20, 150, 2, 0.4},
		{models.PositionDST, 20, 140, 3, 0.4},
	}

	var players []models.PlayerProfile
	var market []float64
	for _, s := range rows {
		for i := 0; i < s.count; i++ {
			p := models.PlayerProfile{
				ID:              fmt.Sprintf("%s%02d", s.pos, i+1),
				Name:            fmt.Sprintf("%s Player %d", s.pos, i+1),
				Position:        s.pos,
				NFLTeam:         fmt.Sprintf("T%02d", i%32),
				ProjectedPoints: s.top - s.step*float64(i),
				YearsExperience: (i * 5) % 12,
				ByeWeek:         5 + i%10,
			}
			switch {
			case i%29 == 7:
				p.InjuryStatus = models.InjuryOut
			case i%17 == 3:
				p.InjuryStatus = models.InjuryQuestionable
			}
			players = append(players, p)
			market = append(market, p.ProjectedPoints*s.market)
		}
	}

	idx := make([]int, len(players))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return market[idx[a]] > market[idx[b]] })
	for rank, i := range idx {
		players[i].ADP = float64(rank+1) + float64((rank*7)%11-5)
		if players[i].ADP < 1 {
			players[i].ADP = 1
		}
	}

	return evaluator.EvaluatePool(players, models.Signals{})
}

func testPersonalities(n int) ([]models.TeamPersonalityProfile, []string) {
	var profiles []models.TeamPersonalityProfile
	var order []string
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("team-%02d", i+1)
		profiles = append(profiles, models.TeamPersonalityProfile{
			TeamID:        id,
			TeamName:      fmt.Sprintf("Team %d", i+1),
			Strategy:      models.AllStrategies[i%len(models.AllStrategies)],
			RiskTolerance: 0.5,
		})
		order = append(order, id)
	}
	return profiles, order
}
