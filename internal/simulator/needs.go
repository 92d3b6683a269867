package simulator

import "github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"

// DepthTargets is the ideal number of players per position on a finished roster
var DepthTargets = map[models.Position]int{
	models.PositionQB:  2,
	models.PositionRB:  5,
	models.PositionWR:  6,
	models.PositionTE:  2,
	models.PositionK:   1,
	models.PositionDST: 2,
}

// Needs scores outstanding need per position: one per unfilled starting
// slot, a third per unfilled FLEX for flex-eligible positions, and a quarter
// per player short of the depth target.
func Needs(r Roster) map[models.Position]float64 {
	needs := make(map[models.Position]float64, len(models.AllPositions))
	openFlex := 0
	for i := 0; i < r.Len(); i++ {
		s := r.Slot(i)
		if s.Filled || !s.Required {
			continue
		}
		if s.Kind == models.SlotFLEX {
			openFlex++
			continue
		}
		needs[models.Position(s.Kind)]++
	}

	counts := r.Counts()
	for _, pos := range models.AllPositions {
		if pos.FlexEligible() {
			needs[pos] += float64(openFlex) / 3
		}
		if short := DepthTargets[pos] - counts[pos]; short > 0 {
			needs[pos] += 0.25 * float64(short)
		}
	}
	return needs
}

// PositionBalance is achieved depth over ideal depth, counting no position
// beyond its target
func PositionBalance(counts map[models.Position]int) float64 {
	achieved, ideal := 0, 0
	for pos, target := range DepthTargets {
		ideal += target
		achieved += min(counts[pos], target)
	}
	if ideal == 0 {
		return 0
	}
	return float64(achieved) / float64(ideal)
}
