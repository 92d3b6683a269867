package simulator

import "github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"

// Construct summarizes a drafted roster. Competitiveness and uniqueness
// depend on the other rosters in the batch and are filled by Score.
func Construct(p models.TeamPersonalityProfile, r Roster, evals []models.PlayerEvaluation) models.RosterConstruction {
	byID := make(map[string]models.PlayerEvaluation, len(evals))
	for _, e := range evals {
		byID[e.ID()] = e
	}

	rc := models.RosterConstruction{
		TeamID:          p.TeamID,
		TeamName:        p.TeamName,
		Personality:     p,
		StartingLineup:  r.Starting(),
		Bench:           r.Bench(),
		PositionBalance: PositionBalance(r.Counts()),
	}

	var risk, upside, floor float64
	n := 0
	for _, id := range r.PlayerIDs() {
		e, ok := byID[id]
		if !ok {
			continue
		}
		n++
		rc.TotalValue += e.Player.ProjectedPoints
		risk += e.InjuryRisk
		upside += e.Upside
		floor += e.Floor
		if e.IsRookie() {
			rc.RookieCount++
		}
	}
	if n > 0 {
		risk /= float64(n)
		rc.Upside = upside / float64(n)
		rc.Floor = floor / float64(n)
	}
	rc.RiskProfile = classifyRisk(risk, rc.Upside)
	return rc
}

// classifyRisk discretizes mean injury risk and upside
func classifyRisk(meanRisk, meanUpside float64) models.RiskProfile {
	switch {
	case meanUpside > 0.6 || meanRisk > 0.45:
		return models.RiskAggressive
	case meanRisk < 0.25 && meanUpside < 0.5:
		return models.RiskConservative
	default:
		return models.RiskModerate
	}
}

// Score fills competitiveness and uniqueness across a batch in place.
// Competitiveness is 0.6 of value normalized to the batch best plus 0.4 of
// position balance, nudged up for aggressive and conservative builds.
// Uniqueness is one minus the mean overlap with every roster built before it
// in the batch and every roster in previous.
func Score(rosters []models.RosterConstruction, previous []models.RosterConstruction) {
	maxValue := 0.0
	for _, r := range rosters {
		maxValue = max(maxValue, r.TotalValue)
	}

	for i := range rosters {
		r := &rosters[i]
		norm := 0.0
		if maxValue > 0 {
			norm = r.TotalValue / maxValue
		}
		r.Competitiveness = 0.6*norm + 0.4*r.PositionBalance
		switch r.RiskProfile {
		case models.RiskAggressive:
			r.Competitiveness += 0.1
		case models.RiskConservative:
			r.Competitiveness += 0.05
		}

		compare := make([]models.RosterConstruction, 0, i+len(previous))
		compare = append(compare, rosters[:i]...)
		compare = append(compare, previous...)
		r.Uniqueness = Uniqueness(*r, compare)
	}
}

// Uniqueness is 1 − mean overlap fraction of r's players with each roster
// in others. A roster with nothing to compare against is fully unique.
func Uniqueness(r models.RosterConstruction, others []models.RosterConstruction) float64 {
	ids := r.PlayerIDs()
	if len(ids) == 0 || len(others) == 0 {
		return 1
	}

	total := 0.0
	for _, o := range others {
		theirs := make(map[string]bool)
		for _, id := range o.PlayerIDs() {
			theirs[id] = true
		}
		shared := 0
		for _, id := range ids {
			if theirs[id] {
				shared++
			}
		}
		total += float64(shared) / float64(len(ids))
	}
	return 1 - total/float64(len(others))
}
