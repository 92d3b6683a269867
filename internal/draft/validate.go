package draft

import (
	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/snake"
)

// Validate checks a loaded DraftState against the draft invariants. Any
// violation is a StateCorruption error.
func Validate(s *models.DraftState) error {
	if s == nil {
		return apperrors.StateCorruptionf("draft state is missing")
	}

	teams := make(map[string]bool, len(s.DraftOrder))
	for _, id := range s.DraftOrder {
		if teams[id] {
			return apperrors.StateCorruptionf("team %s appears twice in the draft order", id)
		}
		teams[id] = true
		if _, ok := s.Personality(id); !ok {
			return apperrors.StateCorruptionf("team %s has no personality", id)
		}
	}
	if len(s.DraftOrder) == 0 || len(s.DraftOrder) != len(s.Personalities) {
		return apperrors.StateCorruptionf("draft order has %d teams for %d personalities", len(s.DraftOrder), len(s.Personalities))
	}

	total := s.TotalPicks()
	if s.CurrentPick < 1 || s.CurrentPick > total+1 {
		return apperrors.StateCorruptionf("current pick %d out of range 1..%d", s.CurrentPick, total+1)
	}
	if len(s.Picks) != s.CurrentPick-1 {
		return apperrors.StateCorruptionf("%d picks recorded at current pick %d", len(s.Picks), s.CurrentPick)
	}

	drafted := make(map[string]int, len(s.Picks))
	for i, p := range s.Picks {
		if p.PickNumber != i+1 {
			return apperrors.StateCorruptionf("pick %d recorded as number %d", i+1, p.PickNumber)
		}
		if team, _ := snake.Team(p.PickNumber, s.DraftOrder); team != p.TeamID {
			return apperrors.StateCorruptionf("pick %d made by %s, expected %s", p.PickNumber, p.TeamID, team)
		}
		if prev, dup := drafted[p.PlayerID]; dup {
			return apperrors.StateCorruptionf("player %s drafted at picks %d and %d", p.PlayerID, prev, p.PickNumber)
		}
		drafted[p.PlayerID] = p.PickNumber
	}

	if s.Completed && s.CurrentPick != total+1 {
		return apperrors.StateCorruptionf("draft marked completed at pick %d of %d", s.CurrentPick, total)
	}
	return nil
}
