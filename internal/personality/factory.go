// Package personality assigns a drafting personality to every team in a draft.
package personality

import (
	"context"
	"math"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/behavior"
	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/rng"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/textgen"
)

const (
	riskJitter       = 0.1
	aggressiveCutoff = 0.75
	safeCutoff       = 0.25
	engagedCutoff    = 0.7
	archetypeWeight  = 0.7
)

// Factory builds TeamPersonalityProfiles. Both collaborators are optional.
type Factory struct {
	behavior behavior.Provider
	text     *textgen.Writer
}

// NewFactory creates a Factory
func NewFactory(b behavior.Provider, text *textgen.Writer) *Factory {
	return &Factory{behavior: b, text: text}
}

// Build assigns one profile per team. seed keys every random choice, so the
// same seed and teams always give the same profiles.
func (f *Factory) Build(ctx context.Context, seed string, teams []models.TeamSeat) ([]models.TeamPersonalityProfile, error) {
	if len(teams) == 0 {
		return nil, apperrors.Validationf("at least one team is required")
	}
	seen := make(map[string]bool, len(teams))
	for _, t := range teams {
		if t.TeamID == "" {
			return nil, apperrors.Validationf("team id is required")
		}
		if seen[t.TeamID] {
			return nil, apperrors.Validationf("duplicate team %s", t.TeamID)
		}
		seen[t.TeamID] = true
	}

	r := rng.For(seed, 0)
	offset := r.IntN(len(models.AllStrategies))

	// round-robin from a seeded starting archetype
	strategies := make([]models.Strategy, len(teams))
	for i := range teams {
		strategies[i] = models.AllStrategies[(offset+i)%len(models.AllStrategies)]
	}

	behaviors := make([]*models.UserBehavior, len(teams))
	for i, t := range teams {
		b := f.lookup(ctx, t)
		if b == nil {
			continue
		}
		behaviors[i] = b
		switch {
		case b.RiskTolerance >= aggressiveCutoff:
			strategies[i] = models.StrategyAggressive
		case b.RiskTolerance <= safeCutoff:
			strategies[i] = models.StrategySafe
		}
	}

	if len(teams) <= len(models.AllStrategies) {
		strategies = dedupe(strategies, behaviors, offset)
	}

	profiles := make([]models.TeamPersonalityProfile, len(teams))
	for i, t := range teams {
		bundle := Catalog[strategies[i]]

		risk := bundle.RiskTolerance
		traits := bundle.Traits
		notes := bundle.Notes
		if b := behaviors[i]; b != nil {
			risk = archetypeWeight*risk + (1-archetypeWeight)*b.RiskTolerance
			if b.Engagement >= engagedCutoff {
				traits.SleeperHunter = true
			}
			notes, _ = f.text.Text(ctx, textgen.Request{
				Kind:     textgen.KindDraftNotes,
				Prompt:   textgen.DraftNotesPrompt(t.Name, strategies[i], risk, *b),
				Fallback: bundle.Notes,
			})
		}
		risk += (r.Float64()*2 - 1) * riskJitter

		name := t.Name
		if name == "" {
			name = t.TeamID
		}
		profiles[i] = models.TeamPersonalityProfile{
			TeamID:              t.TeamID,
			TeamName:            name,
			Strategy:            strategies[i],
			RiskTolerance:       math.Max(0, math.Min(1, risk)),
			PositionPreferences: copyPrefs(bundle.PositionPreferences),
			Traits:              traits,
			DraftNotes:          notes,
		}
	}

	logger.Debug("Personalities assigned", "seed", seed, "teams", len(profiles))
	return profiles, nil
}

// lookup fetches behavior for an owned team, treating any failure as absence
func (f *Factory) lookup(ctx context.Context, t models.TeamSeat) *models.UserBehavior {
	if f.behavior == nil || t.OwnerUserID == "" {
		return nil
	}
	b, err := f.behavior.GetBehavior(ctx, t.OwnerUserID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			logger.Warn("Behavior signal unavailable, using catalog defaults", "team_id", t.TeamID, "error", err)
		}
		return nil
	}
	return &b
}

// dedupe reassigns repeated archetypes to unused ones. Teams biased by
// behavior keep their archetype ahead of unbiased teams.
func dedupe(strategies []models.Strategy, behaviors []*models.UserBehavior, offset int) []models.Strategy {
	out := make([]models.Strategy, len(strategies))
	copy(out, strategies)

	used := make(map[models.Strategy]bool)
	keep := make([]bool, len(out))
	for pass := 0; pass < 2; pass++ {
		for i, s := range out {
			biased := behaviors[i] != nil
			if keep[i] || (pass == 0 && !biased) {
				continue
			}
			if !used[s] {
				used[s] = true
				keep[i] = true
			}
		}
	}

	for i := range out {
		if keep[i] {
			continue
		}
		for j := 0; j < len(models.AllStrategies); j++ {
			s := models.AllStrategies[(offset+j)%len(models.AllStrategies)]
			if !used[s] {
				out[i] = s
				used[s] = true
				break
			}
		}
	}
	return out
}

func copyPrefs(in map[models.Position]float64) map[models.Position]float64 {
	out := make(map[models.Position]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
