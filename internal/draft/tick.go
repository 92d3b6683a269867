package draft

import (
	"context"
	"time"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/dal"
	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/metrics"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/pubsub"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/rng"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/simulator"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/snake"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/textgen"
)

// Tick resolves the current pick of an active draft. Ticks on other statuses
// are no-ops. A tick that finds the draft lock held, by another tick or by a
// status change, returns a ConcurrentTick error without touching state.
func (o *Orchestrator) Tick(ctx context.Context, draftID string) error {
	start := o.now()
	result := metrics.TickFailed
	defer func() { metrics.ObserveTick(result, o.now().Sub(start).Seconds()) }()

	// ticks never wait: a held lock means another tick or a status change
	unlock, err := o.lock(ctx, draftID, 0)
	if err != nil {
		if apperrors.IsConcurrentTick(err) {
			result = metrics.TickContended
		}
		return err
	}
	defer unlock()

	state, err := o.store.LoadDraftState(ctx, draftID)
	if err != nil {
		if apperrors.IsStateCorruption(err) {
			o.sched.Stop(draftID)
		}
		return err
	}
	if state.Status != models.StatusActive {
		result = metrics.TickSkipped
		return nil
	}
	if err := Validate(state); err != nil {
		o.fail(ctx, state, err)
		return err
	}

	pick, err := o.resolve(ctx, state, start)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCandidateExhaustion) {
			o.fail(ctx, state, err)
		}
		return err
	}

	state.Picks = append(state.Picks, pick)
	state.CurrentPick++
	if state.CurrentPick > state.TotalPicks() {
		state.Completed = true
		state.Status = models.StatusCompleted
	}
	state.UpdatedAt = o.now().UTC()
	if err := o.store.SaveDraftState(ctx, state); err != nil {
		return err
	}

	metrics.IncPick(string(o.strategyOf(state, pick.TeamID)))
	o.publish(pubsub.DraftPick, state, map[string]interface{}{
		"pick":        pick,
		"currentPick": state.CurrentPick,
	})
	logger.Debug("Pick made", "draft_id", draftID, "pick", pick.PickNumber, "team_id", pick.TeamID, "player_id", pick.PlayerID)

	result = metrics.TickPicked
	if state.Completed {
		o.complete(ctx, state)
		result = metrics.TickCompleted
	}
	return nil
}

// resolve chooses the player for the current pick without mutating state
func (o *Orchestrator) resolve(ctx context.Context, state *models.DraftState, start time.Time) (models.DraftPick, error) {
	teamID, round := snake.Team(state.CurrentPick, state.DraftOrder)
	persona, _ := state.Personality(teamID)

	var own []models.DraftPick
	for _, p := range state.Picks {
		if p.TeamID == teamID {
			own = append(own, p)
		}
	}
	roster := simulator.RosterFromPicks(state.Config.RosterTemplate, own)

	drafted := state.DraftedIDs()
	available := make([]models.PlayerEvaluation, 0, len(state.Board.Evaluations)-len(drafted))
	for _, e := range state.Board.Evaluations {
		if !drafted[e.ID()] {
			available = append(available, e)
		}
	}
	if len(available) == 0 {
		return models.DraftPick{}, apperrors.CandidateExhaustionf("no players left on the board at pick %d", state.CurrentPick)
	}

	rec, err := simulator.Select(simulator.Selection{
		Personality: persona,
		Roster:      roster,
		Round:       round,
		PickNumber:  state.CurrentPick,
		TotalRounds: state.Config.Rounds,
		PicksLeft:   state.Config.Rounds - round + 1,
		Available:   available,
		Rand:        rng.For(state.DraftID, uint64(state.CurrentPick)),
	})
	if err != nil {
		return models.DraftPick{}, err
	}

	names := make([]string, 0, len(rec.Alternatives))
	for _, id := range rec.Alternatives {
		if e, ok := state.Board.Evaluation(id); ok {
			names = append(names, e.Player.Name)
		}
	}
	reasoning, _ := o.text.Text(ctx, textgen.Request{
		Kind:     textgen.KindReasoning,
		Prompt:   textgen.ReasoningPrompt(persona, round, rec.Player.Player, names),
		Fallback: rec.Reasoning,
	})

	return models.DraftPick{
		PickNumber:   state.CurrentPick,
		Round:        round,
		TeamID:       teamID,
		PlayerID:     rec.Player.ID(),
		PlayerName:   rec.Player.Player.Name,
		Position:     rec.Player.Position(),
		TimeTaken:    o.now().Sub(start),
		Confidence:   rec.Confidence,
		Alternatives: rec.Alternatives,
		Reasoning:    reasoning,
		Fallback:     rec.Fallback,
	}, nil
}

// complete materializes rosters and announces the finished draft
func (o *Orchestrator) complete(ctx context.Context, state *models.DraftState) {
	for _, p := range state.Picks {
		err := o.store.MaterializeRosterPlayer(ctx, dal.RosterPlayer{
			DraftID:    state.DraftID,
			TeamID:     p.TeamID,
			PlayerID:   p.PlayerID,
			PickNumber: p.PickNumber,
		})
		if err != nil {
			logger.Error("Failed to materialize roster player", "draft_id", state.DraftID, "pick", p.PickNumber, "error", err)
		}
	}
	o.sched.Stop(state.DraftID)
	o.publish(pubsub.DraftCompleted, state, map[string]interface{}{"totalPicks": len(state.Picks)})
	logger.Info("Draft completed", "draft_id", state.DraftID, "picks", len(state.Picks))
}

// fail records a stalled draft. Picks already made are kept.
func (o *Orchestrator) fail(ctx context.Context, state *models.DraftState, cause error) {
	o.sched.Stop(state.DraftID)
	state.Status = models.StatusFailed
	state.FailureReason = cause.Error()
	state.UpdatedAt = o.now().UTC()
	if err := o.store.SaveDraftState(ctx, state); err != nil {
		logger.Error("Failed to persist stalled draft", "draft_id", state.DraftID, "error", err)
	}
	o.publish(pubsub.DraftStalled, state, map[string]interface{}{
		"reason":      state.FailureReason,
		"currentPick": state.CurrentPick,
	})
	logger.Error("Draft stalled", "draft_id", state.DraftID, "error", cause)
}

func (o *Orchestrator) strategyOf(state *models.DraftState, teamID string) models.Strategy {
	p, _ := state.Personality(teamID)
	return p.Strategy
}
