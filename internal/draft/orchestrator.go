// Package draft runs live snake drafts. Each draft is a persisted state
// machine (initialized, active, paused, completed, failed) advanced one pick
// per tick by the Scheduler; the store is the only source of truth and every
// tick re-reads it.
package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/behavior"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/board"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/dal"
	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/evaluator"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/personality"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/pubsub"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/rng"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/simulator"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/textgen"
)

const (
	defaultTickEvery = 5 * time.Second
	defaultLockTTL   = 30 * time.Second
	defaultLockWait  = 2 * time.Second
	lockRetry        = 20 * time.Millisecond
)

// Options wires an Orchestrator. Store, Publisher and Personalities are
// required; everything else has a default.
type Options struct {
	Store         dal.Store
	Publisher     pubsub.Publisher
	Personalities *personality.Factory
	Text          *textgen.Writer
	// Sentiment feeds market sentiment into player evaluation when set
	Sentiment behavior.SentimentSource
	Locker    Locker
	TickEvery time.Duration
	LiveMode  bool
	LockTTL   time.Duration
	// LockWait bounds how long a status change waits for an in-flight tick
	LockWait      time.Duration
	DefaultRounds int
	// DefaultPickTimeLimit applies to drafts created without a pick time limit
	DefaultPickTimeLimit time.Duration
}

// Orchestrator implements the produced draft surface
type Orchestrator struct {
	store     dal.Store
	pub       pubsub.Publisher
	personas  *personality.Factory
	text      *textgen.Writer
	sentiment behavior.SentimentSource
	locks     Locker
	sched     *Scheduler
	tickEvery time.Duration
	liveMode  bool
	lockTTL   time.Duration
	lockWait  time.Duration
	rounds    int
	pickLimit time.Duration
	now       func() time.Time
}

// New creates an Orchestrator and its Scheduler
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		store:     opts.Store,
		pub:       opts.Publisher,
		personas:  opts.Personalities,
		text:      opts.Text,
		sentiment: opts.Sentiment,
		locks:     opts.Locker,
		tickEvery: opts.TickEvery,
		liveMode:  opts.LiveMode,
		lockTTL:   opts.LockTTL,
		lockWait:  opts.LockWait,
		rounds:    opts.DefaultRounds,
		pickLimit: opts.DefaultPickTimeLimit,
		now:       time.Now,
	}
	if o.locks == nil {
		o.locks = NewMemoryLocker()
	}
	if o.tickEvery <= 0 {
		o.tickEvery = defaultTickEvery
	}
	if o.lockTTL <= 0 {
		o.lockTTL = defaultLockTTL
	}
	if o.lockWait <= 0 {
		o.lockWait = defaultLockWait
	}
	if o.rounds <= 0 {
		o.rounds = simulator.DefaultRounds
	}
	o.sched = NewScheduler(o.Tick)
	return o
}

// Scheduler exposes the ticker table for shutdown and health checks
func (o *Orchestrator) Scheduler() *Scheduler { return o.sched }

// InitRequest configures a new draft. Zero values select defaults: the
// league's stored teams, a seeded draft order, the default roster template.
type InitRequest struct {
	LeagueID       string
	Rounds         int
	PickTimeLimit  time.Duration
	DraftType      models.DraftType
	RosterTemplate models.RosterTemplate
	Teams          []models.TeamSeat
	DraftOrder     []string
}

// InitResult is what initializeDraft returns
type InitResult struct {
	DraftID       string                          `json:"draftId"`
	Personalities []models.TeamPersonalityProfile `json:"personalities"`
	DraftOrder    []string                        `json:"draftOrder"`
}

// InitializeDraft builds personalities, the draft order and the shared board
// and persists a new DraftState at pick 1
func (o *Orchestrator) InitializeDraft(ctx context.Context, req InitRequest) (*InitResult, error) {
	cfg, err := o.draftConfig(req)
	if err != nil {
		return nil, err
	}

	teams := req.Teams
	if len(teams) == 0 {
		teams, err = o.store.LoadLeagueTeams(ctx, cfg.LeagueID)
		if err != nil {
			return nil, err
		}
	}

	players, err := o.store.LoadPlayerPool(ctx, cfg.LeagueID)
	if err != nil {
		return nil, err
	}
	if need := cfg.Rounds * len(teams); len(players) < need {
		return nil, apperrors.Validationf("player pool has %d players, draft needs %d", len(players), need)
	}

	draftID := uuid.NewString()
	personalities, err := o.personas.Build(ctx, draftID, teams)
	if err != nil {
		return nil, err
	}

	order, err := draftOrder(draftID, teams, req.DraftOrder)
	if err != nil {
		return nil, err
	}

	evals := evaluator.EvaluatePool(players, o.signals(ctx))
	b, err := board.Build(ctx, evals, personalities)
	if err != nil {
		return nil, err
	}

	now := o.now().UTC()
	state := &models.DraftState{
		DraftID:       draftID,
		LeagueID:      cfg.LeagueID,
		Config:        cfg,
		Personalities: personalities,
		DraftOrder:    order,
		Board:         b,
		CurrentPick:   1,
		Status:        models.StatusInitialized,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := o.store.SaveDraftState(ctx, state); err != nil {
		return nil, err
	}

	logger.Info("Draft initialized", "draft_id", draftID, "league_id", cfg.LeagueID, "teams", len(order), "rounds", cfg.Rounds)
	return &InitResult{DraftID: draftID, Personalities: personalities, DraftOrder: order}, nil
}

func (o *Orchestrator) draftConfig(req InitRequest) (models.DraftConfig, error) {
	cfg := models.DraftConfig{
		LeagueID:       req.LeagueID,
		Rounds:         req.Rounds,
		PickTimeLimit:  req.PickTimeLimit,
		DraftType:      req.DraftType,
		RosterTemplate: req.RosterTemplate,
	}
	if cfg.LeagueID == "" {
		cfg.LeagueID = dal.DefaultLeagueID
	}
	if cfg.Rounds == 0 {
		cfg.Rounds = o.rounds
	}
	if cfg.PickTimeLimit == 0 {
		cfg.PickTimeLimit = o.pickLimit
	}
	if cfg.DraftType == "" {
		cfg.DraftType = models.DraftSnake
	}
	if cfg.RosterTemplate == nil {
		cfg.RosterTemplate = models.DefaultRosterTemplate()
	}

	if cfg.DraftType != models.DraftSnake {
		return cfg, apperrors.Validationf("draft type %s is not supported", cfg.DraftType)
	}
	if cfg.PickTimeLimit < 0 {
		return cfg, apperrors.Validationf("pick time limit must not be negative")
	}
	if starters := cfg.RosterTemplate.StarterCount(); cfg.Rounds < starters {
		return cfg, apperrors.Validationf("%d rounds cannot fill %d starting slots", cfg.Rounds, starters)
	}
	return cfg, nil
}

// draftOrder validates an explicit order or shuffles the teams from the
// draft seed
func draftOrder(draftID string, teams []models.TeamSeat, explicit []string) ([]string, error) {
	ids := make([]string, len(teams))
	known := make(map[string]bool, len(teams))
	for i, t := range teams {
		ids[i] = t.TeamID
		known[t.TeamID] = true
	}

	if len(explicit) == 0 {
		rng.For(draftID+"/order", 0).Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		return ids, nil
	}

	if len(explicit) != len(ids) {
		return nil, apperrors.Validationf("draft order lists %d teams, league has %d", len(explicit), len(ids))
	}
	seen := make(map[string]bool, len(explicit))
	for _, id := range explicit {
		if !known[id] {
			return nil, apperrors.Validationf("unknown team %s in draft order", id)
		}
		if seen[id] {
			return nil, apperrors.Validationf("team %s appears twice in draft order", id)
		}
		seen[id] = true
	}
	return append([]string(nil), explicit...), nil
}

func (o *Orchestrator) signals(ctx context.Context) models.Signals {
	if o.sentiment == nil {
		return models.Signals{}
	}
	m, err := o.sentiment.MarketSentiment(ctx)
	if err != nil {
		logger.Warn("Market sentiment unavailable", "error", apperrors.CapabilityUnavailable("market sentiment", err))
		return models.Signals{}
	}
	return models.Signals{MarketSentiment: m}
}

// StartDraft moves an initialized draft to active and starts ticking
func (o *Orchestrator) StartDraft(ctx context.Context, draftID string) error {
	return o.transition(ctx, draftID, func(state *models.DraftState) error {
		switch state.Status {
		case models.StatusInitialized:
		case models.StatusActive:
			o.schedule(state)
			return nil
		default:
			return apperrors.Conflictf("draft %s is %s and cannot be started", draftID, state.Status)
		}

		if err := o.setStatus(ctx, state, models.StatusActive); err != nil {
			return err
		}
		o.schedule(state)
		o.publish(pubsub.DraftStarted, state, map[string]interface{}{
			"draftOrder": state.DraftOrder,
			"rounds":     state.Config.Rounds,
		})
		return nil
	})
}

// PauseDraft stops the ticker. Picks and the current pick are untouched.
func (o *Orchestrator) PauseDraft(ctx context.Context, draftID string) error {
	return o.transition(ctx, draftID, func(state *models.DraftState) error {
		switch state.Status {
		case models.StatusActive:
		case models.StatusPaused:
			return nil
		default:
			return apperrors.Conflictf("draft %s is %s and cannot be paused", draftID, state.Status)
		}

		o.sched.Stop(draftID)
		if err := o.setStatus(ctx, state, models.StatusPaused); err != nil {
			return err
		}
		o.publish(pubsub.DraftPaused, state, map[string]interface{}{"currentPick": state.CurrentPick})
		return nil
	})
}

// ResumeDraft restarts ticking from the persisted current pick
func (o *Orchestrator) ResumeDraft(ctx context.Context, draftID string) error {
	return o.transition(ctx, draftID, func(state *models.DraftState) error {
		switch state.Status {
		case models.StatusPaused:
		case models.StatusActive:
			o.schedule(state)
			return nil
		default:
			return apperrors.Conflictf("draft %s is %s and cannot be resumed", draftID, state.Status)
		}

		if err := o.setStatus(ctx, state, models.StatusActive); err != nil {
			return err
		}
		o.schedule(state)
		o.publish(pubsub.DraftResumed, state, map[string]interface{}{"currentPick": state.CurrentPick})
		return nil
	})
}

// transition runs fn on state loaded under the draft lock, so a status change
// never overwrites a pick saved by a concurrent tick
func (o *Orchestrator) transition(ctx context.Context, draftID string, fn func(*models.DraftState) error) error {
	unlock, err := o.lock(ctx, draftID, o.lockWait)
	if err != nil {
		return err
	}
	defer unlock()

	state, err := o.store.LoadDraftState(ctx, draftID)
	if err != nil {
		return err
	}
	return fn(state)
}

// GetDraftSummary returns the persisted state. Each call decodes a fresh
// copy, so callers cannot affect the stored draft.
func (o *Orchestrator) GetDraftSummary(ctx context.Context, draftID string) (*models.DraftState, error) {
	return o.store.LoadDraftState(ctx, draftID)
}

// RecoverActive restarts tickers for every draft persisted as active
func (o *Orchestrator) RecoverActive(ctx context.Context) (int, error) {
	ids, err := o.store.ListDraftIDs(ctx, models.StatusActive)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		state, err := o.store.LoadDraftState(ctx, id)
		if err != nil {
			logger.Error("Failed to recover draft", "draft_id", id, "error", err)
			continue
		}
		if o.schedule(state) {
			n++
		}
	}
	logger.Info("Recovered active drafts", "count", n)
	return n, nil
}

func (o *Orchestrator) setStatus(ctx context.Context, state *models.DraftState, status models.DraftStatus) error {
	state.Status = status
	state.UpdatedAt = o.now().UTC()
	return o.store.SaveDraftState(ctx, state)
}

func (o *Orchestrator) schedule(state *models.DraftState) bool {
	every := o.tickEvery
	if o.liveMode && state.Config.PickTimeLimit > 0 {
		every = state.Config.PickTimeLimit
	}
	return o.sched.Start(state.DraftID, every)
}

func (o *Orchestrator) publish(typ string, state *models.DraftState, payload map[string]interface{}) {
	if o.pub == nil {
		return
	}
	o.pub.Publish(pubsub.NewEvent(typ, state.LeagueID, state.DraftID, payload))
}

// lock takes the per-draft lock, retrying until wait has passed. A zero wait
// tries once.
func (o *Orchestrator) lock(ctx context.Context, draftID string, wait time.Duration) (func(), error) {
	key := lockKey(draftID)
	for waited := time.Duration(0); ; waited += lockRetry {
		token, ok, err := o.locks.TryLock(ctx, key, o.lockTTL)
		if err != nil {
			return nil, apperrors.CapabilityUnavailable("draft lock", err)
		}
		if ok {
			return func() {
				if err := o.locks.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
					logger.Warn("Failed to release draft lock", "draft_id", draftID, "error", err)
				}
			}, nil
		}
		if waited >= wait {
			return nil, apperrors.ConcurrentTickf("draft %s already has a tick in flight", draftID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetry):
		}
	}
}

func lockKey(draftID string) string {
	return fmt.Sprintf("draftsim:tick:%s", draftID)
}
