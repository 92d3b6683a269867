// Package league builds whole-league compositions: every team drafts against
// a shared pool in one simulated snake draft, scores are balanced, and the
// narrative pass turns the result into storylines, tiers and rivalries.
package league

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/balance"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/behavior"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/dal"
	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/evaluator"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/metrics"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/narrative"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/personality"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/pubsub"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/rng"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/simulator"
)

// Options wires a Service. Sentiment and Publisher are optional.
type Options struct {
	Store         dal.Store
	Publisher     pubsub.Publisher
	Personalities *personality.Factory
	Narrator      *narrative.Assigner
	Sentiment     behavior.SentimentSource
	Rounds        int
}

// Service generates and caches league compositions
type Service struct {
	store     dal.Store
	pub       pubsub.Publisher
	personas  *personality.Factory
	narrator  *narrative.Assigner
	sentiment behavior.SentimentSource
	sim       *simulator.Simulator
	flight    singleflight.Group
}

// NewService creates a Service using the default roster template
func NewService(opts Options) *Service {
	rounds := opts.Rounds
	if rounds <= 0 {
		rounds = simulator.DefaultRounds
	}
	narrator := opts.Narrator
	if narrator == nil {
		narrator = narrative.NewAssigner(nil)
	}
	return &Service{
		store:     opts.Store,
		pub:       opts.Publisher,
		personas:  opts.Personalities,
		narrator:  narrator,
		sentiment: opts.Sentiment,
		sim:       simulator.New(rounds, models.DefaultRosterTemplate()),
	}
}

// Generate returns the league's stored composition, building generation 1
// when the league has none yet
func (s *Service) Generate(ctx context.Context, leagueID string) (*models.LeagueComposition, error) {
	if leagueID == "" {
		leagueID = dal.DefaultLeagueID
	}
	comp, err := s.store.LoadLeagueComposition(ctx, leagueID)
	if err == nil {
		return comp, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	v, err, _ := s.flight.Do("generate:"+leagueID, func() (interface{}, error) {
		// another caller may have finished while we waited
		if comp, err := s.store.LoadLeagueComposition(ctx, leagueID); err == nil {
			return comp, nil
		}
		return s.build(ctx, leagueID, 1, nil)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.LeagueComposition), nil
}

// Regenerate always rebuilds the league under the next generation number.
// Uniqueness is measured against the rosters it replaces.
func (s *Service) Regenerate(ctx context.Context, leagueID string) (*models.LeagueComposition, error) {
	if leagueID == "" {
		leagueID = dal.DefaultLeagueID
	}
	v, err, _ := s.flight.Do("regenerate:"+leagueID, func() (interface{}, error) {
		generation := 0
		var previous []models.RosterConstruction
		prev, err := s.store.LoadLeagueComposition(ctx, leagueID)
		switch {
		case err == nil:
			generation = prev.Generation
			previous = prev.Rosters
		case !apperrors.IsNotFound(err):
			return nil, err
		}
		return s.build(ctx, leagueID, generation+1, previous)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.LeagueComposition), nil
}

func (s *Service) build(ctx context.Context, leagueID string, generation int, previous []models.RosterConstruction) (*models.LeagueComposition, error) {
	teams, err := s.store.LoadLeagueTeams(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	players, err := s.store.LoadPlayerPool(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if need := s.sim.Rounds() * len(teams); len(players) < need {
		return nil, apperrors.Validationf("player pool has %d players, league needs %d", len(players), need)
	}

	seed := fmt.Sprintf("%s/%d", leagueID, generation)
	personalities, err := s.personas.Build(ctx, seed, teams)
	if err != nil {
		return nil, err
	}

	order := make([]string, len(teams))
	for i, t := range teams {
		order[i] = t.TeamID
	}
	rng.For(seed+"/order", 0).Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	evals := evaluator.EvaluatePool(players, s.signals(ctx))
	rosters, err := s.sim.Run(ctx, personalities, order, evals, seed, previous)
	if err != nil {
		return nil, err
	}
	stats := balance.Balance(rosters)

	comp, err := s.narrator.Assign(ctx, leagueID, generation, rosters, seed)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveLeagueComposition(ctx, &comp); err != nil {
		return nil, err
	}

	metrics.IncLeagueGeneration()
	if s.pub != nil {
		s.pub.Publish(pubsub.NewEvent(pubsub.LeagueGenerated, leagueID, "", map[string]interface{}{
			"generation":         generation,
			"competitiveBalance": comp.CompetitiveBalance,
			"parityScore":        comp.ParityScore,
		}))
	}
	logger.Info("League generated",
		"league_id", leagueID,
		"generation", generation,
		"teams", len(rosters),
		"balanced", stats.Adjusted,
		"parity", comp.ParityScore,
	)
	return &comp, nil
}

func (s *Service) signals(ctx context.Context) models.Signals {
	if s.sentiment == nil {
		return models.Signals{}
	}
	m, err := s.sentiment.MarketSentiment(ctx)
	if err != nil {
		logger.Warn("Market sentiment unavailable", "error", apperrors.CapabilityUnavailable("market sentiment", err))
		return models.Signals{}
	}
	return models.Signals{MarketSentiment: m}
}
