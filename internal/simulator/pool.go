package simulator

import (
	"sync"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/evaluator"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// Pool is the shared, depleting player pool. Claim is the only mutator and
// is serialized, so two teams can never take the same player.
type Pool struct {
	mu        sync.Mutex
	available map[string]models.PlayerEvaluation
}

// NewPool creates a pool from evaluations, skipping ids in drafted
func NewPool(evals []models.PlayerEvaluation, drafted map[string]bool) *Pool {
	p := &Pool{available: make(map[string]models.PlayerEvaluation, len(evals))}
	for _, e := range evals {
		if !drafted[e.ID()] {
			p.available[e.ID()] = e
		}
	}
	return p
}

// Claim removes a player if still available and reports whether it did
func (p *Pool) Claim(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.available[id]; !ok {
		return false
	}
	delete(p.available, id)
	return true
}

// Snapshot returns the remaining players, best overall value first
func (p *Pool) Snapshot() []models.PlayerEvaluation {
	p.mu.Lock()
	out := make([]models.PlayerEvaluation, 0, len(p.available))
	for _, e := range p.available {
		out = append(out, e)
	}
	p.mu.Unlock()

	evaluator.SortByValue(out)
	return out
}

// Remaining is the number of undrafted players
func (p *Pool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.available)
}
