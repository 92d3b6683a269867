package draft

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/metrics"
)

// TickFunc advances one draft by one pick
type TickFunc func(ctx context.Context, draftID string) error

type job struct {
	cancel context.CancelFunc
}

// Scheduler owns the table of running draft tickers. It is created once at
// process start and drained by Shutdown.
type Scheduler struct {
	mu     sync.Mutex
	jobs   map[string]*job
	tick   TickFunc
	wg     sync.WaitGroup
	closed bool
}

// NewScheduler creates a Scheduler that calls tick for each running draft
func NewScheduler(tick TickFunc) *Scheduler {
	return &Scheduler{jobs: make(map[string]*job), tick: tick}
}

// Start begins ticking draftID every interval. It reports false if the
// draft is already running or the scheduler is shut down.
func (s *Scheduler) Start(draftID string, every time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if _, running := s.jobs[draftID]; running {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel}
	s.jobs[draftID] = j
	metrics.SetActiveDrafts(len(s.jobs))

	s.wg.Add(1)
	go s.run(ctx, draftID, every, j)
	logger.Info("Draft ticker started", "draft_id", draftID, "interval", every)
	return true
}

func (s *Scheduler) run(ctx context.Context, draftID string, every time.Duration, j *job) {
	defer s.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			// a tick that has begun is never cancelled
			err := s.tick(context.WithoutCancel(ctx), draftID)
			switch {
			case err == nil:
			case apperrors.IsConcurrentTick(err):
				logger.Debug("Tick deferred", "draft_id", draftID)
			case apperrors.IsStateCorruption(err):
				// the orchestrator already marked the draft failed
				s.remove(draftID, j)
				return
			default:
				logger.Warn("Tick failed", "draft_id", draftID, "error", err)
			}
		}
	}
}

// Stop cancels the ticker for draftID without touching draft state. The
// in-flight tick, if any, runs to completion. Safe to call from inside a tick.
func (s *Scheduler) Stop(draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[draftID]
	if !ok {
		return
	}
	j.cancel()
	delete(s.jobs, draftID)
	metrics.SetActiveDrafts(len(s.jobs))
	logger.Info("Draft ticker stopped", "draft_id", draftID)
}

// remove drops j only if it is still the registered job for draftID
func (s *Scheduler) remove(draftID string, j *job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jobs[draftID] == j {
		j.cancel()
		delete(s.jobs, draftID)
		metrics.SetActiveDrafts(len(s.jobs))
	}
}

// IsActive reports whether draftID has a running ticker
func (s *Scheduler) IsActive(draftID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[draftID]
	return ok
}

// Count is the number of running tickers
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Shutdown stops every ticker and waits for in-flight ticks to finish
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for id, j := range s.jobs {
		j.cancel()
		delete(s.jobs, id)
	}
	metrics.SetActiveDrafts(0)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Draft scheduler drained")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
