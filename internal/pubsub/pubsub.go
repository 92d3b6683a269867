package pubsub

import (
	"sync"
	"time"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
)

// Event types broadcast by the draft engine
const (
	DraftStarted    = "draft:started"
	DraftPick       = "draft:pick"
	DraftPaused     = "draft:paused"
	DraftResumed    = "draft:resumed"
	DraftCompleted  = "draft:completed"
	DraftStalled    = "draft:stalled"
	LeagueGenerated = "league:generated"
)

// Event represents a pubsub event scoped to one league
type Event struct {
	Type     string                 `json:"type"`
	LeagueID string                 `json:"leagueId"`
	DraftID  string                 `json:"draftId,omitempty"`
	TS       int64                  `json:"ts"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with the current time
func NewEvent(typ, leagueID, draftID string, payload map[string]interface{}) Event {
	return Event{Type: typ, LeagueID: leagueID, DraftID: draftID, TS: time.Now().UnixMilli(), Payload: payload}
}

// Publisher is the fire-and-forget side of the broadcast channel
type Publisher interface {
	Publish(Event)
}

// Upstream is an interface for upstream publishers (e.g., NATS)
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

type subscriber struct {
	ch     chan Event
	league string
}

// fanout delivers events to local channels without ever blocking the
// publisher. An empty league filter receives every league.
type fanout struct {
	mu     sync.RWMutex
	subs   []subscriber
	buffer int
}

func (f *fanout) add(league string) chan Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Event, f.buffer)
	f.subs = append(f.subs, subscriber{ch: ch, league: league})
	logger.Debug("PubSub: New subscriber added", "league", league, "totalSubscribers", len(f.subs))
	return ch
}

func (f *fanout) remove(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sub := range f.subs {
		if sub.ch == ch {
			close(ch)
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return
		}
	}
}

func (f *fanout) deliver(event Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, sub := range f.subs {
		if sub.league != "" && sub.league != event.LeagueID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			logger.Warn("PubSub: Skipping slow subscriber", "type", event.Type, "league", event.LeagueID)
		}
	}
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		close(sub.ch)
	}
	f.subs = nil
}

func (f *fanout) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// PubSub is the in-process broadcast channel. With an upstream it bridges to
// NATS so every instance sees every league's events.
type PubSub struct {
	local    fanout
	upstream Upstream
}

// New creates a local-only PubSub
func New() *PubSub {
	return &PubSub{local: fanout{buffer: 32}}
}

// NewWithUpstream creates a PubSub that bridges to an upstream publisher (e.g., NATS).
// Publish goes to the upstream, which broadcasts back to every instance,
// including this one.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{local: fanout{buffer: 32}, upstream: upstream}

	ch := upstream.Subscribe()
	go func() {
		for event := range ch {
			ps.local.deliver(event)
		}
		logger.Debug("PubSub: Upstream channel closed")
	}()

	return ps
}

// Subscribe receives events for every league
func (ps *PubSub) Subscribe() chan Event {
	return ps.local.add("")
}

// SubscribeLeague receives only the given league's events
func (ps *PubSub) SubscribeLeague(leagueID string) chan Event {
	return ps.local.add(leagueID)
}

// Unsubscribe removes a subscriber and closes its channel
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.local.remove(ch)
}

// Publish never blocks on subscribers
func (ps *PubSub) Publish(event Event) {
	logger.Debug("PubSub: Publish", "type", event.Type, "league", event.LeagueID, "hasUpstream", ps.upstream != nil)
	if ps.upstream != nil {
		ps.upstream.Publish(event)
		return
	}
	ps.local.deliver(event)
}

// SubscriberCount is the number of local subscribers
func (ps *PubSub) SubscriberCount() int {
	return ps.local.count()
}
