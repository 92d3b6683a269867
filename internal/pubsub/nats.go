package pubsub

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
)

const defaultStream = "DRAFT_EVENTS"

// jetStream is the JetStream plumbing shared by the external and embedded
// NATS backends. Each league publishes on <prefix>.<leagueId>; the stream
// and the local subscription cover <prefix>.>.
type jetStream struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	prefix string
	sub    *nats.Subscription
	local  fanout
}

// LeagueSubject is the subject a league's events are published on
func LeagueSubject(prefix, leagueID string) string {
	if leagueID == "" {
		leagueID = "_all"
	}
	token := strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n':
			return '_'
		}
		return r
	}, leagueID)
	return prefix + "." + token
}

func newJetStream(nc *nats.Conn, prefix, stream string, storage nats.StorageType, maxAge time.Duration) (*jetStream, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	if stream == "" {
		stream = defaultStream
	}

	if _, err := js.StreamInfo(stream); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     stream,
			Subjects: []string{prefix + ".>"},
			Storage:  storage,
			MaxAge:   maxAge,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stream: %w", err)
		}
		logger.Info("JetStream stream created", "stream", stream, "subjects", prefix+".>")
	}

	j := &jetStream{nc: nc, js: js, prefix: prefix, local: fanout{buffer: 100}}
	j.sub, err = js.Subscribe(prefix+".>", func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to unmarshal event from JetStream", "error", err, "subject", msg.Subject)
			msg.Nak()
			return
		}
		j.local.deliver(event)
		msg.Ack()
	}, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to JetStream: %w", err)
	}
	return j, nil
}

// Publish publishes an event on its league subject
func (j *jetStream) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}

	subject := LeagueSubject(j.prefix, event.LeagueID)
	if _, err := j.js.Publish(subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", subject, "event_type", event.Type)
		return
	}
	logger.Debug("Published event to NATS", "event_type", event.Type, "subject", subject)
}

// Subscribe creates a subscription channel for every league's events
func (j *jetStream) Subscribe() chan Event {
	return j.local.add("")
}

// Unsubscribe removes a subscription channel
func (j *jetStream) Unsubscribe(ch chan Event) {
	j.local.remove(ch)
}

// SubscriberCount returns the number of active local subscribers
func (j *jetStream) SubscriberCount() int {
	return j.local.count()
}

// SubscribeDurable creates a durable consumer on one league's subject, so
// a worker can replay events it missed while down
func (j *jetStream) SubscribeDurable(consumer, leagueID string, handler func(Event)) error {
	_, err := j.js.Subscribe(LeagueSubject(j.prefix, leagueID), func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to unmarshal event", "error", err)
			msg.Nak()
			return
		}
		handler(event)
		msg.Ack()
	}, nats.Durable(consumer), nats.ManualAck())
	return err
}

func (j *jetStream) close() {
	if j.sub != nil {
		_ = j.sub.Unsubscribe()
	}
	j.local.closeAll()
	if j.nc != nil {
		j.nc.Close()
	}
}

// NATSPubSub implements the upstream on an external NATS JetStream server
type NATSPubSub struct {
	*jetStream
}

// NewNATSPubSub connects to natsURL and publishes under subject prefix
func NewNATSPubSub(natsURL, prefix string) (*NATSPubSub, error) {
	nc, err := nats.Connect(natsURL, nats.Name("gridiron-draft-sim"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	// events are kept for replay
	j, err := newJetStream(nc, prefix, defaultStream, nats.FileStorage, 0)
	if err != nil {
		nc.Close()
		return nil, err
	}
	logger.Info("Connected to NATS", "url", natsURL, "prefix", prefix)
	return &NATSPubSub{j}, nil
}

// Close closes the NATS connection
func (p *NATSPubSub) Close() {
	p.close()
}
