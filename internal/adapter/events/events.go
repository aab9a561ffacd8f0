// internal/adapter/events/events.go

package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"marketplace/internal/domain/listing"
	"marketplace/internal/logger"
)

// Invalidator drops cached aggregates derived from listings
type Invalidator interface {
	Invalidate()
}

// Publisher announces listing changes on NATS
type Publisher struct {
	nc    *nats.Conn
	topic string
}

// NewPublisher creates a new listing event publisher
func NewPublisher(nc *nats.Conn, topic string) *Publisher {
	return &Publisher{nc: nc, topic: topic}
}

// Publish sends a change event and flushes it to the server
func (p *Publisher) Publish(e listing.ChangeEvent) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("error marshaling listing event: %w", err)
	}

	if err := p.nc.Publish(e.Subject(p.topic), data); err != nil {
		return fmt.Errorf("error publishing listing event: %w", err)
	}

	return p.nc.Flush()
}

// Subscriber listens for listing changes and invalidates the title rollup
// when manpower profiles change
type Subscriber struct {
	nc          *nats.Conn
	topic       string
	invalidator Invalidator
	logger      *zap.Logger
	sub         *nats.Subscription
}

// NewSubscriber creates a new listing event subscriber
func NewSubscriber(nc *nats.Conn, topic string, invalidator Invalidator, log *zap.Logger) *Subscriber {
	return &Subscriber{
		nc:          nc,
		topic:       topic,
		invalidator: invalidator,
		logger:      logger.OrNop(log).Named("events"),
	}
}

// Start subscribes to every subject under the topic
func (s *Subscriber) Start() error {
	sub, err := s.nc.Subscribe(s.topic+".>", s.handle)
	if err != nil {
		return fmt.Errorf("error subscribing to %s: %w", s.topic, err)
	}
	s.sub = sub

	s.logger.Info("listening for listing changes", zap.String("subject", sub.Subject))
	return nil
}

// Stop drains the subscription
func (s *Subscriber) Stop() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Drain()
}

func (s *Subscriber) handle(msg *nats.Msg) {
	e, err := DecodeEvent(s.topic, msg)
	if err != nil {
		s.logger.Warn("ignoring listing event", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}

	s.logger.Debug("listing changed",
		zap.String("kind", string(e.Kind)),
		zap.String("action", e.Action),
		zap.String("id", e.ID.String()),
	)

	if e.Kind == listing.KindManpower {
		s.invalidator.Invalidate()
	}
}

// DecodeEvent reads a change event. The subject is authoritative for kind and
// action; the body may be empty.
func DecodeEvent(topic string, msg *nats.Msg) (listing.ChangeEvent, error) {
	var e listing.ChangeEvent

	rest := strings.TrimPrefix(msg.Subject, topic+".")
	parts := strings.Split(rest, ".")
	if rest == msg.Subject || len(parts) < 2 || parts[0] == "" {
		return e, fmt.Errorf("unexpected subject %q", msg.Subject)
	}

	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			return e, fmt.Errorf("error unmarshaling listing event: %w", err)
		}
	}

	e.Kind = listing.Kind(parts[0])
	e.Action = parts[1]

	return e, nil
}
