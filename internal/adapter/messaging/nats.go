package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mobile-money-gateway/config"
	"mobile-money-gateway/pkg/logger"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Connect opens a NATS connection with reconnect logging.
func Connect(cfg config.NATSConfig, log zerolog.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	log.Info().Str("url", conn.ConnectedUrl()).Msg("NATS connection established")
	return conn, nil
}

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
}

// Publisher implements ports.EventPublisher on core NATS subjects
// of the form <prefix>.<event type>.
type Publisher struct {
	conn   conn
	prefix string
	log    zerolog.Logger
}

// NewPublisher creates a NATS-backed event publisher.
func NewPublisher(c conn, subjectPrefix string, log zerolog.Logger) *Publisher {
	return &Publisher{conn: c, prefix: subjectPrefix, log: logger.Component(log, "events")}
}

// Publish wraps data in an Event and sends it.
func (p *Publisher) Publish(ctx context.Context, eventType string, aggregateID string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ev, err := NewEvent(eventType, logger.ServiceName, aggregateID, data)
	if err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	subject := eventType
	if p.prefix != "" {
		subject = p.prefix + "." + eventType
	}
	if err := p.conn.Publish(subject, body); err != nil {
		return fmt.Errorf("publishing %s: %w", subject, err)
	}

	p.log.Debug().Str("subject", subject).Str("event_id", ev.ID).Str("aggregate_id", aggregateID).Msg("Event published")
	return nil
}

// LogPublisher implements ports.EventPublisher by logging events. Used when NATS is not configured.
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher creates a publisher that only logs.
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: logger.Component(log, "events")}
}

// Publish implements ports.EventPublisher.
func (p *LogPublisher) Publish(_ context.Context, eventType string, aggregateID string, _ any) error {
	p.log.Debug().Str("type", eventType).Str("aggregate_id", aggregateID).Msg("Event (not published, NATS disabled)")
	return nil
}
