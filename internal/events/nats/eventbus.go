// Package nats provides a NATS-backed event bus for deployments where
// domain events must leave the process.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/pelicanmedia/pelican/internal/config"
	"github.com/pelicanmedia/pelican/pkg/events"
	"github.com/pelicanmedia/pelican/pkg/interfaces"
)

// envelope is the wire form of an event on a NATS subject.
type envelope struct {
	Type        string                 `json:"type"`
	Timestamp   int64                  `json:"timestamp"`
	AggregateID string                 `json:"aggregate_id,omitempty"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// EventBus publishes domain events to NATS subjects named
// "<prefix>.<event type>" and dispatches subscriptions from them.
type EventBus struct {
	conn   *nats.Conn
	prefix string
	logger interfaces.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
	wg   sync.WaitGroup
}

// NewEventBus connects to NATS with the configured reconnect policy.
func NewEventBus(cfg config.NATSConfig, logger interfaces.Logger) (*EventBus, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", interfaces.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", interfaces.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return &EventBus{
		conn:   conn,
		prefix: cfg.StreamPrefix,
		logger: logger,
	}, nil
}

// Publish sends the event to its subject and flushes within the context
// deadline.
func (b *EventBus) Publish(ctx context.Context, event interfaces.Event) error {
	data, err := json.Marshal(envelopeFor(event))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := b.conn.Publish(b.subject(event.EventType()), data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return b.conn.FlushWithContext(ctx)
}

// PublishAsync sends the event without waiting for the flush. Failures are
// logged; callers treat events as best effort.
func (b *EventBus) PublishAsync(ctx context.Context, event interfaces.Event) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.Publish(context.WithoutCancel(ctx), event); err != nil {
			b.logger.Error("failed to publish event",
				interfaces.String("event_type", event.EventType()),
				interfaces.Error(err))
		}
	}()
}

// Subscribe dispatches messages on the handler's event type to the handler.
func (b *EventBus) Subscribe(eventType string, handler interfaces.EventHandler) error {
	sub, err := b.conn.Subscribe(b.subject(eventType), func(msg *nats.Msg) {
		var env envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			b.logger.Warn("dropping malformed event",
				interfaces.String("subject", msg.Subject), interfaces.Error(err))
			return
		}

		event := events.NewAggregateEvent(env.Type, env.AggregateID, env.Data)
		if err := handler.Handle(context.Background(), event); err != nil {
			b.logger.Error("event handler failed",
				interfaces.String("event_type", env.Type), interfaces.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", eventType, err)
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return nil
}

// Stop drains the subscriptions, waits for in-flight publishes, and closes
// the connection.
func (b *EventBus) Stop() error {
	b.mu.Lock()
	for _, sub := range b.subs {
		_ = sub.Unsubscribe()
	}
	b.subs = nil
	b.mu.Unlock()

	b.wg.Wait()
	return b.conn.Drain()
}

func (b *EventBus) subject(eventType string) string {
	return b.prefix + "." + eventType
}

func envelopeFor(event interfaces.Event) envelope {
	env := envelope{
		Type:        event.EventType(),
		Timestamp:   event.Timestamp(),
		AggregateID: event.AggregateID(),
	}
	if base, ok := event.(*events.BaseEvent); ok {
		env.Data = base.Data
	}
	return env
}
