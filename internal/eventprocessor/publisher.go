// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/winspy/internal/detection"
	"github.com/tomtom215/winspy/internal/metrics"
)

// EventTypeMetadataKey carries the detected event type on every message.
const EventTypeMetadataKey = "event_type"

// NATSConfig configures the core NATS connection used for publishing.
type NATSConfig struct {
	URL             string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ReconnectBuffer int
}

// DefaultNATSConfig returns connection settings for url.
func DefaultNATSConfig(url string) NATSConfig {
	return NATSConfig{
		URL:             url,
		MaxReconnects:   5,
		ReconnectWait:   2 * time.Second,
		ReconnectBuffer: 8 * 1024 * 1024,
	}
}

// NewNATSPublisher creates a Watermill publisher on core NATS. JetStream is
// disabled: events are fire-and-forget notifications of a finished run.
func NewNATSPublisher(cfg NATSConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: NATS URL is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	natsOpts := []natsgo.Option{
		natsgo.Name("winspy"),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
		natsgo.ErrorHandler(func(nc *natsgo.Conn, sub *natsgo.Subscription, err error) {
			fields := watermill.LogFields{}
			if sub != nil {
				fields["subject"] = sub.Subject
			}
			logger.Error("NATS error", err, fields)
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return pub, nil
}

// Publisher sends processed events to a Watermill topic with optional
// circuit breaker protection.
type Publisher struct {
	publisher      message.Publisher
	topic          string
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	mu             sync.RWMutex
	closed         bool
	logger         watermill.LoggerAdapter
}

// NewPublisher wraps pub. Every event is published on topic.
func NewPublisher(pub message.Publisher, topic string, logger watermill.LoggerAdapter) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Publisher{publisher: pub, topic: topic, logger: logger}, nil
}

// SetCircuitBreaker configures the circuit breaker for publish operations.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.circuitBreaker = cb
}

// Topic returns the topic events are published on.
func (p *Publisher) Topic() string {
	return p.topic
}

// NewEventMessage builds the message for one event. The message UUID is the
// event id and the payload is the event's JSON document.
func NewEventMessage(event detection.ProcessedEvent) (*message.Message, error) {
	if event.Event == nil {
		return nil, fmt.Errorf("event %s has no detected event", event.ID)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("serialize event %s: %w", event.ID, err)
	}

	msg := message.NewMessage(event.ID.String(), payload)
	msg.Metadata.Set(EventTypeMetadataKey, string(event.Event.Type()))
	return msg, nil
}

// Publish sends one message with circuit breaker protection.
func (p *Publisher) Publish(ctx context.Context, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPublisherClosed
	}
	p.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	msg.SetContext(ctx)

	var err error
	if p.circuitBreaker != nil {
		_, err = p.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(p.topic, msg)
		})
	} else {
		err = p.publisher.Publish(p.topic, msg)
	}

	metrics.RecordPublish(p.topic, err)
	return err
}

// PublishEvent serializes and publishes one processed event.
func (p *Publisher) PublishEvent(ctx context.Context, event detection.ProcessedEvent) error {
	msg, err := NewEventMessage(event)
	if err != nil {
		return err
	}
	return p.Publish(ctx, msg)
}

// PublishAll publishes events in order and stops at the first failure.
// It returns the number of events published.
func (p *Publisher) PublishAll(ctx context.Context, events []detection.ProcessedEvent) (int, error) {
	for i, event := range events {
		if err := p.PublishEvent(ctx, event); err != nil {
			p.logger.Error("Failed to publish event", err, watermill.LogFields{
				"event_id":  event.ID.String(),
				"topic":     p.topic,
				"published": i,
				"remaining": len(events) - i,
			})
			return i, fmt.Errorf("publish event %s: %w", event.ID, err)
		}
	}

	p.logger.Debug("Published events", watermill.LogFields{
		"topic": p.topic,
		"count": len(events),
	})
	return len(events), nil
}

// Close gracefully shuts down the publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}
