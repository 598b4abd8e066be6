package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/storefront-bot/internal/config"
	"github.com/TemirB/storefront-bot/internal/domain"
	"github.com/TemirB/storefront-bot/internal/observability"
)

//go:generate mockgen -source internal/kafka/publisher.go -destination=internal/kafka/publisher_mock_test.go -package=kafka

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes order events keyed by order number, so events of one
// order land on one partition in commit order.
type Publisher struct {
	writer  writer
	topic   string
	logger  *zap.Logger
	metrics observability.Metrics
}

func NewPublisher(cfg config.Kafka, logger *zap.Logger, metrics observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	return newPublisher(w, cfg.Topic, logger, metrics)
}

func newPublisher(w writer, topic string, logger *zap.Logger, metrics observability.Metrics) *Publisher {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Publisher{
		writer:  w,
		topic:   topic,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *Publisher) Publish(ctx context.Context, ev domain.OrderEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := kafkago.Message{
		Key:   []byte(strconv.FormatInt(ev.OrderNumber, 10)),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.ObserveEvent(false)
		p.logger.Warn("Failed to publish order event",
			zap.String("topic", p.topic),
			zap.String("type", string(ev.Type)),
			zap.Int64("order_number", ev.OrderNumber),
			zap.Error(err),
		)
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	p.metrics.ObserveEvent(true)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Noop drops events; used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, domain.OrderEvent) error { return nil }
func (Noop) Close() error                                     { return nil }
