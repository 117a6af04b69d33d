// Package publisher drains the order outbox into Kafka. Outbox rows are
// written in the same transaction as the order mutation they describe, so an
// event exists for every committed change and publishing is at-least-once.
package publisher

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/orders"
)

const Topic = "order-events"

// eventSource is the slice of the orders repository the poller needs.
type eventSource interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*orders.OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}

type eventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type OutboxPoller struct {
	tick      time.Duration
	batchSize int
	repo      eventSource
	writer    eventWriter
	log       *logrus.Logger
}

func NewOutboxPoller(repo eventSource, log *logrus.Logger, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{
		tick:      time.Second,
		batchSize: 100,
		repo:      repo,
		writer:    w,
		log:       log,
	}
}

func (p *OutboxPoller) Close() {
	if closer, ok := p.writer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.log.WithError(err).Warn("failed to close kafka writer")
		}
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, p.batchSize)
	if err != nil {
		p.log.WithError(err).Error("failed to fetch outbox events")
		return
	}

	for _, event := range events {
		if errPublish := p.publish(ctx, event); errPublish != nil {
			p.log.WithError(errPublish).WithField("event_id", event.ID).Error("failed to publish event")
			continue
		}

		if errMark := p.repo.MarkEventAsProcessed(ctx, event.ID); errMark != nil {
			p.log.WithError(errMark).WithField("event_id", event.ID).Error("failed to mark event as processed")
			continue
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *orders.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // order_id keeps per-order ordering
		Value: event.Payload,             // already JSON from the database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
