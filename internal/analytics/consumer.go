package analytics

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/orders"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/publisher"
)

// orderEvent mirrors the outbox payload written by the orders repository.
type orderEvent struct {
	OrderID     string  `json:"order_id"`
	StudentID   string  `json:"student_id"`
	CanteenID   string  `json:"canteen_id"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer applies order_paid events to the spending analytics table.
// Publishing is at-least-once, so a redelivered event can double-count a
// spend; the totals are advisory, not billing records.
type Consumer struct {
	repo   Repository
	reader messageReader
	log    *logrus.Logger
}

func NewConsumer(repo Repository, log *logrus.Logger, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    publisher.Topic,
		GroupID:  "spending-analytics",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{repo: repo, reader: reader, log: log}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.WithError(err).Error("error closing kafka reader")
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.log.WithError(err).Error("error reading message")
		return
	}

	if eventType(m) != orders.EventOrderPaid {
		return
	}

	var event orderEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		c.log.WithError(err).Error("error parsing order event")
		return
	}
	if event.StudentID == "" || event.TotalAmount <= 0 {
		c.log.WithField("order_id", event.OrderID).Warn("skipping malformed order_paid event")
		return
	}

	if err := c.repo.AddSpend(ctx, event.StudentID, event.TotalAmount); err != nil {
		c.log.WithError(err).WithField("order_id", event.OrderID).Error("failed to record spend")
		return
	}

	c.log.WithFields(logrus.Fields{
		"order_id":   event.OrderID,
		"student_id": event.StudentID,
		"amount":     event.TotalAmount,
	}).Debug("spend recorded")
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
