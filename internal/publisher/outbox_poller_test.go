package publisher

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/orders"
)

type mockEventSource struct {
	events    []*orders.OutboxEvent
	fetchErr  error
	markErr   error
	processed []int64
}

func (m *mockEventSource) GetUnprocessedEvents(context.Context, int) ([]*orders.OutboxEvent, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.events, nil
}

func (m *mockEventSource) MarkEventAsProcessed(_ context.Context, id int64) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.processed = append(m.processed, id)
	return nil
}

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func newTestPoller(repo *mockEventSource, writer *mockWriter) *OutboxPoller {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &OutboxPoller{
		batchSize: 100,
		repo:      repo,
		writer:    writer,
		log:       log,
	}
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	repo := &mockEventSource{
		events: []*orders.OutboxEvent{
			{ID: 1, AggregateID: "order_1", EventType: orders.EventOrderPaid, Payload: []byte(`{"order_id":"order_1"}`)},
			{ID: 2, AggregateID: "order_2", EventType: orders.EventOrderStatusChanged, Payload: []byte(`{"order_id":"order_2"}`)},
		},
	}
	writer := &mockWriter{}
	poller := newTestPoller(repo, writer)

	poller.processUnpublishedEvents(context.Background())

	require.Len(t, writer.messages, 2)
	assert.Equal(t, []byte("order_1"), writer.messages[0].Key)
	assert.Equal(t, []byte(`{"order_id":"order_1"}`), writer.messages[0].Value)
	require.Len(t, writer.messages[0].Headers, 1)
	assert.Equal(t, "event_type", writer.messages[0].Headers[0].Key)
	assert.Equal(t, []byte(orders.EventOrderPaid), writer.messages[0].Headers[0].Value)

	assert.Equal(t, []int64{1, 2}, repo.processed)
}

func TestProcessUnpublishedEvents_PublishFailureLeavesEventUnprocessed(t *testing.T) {
	repo := &mockEventSource{
		events: []*orders.OutboxEvent{
			{ID: 1, AggregateID: "order_1", EventType: orders.EventOrderPaid, Payload: []byte(`{}`)},
		},
	}
	writer := &mockWriter{err: errors.New("broker down")}
	poller := newTestPoller(repo, writer)

	poller.processUnpublishedEvents(context.Background())

	// Not marked; next tick retries.
	assert.Empty(t, repo.processed)
}

func TestProcessUnpublishedEvents_FetchFailureIsQuiet(t *testing.T) {
	repo := &mockEventSource{fetchErr: errors.New("db down")}
	poller := newTestPoller(repo, &mockWriter{})

	poller.processUnpublishedEvents(context.Background())
	assert.Empty(t, repo.processed)
}
