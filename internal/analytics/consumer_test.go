package analytics

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/orders"
)

type mockSpendRepo struct {
	m      sync.Mutex
	spends map[string]float64
}

func newMockSpendRepo() *mockSpendRepo {
	return &mockSpendRepo{spends: make(map[string]float64)}
}

func (m *mockSpendRepo) AddSpend(_ context.Context, studentID string, amount float64) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.spends[studentID] += amount
	return nil
}

func (m *mockSpendRepo) GetSpending(context.Context, string) (*domain.SpendingAnalytics, error) {
	return nil, nil
}

func (m *mockSpendRepo) RevenueSummary(context.Context, string) (*RevenueSummary, error) {
	return nil, nil
}

func (m *mockSpendRepo) TopItems(context.Context, string, int) ([]*TopItem, error) {
	return nil, nil
}

type queueReader struct {
	messages []kafka.Message
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(q.messages) == 0 {
		return kafka.Message{}, context.Canceled
	}
	m := q.messages[0]
	q.messages = q.messages[1:]
	return m, nil
}

func (q *queueReader) Close() error { return nil }

func paidMessage(payload string) kafka.Message {
	return kafka.Message{
		Value:   []byte(payload),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(orders.EventOrderPaid)}},
	}
}

func newTestConsumer(repo Repository, reader messageReader) *Consumer {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Consumer{repo: repo, reader: reader, log: log}
}

func TestConsumer_RecordsSpendForPaidOrders(t *testing.T) {
	repo := newMockSpendRepo()
	reader := &queueReader{messages: []kafka.Message{
		paidMessage(`{"order_id":"o1","student_id":"user_1","total_amount":120}`),
		paidMessage(`{"order_id":"o2","student_id":"user_1","total_amount":80}`),
		paidMessage(`{"order_id":"o3","student_id":"user_2","total_amount":45.5}`),
	}}
	c := newTestConsumer(repo, reader)

	for i := 0; i < 3; i++ {
		c.processMessage(context.Background())
	}

	assert.InDelta(t, 200, repo.spends["user_1"], 1e-9)
	assert.InDelta(t, 45.5, repo.spends["user_2"], 1e-9)
}

func TestConsumer_IgnoresOtherEventTypes(t *testing.T) {
	repo := newMockSpendRepo()
	reader := &queueReader{messages: []kafka.Message{
		{
			Value:   []byte(`{"order_id":"o1","student_id":"user_1","total_amount":120}`),
			Headers: []kafka.Header{{Key: "event_type", Value: []byte(orders.EventOrderStatusChanged)}},
		},
	}}
	c := newTestConsumer(repo, reader)

	c.processMessage(context.Background())
	assert.Empty(t, repo.spends)
}

func TestConsumer_SkipsMalformedEvents(t *testing.T) {
	repo := newMockSpendRepo()
	reader := &queueReader{messages: []kafka.Message{
		paidMessage(`{not json`),
		paidMessage(`{"order_id":"o1","total_amount":120}`),
		paidMessage(`{"order_id":"o2","student_id":"user_1","total_amount":0}`),
	}}
	c := newTestConsumer(repo, reader)

	for i := 0; i < 3; i++ {
		c.processMessage(context.Background())
	}
	assert.Empty(t, repo.spends)
}
