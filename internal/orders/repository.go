package orders

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrNotPayable is returned when a payment is verified against an order
	// that is not waiting for payment (already paid, cancelled or expired).
	ErrNotPayable = errors.New("order is not pending payment")

	ErrIllegalTransition = errors.New("illegal order status transition")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OutboxEvent rows are written in the same transaction as the order mutation
// they describe and published to Kafka by the outbox poller.
type OutboxEvent struct {
	ID          int64
	AggregateID string // order id, used as the Kafka message key
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

const (
	EventOrderCreated       = "order_created"
	EventOrderPaid          = "order_paid"
	EventOrderStatusChanged = "order_status_changed"
)

type Repository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByStudent(ctx context.Context, studentID string) ([]*domain.Order, error)
	ListPendingByCanteen(ctx context.Context, canteenID string) ([]*domain.Order, error)
	MarkPaid(ctx context.Context, orderID, paymentID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	ListBillsByStudent(ctx context.Context, studentID string) ([]*domain.Bill, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
	DB() *sql.DB
	RunMigrations(*Credentials) error
	Close() error
}
