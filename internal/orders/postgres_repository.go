package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

type postgresRepository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &postgresRepository{db: db}, nil
}

func (r *postgresRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *postgresRepository) DB() *sql.DB {
	return r.db
}

func (r *postgresRepository) Close() error {
	return r.db.Close()
}

func (r *postgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders
	          (id, student_id, canteen_id, items, token_number, status, razorpay_order_id, razorpay_payment_id, total_amount, created_at, updated_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW(), $10)`

	if _, err := tx.ExecContext(ctx, query,
		order.ID,
		order.StudentID,
		order.CanteenID,
		itemsJSON,
		order.TokenNumber,
		order.Status,
		order.RazorpayOrderID,
		order.RazorpayPaymentID,
		order.TotalAmount,
		order.ExpiresAt,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertOutboxEvent(ctx, tx, order, EventOrderCreated); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, selectOrder+` WHERE id = $1`, id)
	return scanOrder(row)
}

func (r *postgresRepository) ListOrdersByStudent(ctx context.Context, studentID string) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		selectOrder+` WHERE student_id = $1 ORDER BY created_at DESC LIMIT 100`, studentID)
	if err != nil {
		return nil, fmt.Errorf("query orders by student: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *postgresRepository) ListPendingByCanteen(ctx context.Context, canteenID string) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		selectOrder+` WHERE canteen_id = $1 AND status IN ($2, $3) ORDER BY created_at ASC LIMIT 100`,
		canteenID, domain.OrderStatusPreparing, domain.OrderStatusReady)
	if err != nil {
		return nil, fmt.Errorf("query pending orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// MarkPaid transitions PENDING_PAYMENT -> PREPARING, records the gateway
// payment id, writes the bill and the order_paid outbox event, all in one
// transaction. The status guard lives in the transaction so a double
// verification cannot pay twice.
func (r *postgresRepository) MarkPaid(ctx context.Context, orderID, paymentID string) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	order, err := getOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPendingPayment {
		return nil, ErrNotPayable
	}
	if !order.ExpiresAt.IsZero() && time.Now().After(order.ExpiresAt) {
		return nil, ErrNotPayable
	}

	order.Status = domain.OrderStatusPreparing
	order.RazorpayPaymentID = paymentID
	order.UpdatedAt = time.Now()

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, razorpay_payment_id = $2, updated_at = NOW() WHERE id = $3`,
		order.Status, paymentID, orderID); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal bill items: %w", err)
	}
	billID := fmt.Sprintf("bill_%s", uuid.New().String()[:12])
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bills (id, student_id, order_id, amount, items, ts) VALUES ($1, $2, $3, $4, $5, NOW())`,
		billID, order.StudentID, order.ID, order.TotalAmount, itemsJSON); err != nil {
		return nil, fmt.Errorf("insert bill: %w", err)
	}

	if err := insertOutboxEvent(ctx, tx, order, EventOrderPaid); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mark paid: %w", err)
	}
	return order, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	order, err := getOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionTo(order.Status, status) {
		return nil, ErrIllegalTransition
	}

	order.Status = status
	order.UpdatedAt = time.Now()

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, orderID); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := insertOutboxEvent(ctx, tx, order, EventOrderStatusChanged); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit status update: %w", err)
	}
	return order, nil
}

func (r *postgresRepository) ListBillsByStudent(ctx context.Context, studentID string) ([]*domain.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, student_id, order_id, amount, items, ts FROM bills WHERE student_id = $1 ORDER BY ts DESC LIMIT 100`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var bills []*domain.Bill
	for rows.Next() {
		var bill domain.Bill
		var itemsJSON []byte
		if err := rows.Scan(&bill.ID, &bill.StudentID, &bill.OrderID, &bill.Amount, &itemsJSON, &bill.Timestamp); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &bill.Items); err != nil {
			return nil, fmt.Errorf("unmarshal bill items: %w", err)
		}
		bills = append(bills, &bill)
	}
	return bills, rows.Err()
}

func (r *postgresRepository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, aggregate_id, event_type, payload, created_at
		 FROM order_outbox WHERE processed_at IS NULL ORDER BY id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var event OutboxEvent
		if err := rows.Scan(&event.ID, &event.AggregateID, &event.EventType, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}

func (r *postgresRepository) MarkEventAsProcessed(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE order_outbox SET processed_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark outbox event processed: %w", err)
	}
	return nil
}

const selectOrder = `SELECT id, student_id, canteen_id, items, token_number, status,
	razorpay_order_id, razorpay_payment_id, total_amount, created_at, updated_at, expires_at
	FROM orders`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte
	err := row.Scan(
		&order.ID,
		&order.StudentID,
		&order.CanteenID,
		&itemsJSON,
		&order.TokenNumber,
		&order.Status,
		&order.RazorpayOrderID,
		&order.RazorpayPaymentID,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &order, nil
}

func scanOrders(rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func getOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID string) (*domain.Order, error) {
	row := tx.QueryRowContext(ctx, selectOrder+` WHERE id = $1 FOR UPDATE`, orderID)
	return scanOrder(row)
}

func insertOutboxEvent(ctx context.Context, tx *sql.Tx, order *domain.Order, eventType string) error {
	payload := map[string]interface{}{
		"order_id":     order.ID,
		"student_id":   order.StudentID,
		"canteen_id":   order.CanteenID,
		"token_number": order.TokenNumber,
		"status":       order.Status,
		"total_amount": order.TotalAmount,
		"occurred_at":  time.Now(),
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO order_outbox (aggregate_id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())`,
		order.ID, eventType, payloadJSON); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}
