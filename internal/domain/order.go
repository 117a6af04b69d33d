package domain

import "time"

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusRequested      OrderStatus = "REQUESTED"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReady          OrderStatus = "READY"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// transitions maps each status to the statuses it may advance to.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendingPayment: {OrderStatusRequested, OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusRequested:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:          {OrderStatusCompleted},
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether an order may move from s to next.
func CanTransitionTo(s, next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus validates a status string coming from a client.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderStatusPendingPayment, OrderStatusRequested, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(raw), true
	}
	return "", false
}

// OrderItem is a cart line frozen at order time. PriceAtOrder never changes
// even if the menu price later does.
type OrderItem struct {
	ItemID       string  `json:"item_id"`
	ItemName     string  `json:"item_name"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"price_at_order"`
}

type Order struct {
	ID                string      `json:"order_id"`
	StudentID         string      `json:"student_id"`
	CanteenID         string      `json:"canteen_id"`
	Items             []OrderItem `json:"items"`
	TokenNumber       int         `json:"token_number"`
	Status            OrderStatus `json:"status"`
	RazorpayOrderID   string      `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string      `json:"razorpay_payment_id,omitempty"`
	TotalAmount       float64     `json:"total_amount"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	ExpiresAt         time.Time   `json:"expires_at"`
}

// Bill is written once a payment is verified; it is the student's receipt.
type Bill struct {
	ID        string      `json:"bill_id"`
	StudentID string      `json:"student_id"`
	OrderID   string      `json:"order_id"`
	Amount    float64     `json:"amount"`
	Items     []OrderItem `json:"items"`
	Timestamp time.Time   `json:"timestamp"`
}
