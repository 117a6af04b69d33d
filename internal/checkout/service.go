// Package checkout drives the protocol that turns a cart into a paid order:
// order creation, payment-gateway correlation, payment verification, and only
// then cart clearing. A failure anywhere before verification leaves both the
// cart and the order untouched, so the student can retry; an order stuck in
// PENDING_PAYMENT stays resumable through VerifyPayment.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/orders"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/payment"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/realtime"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

const pendingOrderTTL = 10 * time.Minute

// Notifier pushes order events to realtime rooms.
type Notifier interface {
	Broadcast(room string, update realtime.OrderUpdate)
}

// CartStore is the slice of the cart service checkout needs.
type CartStore interface {
	GetCart(ctx context.Context, studentID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, studentID string) error
}

type Service struct {
	carts    CartStore
	repo     orders.Repository
	gateway  payment.Gateway
	notifier Notifier
	log      *logrus.Logger
	tokens   func() int
}

func NewService(carts CartStore, repo orders.Repository, gateway payment.Gateway, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{
		carts:    carts,
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		log:      log,
		tokens:   newTokenNumber,
	}
}

// CheckoutResult is what the client needs to drive the payment widget, or to
// skip it when the gateway runs in test mode.
type CheckoutResult struct {
	OrderID         string  `json:"order_id"`
	TokenNumber     int     `json:"token_number"`
	TotalAmount     float64 `json:"total_amount"`
	RazorpayOrderID string  `json:"razorpay_order_id"`
	RazorpayKeyID   string  `json:"razorpay_key_id"`
	TestMode        bool    `json:"test_mode"`
}

// Checkout snapshots the student's cart into a PENDING_PAYMENT order. Prices
// are frozen at this moment; later menu edits do not change the order. The
// cart is deliberately NOT cleared here: clearing happens only after the
// payment is verified.
func (s *Service) Checkout(ctx context.Context, studentID string) (*CheckoutResult, error) {
	c, err := s.carts.GetCart(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(c.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := c.Total()

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, total, "INR")
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	items := make([]domain.OrderItem, len(c.Lines))
	for i, line := range c.Lines {
		items[i] = domain.OrderItem{
			ItemID:       line.ItemID,
			ItemName:     line.Name,
			Quantity:     line.Quantity,
			PriceAtOrder: line.Price,
		}
	}

	order := &domain.Order{
		ID:              fmt.Sprintf("order_%s", uuid.New().String()[:12]),
		StudentID:       studentID,
		CanteenID:       c.CanteenID(),
		Items:           items,
		TokenNumber:     s.tokens(),
		Status:          domain.OrderStatusPendingPayment,
		RazorpayOrderID: gatewayOrderID,
		TotalAmount:     total,
		ExpiresAt:       time.Now().Add(pendingOrderTTL),
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"student_id": studentID,
		"canteen_id": order.CanteenID,
		"total":      total,
	}).Info("order created, awaiting payment")

	return &CheckoutResult{
		OrderID:         order.ID,
		TokenNumber:     order.TokenNumber,
		TotalAmount:     total,
		RazorpayOrderID: gatewayOrderID,
		RazorpayKeyID:   s.gateway.KeyID(),
		TestMode:        s.gateway.TestMode(),
	}, nil
}

// VerifyPayment checks the gateway signature and, on success, marks the order
// paid (PREPARING), writes the bill, clears the cart, and notifies the
// canteen room. The repository guards the status transition inside its
// transaction, so verifying an already-paid order fails instead of paying
// twice. A cart-clear failure after the order is paid is logged, not
// returned: the server-side order is the source of truth for payment.
func (s *Service) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPendingPayment {
		return nil, orders.ErrNotPayable
	}
	if !order.ExpiresAt.IsZero() && time.Now().After(order.ExpiresAt) {
		return nil, orders.ErrNotPayable
	}

	if err := s.gateway.VerifySignature(order.RazorpayOrderID, paymentID, signature); err != nil {
		return nil, err
	}

	paid, err := s.repo.MarkPaid(ctx, orderID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.ClearCart(ctx, paid.StudentID); err != nil {
		s.log.WithError(err).WithField("order_id", orderID).
			Error("cart clear failed after payment, cart left for manual cleanup")
	}

	s.notifier.Broadcast(paid.CanteenID, realtime.OrderUpdate{
		OrderID:     paid.ID,
		Status:      paid.Status.String(),
		CanteenID:   paid.CanteenID,
		TokenNumber: paid.TokenNumber,
	})

	s.log.WithFields(logrus.Fields{
		"order_id":     orderID,
		"token_number": paid.TokenNumber,
	}).Info("payment verified")

	return paid, nil
}
