package orders

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/realtime"
)

// Notifier pushes order events to realtime rooms.
type Notifier interface {
	Broadcast(room string, update realtime.OrderUpdate)
}

type Service struct {
	repo     Repository
	notifier Notifier
	log      *logrus.Logger
}

func NewService(repo Repository, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

// ListMyOrders returns the student's orders, newest first. PENDING_PAYMENT
// orders are included so the client can offer the payment retry.
func (s *Service) ListMyOrders(ctx context.Context, studentID string) ([]*domain.Order, error) {
	return s.repo.ListOrdersByStudent(ctx, studentID)
}

// ListPendingForCanteen is the crew dashboard view: orders being prepared or
// waiting for pickup.
func (s *Service) ListPendingForCanteen(ctx context.Context, canteenID string) ([]*domain.Order, error) {
	return s.repo.ListPendingByCanteen(ctx, canteenID)
}

// UpdateStatus advances an order on behalf of crew or management. The
// student's room is notified so their tracking view refreshes.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(order.StudentID, realtime.OrderUpdate{
		OrderID:   order.ID,
		Status:    order.Status.String(),
		StudentID: order.StudentID,
	})

	s.log.WithFields(logrus.Fields{
		"order_id": orderID,
		"status":   status,
	}).Info("order status updated")

	return order, nil
}

// ListBills returns the student's receipts, newest first.
func (s *Service) ListBills(ctx context.Context, studentID string) ([]*domain.Bill, error) {
	return s.repo.ListBillsByStudent(ctx, studentID)
}
