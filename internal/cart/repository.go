package cart

import (
	"context"
	"errors"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// Repository persists one cart document per student. The service layer does
// the read-modify-write; the repository only swaps whole documents, which
// keeps mutations atomic from the caller's point of view (last write wins
// across concurrent writers).
type Repository interface {
	GetCart(ctx context.Context, studentID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, studentID string) error
}
