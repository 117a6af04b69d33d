package cart

import (
	"context"
	"errors"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

type Cache interface {
	Get(ctx context.Context, studentID string) (*domain.Cart, error)
	Set(ctx context.Context, studentID string, cart *domain.Cart) error
	Delete(ctx context.Context, studentID string) error
}

var ErrCacheMiss = errors.New("cache miss")
