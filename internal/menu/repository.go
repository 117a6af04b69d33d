package menu

import (
	"context"
	"errors"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

var (
	ErrItemNotFound    = errors.New("menu item not found")
	ErrCanteenNotFound = errors.New("canteen not found")
)

type Repository interface {
	ListCanteens(ctx context.Context) ([]*domain.Canteen, error)
	GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error)
	ListMenu(ctx context.Context, canteenID string) ([]*domain.MenuItem, error)
	ListAvailable(ctx context.Context, canteenID string) ([]*domain.MenuItem, error)
	GetItem(ctx context.Context, itemID string) (*domain.MenuItem, error)
	CreateItem(ctx context.Context, item *domain.MenuItem) error
	UpdateItem(ctx context.Context, itemID string, update domain.MenuItemUpdate) error
}
