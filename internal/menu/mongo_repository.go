package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

type mongoRepository struct {
	canteens *mongo.Collection
	items    *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		canteens: db.Collection("canteens"),
		items:    db.Collection("menu_items"),
	}
}

func (m *mongoRepository) ListCanteens(ctx context.Context) ([]*domain.Canteen, error) {
	cursor, err := m.canteens.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list canteens: %w", err)
	}
	defer cursor.Close(ctx)

	var canteens []*domain.Canteen
	if err := cursor.All(ctx, &canteens); err != nil {
		return nil, fmt.Errorf("failed to decode canteens: %w", err)
	}
	return canteens, nil
}

func (m *mongoRepository) GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error) {
	var canteen domain.Canteen
	err := m.canteens.FindOne(ctx, bson.M{"canteen_id": canteenID}).Decode(&canteen)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCanteenNotFound
		}
		return nil, fmt.Errorf("failed to get canteen: %w", err)
	}
	return &canteen, nil
}

func (m *mongoRepository) ListMenu(ctx context.Context, canteenID string) ([]*domain.MenuItem, error) {
	return m.findItems(ctx, bson.M{"canteen_id": canteenID})
}

func (m *mongoRepository) ListAvailable(ctx context.Context, canteenID string) ([]*domain.MenuItem, error) {
	filter := bson.M{"available": true}
	if canteenID != "" {
		filter["canteen_id"] = canteenID
	}
	return m.findItems(ctx, filter)
}

func (m *mongoRepository) findItems(ctx context.Context, filter bson.M) ([]*domain.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := m.items.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.MenuItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}
	return items, nil
}

func (m *mongoRepository) GetItem(ctx context.Context, itemID string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := m.items.FindOne(ctx, bson.M{"item_id": itemID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return &item, nil
}

func (m *mongoRepository) CreateItem(ctx context.Context, item *domain.MenuItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if _, err := m.items.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

func (m *mongoRepository) UpdateItem(ctx context.Context, itemID string, update domain.MenuItemUpdate) error {
	set := bson.M{}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.StockQty != nil {
		set["stock_qty"] = *update.StockQty
	}
	if update.Available != nil {
		set["available"] = *update.Available
	}
	if len(set) == 0 {
		return nil
	}

	result, err := m.items.UpdateOne(ctx, bson.M{"item_id": itemID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}
