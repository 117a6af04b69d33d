package cart

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

var (
	// ErrCanteenMismatch is returned when an item from a second canteen is
	// added to a non-empty cart. Orders are scoped to exactly one canteen.
	ErrCanteenMismatch = errors.New("cart already holds items from another canteen")

	ErrInvalidQuantity = errors.New("quantity must be positive")
)

type Service struct {
	repo  Repository
	cache Cache
	log   *logrus.Logger
	sfg   singleflight.Group // prevents cache stampede
}

func NewService(repo Repository, cache Cache, log *logrus.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetCart returns the student's cart, or an empty cart when none is
// persisted. It never fails soft-state reads up to the caller: cache errors
// are logged and the repository is consulted instead.
func (s *Service) GetCart(ctx context.Context, studentID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(studentID, func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, studentID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.WithError(err).Warn("cart cache get failed")
		}

		cart, errGet := s.repo.GetCart(ctx, studentID)
		if errors.Is(errGet, ErrCartNotFound) {
			return &domain.Cart{
				StudentID: studentID,
				Lines:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), studentID, cart); errSet != nil {
				s.log.WithError(errSet).Warn("cart cache set failed")
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddLine adds quantity units of item to the cart. Adding an item already in
// the cart increments its quantity; a new item appends a line with the item's
// fields copied as they are now. Items from a different canteen than the
// cart's existing lines are rejected.
func (s *Service) AddLine(ctx context.Context, studentID string, item domain.MenuItem, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.GetCart(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if existing := cart.CanteenID(); existing != "" && existing != item.CanteenID {
		return nil, ErrCanteenMismatch
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ItemID == item.ID {
			cart.Lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ItemID:    item.ID,
			Name:      item.Name,
			Price:     item.Price,
			CanteenID: item.CanteenID,
			Nutrition: item.Nutrition,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the line's quantity. A quantity of zero or below
// removes the line. An absent item id leaves the cart unchanged.
func (s *Service) UpdateQuantity(ctx context.Context, studentID, itemID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, studentID, itemID)
	}

	cart, err := s.GetCart(ctx, studentID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Lines {
		if cart.Lines[i].ItemID == itemID {
			cart.Lines[i].Quantity = quantity
			if err := s.persist(ctx, cart); err != nil {
				return nil, err
			}
			return cart, nil
		}
	}

	return cart, nil
}

// RemoveLine removes the matching line if present; a miss is a no-op.
func (s *Service) RemoveLine(ctx context.Context, studentID, itemID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, studentID)
	if err != nil {
		return nil, err
	}

	for i, line := range cart.Lines {
		if line.ItemID == itemID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			if err := s.persist(ctx, cart); err != nil {
				return nil, err
			}
			return cart, nil
		}
	}

	return cart, nil
}

// ClearCart empties the student's cart.
func (s *Service) ClearCart(ctx context.Context, studentID string) error {
	if err := s.repo.DeleteCart(ctx, studentID); err != nil {
		s.log.WithError(err).Error("cart delete failed")
		return err
	}

	s.invalidate(studentID)
	return nil
}

func (s *Service) persist(ctx context.Context, cart *domain.Cart) error {
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		s.log.WithError(err).Error("cart upsert failed")
		return err
	}
	s.invalidate(cart.StudentID)
	return nil
}

func (s *Service) invalidate(studentID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, studentID); err != nil {
		s.log.WithError(err).Warn("cart cache invalidate failed")
	}
}
