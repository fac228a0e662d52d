package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/LithiumKitmap/Site/internal/logging"
	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/LithiumKitmap/Site/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartService struct {
	Repo *repo.GormRepo

	// StrictClear propagates partial cart-clear failures to the caller
	// instead of only reporting them.
	StrictClear bool
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	return s.Repo.GetCart(ctx, userID)
}

// CartTotal is the exact decimal sum of item prices, rendered with two
// fraction digits. Zero items yields "0.00".
func CartTotal(items []models.CartItem) (float64, string) {
	var total float64
	for _, it := range items {
		total += it.Price
	}
	return total, strconv.FormatFloat(total, 'f', 2, 64)
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if productID == uuid.Nil {
		return nil, fmt.Errorf("product id required: %w", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		}
		return nil, err
	}

	exists, err := s.Repo.CartItemExists(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInCart
	}

	item := models.CartItem{
		UserID:      userID,
		ProductID:   productID,
		ProductName: product.Name,
		Price:       product.Price,
		AddedDate:   time.Now(),
	}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		// Two sessions can pass the existence check at once; the unique
		// (user_id, product_id) index settles the race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}
	return &item, nil
}

// RemoveFromCart deletes remotely first; callers only drop cached state
// after this returns nil.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}

	deleted, err := s.Repo.DeleteCartItem(ctx, itemID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("cart item not found: %w", ErrNotFound)
	}
	return nil
}

// ClearCart deletes every item individually and reports per-item results.
// Partial failure leaves the remainder in place; whether it surfaces as an
// error is configuration.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) (*BatchReport, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	report := runBatch(ctx, ids, func(ctx context.Context, id uuid.UUID) error {
		_, err := s.Repo.DeleteCartItem(ctx, id, userID)
		return err
	})

	if !report.Ok() {
		if s.StrictClear {
			return report, fmt.Errorf("cleared %d of %d cart items", len(report.Succeeded), len(ids))
		}
		logging.FromContext(ctx).Error("cart clear partially failed",
			"user_id", userID, "failed", len(report.Failed))
	}
	return report, nil
}

// PromoteToClient escalates role user -> client. Clients and admins are
// left untouched; the no-op is not an error.
func (s *CartService) PromoteToClient(ctx context.Context, userID uuid.UUID) error {
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return err
	}
	if user.Role != models.RoleUser {
		return nil
	}
	return s.Repo.UpdateUserFields(ctx, userID, map[string]any{"role": models.RoleClient})
}
