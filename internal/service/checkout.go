package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/LithiumKitmap/Site/internal/logging"
	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/LithiumKitmap/Site/internal/repo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const pendingTTL = time.Hour

// PendingStore holds the checkout snapshot between the redirect and the
// client's return. Backed by Redis in production.
type PendingStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type RedisStore struct {
	Client *redis.Client
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}

// PendingOrder is the cart snapshot stashed at redirect time, keyed by
// payment method, and consumed when the client declares success.
type PendingOrder struct {
	UserID    uuid.UUID         `json:"userId"`
	Method    string            `json:"method"`
	Items     []models.CartItem `json:"items"`
	Total     float64           `json:"total"`
	CreatedAt time.Time         `json:"createdAt"`
}

type CheckoutRedirect struct {
	Method      string `json:"method"`
	RedirectURL string `json:"redirect_url"`
	Total       string `json:"total"`
}

type CheckoutService struct {
	Repo    *repo.GormRepo
	Cart    *CartService
	Pending PendingStore

	PayPalRecipient    string
	GooglePayRecipient string
}

func pendingKey(method string, userID uuid.UUID) string {
	return fmt.Sprintf("pending:%s:%s", method, userID)
}

func (s *CheckoutService) redirectURL(method, total string) (string, error) {
	switch method {
	case models.PaymentMethodPayPal:
		return fmt.Sprintf("https://www.paypal.com/paypalme/%s/%sUSD", s.PayPalRecipient, total), nil
	case models.PaymentMethodGooglePay:
		return fmt.Sprintf(
			"https://pay.google.com/gp/w/u/0/home/sendcash?amount=%s&currency=USD&recipient=%s",
			total, url.QueryEscape(s.GooglePayRecipient),
		), nil
	default:
		return "", fmt.Errorf("unknown payment method %q: %w", method, ErrValidation)
	}
}

// BeginCheckout snapshots the cart and hands back the external payment URL.
// An empty cart fails before any redirect URL is built.
func (s *CheckoutService) BeginCheckout(ctx context.Context, userID uuid.UUID, method string) (*CheckoutRedirect, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", ErrValidation)
	}

	total, totalStr := CartTotal(items)

	redirect, err := s.redirectURL(method, totalStr)
	if err != nil {
		return nil, err
	}

	pending := PendingOrder{
		UserID:    userID,
		Method:    method,
		Items:     items,
		Total:     total,
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(pending)
	if err != nil {
		return nil, err
	}
	if err := s.Pending.Set(ctx, pendingKey(method, userID), data, pendingTTL); err != nil {
		return nil, fmt.Errorf("stash pending order: %w", err)
	}

	return &CheckoutRedirect{Method: method, RedirectURL: redirect, Total: totalStr}, nil
}

// ConfirmCheckout reconciles the stashed snapshot after the client returns
// from the payment page. Nothing verifies that payment actually happened:
// success is client-declared, a trust gap inherited from the original flow.
func (s *CheckoutService) ConfirmCheckout(ctx context.Context, userID uuid.UUID, method string) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if method != models.PaymentMethodPayPal && method != models.PaymentMethodGooglePay {
		return nil, fmt.Errorf("unknown payment method %q: %w", method, ErrValidation)
	}

	key := pendingKey(method, userID)
	data, err := s.Pending.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("no pending order: %w", ErrNotFound)
		}
		return nil, err
	}

	var pending PendingOrder
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("corrupt pending order: %w", err)
	}
	if pending.UserID != userID {
		return nil, fmt.Errorf("no pending order: %w", ErrNotFound)
	}

	now := time.Now()
	orders := make([]models.Order, 0, len(pending.Items))
	for _, it := range pending.Items {
		order := models.Order{
			UserID:        userID,
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Price:         it.Price,
			PaymentStatus: models.PaymentStatusCompleted,
			PaymentMethod: method,
			PurchaseDate:  now,
		}
		if err := s.Repo.CreateOrder(ctx, &order); err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
		orders = append(orders, order)
	}

	if _, err := s.Cart.ClearCart(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("post-checkout cart clear failed", "user_id", userID, "error", err)
	}
	if err := s.Cart.PromoteToClient(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("post-checkout role promotion failed", "user_id", userID, "error", err)
	}
	if err := s.Pending.Delete(ctx, key); err != nil {
		logging.FromContext(ctx).Error("pending order cleanup failed", "user_id", userID, "error", err)
	}

	return orders, nil
}
