package service

import (
	"context"
	"testing"

	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newCheckoutService(r *CartService, store PendingStore) *CheckoutService {
	return &CheckoutService{
		Repo:               r.Repo,
		Cart:               r,
		Pending:            store,
		PayPalRecipient:    "shop@example.com",
		GooglePayRecipient: "shop-gpay@example.com",
	}
}

func TestBeginCheckoutEmptyCart(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	store := newMemoryStore()
	svc := newCheckoutService(cart, store)

	user := seedUser(t, r, "buyer@example.com", models.RoleUser)

	_, err := svc.BeginCheckout(context.Background(), user.ID, models.PaymentMethodPayPal)
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, store.data)
}

func TestBeginCheckoutPayPal(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	store := newMemoryStore()
	svc := newCheckoutService(cart, store)
	ctx := context.Background()

	user := seedUser(t, r, "buyer@example.com", models.RoleUser)
	p1 := seedProduct(t, r, "Plugin", 9.99)
	p2 := seedProduct(t, r, "Map", 5)
	_, err := cart.AddToCart(ctx, user.ID, p1.ID)
	require.NoError(t, err)
	_, err = cart.AddToCart(ctx, user.ID, p2.ID)
	require.NoError(t, err)

	redirect, err := svc.BeginCheckout(ctx, user.ID, models.PaymentMethodPayPal)
	require.NoError(t, err)
	require.Equal(t, "14.99", redirect.Total)
	require.Equal(t, "https://www.paypal.com/paypalme/shop@example.com/14.99USD", redirect.RedirectURL)
	require.Contains(t, store.data, "pending:paypal:"+user.ID.String())
}

func TestBeginCheckoutGooglePay(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	svc := newCheckoutService(cart, newMemoryStore())
	ctx := context.Background()

	user := seedUser(t, r, "buyer@example.com", models.RoleUser)
	product := seedProduct(t, r, "Plugin", 2.5)
	_, err := cart.AddToCart(ctx, user.ID, product.ID)
	require.NoError(t, err)

	redirect, err := svc.BeginCheckout(ctx, user.ID, models.PaymentMethodGooglePay)
	require.NoError(t, err)
	require.Equal(t,
		"https://pay.google.com/gp/w/u/0/home/sendcash?amount=2.50&currency=USD&recipient=shop-gpay%40example.com",
		redirect.RedirectURL)
}

func TestBeginCheckoutUnknownMethod(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	svc := newCheckoutService(cart, newMemoryStore())
	ctx := context.Background()

	user := seedUser(t, r, "buyer@example.com", models.RoleUser)
	product := seedProduct(t, r, "Plugin", 2.5)
	_, err := cart.AddToCart(ctx, user.ID, product.ID)
	require.NoError(t, err)

	_, err = svc.BeginCheckout(ctx, user.ID, "wire")
	require.ErrorIs(t, err, ErrValidation)
}

func TestConfirmCheckout(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	store := newMemoryStore()
	svc := newCheckoutService(cart, store)
	ctx := context.Background()

	user := seedUser(t, r, "buyer@example.com", models.RoleUser)
	p1 := seedProduct(t, r, "Plugin", 9.99)
	p2 := seedProduct(t, r, "Map", 5)
	_, err := cart.AddToCart(ctx, user.ID, p1.ID)
	require.NoError(t, err)
	_, err = cart.AddToCart(ctx, user.ID, p2.ID)
	require.NoError(t, err)

	_, err = svc.BeginCheckout(ctx, user.ID, models.PaymentMethodPayPal)
	require.NoError(t, err)

	orders, err := svc.ConfirmCheckout(ctx, user.ID, models.PaymentMethodPayPal)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Equal(t, models.PaymentStatusCompleted, o.PaymentStatus)
		require.Equal(t, models.PaymentMethodPayPal, o.PaymentMethod)
		require.Equal(t, user.ID, o.UserID)
	}

	// Cart emptied, role promoted, stash consumed.
	require.EqualValues(t, 0, countRows(t, r, &models.CartItem{}, "user_id = ?", user.ID))
	got, err := r.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleClient, got.Role)
	require.Empty(t, store.data)
}

func TestConfirmCheckoutWithoutPending(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	svc := newCheckoutService(cart, newMemoryStore())

	user := seedUser(t, r, "buyer@example.com", models.RoleUser)

	_, err := svc.ConfirmCheckout(context.Background(), user.ID, models.PaymentMethodPayPal)
	require.ErrorIs(t, err, ErrNotFound)
	require.EqualValues(t, 0, countRows(t, r, &models.Order{}, ""))
}

func TestConfirmCheckoutUnauthenticated(t *testing.T) {
	r := newTestRepo(t)
	svc := newCheckoutService(&CartService{Repo: r}, newMemoryStore())

	_, err := svc.ConfirmCheckout(context.Background(), uuid.Nil, models.PaymentMethodPayPal)
	require.ErrorIs(t, err, ErrUnauthenticated)
}
