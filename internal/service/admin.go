package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LithiumKitmap/Site/internal/files"
	"github.com/LithiumKitmap/Site/internal/logging"
	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/LithiumKitmap/Site/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminService struct {
	Repo  *repo.GormRepo
	Cart  *CartService
	Files files.Resolver
}

type GrantReport struct {
	UserID   uuid.UUID    `json:"userId"`
	Report   *BatchReport `json:"report"`
	Promoted bool         `json:"promoted"`
}

// BulkGrant credits a user with product ownership without a payment: one
// completed Order plus one stored Download per product, then a single
// best-effort role promotion. The per-product pairs run concurrently with
// no transaction across them.
func (s *AdminService) BulkGrant(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) (*GrantReport, error) {
	if userID == uuid.Nil || len(productIDs) == 0 {
		return nil, fmt.Errorf("user and products must be selected: %w", ErrInvalidSelection)
	}

	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, err
	}

	now := time.Now()
	report := runBatch(ctx, productIDs, func(ctx context.Context, productID uuid.UUID) error {
		product, err := s.Repo.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("product %s: %w", productID, err)
		}

		order := models.Order{
			UserID:        userID,
			ProductID:     productID,
			ProductName:   product.Name,
			Price:         product.Price,
			PaymentStatus: models.PaymentStatusCompleted,
			PaymentMethod: models.PaymentMethodAdminAdded,
			PurchaseDate:  now,
		}
		if err := s.Repo.CreateOrder(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		download := models.Download{
			UserID:       userID,
			ProductID:    productID,
			ProductName:  product.Name,
			DownloadDate: now,
			FileURL:      s.Files.ProductFileURL(product),
		}
		if err := s.Repo.CreateDownload(ctx, &download); err != nil {
			return fmt.Errorf("create download: %w", err)
		}
		return nil
	})

	// Promotion runs once after all grants attempt, not per product, and
	// never fails the grant itself.
	promoted := false
	if user.Role == models.RoleUser {
		if err := s.Cart.PromoteToClient(ctx, userID); err != nil {
			logging.FromContext(ctx).Error("bulk-grant role promotion failed", "user_id", userID, "error", err)
		} else {
			promoted = true
		}
	}

	return &GrantReport{UserID: userID, Report: report, Promoted: promoted}, nil
}

type ResetReport struct {
	Orders    *BatchReport `json:"orders"`
	Downloads *BatchReport `json:"downloads"`
	Users     *BatchReport `json:"users"`
}

func (r *ResetReport) Ok() bool {
	return r.Orders.Ok() && r.Downloads.Ok() && r.Users.Ok()
}

// ResetPurchases wipes every order and download system-wide, then demotes
// every client back to role=user with cagnotte=0. Admins and plain users
// are untouched. Deletes are concurrent and unordered; a failure partway
// leaves a mixed state, reported per record.
func (s *AdminService) ResetPurchases(ctx context.Context) (*ResetReport, error) {
	orders, err := s.Repo.ListAllOrders(ctx)
	if err != nil {
		return nil, err
	}
	downloads, err := s.Repo.ListAllDownloads(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.Repo.ListUsersByRole(ctx, models.RoleClient)
	if err != nil {
		return nil, err
	}

	orderIDs := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}
	downloadIDs := make([]uuid.UUID, len(downloads))
	for i, d := range downloads {
		downloadIDs[i] = d.ID
	}
	clientIDs := make([]uuid.UUID, len(clients))
	for i, u := range clients {
		clientIDs[i] = u.ID
	}

	report := &ResetReport{
		Orders: runBatch(ctx, orderIDs, func(ctx context.Context, id uuid.UUID) error {
			return s.Repo.DeleteOrder(ctx, id)
		}),
		Downloads: runBatch(ctx, downloadIDs, func(ctx context.Context, id uuid.UUID) error {
			return s.Repo.DeleteDownload(ctx, id)
		}),
		Users: runBatch(ctx, clientIDs, func(ctx context.Context, id uuid.UUID) error {
			return s.Repo.UpdateUserFields(ctx, id, map[string]any{
				"role":     models.RoleUser,
				"cagnotte": 0,
			})
		}),
	}

	if !report.Ok() {
		return report, fmt.Errorf("purchase reset partially failed")
	}
	return report, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}
