package service

import (
	"context"
	"time"

	"github.com/LithiumKitmap/Site/internal/files"
	"github.com/LithiumKitmap/Site/internal/logging"
	"github.com/LithiumKitmap/Site/internal/repo"
	"github.com/google/uuid"
)

type DownloadService struct {
	Repo  *repo.GormRepo
	Files files.Resolver
}

type DownloadEntry struct {
	OrderID      uuid.UUID `json:"orderId"`
	ProductID    uuid.UUID `json:"productId"`
	ProductName  string    `json:"productName"`
	PurchaseDate time.Time `json:"purchaseDate"`
	FileURL      string    `json:"fileUrl"`
}

// ListUserDownloads derives the download list from the user's completed
// orders rather than stored records, so purchases made through either the
// checkout or the admin grant path both appear. Products that no longer
// resolve yield an empty file URL; referential integrity is assumed, not
// verified.
func (s *DownloadService) ListUserDownloads(ctx context.Context, userID uuid.UUID) ([]DownloadEntry, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	orders, err := s.Repo.ListCompletedOrders(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]DownloadEntry, 0, len(orders))
	for _, order := range orders {
		fileURL := ""
		product, err := s.Repo.GetProduct(ctx, order.ProductID)
		if err != nil {
			logging.FromContext(ctx).Warn("download product lookup failed",
				"order_id", order.ID, "product_id", order.ProductID, "error", err)
		} else {
			fileURL = s.Files.ProductFileURL(product)
		}
		entries = append(entries, DownloadEntry{
			OrderID:      order.ID,
			ProductID:    order.ProductID,
			ProductName:  order.ProductName,
			PurchaseDate: order.PurchaseDate,
			FileURL:      fileURL,
		})
	}
	return entries, nil
}
