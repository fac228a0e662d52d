package repo

import (
	"context"

	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/google/uuid"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) ListCompletedOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND payment_status = ?", userID, models.PaymentStatusCompleted).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.Order{}, "id = ?", id).Error
}

func (r *GormRepo) CreateDownload(ctx context.Context, d *models.Download) error {
	return r.DB.WithContext(ctx).Create(d).Error
}

func (r *GormRepo) ListDownloads(ctx context.Context, userID uuid.UUID) ([]models.Download, error) {
	var downloads []models.Download
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&downloads).Error
	if err != nil {
		return nil, err
	}
	return downloads, nil
}

func (r *GormRepo) ListAllDownloads(ctx context.Context) ([]models.Download, error) {
	var downloads []models.Download
	if err := r.DB.WithContext(ctx).Find(&downloads).Error; err != nil {
		return nil, err
	}
	return downloads, nil
}

func (r *GormRepo) DeleteDownload(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.Download{}, "id = ?", id).Error
}
