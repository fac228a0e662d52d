package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LithiumKitmap/Site/internal/logging"
	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/LithiumKitmap/Site/internal/repo"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const FeaturedLimit = 4

type CatalogService struct {
	Repo  *repo.GormRepo
	ES    *elasticsearch.Client
	Index string
}

type ProductInput struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Creator     string  `json:"creator"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	DemoLink    string  `json:"demoLink"`
	Featured    bool    `json:"featured"`
	DownloadURL string  `json:"download_url"`
	PluginFile  string  `json:"pluginFile"`
	MapFile     string  `json:"mapFile"`
	ImageFile   string  `json:"imageFile"`
}

func (in *ProductInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("name required: %w", ErrValidation)
	}
	if in.Creator == "" {
		return fmt.Errorf("creator required: %w", ErrValidation)
	}
	if in.Type != models.ProductTypePlugin && in.Type != models.ProductTypeMap {
		return fmt.Errorf("type must be plugin or map: %w", ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("price must be non-negative: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context, typ string, featured *bool, offset, limit int) (int64, []models.Product, error) {
	if typ != "" && typ != models.ProductTypePlugin && typ != models.ProductTypeMap {
		return 0, nil, fmt.Errorf("unknown product type %q: %w", typ, ErrValidation)
	}
	return s.Repo.ListProducts(ctx, repo.ProductFilter{Type: typ, Featured: featured}, offset, limit)
}

func (s *CatalogService) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	featured := true
	_, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{Featured: &featured}, 0, FeaturedLimit)
	return items, err
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product not found: %w", ErrNotFound)
	}
	return product, err
}

func (s *CatalogService) CreateProduct(ctx context.Context, in *ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        in.Name,
		Type:        in.Type,
		Creator:     in.Creator,
		Price:       in.Price,
		Description: in.Description,
		DemoLink:    in.DemoLink,
		Featured:    in.Featured,
		DownloadURL: in.DownloadURL,
		PluginFile:  in.PluginFile,
		MapFile:     in.MapFile,
		ImageFile:   in.ImageFile,
	}
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}
	s.indexProduct(ctx, &product)
	return &product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in *ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		}
		return nil, err
	}

	product.Name = in.Name
	product.Type = in.Type
	product.Creator = in.Creator
	product.Price = in.Price
	product.Description = in.Description
	product.DemoLink = in.DemoLink
	product.Featured = in.Featured
	product.DownloadURL = in.DownloadURL
	product.PluginFile = in.PluginFile
	product.MapFile = in.MapFile
	product.ImageFile = in.ImageFile

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	s.indexProduct(ctx, product)
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.deindexProduct(ctx, id)
	return nil
}

// ClientCount backs the homepage community counter.
func (s *CatalogService) ClientCount(ctx context.Context) (int64, error) {
	return s.Repo.CountUsersByRole(ctx, models.RoleClient)
}

// Index sync is best-effort: search lags the catalog on failure, it never
// blocks a write.
func (s *CatalogService) indexProduct(ctx context.Context, p *models.Product) {
	if s.ES == nil {
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		logging.FromContext(ctx).Error("product index encode failed", "product_id", p.ID, "error", err)
		return
	}

	res, err := s.ES.Index(s.Index, &buf,
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(p.ID.String()),
	)
	if err != nil {
		logging.FromContext(ctx).Error("product index failed", "product_id", p.ID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		logging.FromContext(ctx).Error("product index failed", "product_id", p.ID, "status", res.Status())
	}
}

func (s *CatalogService) deindexProduct(ctx context.Context, id uuid.UUID) {
	if s.ES == nil {
		return
	}

	res, err := s.ES.Delete(s.Index, id.String(), s.ES.Delete.WithContext(ctx))
	if err != nil {
		logging.FromContext(ctx).Error("product deindex failed", "product_id", id, "error", err)
		return
	}
	res.Body.Close()
}
