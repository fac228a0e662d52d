package service

import (
	"context"
	"testing"
	"time"

	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/LithiumKitmap/Site/internal/repo"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.Download{},
		&models.RefreshToken{},
	))
	return db
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.NewGormRepo(newTestDB(t))
}

func seedUser(t *testing.T, r *repo.GormRepo, email, role string) *models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, r.CreateUser(context.Background(), &user))
	return &user
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price float64) *models.Product {
	t.Helper()
	product := models.Product{
		Name:    name,
		Type:    models.ProductTypePlugin,
		Creator: "test_creator",
		Price:   price,
	}
	require.NoError(t, r.CreateProduct(context.Background(), &product))
	return &product
}

func countRows(t *testing.T, r *repo.GormRepo, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := r.DB.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

// memoryStore is an in-process PendingStore for checkout tests.
type memoryStore struct {
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}
