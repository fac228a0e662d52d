package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LithiumKitmap/Site/internal/files"
	"github.com/LithiumKitmap/Site/internal/hash"
	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/LithiumKitmap/Site/internal/repo"
	"github.com/LithiumKitmap/Site/internal/service"
	"github.com/LithiumKitmap/Site/internal/service/token"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Repo    *repo.GormRepo
	Pending *memoryStore
}

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.CartItem{},
		&models.Order{}, &models.Download{}, &models.RefreshToken{},
	))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := initTestDB(t)
	r := repo.NewGormRepo(db)

	tokens := &token.TokenService{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	resolver := files.Resolver{BaseURL: "http://localhost:3001"}
	cartSvc := &service.CartService{Repo: r}
	pending := newMemoryStore()

	deps := &Deps{
		AuthHandler: &AuthHandler{
			Svc:    &service.AuthService{Repo: r},
			Tokens: tokens,
		},
		ProductHandler: &ProductHandler{
			Svc: &service.CatalogService{Repo: r},
		},
		CartHandler: &CartHandler{Svc: cartSvc},
		CheckoutHandler: &CheckoutHandler{
			Svc: &service.CheckoutService{
				Repo:               r,
				Cart:               cartSvc,
				Pending:            pending,
				PayPalRecipient:    "shop@example.com",
				GooglePayRecipient: "shop-gpay@example.com",
			},
		},
		AdminHandler: &AdminHandler{
			Svc: &service.AdminService{Repo: r, Cart: cartSvc, Files: resolver},
		},
		DownloadHandler: &DownloadHandler{
			Svc: &service.DownloadService{Repo: r, Files: resolver},
		},
		SearchHandler: &SearchHandler{},
		TokenService:  tokens,
	}

	e := echo.New()
	Register(e, deps)

	return &testEnv{T: t, E: e, DB: db, Repo: r, Pending: pending}
}

// doJSONRequest runs the request through the full router, middleware
// included, and returns the recorder.
func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func login(t *testing.T, env *testEnv) (*http.Cookie, *http.Cookie) {
	t.Helper()

	loadmap := map[string]string{
		"email":    "user@example.com",
		"password": "password",
	}
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/register", loadmap)
	require.Equal(t, http.StatusCreated, rec.Code)

	return loginAs(t, env, "user@example.com", "password")
}

func loginAdmin(t *testing.T, env *testEnv) (*http.Cookie, *http.Cookie) {
	t.Helper()

	passwordHash, err := hash.HashPassword("admin_password")
	require.NoError(t, err)
	admin := models.User{
		Email:        "admin@example.com",
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	require.NoError(t, env.DB.Create(&admin).Error)

	return loginAs(t, env, "admin@example.com", "admin_password")
}

func loginAs(t *testing.T, env *testEnv, email, password string) (*http.Cookie, *http.Cookie) {
	t.Helper()

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.AccessToken)

	ckA := &http.Cookie{Name: "accessToken", Value: resp.AccessToken, Path: "/"}
	ckR := &http.Cookie{Name: "refreshToken", Value: resp.RefreshToken, Path: "/"}
	return ckA, ckR
}

func (env *testEnv) createProduct(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	p := models.Product{
		Name:    name,
		Type:    models.ProductTypePlugin,
		Creator: "creator",
		Price:   price,
	}
	require.NoError(t, env.DB.Create(&p).Error)
	return &p
}

// memoryStore is an in-process PendingStore.
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
		return nil, service.ErrNotFound
	}
	return v, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}
