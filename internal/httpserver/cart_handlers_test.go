package httpserver

import (
	"net/http"
	"testing"

	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGetCartEmpty(t *testing.T) {
	env := newTestEnv(t)
	ckA, ckR := login(t, env)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, ckA, ckR)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []models.CartItem `json:"items"`
		Count int               `json:"count"`
		Total string            `json:"total"`
	}
	decodeBody(t, rec, &resp)
	require.Empty(t, resp.Items)
	require.Zero(t, resp.Count)
	require.Equal(t, "0.00", resp.Total)
}

func TestAddToCartHandler(t *testing.T) {
	env := newTestEnv(t)
	ckA, ckR := login(t, env)
	p := env.createProduct(t, "WorldEdit", 4.99)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart",
		map[string]string{"product_id": p.ID.String()}, ckA, ckR)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.CartItem
	decodeBody(t, rec, &item)
	require.Equal(t, p.ID, item.ProductID)
	require.Equal(t, "WorldEdit", item.ProductName)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, ckA, ckR)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int    `json:"count"`
		Total string `json:"total"`
	}
	decodeBody(t, rec, &resp)
	require.Equal(t, 1, resp.Count)
	require.Equal(t, "4.99", resp.Total)
}

func TestAddToCartDuplicateConflict(t *testing.T) {
	env := newTestEnv(t)
	ckA, ckR := login(t, env)
	p := env.createProduct(t, "WorldEdit", 4.99)

	body := map[string]string{"product_id": p.ID.String()}
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart", body, ckA, ckR)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/cart", body, ckA, ckR)
	require.Equal(t, http.StatusConflict, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddToCartUnknownProductHandler(t *testing.T) {
	env := newTestEnv(t)
	ckA, ckR := login(t, env)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart",
		map[string]string{"product_id": uuid.NewString()}, ckA, ckR)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/cart",
		map[string]string{"product_id": uuid.NewString()})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteFromCartHandler(t *testing.T) {
	env := newTestEnv(t)
	ckA, ckR := login(t, env)
	p := env.createProduct(t, "WorldEdit", 4.99)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart",
		map[string]string{"product_id": p.ID.String()}, ckA, ckR)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.CartItem
	decodeBody(t, rec, &item)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/cart/"+item.ID.String(), nil, ckA, ckR)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		DeletedItem uuid.UUID `json:"deleted_item"`
	}
	decodeBody(t, rec, &resp)
	require.Equal(t, item.ID, resp.DeletedItem)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestDeleteFromCartUnknownItem(t *testing.T) {
	env := newTestEnv(t)
	ckA, ckR := login(t, env)

	rec := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/"+uuid.NewString(), nil, ckA, ckR)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearCartHandler(t *testing.T) {
	env := newTestEnv(t)
	ckA, ckR := login(t, env)

	for _, name := range []string{"WorldEdit", "SkyBlock Map"} {
		p := env.createProduct(t, name, 5)
		rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart",
			map[string]string{"product_id": p.ID.String()}, ckA, ckR)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.doJSONRequest(http.MethodDelete, "/api/v1/cart", nil, ckA, ckR)
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Succeeded []uuid.UUID `json:"succeeded"`
	}
	decodeBody(t, rec, &report)
	require.Len(t, report.Succeeded, 2)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Count(&count).Error)
	require.Zero(t, count)
}
