package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/notification"
)

type stubStorage struct{}

func (stubStorage) SaveCart(ctx context.Context, deviceID string, snap domain.CartSnapshot) error {
	return nil
}

func (stubStorage) LoadCart(ctx context.Context, deviceID string) (*domain.CartSnapshot, error) {
	return nil, nil
}

func (stubStorage) SaveToken(ctx context.Context, deviceID string, token domain.PushToken) error {
	return nil
}

func (stubStorage) LoadToken(ctx context.Context, deviceID string) (*domain.PushToken, error) {
	return nil, nil
}

func (stubStorage) Ping(ctx context.Context) error { return nil }
func (stubStorage) Close() error                   { return nil }

type stubRegistrar struct{}

func (stubRegistrar) RegisterToken(ctx context.Context, token, credential string) error {
	return nil
}

func newTestRouter(t *testing.T, keyHash string) (*gin.Engine, *cart.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	cfg := &config.Config{
		Environment: "test",
		API:         config.APIConfig{KeyHash: keyHash},
	}

	store := cart.NewStore("device-1", stubStorage{}, logger)
	source := notification.NewStaticSource("tok-1")
	navigator := notification.NewLogNavigator(logger)
	relay := notification.NewRelay("device-1", source, stubRegistrar{}, navigator, stubStorage{}, logger)

	return NewRouter(cfg, store, relay, logger), store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCartEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, "")

	// Empty cart.
	w := doJSON(t, router, http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
	assert.Zero(t, resp.Total)

	// Add an item.
	w = doJSON(t, router, http.MethodPost, "/v1/cart/items", handlers.AddItemRequest{
		Product:  domain.Product{ID: "p1", Name: "Widget", Price: 9.99, Stock: 5},
		Quantity: 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.InDelta(t, 19.98, resp.Total, 0.001)

	// Update quantity to zero removes the item.
	w = doJSON(t, router, http.MethodPut, "/v1/cart/items/p1", handlers.UpdateQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)

	// Mutating an absent item is a 404.
	w = doJSON(t, router, http.MethodDelete, "/v1/cart/items/p1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddItemOutOfStock(t *testing.T) {
	router, _ := newTestRouter(t, "")

	w := doJSON(t, router, http.MethodPost, "/v1/cart/items", handlers.AddItemRequest{
		Product:  domain.Product{ID: "p1", Name: "Widget", Price: 9.99, Stock: 0},
		Quantity: 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAddItemValidation(t *testing.T) {
	router, _ := newTestRouter(t, "")

	w := doJSON(t, router, http.MethodPost, "/v1/cart/items", gin.H{"quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPushDeliveryEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, "")

	payload := domain.NotificationPayload{
		Data: domain.PayloadData{Type: "order", OrderID: "A1"},
	}

	for _, path := range []string{"/v1/push/foreground", "/v1/push/opened", "/v1/push/initial"} {
		w := doJSON(t, router, http.MethodPost, path, payload)
		require.Equal(t, http.StatusOK, w.Code, path)

		var resp handlers.RouteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domain.ScreenOrderDetail, resp.Target.Screen, path)
		assert.Equal(t, "A1", resp.Target.Params["orderId"], path)
	}

	// Cold start without a notification.
	w := doJSON(t, router, http.MethodPost, "/v1/push/initial", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLogoutClearsCart(t *testing.T) {
	router, store := newTestRouter(t, "")

	w := doJSON(t, router, http.MethodPost, "/v1/cart/items", handlers.AddItemRequest{
		Product:  domain.Product{ID: "p1", Name: "Widget", Price: 9.99, Stock: 5},
		Quantity: 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/v1/session/logout", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, store.Count())
}

func TestAuthMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("local-key"), bcrypt.MinCost)
	require.NoError(t, err)
	router, _ := newTestRouter(t, string(hash))

	// Missing key.
	w := doJSON(t, router, http.MethodGet, "/v1/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong key.
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	req.Header.Set("X-API-Key", "wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct key.
	req = httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	req.Header.Set("X-API-Key", "local-key")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays open.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
