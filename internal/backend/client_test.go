package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/pkg/errors"
)

func TestRegisterToken(t *testing.T) {
	var gotPath, gotAuth, gotKey string
	var gotBody RegisterTokenRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("X-API-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(config.BackendConfig{BaseURL: srv.URL + "/", APIKey: "app-key"}, zap.NewNop())

	err := client.RegisterToken(context.Background(), "fcm-abc", "jwt-1")
	require.NoError(t, err)

	assert.Equal(t, "/v1/devices/token", gotPath)
	assert.Equal(t, "Bearer jwt-1", gotAuth)
	assert.Equal(t, "app-key", gotKey)
	assert.Equal(t, "fcm-abc", gotBody.Token)
}

func TestRegisterTokenBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(config.BackendConfig{BaseURL: srv.URL}, zap.NewNop())

	err := client.RegisterToken(context.Background(), "fcm-abc", "jwt-1")
	var regErr *errors.ErrRegistrationFailed
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, http.StatusBadGateway, regErr.StatusCode)
}

func TestRegisterTokenUnreachableBackend(t *testing.T) {
	client := NewClient(config.BackendConfig{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())

	err := client.RegisterToken(context.Background(), "fcm-abc", "jwt-1")
	var regErr *errors.ErrRegistrationFailed
	require.ErrorAs(t, err, &regErr)
	assert.Zero(t, regErr.StatusCode)
}
