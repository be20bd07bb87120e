package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
)

func newTestStore(t *testing.T) *store {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewStore(config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadCart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap := domain.CartSnapshot{
		Items: []domain.CartItem{
			{ProductID: "p1", Name: "Widget", UnitPrice: 9.99, Quantity: 2, StockLimit: 5},
		},
		Seq:        3,
		CapturedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SaveCart(ctx, "device-1", snap))

	loaded, err := s.LoadCart(ctx, "device-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.Seq, loaded.Seq)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "p1", loaded.Items[0].ProductID)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
}

func TestLoadCartMissing(t *testing.T) {
	s := newTestStore(t)

	loaded, err := s.LoadCart(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveAndLoadToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	token := domain.PushToken{
		Value:                 "fcm-abc",
		RegisteredWithBackend: true,
		LastRefreshedAt:       time.Now().UTC(),
	}
	require.NoError(t, s.SaveToken(ctx, "device-1", token))

	loaded, err := s.LoadToken(ctx, "device-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "fcm-abc", loaded.Value)
	assert.True(t, loaded.RegisteredWithBackend)
}

func TestLoadTokenMissing(t *testing.T) {
	s := newTestStore(t)

	loaded, err := s.LoadToken(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCartAndTokenKeysAreIndependent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveToken(ctx, "device-1", domain.PushToken{Value: "fcm-abc"}))

	loaded, err := s.LoadCart(ctx, "device-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
