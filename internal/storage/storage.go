package storage

import (
	"context"

	"github.com/jafarshop/storefront/internal/domain"
)

// Store persists the serialized cart snapshot and the last-known push token,
// each under its own key. Implementations return (nil, nil) from the Load
// methods when nothing has been written yet.
type Store interface {
	SaveCart(ctx context.Context, deviceID string, snap domain.CartSnapshot) error
	LoadCart(ctx context.Context, deviceID string) (*domain.CartSnapshot, error)
	SaveToken(ctx context.Context, deviceID string, token domain.PushToken) error
	LoadToken(ctx context.Context, deviceID string) (*domain.PushToken, error)
	Ping(ctx context.Context) error
	Close() error
}
