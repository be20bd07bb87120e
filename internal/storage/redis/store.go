package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

type store struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStore creates a redis-backed key-value store
func NewStore(cfg config.RedisConfig, logger *zap.Logger) *store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &store{
		client: client,
		logger: logger,
	}
}

func cartKey(deviceID string) string {
	return fmt.Sprintf("storefront:cart:%s", deviceID)
}

func tokenKey(deviceID string) string {
	return fmt.Sprintf("storefront:token:%s", deviceID)
}

func (s *store) SaveCart(ctx context.Context, deviceID string, snap domain.CartSnapshot) error {
	key := cartKey(deviceID)

	data, err := json.Marshal(snap)
	if err != nil {
		return &errors.ErrPersistenceFailed{Key: key, Err: err}
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		s.logger.Warn("Failed to write cart snapshot", zap.String("key", key), zap.Error(err))
		return &errors.ErrPersistenceFailed{Key: key, Err: err}
	}

	return nil
}

func (s *store) LoadCart(ctx context.Context, deviceID string) (*domain.CartSnapshot, error) {
	key := cartKey(deviceID)

	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.logger.Warn("Failed to read cart snapshot", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	var snap domain.CartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}

	return &snap, nil
}

func (s *store) SaveToken(ctx context.Context, deviceID string, token domain.PushToken) error {
	key := tokenKey(deviceID)

	data, err := json.Marshal(token)
	if err != nil {
		return &errors.ErrPersistenceFailed{Key: key, Err: err}
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		s.logger.Warn("Failed to write push token", zap.String("key", key), zap.Error(err))
		return &errors.ErrPersistenceFailed{Key: key, Err: err}
	}

	return nil
}

func (s *store) LoadToken(ctx context.Context, deviceID string) (*domain.PushToken, error) {
	key := tokenKey(deviceID)

	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.logger.Warn("Failed to read push token", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	var token domain.PushToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode push token: %w", err)
	}

	return &token, nil
}

func (s *store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *store) Close() error {
	return s.client.Close()
}
