package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// NewConnection opens a database connection
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

type store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore creates a postgres-backed snapshot store
func NewStore(db *sql.DB, logger *zap.Logger) *store {
	return &store{
		db:     db,
		logger: logger,
	}
}

func (s *store) SaveCart(ctx context.Context, deviceID string, snap domain.CartSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return &errors.ErrPersistenceFailed{Key: deviceID, Err: err}
	}

	query := `
		INSERT INTO cart_snapshots (device_id, payload, seq, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (device_id)
		DO UPDATE SET payload = EXCLUDED.payload, seq = EXCLUDED.seq, updated_at = EXCLUDED.updated_at
		WHERE cart_snapshots.seq < EXCLUDED.seq
	`

	_, err = s.db.ExecContext(ctx, query, deviceID, payload, snap.Seq, time.Now())
	if err != nil {
		s.logger.Warn("Failed to write cart snapshot", zap.String("device_id", deviceID), zap.Error(err))
		return &errors.ErrPersistenceFailed{Key: deviceID, Err: err}
	}

	return nil
}

func (s *store) LoadCart(ctx context.Context, deviceID string) (*domain.CartSnapshot, error) {
	query := `
		SELECT payload
		FROM cart_snapshots
		WHERE device_id = $1
	`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, deviceID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.logger.Warn("Failed to read cart snapshot", zap.String("device_id", deviceID), zap.Error(err))
		return nil, err
	}

	var snap domain.CartSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}

	return &snap, nil
}

func (s *store) SaveToken(ctx context.Context, deviceID string, token domain.PushToken) error {
	query := `
		INSERT INTO device_tokens (device_id, token, registered, last_refreshed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (device_id)
		DO UPDATE SET token = EXCLUDED.token, registered = EXCLUDED.registered,
			last_refreshed_at = EXCLUDED.last_refreshed_at, updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		deviceID,
		token.Value,
		token.RegisteredWithBackend,
		token.LastRefreshedAt,
		time.Now(),
	)
	if err != nil {
		s.logger.Warn("Failed to write push token", zap.String("device_id", deviceID), zap.Error(err))
		return &errors.ErrPersistenceFailed{Key: deviceID, Err: err}
	}

	return nil
}

func (s *store) LoadToken(ctx context.Context, deviceID string) (*domain.PushToken, error) {
	query := `
		SELECT token, registered, last_refreshed_at
		FROM device_tokens
		WHERE device_id = $1
	`

	var token domain.PushToken
	err := s.db.QueryRowContext(ctx, query, deviceID).Scan(
		&token.Value,
		&token.RegisteredWithBackend,
		&token.LastRefreshedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.logger.Warn("Failed to read push token", zap.String("device_id", deviceID), zap.Error(err))
		return nil, err
	}

	return &token, nil
}

func (s *store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *store) Close() error {
	return s.db.Close()
}
