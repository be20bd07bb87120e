package notification

import (
	"context"
	"sync"

	"github.com/jafarshop/storefront/internal/domain"
)

// StaticSource is a TokenSource fed by the hosting platform bridge: the
// token value arrives through configuration and rotations are injected via
// Refresh. Permission is considered granted whenever a token is available.
type StaticSource struct {
	mu      sync.Mutex
	token   string
	handler func(token string)
}

// NewStaticSource creates a token source around a pre-issued token value
func NewStaticSource(token string) *StaticSource {
	return &StaticSource{token: token}
}

func (s *StaticSource) RequestPermission(ctx context.Context) (domain.PermissionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return domain.PermissionDismissed, nil
	}
	return domain.PermissionGranted, nil
}

func (s *StaticSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *StaticSource) OnTokenRefresh(handler func(token string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// Refresh injects a rotated token value, invoking the registered handler
// the way a platform refresh event would.
func (s *StaticSource) Refresh(token string) {
	s.mu.Lock()
	s.token = token
	handler := s.handler
	s.mu.Unlock()

	if handler != nil {
		handler(token)
	}
}
