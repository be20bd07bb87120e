package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/storage"
	"github.com/jafarshop/storefront/pkg/errors"
)

// TokenSource abstracts the platform messaging service that issues push
// delivery tokens. Implementations must invoke the refresh handler whenever
// the platform rotates the token.
type TokenSource interface {
	RequestPermission(ctx context.Context) (domain.PermissionStatus, error)
	Token(ctx context.Context) (string, error)
	OnTokenRefresh(handler func(token string))
}

// Registrar registers a device token with the backend, associated with the
// authenticated user. Registration is idempotent server-side.
type Registrar interface {
	RegisterToken(ctx context.Context, token, credential string) error
}

// Navigator consumes resolved navigation targets
type Navigator interface {
	Navigate(target domain.NavigationTarget)
}

// Relay owns the push token lifecycle and routes inbound payloads to
// navigation targets. Token state is owned exclusively by the relay; all
// access goes through its operations.
type Relay struct {
	mu            sync.Mutex
	state         domain.TokenState
	permission    domain.PermissionStatus
	token         domain.PushToken
	tokenSeq      uint64
	credential    string
	authenticated bool
	// registration failed and should be retried on the next foreground event
	retryOnForeground bool

	deviceID  string
	source    TokenSource
	registrar Registrar
	navigator Navigator
	store     storage.Store
	logger    *zap.Logger
}

// NewRelay creates a new notification relay and wires the refresh handler
func NewRelay(deviceID string, source TokenSource, registrar Registrar, navigator Navigator, store storage.Store, logger *zap.Logger) *Relay {
	r := &Relay{
		state:     domain.TokenStateUnregistered,
		deviceID:  deviceID,
		source:    source,
		registrar: registrar,
		navigator: navigator,
		store:     store,
		logger:    logger,
	}
	source.OnTokenRefresh(r.handleTokenRefresh)
	return r
}

// Start runs the launch sequence: permission prompt, token acquisition and
// backend registration. An empty credential means no user is authenticated
// yet; the token is cached and registered lazily on the next login.
func (r *Relay) Start(ctx context.Context, credential string) error {
	r.mu.Lock()
	if r.permission == domain.PermissionDenied {
		// Denial is terminal for the session, do not re-prompt.
		r.mu.Unlock()
		return &errors.ErrPermissionDenied{Status: string(domain.PermissionDenied)}
	}
	alreadyGranted := r.permission == domain.PermissionGranted
	r.credential = credential
	r.authenticated = credential != ""
	r.mu.Unlock()

	if !alreadyGranted {
		status, err := r.source.RequestPermission(ctx)
		if err != nil {
			return err
		}

		r.mu.Lock()
		r.permission = status
		r.mu.Unlock()

		switch status {
		case domain.PermissionGranted:
		case domain.PermissionDenied:
			return &errors.ErrPermissionDenied{Status: string(status)}
		default:
			// Dismissed: no token this session, prompt may run again on the
			// next launch.
			return nil
		}
	}

	r.mu.Lock()
	r.setStateLocked(domain.TokenStateAcquiring)
	r.mu.Unlock()

	value, err := r.source.Token(ctx)
	if err != nil || value == "" {
		r.mu.Lock()
		r.setStateLocked(domain.TokenStateUnregistered)
		r.mu.Unlock()
		// Retried on the next explicit launch, not in a loop.
		r.logger.Warn("Push token unavailable", zap.Error(err))
		return nil
	}

	r.adoptToken(value)

	if credential != "" {
		r.registerCurrent(ctx)
	}
	return nil
}

// OnLogin registers the cached token under the new credential. Called after
// authentication completes; the cached value is reused without re-prompting
// for permission.
func (r *Relay) OnLogin(ctx context.Context, credential string) {
	r.mu.Lock()
	r.credential = credential
	r.authenticated = credential != ""
	hasToken := r.token.Value != ""
	if hasToken {
		r.token.RegisteredWithBackend = false
		r.setStateLocked(domain.TokenStateAcquired)
	}
	r.mu.Unlock()

	if hasToken && credential != "" {
		r.registerCurrent(ctx)
	}
}

// OnLogout drops the credential and returns to Unregistered. The last known
// token value is kept so a later login can re-register it.
func (r *Relay) OnLogout() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.credential = ""
	r.authenticated = false
	r.retryOnForeground = false
	r.token.RegisteredWithBackend = false
	r.setStateLocked(domain.TokenStateUnregistered)
}

// OnForeground retries a failed registration opportunistically. There is no
// background retry timer.
func (r *Relay) OnForeground(ctx context.Context) {
	r.mu.Lock()
	retry := r.retryOnForeground && r.authenticated && r.token.Value != ""
	r.mu.Unlock()

	if retry {
		r.registerCurrent(ctx)
	}
}

// HandleForegroundMessage handles a payload delivered while the app is in the
// foreground.
func (r *Relay) HandleForegroundMessage(payload domain.NotificationPayload) domain.NavigationTarget {
	return r.dispatch("foreground", payload)
}

// HandleNotificationOpened handles a payload delivered by tapping a
// notification while the app was backgrounded.
func (r *Relay) HandleNotificationOpened(payload domain.NotificationPayload) domain.NavigationTarget {
	return r.dispatch("opened", payload)
}

// HandleInitialNotification handles the cold-start check for a notification
// that launched the app from a terminated state. A nil payload means the app
// was not launched from a notification.
func (r *Relay) HandleInitialNotification(payload *domain.NotificationPayload) *domain.NavigationTarget {
	if payload == nil {
		return nil
	}
	target := r.dispatch("initial", *payload)
	return &target
}

// State returns the current token lifecycle state
func (r *Relay) State() domain.TokenState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// CurrentToken returns a copy of the current push token
func (r *Relay) CurrentToken() domain.PushToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

func (r *Relay) dispatch(entryPoint string, payload domain.NotificationPayload) domain.NavigationTarget {
	target := Route(payload)
	r.logger.Info("Routed push payload",
		zap.String("entry_point", entryPoint),
		zap.String("type", payload.Data.Type),
		zap.String("screen", string(target.Screen)),
	)
	r.navigator.Navigate(target)
	return target
}

// handleTokenRefresh runs whenever the platform rotates the token. The new
// value supersedes the prior one; if a user is authenticated it is
// re-registered immediately, otherwise it is cached for the next login.
func (r *Relay) handleTokenRefresh(value string) {
	if value == "" {
		return
	}

	r.adoptToken(value)

	r.mu.Lock()
	authenticated := r.authenticated
	r.mu.Unlock()

	if authenticated {
		go r.registerCurrent(context.Background())
	}
}

// adoptToken installs a new token value as current and bumps the token
// sequence so any registration still in flight for the old value is
// discarded when it completes.
func (r *Relay) adoptToken(value string) {
	r.mu.Lock()
	r.tokenSeq++
	r.token = domain.PushToken{
		Value:           value,
		LastRefreshedAt: time.Now(),
	}
	r.setStateLocked(domain.TokenStateAcquired)
	token := r.token
	r.mu.Unlock()

	r.saveToken(token)
}

// registerCurrent sends the current token to the backend. The result is
// applied only if the token has not rotated while the call was in flight.
func (r *Relay) registerCurrent(ctx context.Context) {
	r.mu.Lock()
	if r.token.Value == "" {
		r.mu.Unlock()
		return
	}
	r.setStateLocked(domain.TokenStateRegistering)
	value := r.token.Value
	seq := r.tokenSeq
	credential := r.credential
	r.mu.Unlock()

	err := r.registrar.RegisterToken(ctx, value, credential)

	r.mu.Lock()
	if seq != r.tokenSeq {
		// Token rotated while the call was in flight; the newest token's
		// registration is the authoritative one.
		r.mu.Unlock()
		return
	}

	if err != nil {
		r.retryOnForeground = true
		r.setStateLocked(domain.TokenStateAcquired)
		r.mu.Unlock()
		r.logger.Warn("Token registration failed, will retry on next foreground", zap.Error(err))
		return
	}

	r.retryOnForeground = false
	r.token.RegisteredWithBackend = true
	r.setStateLocked(domain.TokenStateRegistered)
	token := r.token
	r.mu.Unlock()

	r.logger.Info("Push token registered with backend")
	r.saveToken(token)
}

func (r *Relay) setStateLocked(newState domain.TokenState) {
	if r.state == newState {
		return
	}
	if !r.state.CanTransitionTo(newState) {
		r.logger.Warn("Unexpected token state transition",
			zap.String("from", string(r.state)),
			zap.String("to", string(newState)),
		)
	}
	r.state = newState
}

// saveToken persists the last-known token best-effort. Failure is logged;
// in-memory state stays authoritative.
func (r *Relay) saveToken(token domain.PushToken) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.store.SaveToken(ctx, r.deviceID, token); err != nil {
		r.logger.Warn("Failed to persist push token", zap.Error(err))
	}
}
