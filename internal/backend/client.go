package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/pkg/errors"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new storefront backend client
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	// Normalize base URL - remove trailing slashes
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// RegisterTokenRequest is the device token registration payload
type RegisterTokenRequest struct {
	Token string `json:"token"`
}

// RegisterToken associates the device token with the authenticated user.
// Registration is idempotent server-side; the client re-sends after every
// acquisition or refresh to guarantee backend freshness.
func (c *Client) RegisterToken(ctx context.Context, token, credential string) error {
	url := fmt.Sprintf("%s/v1/devices/token", c.baseURL)

	jsonData, err := json.Marshal(RegisterTokenRequest{Token: token})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &errors.ErrRegistrationFailed{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return &errors.ErrRegistrationFailed{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return nil
}
